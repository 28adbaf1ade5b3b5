package service

import "errors"

// Sentinel errors surfaced to handlers. Everything except audit append
// failures aborts the operation with no partial effect; audit failures are
// reported out of band and never block the mutation.
var (
	// ErrActorRequired indicates a mutation was attempted without a resolved identity.
	ErrActorRequired = errors.New("authenticated actor required")
	// ErrContentNotFound indicates the referenced content row does not exist.
	ErrContentNotFound = errors.New("content not found")
	// ErrSlugTaken indicates a slug uniqueness violation within a collection.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrInvalidChanges indicates a malformed before/after change set.
	ErrInvalidChanges = errors.New("invalid change set")
	// ErrTaskNotFound indicates the referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrRequestNotFound indicates the referenced client request does not exist.
	ErrRequestNotFound = errors.New("client request not found")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled indicates the account exists but is deactivated.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
)
