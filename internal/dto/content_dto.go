package dto

import (
	"time"

	"github.com/atlasworks/atlas-api/internal/models"
)

// ContentListRequest filters content listings. Unpublished rows are only
// visible to admin routes, which set IncludeUnpublished.
type ContentListRequest struct {
	Page               int
	PageSize           int
	Search             string
	IncludeUnpublished bool
}

// ContentListResponse wraps a paginated content listing.
type ContentListResponse[R any] struct {
	Items      []R            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// SetPublishedRequest toggles the publish flag on a content entity.
type SetPublishedRequest struct {
	Published bool `json:"published"`
}

// ProjectRequest captures create payloads for portfolio projects.
type ProjectRequest struct {
	Slug       string   `json:"slug" validate:"omitempty,min=2,max=160"`
	Title      string   `json:"title" validate:"required,min=3"`
	Summary    string   `json:"summary" validate:"omitempty,max=2000"`
	Body       string   `json:"body"`
	ClientName string   `json:"client_name" validate:"omitempty,max=160"`
	WebsiteURL string   `json:"website_url" validate:"omitempty,url"`
	CoverImage string   `json:"cover_image" validate:"omitempty,url"`
	Tags       []string `json:"tags"`
}

// ProjectUpdateRequest patches a project; nil fields are left untouched.
type ProjectUpdateRequest struct {
	Title      *string    `json:"title" validate:"omitempty,min=3"`
	Summary    *string    `json:"summary" validate:"omitempty,max=2000"`
	Body       *string    `json:"body"`
	ClientName *string    `json:"client_name" validate:"omitempty,max=160"`
	WebsiteURL *string    `json:"website_url" validate:"omitempty,url"`
	CoverImage *string    `json:"cover_image" validate:"omitempty,url"`
	Tags       []string   `json:"tags"`
	Changes    *ChangeSet `json:"changes"`
}

// ProjectResponse serializes a project for API clients.
type ProjectResponse struct {
	ID         uint      `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Body       string    `json:"body"`
	ClientName string    `json:"client_name"`
	WebsiteURL string    `json:"website_url"`
	CoverImage string    `json:"cover_image"`
	Tags       []string  `json:"tags"`
	Published  bool      `json:"published"`
	CreatedBy  uint      `json:"created_by"`
	UpdatedBy  uint      `json:"updated_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewProjectResponse converts a project model into a DTO.
func NewProjectResponse(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:         p.ID,
		Slug:       p.Slug,
		Title:      p.Title,
		Summary:    p.Summary,
		Body:       p.Body,
		ClientName: p.ClientName,
		WebsiteURL: p.WebsiteURL,
		CoverImage: p.CoverImage,
		Tags:       append([]string(nil), p.Tags...),
		Published:  p.Published,
		CreatedBy:  p.CreatedBy,
		UpdatedBy:  p.UpdatedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// CaseStudyRequest captures create payloads for case studies.
type CaseStudyRequest struct {
	Slug       string `json:"slug" validate:"omitempty,min=2,max=160"`
	Title      string `json:"title" validate:"required,min=3"`
	Excerpt    string `json:"excerpt" validate:"omitempty,max=2000"`
	Body       string `json:"body" validate:"required,min=10"`
	Industry   string `json:"industry" validate:"omitempty,max=120"`
	Outcome    string `json:"outcome"`
	CoverImage string `json:"cover_image" validate:"omitempty,url"`
}

// CaseStudyUpdateRequest patches a case study; nil fields are left untouched.
type CaseStudyUpdateRequest struct {
	Title      *string    `json:"title" validate:"omitempty,min=3"`
	Excerpt    *string    `json:"excerpt" validate:"omitempty,max=2000"`
	Body       *string    `json:"body" validate:"omitempty,min=10"`
	Industry   *string    `json:"industry" validate:"omitempty,max=120"`
	Outcome    *string    `json:"outcome"`
	CoverImage *string    `json:"cover_image" validate:"omitempty,url"`
	Changes    *ChangeSet `json:"changes"`
}

// CaseStudyResponse serializes a case study for API clients.
type CaseStudyResponse struct {
	ID         uint      `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Excerpt    string    `json:"excerpt"`
	Body       string    `json:"body"`
	Industry   string    `json:"industry"`
	Outcome    string    `json:"outcome"`
	CoverImage string    `json:"cover_image"`
	Published  bool      `json:"published"`
	CreatedBy  uint      `json:"created_by"`
	UpdatedBy  uint      `json:"updated_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCaseStudyResponse converts a case study model into a DTO.
func NewCaseStudyResponse(c *models.CaseStudy) CaseStudyResponse {
	return CaseStudyResponse{
		ID:         c.ID,
		Slug:       c.Slug,
		Title:      c.Title,
		Excerpt:    c.Excerpt,
		Body:       c.Body,
		Industry:   c.Industry,
		Outcome:    c.Outcome,
		CoverImage: c.CoverImage,
		Published:  c.Published,
		CreatedBy:  c.CreatedBy,
		UpdatedBy:  c.UpdatedBy,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// BlogPostRequest captures create payloads for blog posts.
type BlogPostRequest struct {
	Slug    string   `json:"slug" validate:"omitempty,min=2,max=160"`
	Title   string   `json:"title" validate:"required,min=3"`
	Excerpt string   `json:"excerpt" validate:"omitempty,max=2000"`
	Body    string   `json:"body" validate:"required,min=10"`
	Tags    []string `json:"tags"`
}

// BlogPostUpdateRequest patches a blog post; nil fields are left untouched.
type BlogPostUpdateRequest struct {
	Title   *string    `json:"title" validate:"omitempty,min=3"`
	Excerpt *string    `json:"excerpt" validate:"omitempty,max=2000"`
	Body    *string    `json:"body" validate:"omitempty,min=10"`
	Tags    []string   `json:"tags"`
	Changes *ChangeSet `json:"changes"`
}

// BlogPostResponse serializes a blog post for API clients.
type BlogPostResponse struct {
	ID        uint      `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	Published bool      `json:"published"`
	CreatedBy uint      `json:"created_by"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBlogPostResponse converts a blog post model into a DTO.
func NewBlogPostResponse(b *models.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:        b.ID,
		Slug:      b.Slug,
		Title:     b.Title,
		Excerpt:   b.Excerpt,
		Body:      b.Body,
		Tags:      append([]string(nil), b.Tags...),
		Published: b.Published,
		CreatedBy: b.CreatedBy,
		UpdatedBy: b.UpdatedBy,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
