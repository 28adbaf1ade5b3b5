package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ContentMeta carries the fields shared by every publishable content entity.
// Embedding it promotes the columns and the Meta accessor into the variant.
type ContentMeta struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:160;uniqueIndex;not null" json:"slug"`
	Published bool      `gorm:"index;not null;default:false" json:"published"`
	CreatedBy uint      `gorm:"index" json:"created_by"`
	UpdatedBy uint      `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta exposes the shared metadata for generic repository and service code.
func (m *ContentMeta) Meta() *ContentMeta { return m }

// Content is satisfied by a pointer to any publishable content entity.
type Content interface {
	Meta() *ContentMeta
	EntityType() string
	DisplayName() string
}

// Project is a delivered client engagement shown in the public portfolio.
type Project struct {
	ContentMeta
	Title      string   `gorm:"size:255;not null" json:"title"`
	Summary    string   `gorm:"type:text" json:"summary"`
	Body       string   `gorm:"type:text" json:"body"`
	ClientName string   `gorm:"size:160" json:"client_name"`
	WebsiteURL string   `gorm:"size:512" json:"website_url"`
	CoverImage string   `gorm:"size:512" json:"cover_image"`
	TagsRaw    string   `gorm:"column:tags;type:text" json:"-"`
	Tags       []string `gorm:"-" json:"tags"`
}

// EntityType names the project collection for audit records.
func (Project) EntityType() string { return "project" }

// DisplayName returns the human readable label captured into audit records.
func (p Project) DisplayName() string { return p.Title }

// BeforeSave normalises tag data before persisting.
func (p *Project) BeforeSave(tx *gorm.DB) error {
	p.TagsRaw = encodeTags(p.Tags)
	return nil
}

// AfterFind hydrates the tag list after retrieval.
func (p *Project) AfterFind(tx *gorm.DB) error {
	p.Tags = decodeTags(p.TagsRaw)
	return nil
}

// CaseStudy is a long-form write-up of a client outcome.
type CaseStudy struct {
	ContentMeta
	Title      string `gorm:"size:255;not null" json:"title"`
	Excerpt    string `gorm:"type:text" json:"excerpt"`
	Body       string `gorm:"type:text" json:"body"`
	Industry   string `gorm:"size:120" json:"industry"`
	Outcome    string `gorm:"type:text" json:"outcome"`
	CoverImage string `gorm:"size:512" json:"cover_image"`
}

func (CaseStudy) EntityType() string { return "case_study" }

func (c CaseStudy) DisplayName() string { return c.Title }

// BlogPost is an article on the marketing site.
type BlogPost struct {
	ContentMeta
	Title   string   `gorm:"size:255;not null" json:"title"`
	Excerpt string   `gorm:"type:text" json:"excerpt"`
	Body    string   `gorm:"type:text" json:"body"`
	TagsRaw string   `gorm:"column:tags;type:text" json:"-"`
	Tags    []string `gorm:"-" json:"tags"`
}

func (BlogPost) EntityType() string { return "blog_post" }

func (b BlogPost) DisplayName() string { return b.Title }

// BeforeSave normalises tag data before persisting.
func (b *BlogPost) BeforeSave(tx *gorm.DB) error {
	b.TagsRaw = encodeTags(b.Tags)
	return nil
}

// AfterFind hydrates the tag list after retrieval.
func (b *BlogPost) AfterFind(tx *gorm.DB) error {
	b.Tags = decodeTags(b.TagsRaw)
	return nil
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(strings.ToLower(tag))
		if trimmed == "" {
			continue
		}
		cleaned = append(cleaned, trimmed)
	}
	if len(cleaned) == 0 {
		return ""
	}
	return "|" + strings.Join(cleaned, "|") + "|"
}

func decodeTags(raw string) []string {
	raw = strings.Trim(raw, "|")
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, "|")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		tags = append(tags, trimmed)
	}
	return tags
}
