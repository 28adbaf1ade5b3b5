package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/atlasworks/atlas-api/internal/dto"
	"github.com/atlasworks/atlas-api/internal/models"
)

// contentSanitizer strips unsafe markup from rich text fields before they
// reach storage.
var contentSanitizer = bluemonday.UGCPolicy()

// ProjectCodec builds the codec for portfolio projects.
func ProjectCodec(validate *validator.Validate) ContentCodec[models.Project, *models.Project] {
	return ContentCodec[models.Project, *models.Project]{
		Singular: "project",
		DecodeCreate: func(c *fiber.Ctx) (*models.Project, error) {
			var req dto.ProjectRequest
			if err := c.BodyParser(&req); err != nil {
				return nil, errInvalidBody
			}
			if err := validate.Struct(req); err != nil {
				return nil, err
			}
			return &models.Project{
				ContentMeta: models.ContentMeta{Slug: strings.TrimSpace(req.Slug)},
				Title:       strings.TrimSpace(req.Title),
				Summary:     strings.TrimSpace(req.Summary),
				Body:        contentSanitizer.Sanitize(req.Body),
				ClientName:  strings.TrimSpace(req.ClientName),
				WebsiteURL:  strings.TrimSpace(req.WebsiteURL),
				CoverImage:  strings.TrimSpace(req.CoverImage),
				Tags:        req.Tags,
			}, nil
		},
		DecodeUpdate: func(c *fiber.Ctx) (func(*models.Project) error, *dto.ChangeSet, error) {
			var req dto.ProjectUpdateRequest
			if err := c.BodyParser(&req); err != nil {
				return nil, nil, errInvalidBody
			}
			if err := validate.Struct(req); err != nil {
				return nil, nil, err
			}
			apply := func(p *models.Project) error {
				if req.Title != nil {
					p.Title = strings.TrimSpace(*req.Title)
				}
				if req.Summary != nil {
					p.Summary = strings.TrimSpace(*req.Summary)
				}
				if req.Body != nil {
					p.Body = contentSanitizer.Sanitize(*req.Body)
				}
				if req.ClientName != nil {
					p.ClientName = strings.TrimSpace(*req.ClientName)
				}
				if req.WebsiteURL != nil {
					p.WebsiteURL = strings.TrimSpace(*req.WebsiteURL)
				}
				if req.CoverImage != nil {
					p.CoverImage = strings.TrimSpace(*req.CoverImage)
				}
				if req.Tags != nil {
					p.Tags = req.Tags
				}
				return nil
			}
			return apply, req.Changes, nil
		},
		Encode: func(p *models.Project) interface{} { return dto.NewProjectResponse(p) },
	}
}

// CaseStudyCodec builds the codec for case studies.
func CaseStudyCodec(validate *validator.Validate) ContentCodec[models.CaseStudy, *models.CaseStudy] {
	return ContentCodec[models.CaseStudy, *models.CaseStudy]{
		Singular: "case study",
		DecodeCreate: func(c *fiber.Ctx) (*models.CaseStudy, error) {
			var req dto.CaseStudyRequest
			if err := c.BodyParser(&req); err != nil {
				return nil, errInvalidBody
			}
			if err := validate.Struct(req); err != nil {
				return nil, err
			}
			return &models.CaseStudy{
				ContentMeta: models.ContentMeta{Slug: strings.TrimSpace(req.Slug)},
				Title:       strings.TrimSpace(req.Title),
				Excerpt:     strings.TrimSpace(req.Excerpt),
				Body:        contentSanitizer.Sanitize(req.Body),
				Industry:    strings.TrimSpace(req.Industry),
				Outcome:     contentSanitizer.Sanitize(req.Outcome),
				CoverImage:  strings.TrimSpace(req.CoverImage),
			}, nil
		},
		DecodeUpdate: func(c *fiber.Ctx) (func(*models.CaseStudy) error, *dto.ChangeSet, error) {
			var req dto.CaseStudyUpdateRequest
			if err := c.BodyParser(&req); err != nil {
				return nil, nil, errInvalidBody
			}
			if err := validate.Struct(req); err != nil {
				return nil, nil, err
			}
			apply := func(cs *models.CaseStudy) error {
				if req.Title != nil {
					cs.Title = strings.TrimSpace(*req.Title)
				}
				if req.Excerpt != nil {
					cs.Excerpt = strings.TrimSpace(*req.Excerpt)
				}
				if req.Body != nil {
					cs.Body = contentSanitizer.Sanitize(*req.Body)
				}
				if req.Industry != nil {
					cs.Industry = strings.TrimSpace(*req.Industry)
				}
				if req.Outcome != nil {
					cs.Outcome = contentSanitizer.Sanitize(*req.Outcome)
				}
				if req.CoverImage != nil {
					cs.CoverImage = strings.TrimSpace(*req.CoverImage)
				}
				return nil
			}
			return apply, req.Changes, nil
		},
		Encode: func(cs *models.CaseStudy) interface{} { return dto.NewCaseStudyResponse(cs) },
	}
}

// BlogPostCodec builds the codec for blog posts.
func BlogPostCodec(validate *validator.Validate) ContentCodec[models.BlogPost, *models.BlogPost] {
	return ContentCodec[models.BlogPost, *models.BlogPost]{
		Singular: "blog post",
		DecodeCreate: func(c *fiber.Ctx) (*models.BlogPost, error) {
			var req dto.BlogPostRequest
			if err := c.BodyParser(&req); err != nil {
				return nil, errInvalidBody
			}
			if err := validate.Struct(req); err != nil {
				return nil, err
			}
			return &models.BlogPost{
				ContentMeta: models.ContentMeta{Slug: strings.TrimSpace(req.Slug)},
				Title:       strings.TrimSpace(req.Title),
				Excerpt:     strings.TrimSpace(req.Excerpt),
				Body:        contentSanitizer.Sanitize(req.Body),
				Tags:        req.Tags,
			}, nil
		},
		DecodeUpdate: func(c *fiber.Ctx) (func(*models.BlogPost) error, *dto.ChangeSet, error) {
			var req dto.BlogPostUpdateRequest
			if err := c.BodyParser(&req); err != nil {
				return nil, nil, errInvalidBody
			}
			if err := validate.Struct(req); err != nil {
				return nil, nil, err
			}
			apply := func(b *models.BlogPost) error {
				if req.Title != nil {
					b.Title = strings.TrimSpace(*req.Title)
				}
				if req.Excerpt != nil {
					b.Excerpt = strings.TrimSpace(*req.Excerpt)
				}
				if req.Body != nil {
					b.Body = contentSanitizer.Sanitize(*req.Body)
				}
				if req.Tags != nil {
					b.Tags = req.Tags
				}
				return nil
			}
			return apply, req.Changes, nil
		},
		Encode: func(b *models.BlogPost) interface{} { return dto.NewBlogPostResponse(b) },
	}
}
