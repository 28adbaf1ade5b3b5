package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/atlasworks/atlas-api/internal/config"
	"github.com/atlasworks/atlas-api/internal/handler"
	"github.com/atlasworks/atlas-api/internal/middleware"
	"github.com/atlasworks/atlas-api/internal/models"
	"github.com/atlasworks/atlas-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler      *handler.AuthHandler
	ProjectHandler   *handler.ContentHandler[models.Project, *models.Project]
	CaseStudyHandler *handler.ContentHandler[models.CaseStudy, *models.CaseStudy]
	BlogPostHandler  *handler.ContentHandler[models.BlogPost, *models.BlogPost]
	ActivityHandler  *handler.ActivityHandler
	TaskHandler      *handler.TaskHandler
	RequestHandler   *handler.RequestHandler
	StatsHandler     *handler.StatsHandler
	UploadHandler    *handler.UploadHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleStaff)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Use("/login", middleware.RateLimit("login", 10, time.Minute))
		deps.AuthHandler.RegisterPublic(auth)

		protected := auth.Group("", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(protected)
	}

	// Public catalog reads serve published rows only.
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.RegisterPublic(api.Group("/projects"))
	}
	if deps.CaseStudyHandler != nil {
		deps.CaseStudyHandler.RegisterPublic(api.Group("/case-studies"))
	}
	if deps.BlogPostHandler != nil {
		deps.BlogPostHandler.RegisterPublic(api.Group("/posts"))
	}
	if deps.StatsHandler != nil {
		deps.StatsHandler.RegisterPublic(api.Group("/stats"))
	}

	// Client service requests need a token but no staff role; the service
	// scopes visibility to the caller.
	if deps.RequestHandler != nil {
		deps.RequestHandler.Register(api.Group("/requests", jwtMiddleware), staffOnly)
	}

	admin := api.Group("/admin", jwtMiddleware, staffOnly)
	if deps.ProjectHandler != nil {
		deps.ProjectHandler.RegisterAdmin(admin.Group("/projects"))
	}
	if deps.CaseStudyHandler != nil {
		deps.CaseStudyHandler.RegisterAdmin(admin.Group("/case-studies"))
	}
	if deps.BlogPostHandler != nil {
		deps.BlogPostHandler.RegisterAdmin(admin.Group("/posts"))
	}
	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(admin.Group("/tasks"))
	}
	if deps.StatsHandler != nil {
		deps.StatsHandler.RegisterAdmin(admin.Group("/stats"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin.Group("/activity"))
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(admin.Group("/uploads", middleware.RateLimit("uploads", 30, time.Minute)))
	}
}
