package rest

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/recruitment/internal"
	"github.com/frahmantamala/recruitment/internal/application"
	"github.com/frahmantamala/recruitment/internal/auth"
	"github.com/frahmantamala/recruitment/internal/bookmark"
	"github.com/frahmantamala/recruitment/internal/dashboard"
	"github.com/frahmantamala/recruitment/internal/department"
	"github.com/frahmantamala/recruitment/internal/job"
	"github.com/frahmantamala/recruitment/internal/transport"
	"github.com/frahmantamala/recruitment/internal/transport/middleware"
	"github.com/frahmantamala/recruitment/internal/transport/swagger"
	"github.com/frahmantamala/recruitment/internal/upload"
	"github.com/frahmantamala/recruitment/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Health      *HealthHandler
	Auth        *auth.Handler
	User        *user.Handler
	Department  *department.Handler
	Job         *job.Handler
	Application *application.Handler
	Bookmark    *bookmark.Handler
	Dashboard   *dashboard.Handler
	Upload      *upload.Handler
}

type Options struct {
	AllowedOrigins []string
	SpecPath       string
	Upload         internal.UploadConfig
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	rbac := auth.NewRBACAuthorization(transport.NewBaseHandler(logger))

	router.Use(middleware.RequestID(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.RecoveryMiddleware)

	if opts.SpecPath != "" {
		router.Get(swagger.SpecRoute, swagger.SpecHandler(opts.SpecPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	// Uploaded resumes are served straight from the storage directory.
	if opts.Upload.Dir != "" && opts.Upload.PublicPath != "" {
		prefix := strings.TrimRight(opts.Upload.PublicPath, "/")
		router.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(opts.Upload.Dir))))
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.With(h.Auth.AuthMiddleware).Post("/logout", h.Auth.Logout)
		})

		// Anonymous browsing is allowed; a valid token widens what the caller sees.
		r.Group(func(or chi.Router) {
			or.Use(h.Auth.OptionalAuthMiddleware)

			or.Get("/departments", h.Department.GetDepartments)
			or.Get("/jobs", h.Job.ListJobs)
			or.Get("/jobs/filter-options", h.Job.GetFilterOptions)
			or.Get("/jobs/{id}", h.Job.GetJob)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.With(rbac.RequireAdmin()).Post("/", h.User.RegisterUser)
				ur.Get("/me", h.User.GetCurrentUser)
				ur.Get("/{id}", h.User.GetUser)
				ur.Put("/{id}", h.User.UpdateUser)
				ur.Get("/{id}/applications", h.Application.ListUserApplications)
			})

			pr.With(rbac.RequireAdmin()).Post("/departments", h.Department.CreateDepartment)

			// USER callers are turned away before any body is read.
			pr.Group(func(sr chi.Router) {
				sr.Use(rbac.RequireStaff())

				sr.Post("/jobs", h.Job.CreateJob)
				sr.Put("/jobs/{id}", h.Job.UpdateJob)
				sr.Delete("/jobs/{id}", h.Job.DeleteJob)
				sr.Get("/jobs/{id}/applicants", h.Application.ListJobApplicants)
			})

			pr.Route("/applications", func(ar chi.Router) {
				ar.Post("/", h.Application.Apply)
				ar.Get("/", h.Application.ListApplications)
				ar.Get("/{id}", h.Application.GetApplication)
				ar.With(rbac.RequireStaff()).Put("/status", h.Application.UpdateStatus)
				ar.With(rbac.RequireStaff()).Patch("/{id}/status", h.Application.PatchStatus)
			})

			pr.Route("/bookmarks", func(br chi.Router) {
				br.Get("/", h.Bookmark.ListBookmarks)
				br.Post("/", h.Bookmark.SaveBookmark)
				br.Post("/toggle", h.Bookmark.ToggleBookmark)
				br.Delete("/jobs/{jobId}", h.Bookmark.UnsaveJob)
				br.Delete("/{id}", h.Bookmark.RemoveBookmark)
			})

			pr.Get("/dashboard", h.Dashboard.GetDashboard)
			pr.Post("/uploads/resume", h.Upload.UploadResume)
		})
	})
}
