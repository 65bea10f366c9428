// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authfeature "github.com/scholarlyhq/scholarly/internal/app/features/auth"
	classesfeature "github.com/scholarlyhq/scholarly/internal/app/features/classes"
	draftsfeature "github.com/scholarlyhq/scholarly/internal/app/features/drafts"
	eventsfeature "github.com/scholarlyhq/scholarly/internal/app/features/events"
	healthfeature "github.com/scholarlyhq/scholarly/internal/app/features/health"
	schedulesfeature "github.com/scholarlyhq/scholarly/internal/app/features/schedules"
	schoolsfeature "github.com/scholarlyhq/scholarly/internal/app/features/schools"
	sectionsfeature "github.com/scholarlyhq/scholarly/internal/app/features/sections"
	studentsfeature "github.com/scholarlyhq/scholarly/internal/app/features/students"
	teachersfeature "github.com/scholarlyhq/scholarly/internal/app/features/teachers"
	"github.com/scholarlyhq/scholarly/internal/app/system/auth"
	"github.com/scholarlyhq/scholarly/internal/app/system/schoolctx"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed.
//
// Everything under /schools requires a bearer token; everything under
// /schools/{school_id} additionally requires the caller to be that
// school's admin, enforced once here by the schoolctx middleware so
// individual handlers never re-check ownership.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase
	tokens := auth.NewManager(appCfg.JWTSecret)

	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	authHandler := authfeature.NewHandler(db, tokens, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	schoolsHandler := schoolsfeature.NewHandler(db, logger)
	classesHandler := classesfeature.NewHandler(db, logger)
	sectionsHandler := sectionsfeature.NewHandler(db, logger)
	studentsHandler := studentsfeature.NewHandler(db, logger)
	teachersHandler := teachersfeature.NewHandler(db, logger)
	schedulesHandler := schedulesfeature.NewHandler(db, logger)
	eventsHandler := eventsfeature.NewHandler(db, logger)
	draftsHandler := draftsfeature.NewHandler(db, logger)

	r.Route("/schools", func(r chi.Router) {
		r.Use(tokens.RequireUser)

		r.Post("/", schoolsHandler.Create)
		r.Get("/", schoolsHandler.List)

		r.Route("/{school_id}", func(r chi.Router) {
			r.Use(schoolctx.Require(db, logger))

			r.Get("/", schoolsHandler.View)
			r.Patch("/", schoolsHandler.UpdateDetails)
			r.Patch("/status", schoolsHandler.UpdateStatus)

			r.Mount("/classes", classesfeature.Routes(classesHandler))
			r.Mount("/sections", sectionsfeature.Routes(sectionsHandler))
			r.Mount("/students", studentsfeature.Routes(studentsHandler))
			r.Mount("/teachers", teachersfeature.Routes(teachersHandler))
			r.Mount("/schedules", schedulesfeature.Routes(schedulesHandler))
			r.Mount("/events", eventsfeature.Routes(eventsHandler))
			r.Mount("/drafts", draftsfeature.Routes(draftsHandler))
		})
	})

	return r, nil
}
