// Package server assembles the API and diagnostics routers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/articles/internal/article"
	"github.com/SergeyParamoshkin/articles/internal/database"
	"github.com/SergeyParamoshkin/articles/internal/errresponse"
	"github.com/SergeyParamoshkin/articles/internal/logger"
	"github.com/SergeyParamoshkin/articles/internal/metrics"
)

// NewRouter returns the public API router.
func NewRouter(db *sqlx.DB, log *zap.SugaredLogger, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(log))
	r.Use(m.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderStatus(w, r, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		renderStatus(w, r, http.StatusMethodNotAllowed)
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugw("ping")
		render.PlainText(w, r, "pong")
	})

	article.Routes(r, db)

	return r
}

// NewDiagRouter serves /metrics and a /healthz probe that pings the database.
func NewDiagRouter(db *sqlx.DB, log *zap.SugaredLogger, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(r.Context(), db); err != nil {
			log.Warnw("health check failed", "error", err)
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, render.M{"status": "unavailable"})

			return
		}

		render.JSON(w, r, render.M{"status": "ok"})
	})

	return r
}

func renderStatus(w http.ResponseWriter, r *http.Request, code int) {
	err := render.Render(w, r, &errresponse.ErrResponse{HTTPStatusCode: code, Detail: http.StatusText(code)})
	if err != nil {
		logger.FromContext(r.Context()).Errorw(err.Error())
	}
}
