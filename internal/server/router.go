package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mask13/IS601-Midterm/internal/api"
	"github.com/Mask13/IS601-Midterm/internal/handlers"
	"github.com/Mask13/IS601-Midterm/internal/observability"
)

func NewRouter(a *api.API) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	a.RegisterRoutes(r)

	return r
}
