// Package api exposes the calculator engine's command surface over HTTP:
// operation execution, history listing, undo/redo, clear/save/load, operation
// discovery, and a live websocket history feed.
package api

import (
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/Mask13/IS601-Midterm/internal/engine"
	"github.com/Mask13/IS601-Midterm/internal/operations"
)

// API adapts one calculator engine to HTTP. The engine is single-threaded by
// design, so the API serializes all engine access behind a mutex.
type API struct {
	mu       sync.Mutex
	calc     *engine.Calculator
	registry *operations.Registry
	feed     *feed
}

// New wires an API over the given engine and registry. The live history feed
// subscribes to the engine's calculation observer.
func New(calc *engine.Calculator, registry *operations.Registry) *API {
	a := &API{
		calc:     calc,
		registry: registry,
		feed:     newFeed(),
	}
	calc.OnCalculation(a.feed.broadcast)
	return a
}

// RegisterRoutes mounts all calculator endpoints onto the given router under
// the /calculator prefix.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/calculator", func(r chi.Router) {
		r.Get("/operations", a.Operations)
		r.Get("/history", a.History)
		r.Get("/history/live", a.HistoryLive)
		r.Post("/history/clear", a.ClearHistory)
		r.Post("/history/save", a.SaveHistory)
		r.Post("/history/load", a.LoadHistory)
		r.Post("/undo", a.Undo)
		r.Post("/redo", a.Redo)
		r.Post("/{operation}", a.Calculate)
	})
}
