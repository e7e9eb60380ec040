// Package dashboard serves the browser study UI: subject tiles, summary,
// flashcards, quiz, document upload and a question box over the ask socket.
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/flashlearn/internal/rag"
)

// Dashboard provides the single-page study interface.
type Dashboard struct {
	svc *rag.Service
}

// New creates a new Dashboard.
func New(svc *rag.Service) *Dashboard {
	return &Dashboard{svc: svc}
}

// RegisterRoutes mounts the page and its stats endpoint. The page itself
// talks to the /api routes registered by the rag package.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/dashboard/stats", d.handleStats)
}
