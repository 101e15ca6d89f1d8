package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the API under the given router
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Get("/{id}", h.GetPlayer)
			r.Get("/{id}/analysis", h.GetPlayerLineAnalysis)
			r.Get("/{id}/multiple-lines", h.GetMultipleLineAnalysis)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/position/{position}", h.GetPositionAnalysis)
			r.Get("/team/{team}", h.GetTeamAnalysis)
			r.Get("/trending", h.GetTrendingPlayers)
			r.Get("/comparison", h.ComparePlayers)
		})

		r.Get("/picks/best", h.GetBestPicks)
		r.Get("/picks/latest", h.GetLatestPicks)

		r.Route("/exclusions", func(r chi.Router) {
			r.Get("/", h.ListExclusions)
			r.Post("/", h.AddExclusion)
			r.Delete("/{reason}/{playerID}", h.RemoveExclusion)
		})
	})
}
