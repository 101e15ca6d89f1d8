package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagepicks/lines-api/internal/models"
)

// ListExclusions returns every excluded player with its reason
// @Summary List Exclusions
// @Tags Exclusions
// @Produce json
// @Success 200 {object} map[string]interface{} "exclusions, count"
// @Router /exclusions [get]
func (h *Handler) ListExclusions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.exclusions.List(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list exclusions", "request_id", requestID(r.Context()), "error", err)
		h.errorResponse(w, http.StatusServiceUnavailable, "exclusion store unavailable")
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"exclusions": entries,
		"count":      len(entries),
	})
}

// AddExclusion excludes a player from group analyses for a reason
// @Summary Add Exclusion
// @Tags Exclusions
// @Accept json
// @Produce json
// @Param body body models.ExclusionEntry true "player_id and reason (injured, team_change, manual)"
// @Success 201 {object} models.ExclusionEntry
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /exclusions [post]
func (h *Handler) AddExclusion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var entry models.ExclusionEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.validate(entry); err != nil {
		h.serviceError(w, r, "Invalid exclusion", err)
		return
	}

	if err := h.exclusions.Add(r.Context(), entry); err != nil {
		h.serviceError(w, r, "Failed to add exclusion", err)
		return
	}
	h.logger.Infow("Player excluded", "player_id", entry.PlayerID, "reason", entry.Reason)
	h.jsonResponse(w, http.StatusCreated, entry)
}

// RemoveExclusion lifts one reason for one player
// @Summary Remove Exclusion
// @Tags Exclusions
// @Param reason path string true "Reason"
// @Param playerID path string true "Player ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /exclusions/{reason}/{playerID} [delete]
func (h *Handler) RemoveExclusion(w http.ResponseWriter, r *http.Request) {
	entry := models.ExclusionEntry{
		PlayerID: chi.URLParam(r, "playerID"),
		Reason:   chi.URLParam(r, "reason"),
	}
	if err := h.validate(entry); err != nil {
		h.serviceError(w, r, "Invalid exclusion", err)
		return
	}

	removed, err := h.exclusions.Remove(r.Context(), entry)
	if err != nil {
		h.serviceError(w, r, "Failed to remove exclusion", err)
		return
	}
	if !removed {
		h.errorResponse(w, http.StatusNotFound, "exclusion not found")
		return
	}
	h.logger.Infow("Exclusion removed", "player_id", entry.PlayerID, "reason", entry.Reason)
	w.WriteHeader(http.StatusNoContent)
}
