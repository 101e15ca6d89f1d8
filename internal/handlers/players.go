package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pagepicks/lines-api/internal/models"
)

// ListPlayers returns the player directory
// @Summary List Players
// @Description Players filtered by team, position and name substring
// @Tags Players
// @Produce json
// @Param team query string false "Team abbreviation (e.g. DAL)"
// @Param position query string false "Position (e.g. WR)"
// @Param q query string false "Name contains"
// @Param limit query int false "Max players (0 = all)"
// @Success 200 {object} map[string]interface{} "players, count"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	req := playersRequest{
		Team:     r.URL.Query().Get("team"),
		Position: r.URL.Query().Get("position"),
		Query:    r.URL.Query().Get("q"),
	}
	var err error
	if req.Limit, err = queryInt(r, "limit", 0); err != nil {
		h.serviceError(w, r, "Invalid players request", err)
		return
	}
	if err := h.validate(req); err != nil {
		h.serviceError(w, r, "Invalid players request", err)
		return
	}

	players, err := h.lines.ListPlayers(r.Context(), models.PlayerFilter{
		Team:     req.Team,
		Position: req.Position,
		Query:    req.Query,
		Limit:    req.Limit,
	})
	if err != nil {
		h.serviceError(w, r, "Failed to list players", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"count":   len(players),
	})
}

// GetPlayer returns one player
// @Summary Get Player
// @Tags Players
// @Produce json
// @Param id path string true "Player ID"
// @Success 200 {object} models.Player
// @Failure 404 {object} map[string]string "Not Found"
// @Router /players/{id} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	player, err := h.lines.GetPlayer(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, "Failed to get player", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, player)
}

// GetPlayerLineAnalysis reports how often a player cleared a line
// @Summary Player Line Analysis
// @Description Hit rate, average and median of a stat over the player's most recent games
// @Tags Analysis
// @Produce json
// @Param id path string true "Player ID"
// @Param stat_type query string true "Stat type (e.g. receiving_yards)"
// @Param line_value query number true "Line value"
// @Param games_back query int false "Recent games to analyze" default(20)
// @Param season query int false "Restrict to season(s)"
// @Success 200 {object} models.LineAnalysis
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 503 {object} map[string]string "Data source unavailable"
// @Router /players/{id}/analysis [get]
func (h *Handler) GetPlayerLineAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, err := h.parseLineRequest(r, 1, 1)
	if err != nil {
		h.serviceError(w, r, "Invalid analysis request", err)
		return
	}

	analysis, err := h.lines.AnalyzePlayerLine(r.Context(), models.LineQuery{
		PlayerID:  id,
		Stat:      req.stat,
		Line:      *req.LineValue,
		GamesBack: req.GamesBack,
		Seasons:   req.Seasons,
	})
	if err != nil {
		h.serviceError(w, r, "Failed to analyze player line", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, analysis)
}

// GetMultipleLineAnalysis evaluates several lines against one window
// @Summary Player Multiple Line Analysis
// @Tags Analysis
// @Produce json
// @Param id path string true "Player ID"
// @Param stat_type query string true "Stat type"
// @Param line_values query string true "Comma-separated lines (e.g. 50,75,100)"
// @Param games_back query int false "Recent games to analyze" default(20)
// @Success 200 {object} models.MultiLineAnalysis
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /players/{id}/multiple-lines [get]
func (h *Handler) GetMultipleLineAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, err := h.parseMultiLineRequest(r)
	if err != nil {
		h.serviceError(w, r, "Invalid multiple line request", err)
		return
	}

	analysis, err := h.lines.AnalyzeMultipleLines(r.Context(), id, req.stat, req.LineValues, req.GamesBack, req.Seasons)
	if err != nil {
		h.serviceError(w, r, "Failed to analyze multiple lines", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, analysis)
}
