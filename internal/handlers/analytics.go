package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

const (
	trendingMinGames = 10
	trendingLimit    = 20
)

func (h *Handler) excludedPlayers(r *http.Request) (models.ExclusionSet, error) {
	set, err := h.exclusions.ExcludedPlayers(r.Context())
	if err != nil {
		return nil, fmt.Errorf("%w: exclusions: %w", logic.ErrDataSourceUnavailable, err)
	}
	return set, nil
}

// GetPositionAnalysis ranks every player at a position against one line
// @Summary Position Analysis
// @Tags Analytics
// @Produce json
// @Param position path string true "Position (QB, RB, WR, TE)"
// @Param stat_type query string true "Stat type"
// @Param line_value query number true "Line value"
// @Param games_back query int false "Recent games to analyze" default(20)
// @Param min_games query int false "Minimum analyzed games" default(1)
// @Success 200 {object} models.GroupReport
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /analytics/position/{position} [get]
func (h *Handler) GetPositionAnalysis(w http.ResponseWriter, r *http.Request) {
	position := strings.ToUpper(chi.URLParam(r, "position"))
	h.groupAnalysis(w, r, models.PlayerFilter{Position: position})
}

// GetTeamAnalysis ranks every player on a team against one line
// @Summary Team Analysis
// @Tags Analytics
// @Produce json
// @Param team path string true "Team abbreviation"
// @Param stat_type query string true "Stat type"
// @Param line_value query number true "Line value"
// @Param games_back query int false "Recent games to analyze" default(20)
// @Param min_games query int false "Minimum analyzed games" default(1)
// @Success 200 {object} models.GroupReport
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /analytics/team/{team} [get]
func (h *Handler) GetTeamAnalysis(w http.ResponseWriter, r *http.Request) {
	team := strings.ToUpper(chi.URLParam(r, "team"))
	h.groupAnalysis(w, r, models.PlayerFilter{Team: team})
}

func (h *Handler) groupAnalysis(w http.ResponseWriter, r *http.Request, filter models.PlayerFilter) {
	req, err := h.parseLineRequest(r, 1, 1)
	if err != nil {
		h.serviceError(w, r, "Invalid group analysis request", err)
		return
	}
	ctx := r.Context()

	exclusions, err := h.excludedPlayers(r)
	if err != nil {
		h.serviceError(w, r, "Failed to load exclusions", err)
		return
	}
	players, err := h.lines.ListPlayers(ctx, filter)
	if err != nil {
		h.serviceError(w, r, "Failed to list players", err)
		return
	}
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}

	report, err := h.lines.AnalyzeGroup(ctx, models.GroupQuery{
		PlayerIDs: ids,
		Stat:      req.stat,
		Line:      *req.LineValue,
		GamesBack: req.GamesBack,
		MinGames:  req.MinGames,
		Seasons:   req.Seasons,
	}, exclusions)
	if err != nil {
		h.serviceError(w, r, "Failed to analyze group", err)
		return
	}
	report.Position = filter.Position
	report.Team = filter.Team
	h.jsonResponse(w, http.StatusOK, report)
}

// GetTrendingPlayers returns the players with the highest hit rates for a line
// @Summary Trending Players
// @Tags Analytics
// @Produce json
// @Param stat_type query string true "Stat type"
// @Param line_value query number true "Line value"
// @Param min_games query int false "Minimum analyzed games" default(10)
// @Param games_back query int false "Recent games to analyze" default(20)
// @Param limit query int false "Players to return" default(20)
// @Success 200 {object} models.GroupReport
// @Router /analytics/trending [get]
func (h *Handler) GetTrendingPlayers(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseLineRequest(r, trendingMinGames, trendingLimit)
	if err != nil {
		h.serviceError(w, r, "Invalid trending request", err)
		return
	}
	exclusions, err := h.excludedPlayers(r)
	if err != nil {
		h.serviceError(w, r, "Failed to load exclusions", err)
		return
	}

	report, err := h.lines.Trending(r.Context(), models.TrendingQuery{
		Stat:      req.stat,
		Line:      *req.LineValue,
		GamesBack: req.GamesBack,
		MinGames:  req.MinGames,
		Limit:     req.Limit,
		Seasons:   req.Seasons,
	}, exclusions)
	if err != nil {
		h.serviceError(w, r, "Failed to compute trending players", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, report)
}

// ComparePlayers analyzes the listed players against the same line
// @Summary Compare Players
// @Tags Analytics
// @Produce json
// @Param player_ids query string true "Comma-separated player IDs"
// @Param stat_type query string true "Stat type"
// @Param line_value query number true "Line value"
// @Param games_back query int false "Recent games to analyze" default(20)
// @Success 200 {object} models.GroupReport
// @Router /analytics/comparison [get]
func (h *Handler) ComparePlayers(w http.ResponseWriter, r *http.Request) {
	ids := queryList(r, "player_ids")
	if len(ids) == 0 {
		h.serviceError(w, r, "Invalid comparison request", invalidParam("player_ids is required"))
		return
	}
	req, err := h.parseLineRequest(r, 1, 1)
	if err != nil {
		h.serviceError(w, r, "Invalid comparison request", err)
		return
	}

	report, err := h.lines.ComparePlayers(r.Context(), models.CompareQuery{
		PlayerIDs: ids,
		Stat:      req.stat,
		Line:      *req.LineValue,
		GamesBack: req.GamesBack,
		Seasons:   req.Seasons,
	})
	if err != nil {
		h.serviceError(w, r, "Failed to compare players", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, report)
}
