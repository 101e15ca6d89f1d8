package handlers

import (
	"net/http"

	"github.com/pagepicks/lines-api/internal/models"
)

// GetBestPicks searches the configured candidate groups for realistic picks
// @Summary Best Realistic Picks
// @Description Lines a player cleared between min_hit_rate and max_hit_rate percent of the time, close to their average
// @Tags Picks
// @Produce json
// @Param min_hit_rate query number false "Lower hit rate bound" default(70)
// @Param max_hit_rate query number false "Upper hit rate bound" default(90)
// @Param min_games query int false "Minimum analyzed games" default(5)
// @Param games_back query int false "Recent games to analyze" default(20)
// @Param proximity_band query number false "Allowed relative distance of line from average" default(0.25)
// @Param limit query int false "Picks to return" default(100)
// @Success 200 {object} models.PicksReport
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /picks/best [get]
func (h *Handler) GetBestPicks(w http.ResponseWriter, r *http.Request) {
	req, err := h.parsePicksRequest(r)
	if err != nil {
		h.serviceError(w, r, "Invalid picks request", err)
		return
	}

	exclusions, err := h.excludedPlayers(r)
	if err != nil {
		h.serviceError(w, r, "Failed to load exclusions", err)
		return
	}

	report, err := h.lines.FindRealisticPicks(r.Context(), models.PicksQuery{
		Groups:        h.picks.Groups,
		MinHitRate:    req.MinHitRate,
		MaxHitRate:    req.MaxHitRate,
		MinGames:      req.MinGames,
		GamesBack:     req.GamesBack,
		ProximityBand: req.ProximityBand,
		Limit:         req.Limit,
		Seasons:       req.Seasons,
	}, exclusions)
	if err != nil {
		h.serviceError(w, r, "Failed to find realistic picks", err)
		return
	}
	h.jsonResponse(w, http.StatusOK, report)
}

// GetLatestPicks returns the most recent background snapshot
// @Summary Latest Picks Snapshot
// @Tags Picks
// @Produce json
// @Success 200 {object} models.PicksSnapshot
// @Failure 404 {object} map[string]string "No snapshot yet"
// @Router /picks/latest [get]
func (h *Handler) GetLatestPicks(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshots.Latest(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to read picks snapshot", "request_id", requestID(r.Context()), "error", err)
		h.errorResponse(w, http.StatusServiceUnavailable, "snapshot store unavailable")
		return
	}
	if snap == nil {
		h.errorResponse(w, http.StatusNotFound, "no picks snapshot yet")
		return
	}
	h.jsonResponse(w, http.StatusOK, snap)
}

func (h *Handler) parsePicksRequest(r *http.Request) (*picksRequest, error) {
	def := h.picks
	req := &picksRequest{}
	var err error
	if req.MinHitRate, err = queryFloat(r, "min_hit_rate", def.MinHitRate); err != nil {
		return nil, err
	}
	if req.MaxHitRate, err = queryFloat(r, "max_hit_rate", def.MaxHitRate); err != nil {
		return nil, err
	}
	if req.MinGames, err = queryInt(r, "min_games", def.MinGames); err != nil {
		return nil, err
	}
	if req.GamesBack, err = queryInt(r, "games_back", def.GamesBack); err != nil {
		return nil, err
	}
	if req.ProximityBand, err = queryFloat(r, "proximity_band", def.ProximityBand); err != nil {
		return nil, err
	}
	if req.Limit, err = queryInt(r, "limit", def.Limit); err != nil {
		return nil, err
	}
	if req.Seasons, err = h.querySeasons(r); err != nil {
		return nil, err
	}
	if len(req.Seasons) == 0 {
		req.Seasons = def.Seasons
	}
	if err := h.validate(req); err != nil {
		return nil, err
	}
	return req, nil
}
