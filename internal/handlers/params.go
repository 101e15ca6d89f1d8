package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pagepicks/lines-api/internal/logic"
	"github.com/pagepicks/lines-api/internal/models"
)

// lineRequest holds the query parameters shared by the analysis endpoints
type lineRequest struct {
	StatType  string   `validate:"required"`
	LineValue *float64 `validate:"required"`
	GamesBack int      `validate:"gte=1,lte=100"`
	MinGames  int      `validate:"gte=1"`
	Limit     int      `validate:"gte=1,lte=500"`
	Seasons   []int    `validate:"dive,gte=1920,lte=2100"`

	stat models.StatSelector
}

type multiLineRequest struct {
	StatType   string    `validate:"required"`
	LineValues []float64 `validate:"required,min=1,max=50"`
	GamesBack  int       `validate:"gte=1,lte=100"`
	Seasons    []int     `validate:"dive,gte=1920,lte=2100"`

	stat models.StatSelector
}

type picksRequest struct {
	MinHitRate    float64 `validate:"gte=0,lte=100,ltefield=MaxHitRate"`
	MaxHitRate    float64 `validate:"gte=0,lte=100"`
	MinGames      int     `validate:"gte=1"`
	GamesBack     int     `validate:"gte=1,lte=100"`
	ProximityBand float64 `validate:"gt=0"`
	Limit         int     `validate:"gte=1,lte=1000"`
	Seasons       []int   `validate:"dive,gte=1920,lte=2100"`
}

type playersRequest struct {
	Team     string `validate:"omitempty,alpha,max=4"`
	Position string `validate:"omitempty,alpha,max=4"`
	Query    string `validate:"max=64"`
	Limit    int    `validate:"gte=0,lte=1000"`
}

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", logic.ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidParam("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

func queryFloat(r *http.Request, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, invalidParam("%s must be a number, got %q", key, raw)
	}
	return v, nil
}

func queryOptionalFloat(r *http.Request, key string) (*float64, error) {
	if strings.TrimSpace(r.URL.Query().Get(key)) == "" {
		return nil, nil
	}
	v, err := queryFloat(r, key, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// queryList splits a comma-separated parameter, dropping empty items
func queryList(r *http.Request, key string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(r.URL.Query().Get(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func queryFloats(r *http.Request, key string) ([]float64, error) {
	parts := queryList(r, key)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, invalidParam("%s contains a non-numeric value %q", key, p)
		}
		out = append(out, v)
	}
	return out, nil
}

// querySeasons reads repeated or comma-separated season parameters; none
// falls back to the configured seasons
func (h *Handler) querySeasons(r *http.Request) ([]int, error) {
	raw := make([]string, 0)
	for _, v := range r.URL.Query()["season"] {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				raw = append(raw, p)
			}
		}
	}
	if len(raw) == 0 {
		return h.seasons, nil
	}
	out := make([]int, 0, len(raw))
	for _, p := range raw {
		s, err := strconv.Atoi(p)
		if err != nil {
			return nil, invalidParam("season must be an integer, got %q", p)
		}
		out = append(out, s)
	}
	return out, nil
}

// validate runs struct validation and reports the first failing field
func (h *Handler) validate(req interface{}) error {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return invalidParam("%s failed %s validation", fieldName(verrs[0].Field()), verrs[0].Tag())
	}
	return invalidParam("%v", err)
}

var fieldNames = map[string]string{
	"StatType":      "stat_type",
	"LineValue":     "line_value",
	"LineValues":    "line_values",
	"GamesBack":     "games_back",
	"MinGames":      "min_games",
	"Limit":         "limit",
	"Seasons":       "season",
	"MinHitRate":    "min_hit_rate",
	"MaxHitRate":    "max_hit_rate",
	"ProximityBand": "proximity_band",
	"Team":          "team",
	"Position":      "position",
	"Query":         "q",
	"PlayerID":      "player_id",
	"Reason":        "reason",
}

func fieldName(f string) string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	if i := strings.IndexByte(f, '['); i > 0 {
		return fieldName(f[:i])
	}
	return f
}

// parseLineRequest reads stat_type, line_value, games_back, min_games, limit
// and season, applying the given defaults for min_games and limit
func (h *Handler) parseLineRequest(r *http.Request, minGames, limit int) (*lineRequest, error) {
	req := &lineRequest{StatType: r.URL.Query().Get("stat_type")}
	var err error
	if req.LineValue, err = queryOptionalFloat(r, "line_value"); err != nil {
		return nil, err
	}
	if req.GamesBack, err = queryInt(r, "games_back", h.defaultGamesBack); err != nil {
		return nil, err
	}
	if req.MinGames, err = queryInt(r, "min_games", minGames); err != nil {
		return nil, err
	}
	if req.Limit, err = queryInt(r, "limit", limit); err != nil {
		return nil, err
	}
	if req.Seasons, err = h.querySeasons(r); err != nil {
		return nil, err
	}
	if err := h.validate(req); err != nil {
		return nil, err
	}
	if req.stat, err = parseStat(req.StatType); err != nil {
		return nil, err
	}
	return req, nil
}

func (h *Handler) parseMultiLineRequest(r *http.Request) (*multiLineRequest, error) {
	req := &multiLineRequest{StatType: r.URL.Query().Get("stat_type")}
	var err error
	if req.LineValues, err = queryFloats(r, "line_values"); err != nil {
		return nil, err
	}
	if req.GamesBack, err = queryInt(r, "games_back", h.defaultGamesBack); err != nil {
		return nil, err
	}
	if req.Seasons, err = h.querySeasons(r); err != nil {
		return nil, err
	}
	if err := h.validate(req); err != nil {
		return nil, err
	}
	if req.stat, err = parseStat(req.StatType); err != nil {
		return nil, err
	}
	return req, nil
}

func parseStat(name string) (models.StatSelector, error) {
	stat, err := models.ParseStatSelector(name)
	if err != nil {
		return models.StatUnknown, fmt.Errorf("%w: %w", logic.ErrInvalidStatSelector, err)
	}
	return stat, nil
}
