package logic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pagepicks/lines-api/internal/models"
)

// AnalysisOptions tunes the analytics engine
type AnalysisOptions struct {
	// Concurrency bounds the per-player fetches of group analyses
	Concurrency int
}

type lineAnalysisService struct {
	src  ObservationSource
	opts AnalysisOptions
}

func NewLineAnalysisService(src ObservationSource, opts AnalysisOptions) LineAnalysisService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	return &lineAnalysisService{src: src, opts: opts}
}

// playerWindow is one player's analysis window for one stat
type playerWindow struct {
	player models.Player
	obs    []models.Observation
}

// AnalyzePlayerLine reports how often a player met q.Line over the last q.GamesBack games
func (s *lineAnalysisService) AnalyzePlayerLine(ctx context.Context, q models.LineQuery) (*models.LineAnalysis, error) {
	if err := validateWindow(q.Stat, q.GamesBack); err != nil {
		return nil, err
	}
	if err := validateLine(q.Line); err != nil {
		return nil, err
	}
	player, err := s.getPlayer(ctx, q.PlayerID)
	if err != nil {
		return nil, err
	}
	obs, err := s.fetchWindow(ctx, player.ID, q.Stat, q.GamesBack, q.Seasons)
	if err != nil {
		return nil, err
	}
	return evaluate(*player, q.Stat, q.Line, q.GamesBack, obs), nil
}

// AnalyzeMultipleLines evaluates every distinct line against one fetched window
func (s *lineAnalysisService) AnalyzeMultipleLines(ctx context.Context, playerID string, stat models.StatSelector, lines []float64, gamesBack int, seasons []int) (*models.MultiLineAnalysis, error) {
	if err := validateWindow(stat, gamesBack); err != nil {
		return nil, err
	}
	distinct, err := distinctLines(lines)
	if err != nil {
		return nil, err
	}
	player, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	obs, err := s.fetchWindow(ctx, player.ID, stat, gamesBack, seasons)
	if err != nil {
		return nil, err
	}

	out := &models.MultiLineAnalysis{
		PlayerID:      player.ID,
		PlayerName:    player.Name,
		Stat:          stat,
		GamesBack:     gamesBack,
		GamesAnalyzed: len(obs),
		LineAnalyses:  make([]models.LineAnalysis, 0, len(distinct)),
	}
	for _, line := range distinct {
		out.LineAnalyses = append(out.LineAnalyses, *evaluate(*player, stat, line, gamesBack, obs))
	}
	return out, nil
}

// AnalyzeGroup ranks the candidate players by hit rate. Excluded players are
// removed before anything is fetched.
func (s *lineAnalysisService) AnalyzeGroup(ctx context.Context, q models.GroupQuery, exclusions models.ExclusionSet) (*models.GroupReport, error) {
	if err := validateWindow(q.Stat, q.GamesBack); err != nil {
		return nil, err
	}
	if err := validateLine(q.Line); err != nil {
		return nil, err
	}
	if q.MinGames < 1 {
		return nil, invalidParam("min_games must be at least 1, got %d", q.MinGames)
	}

	ids := make([]string, 0, len(q.PlayerIDs))
	for _, id := range dedupeIDs(q.PlayerIDs) {
		if !exclusions.Contains(id) {
			ids = append(ids, id)
		}
	}

	windows, err := s.windowsForIDs(ctx, ids, q.Stat, q.GamesBack, q.Seasons)
	if err != nil {
		return nil, err
	}
	players := summarize(windows, q.Stat, q.Line, q.GamesBack, q.MinGames)

	return &models.GroupReport{
		Stat:      q.Stat,
		Line:      q.Line,
		GamesBack: q.GamesBack,
		MinGames:  q.MinGames,
		Players:   players,
		Count:     len(players),
	}, nil
}

// FindRealisticPicks searches the candidate groups for lines whose hit rate
// sits inside the band and which lie close to the player's average
func (s *lineAnalysisService) FindRealisticPicks(ctx context.Context, q models.PicksQuery, exclusions models.ExclusionSet) (*models.PicksReport, error) {
	if err := validatePicks(q); err != nil {
		return nil, err
	}

	picks := make([]models.Pick, 0)
	for _, g := range q.Groups {
		players, err := s.src.ListPlayers(ctx, models.PlayerFilter{Position: strings.ToUpper(g.Position)})
		if err != nil {
			return nil, sourceError("list players for "+g.Position, err)
		}
		windows, err := s.windowsForPlayers(ctx, withoutExcluded(players, exclusions), g.Stat, q.GamesBack, q.Seasons)
		if err != nil {
			return nil, err
		}

		lines, _ := distinctLines(g.Lines)
		for _, w := range windows {
			if len(w.obs) < q.MinGames {
				continue
			}
			avg := windowMean(w.obs)
			for _, line := range lines {
				a := evaluate(w.player, g.Stat, line, q.GamesBack, w.obs)
				if a.HitRate < q.MinHitRate || a.HitRate > q.MaxHitRate {
					continue
				}
				if !withinBand(line, avg, q.ProximityBand) {
					continue
				}
				picks = append(picks, models.Pick{
					PlayerID:      a.PlayerID,
					PlayerName:    a.PlayerName,
					Position:      a.Position,
					Team:          a.Team,
					Stat:          a.Stat,
					Line:          a.Line,
					GamesAnalyzed: a.GamesAnalyzed,
					TotalHits:     a.TotalHits,
					HitRate:       a.HitRate,
					AverageValue:  a.AverageValue,
					MedianValue:   a.MedianValue,
				})
			}
		}
	}

	sortPicks(picks)
	total := len(picks)
	if len(picks) > q.Limit {
		picks = picks[:q.Limit]
	}

	return &models.PicksReport{
		MinHitRate:      q.MinHitRate,
		MaxHitRate:      q.MaxHitRate,
		MinGames:        q.MinGames,
		GamesBack:       q.GamesBack,
		ProximityBand:   q.ProximityBand,
		ExcludedPlayers: len(exclusions),
		TotalQualifying: total,
		Picks:           picks,
		Count:           len(picks),
	}, nil
}

// ComparePlayers ranks the listed players against one line. Unknown IDs are
// skipped and no exclusions apply.
func (s *lineAnalysisService) ComparePlayers(ctx context.Context, q models.CompareQuery) (*models.GroupReport, error) {
	if err := validateWindow(q.Stat, q.GamesBack); err != nil {
		return nil, err
	}
	if err := validateLine(q.Line); err != nil {
		return nil, err
	}
	ids := dedupeIDs(q.PlayerIDs)
	if len(ids) == 0 {
		return nil, invalidParam("at least one player id is required")
	}

	windows, err := s.windowsForIDs(ctx, ids, q.Stat, q.GamesBack, q.Seasons)
	if err != nil {
		return nil, err
	}
	players := summarize(windows, q.Stat, q.Line, q.GamesBack, 0)

	return &models.GroupReport{
		Stat:      q.Stat,
		Line:      q.Line,
		GamesBack: q.GamesBack,
		Players:   players,
		Count:     len(players),
	}, nil
}

// Trending ranks every known, non-excluded player and keeps the top q.Limit
func (s *lineAnalysisService) Trending(ctx context.Context, q models.TrendingQuery, exclusions models.ExclusionSet) (*models.GroupReport, error) {
	if err := validateWindow(q.Stat, q.GamesBack); err != nil {
		return nil, err
	}
	if err := validateLine(q.Line); err != nil {
		return nil, err
	}
	if q.MinGames < 1 {
		return nil, invalidParam("min_games must be at least 1, got %d", q.MinGames)
	}
	if q.Limit < 1 {
		return nil, invalidParam("limit must be at least 1, got %d", q.Limit)
	}

	all, err := s.src.ListPlayers(ctx, models.PlayerFilter{})
	if err != nil {
		return nil, sourceError("list players", err)
	}
	windows, err := s.windowsForPlayers(ctx, withoutExcluded(all, exclusions), q.Stat, q.GamesBack, q.Seasons)
	if err != nil {
		return nil, err
	}
	players := summarize(windows, q.Stat, q.Line, q.GamesBack, q.MinGames)
	if len(players) > q.Limit {
		players = players[:q.Limit]
	}

	return &models.GroupReport{
		Stat:      q.Stat,
		Line:      q.Line,
		GamesBack: q.GamesBack,
		MinGames:  q.MinGames,
		Players:   players,
		Count:     len(players),
	}, nil
}

func (s *lineAnalysisService) ListPlayers(ctx context.Context, filter models.PlayerFilter) ([]models.Player, error) {
	if filter.Limit < 0 {
		return nil, invalidParam("limit must not be negative, got %d", filter.Limit)
	}
	filter.Position = strings.ToUpper(strings.TrimSpace(filter.Position))
	filter.Team = strings.ToUpper(strings.TrimSpace(filter.Team))
	players, err := s.src.ListPlayers(ctx, filter)
	if err != nil {
		return nil, sourceError("list players", err)
	}
	return players, nil
}

func (s *lineAnalysisService) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return s.getPlayer(ctx, id)
}

func (s *lineAnalysisService) getPlayer(ctx context.Context, id string) (*models.Player, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalidParam("player id is required")
	}
	player, err := s.src.GetPlayer(ctx, id)
	if err != nil {
		return nil, sourceError("get player "+id, err)
	}
	return player, nil
}

func (s *lineAnalysisService) fetchWindow(ctx context.Context, playerID string, stat models.StatSelector, gamesBack int, seasons []int) ([]models.Observation, error) {
	q := models.ObservationQuery{
		PlayerID:  playerID,
		Stat:      stat,
		GamesBack: gamesBack,
		Seasons:   seasons,
	}
	obs, err := s.src.GetRecentObservations(ctx, q)
	if err != nil {
		return nil, sourceError(fmt.Sprintf("recent %s for %s", stat, playerID), err)
	}
	return normalizeWindow(obs, q), nil
}

// windowsForIDs looks each player up before fetching. Players the source does
// not know are skipped.
func (s *lineAnalysisService) windowsForIDs(ctx context.Context, ids []string, stat models.StatSelector, gamesBack int, seasons []int) ([]playerWindow, error) {
	return s.collectWindows(ctx, len(ids), func(ctx context.Context, i int) (*playerWindow, error) {
		player, err := s.getPlayer(ctx, ids[i])
		if errors.Is(err, ErrPlayerNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		obs, err := s.fetchWindow(ctx, player.ID, stat, gamesBack, seasons)
		if err != nil {
			return nil, err
		}
		return &playerWindow{player: *player, obs: obs}, nil
	})
}

func (s *lineAnalysisService) windowsForPlayers(ctx context.Context, players []models.Player, stat models.StatSelector, gamesBack int, seasons []int) ([]playerWindow, error) {
	return s.collectWindows(ctx, len(players), func(ctx context.Context, i int) (*playerWindow, error) {
		obs, err := s.fetchWindow(ctx, players[i].ID, stat, gamesBack, seasons)
		if err != nil {
			return nil, err
		}
		return &playerWindow{player: players[i], obs: obs}, nil
	})
}

// collectWindows runs load for every index with bounded concurrency. Results
// keep input order; nil results are dropped.
func (s *lineAnalysisService) collectWindows(ctx context.Context, n int, load func(ctx context.Context, i int) (*playerWindow, error)) ([]playerWindow, error) {
	slots := make([]*playerWindow, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			w, err := load(gctx, i)
			if err != nil {
				return err
			}
			slots[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	windows := make([]playerWindow, 0, n)
	for _, w := range slots {
		if w != nil {
			windows = append(windows, *w)
		}
	}
	return windows, nil
}

// normalizeWindow re-applies the window rules to whatever the source returned:
// season filter, newest first with game ID as tie-break, games-back cap.
func normalizeWindow(obs []models.Observation, q models.ObservationQuery) []models.Observation {
	out := make([]models.Observation, 0, len(obs))
	for _, o := range obs {
		if q.MatchesSeason(o.Season) && finite(o.Value) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].GameDate.Equal(out[j].GameDate) {
			return out[i].GameDate.After(out[j].GameDate)
		}
		return out[i].GameID > out[j].GameID
	})
	if len(out) > q.GamesBack {
		out = out[:q.GamesBack]
	}
	return out
}

func evaluate(player models.Player, stat models.StatSelector, line float64, gamesBack int, obs []models.Observation) *models.LineAnalysis {
	a := &models.LineAnalysis{
		PlayerID:      player.ID,
		PlayerName:    player.Name,
		Position:      player.Position,
		Team:          player.Team,
		Stat:          stat,
		Line:          line,
		GamesBack:     gamesBack,
		GamesAnalyzed: len(obs),
		NoData:        len(obs) == 0,
		Games:         make([]models.GameResult, 0, len(obs)),
	}

	values := make([]float64, 0, len(obs))
	for _, o := range obs {
		hit := o.Value >= line
		if hit {
			a.TotalHits++
		}
		values = append(values, o.Value)
		a.Games = append(a.Games, models.GameResult{
			GameID:    o.GameID,
			Week:      o.Week,
			Season:    o.Season,
			Opponent:  o.Opponent,
			StatValue: o.Value,
			GameDate:  o.GameDate,
			Hit:       hit,
		})
	}

	a.HitRate = hitRate(a.TotalHits, a.GamesAnalyzed)
	a.AverageValue = round2(mean(values))
	a.MedianValue = round2(median(values))
	a.SeasonSplits = seasonSplits(a.Games)
	return a
}

func seasonSplits(games []models.GameResult) []models.SeasonSplit {
	bySeason := make(map[int]*models.SeasonSplit)
	sums := make(map[int]float64)
	for _, g := range games {
		split, ok := bySeason[g.Season]
		if !ok {
			split = &models.SeasonSplit{Season: g.Season}
			bySeason[g.Season] = split
		}
		split.GamesAnalyzed++
		if g.Hit {
			split.TotalHits++
		}
		sums[g.Season] += g.StatValue
	}

	splits := make([]models.SeasonSplit, 0, len(bySeason))
	for season, split := range bySeason {
		split.HitRate = hitRate(split.TotalHits, split.GamesAnalyzed)
		split.AverageValue = round2(sums[season] / float64(split.GamesAnalyzed))
		splits = append(splits, *split)
	}
	sort.Slice(splits, func(i, j int) bool { return splits[i].Season > splits[j].Season })
	return splits
}

func summarize(windows []playerWindow, stat models.StatSelector, line float64, gamesBack, minGames int) []models.PlayerLineSummary {
	out := make([]models.PlayerLineSummary, 0, len(windows))
	for _, w := range windows {
		if len(w.obs) < minGames {
			continue
		}
		out = append(out, evaluate(w.player, stat, line, gamesBack, w.obs).Summary())
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HitRate != b.HitRate {
			return a.HitRate > b.HitRate
		}
		if a.GamesAnalyzed != b.GamesAnalyzed {
			return a.GamesAnalyzed > b.GamesAnalyzed
		}
		return a.PlayerID < b.PlayerID
	})
	return out
}

func sortPicks(picks []models.Pick) {
	sort.SliceStable(picks, func(i, j int) bool {
		a, b := picks[i], picks[j]
		switch {
		case a.HitRate != b.HitRate:
			return a.HitRate > b.HitRate
		case a.GamesAnalyzed != b.GamesAnalyzed:
			return a.GamesAnalyzed > b.GamesAnalyzed
		case a.Position != b.Position:
			return a.Position < b.Position
		case a.Stat != b.Stat:
			return a.Stat < b.Stat
		case a.Line != b.Line:
			return a.Line < b.Line
		}
		return a.PlayerID < b.PlayerID
	})
}

func windowMean(obs []models.Observation) float64 {
	values := make([]float64, len(obs))
	for i, o := range obs {
		values[i] = o.Value
	}
	return mean(values)
}

// withinBand reports whether line lies within avg*(1-band) .. avg*(1+band)
func withinBand(line, avg, band float64) bool {
	lo, hi := avg*(1-band), avg*(1+band)
	if lo > hi {
		lo, hi = hi, lo
	}
	return line >= lo && line <= hi
}

func withoutExcluded(players []models.Player, exclusions models.ExclusionSet) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if !exclusions.Contains(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// distinctLines returns the unique lines in ascending order
func distinctLines(lines []float64) ([]float64, error) {
	if len(lines) == 0 {
		return nil, invalidParam("at least one line value is required")
	}
	out := make([]float64, 0, len(lines))
	seen := make(map[float64]struct{}, len(lines))
	for _, l := range lines {
		if err := validateLine(l); err != nil {
			return nil, err
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Float64s(out)
	return out, nil
}

func validateWindow(stat models.StatSelector, gamesBack int) error {
	if !stat.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStatSelector, int(stat))
	}
	if gamesBack < 1 {
		return invalidParam("games_back must be at least 1, got %d", gamesBack)
	}
	return nil
}

func validateLine(line float64) error {
	if !finite(line) {
		return invalidParam("line_value must be a finite number")
	}
	return nil
}

func validatePicks(q models.PicksQuery) error {
	switch {
	case q.GamesBack < 1:
		return invalidParam("games_back must be at least 1, got %d", q.GamesBack)
	case !finite(q.MinHitRate) || !finite(q.MaxHitRate):
		return invalidParam("hit rate band must be finite")
	case q.MinHitRate < 0 || q.MaxHitRate > 100 || q.MinHitRate > q.MaxHitRate:
		return invalidParam("hit rate band [%v, %v] must satisfy 0 <= min <= max <= 100", q.MinHitRate, q.MaxHitRate)
	case !(q.ProximityBand > 0) || !finite(q.ProximityBand):
		return invalidParam("proximity_band must be positive, got %v", q.ProximityBand)
	case q.MinGames < 1:
		return invalidParam("min_games must be at least 1, got %d", q.MinGames)
	case q.Limit < 1:
		return invalidParam("limit must be at least 1, got %d", q.Limit)
	case len(q.Groups) == 0:
		return invalidParam("at least one candidate group is required")
	}
	for _, g := range q.Groups {
		if !g.Stat.Valid() {
			return fmt.Errorf("%w: %d in group %s", ErrInvalidStatSelector, int(g.Stat), g.Position)
		}
		if _, err := distinctLines(g.Lines); err != nil {
			return fmt.Errorf("group %s/%s: %w", g.Position, g.Stat, err)
		}
	}
	return nil
}
