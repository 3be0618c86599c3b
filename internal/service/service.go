// Package service runs the scoring pipeline end to end: cached feature
// extraction over concurrent explorer fetches, then scoring, lending
// terms, trajectory, and pairwise comparison on top.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/rs/zerolog"

	"chainscore/internal/cache"
	"chainscore/internal/explorer"
	"chainscore/internal/features"
	"chainscore/internal/lending"
	"chainscore/internal/observability"
	"chainscore/internal/scoring"
	"chainscore/internal/trajectory"
)

const (
	defaultWindowDays = 30
	defaultProfile    = "aave"
	defaultWorkers    = 4
)

// Options parameterise the pipeline service.
type Options struct {
	Source explorer.Source

	// Policy is the scoring table; the zero value selects the default one.
	Policy scoring.Policy

	// CacheTTL bounds result reuse. Zero or negative disables caching.
	CacheTTL time.Duration

	WindowDays     int
	DefaultProfile string

	// Workers caps concurrently running explorer fetches across all
	// in-flight requests. The shared rate limiter still spaces the calls.
	Workers int

	Metrics *observability.Metrics
}

// Service executes pipeline operations. Safe for concurrent use.
type Service struct {
	opts    Options
	logger  zerolog.Logger
	engine  *scoring.Engine
	pool    pond.Pool
	results *cache.TTLCache[pipelineResult]
}

// New constructs a Service, filling zero options with defaults.
func New(opts Options, logger zerolog.Logger) *Service {
	if opts.WindowDays <= 0 {
		opts.WindowDays = defaultWindowDays
	}
	if strings.TrimSpace(opts.DefaultProfile) == "" {
		opts.DefaultProfile = defaultProfile
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}

	return &Service{
		opts:    opts,
		logger:  logger.With().Str("component", "service").Logger(),
		engine:  scoring.NewEngine(opts.Policy),
		pool:    pond.NewPool(opts.Workers),
		results: cache.New[pipelineResult](opts.CacheTTL),
	}
}

// Close drains the fetch pool.
func (s *Service) Close() {
	s.pool.StopAndWait()
}

// pipelineResult is the cached unit: one snapshot and its score.
type pipelineResult struct {
	snapshot features.Snapshot
	score    scoring.Result
	cachedAt time.Time
}

// FeatureSet is the features operation response. The score summary rides
// along because every pipeline run computes it anyway.
type FeatureSet struct {
	Wallet   string            `json:"wallet"`
	Profile  string            `json:"profile"`
	Features features.Snapshot `json:"features"`
	Score    scoring.Result    `json:"score"`
	Cached   bool              `json:"cached"`
	CachedAt time.Time         `json:"cached_at"`
}

// ScoreOutcome bundles the full decision for one wallet.
type ScoreOutcome struct {
	Wallet         string                 `json:"wallet"`
	Profile        string                 `json:"profile"`
	Features       features.Snapshot      `json:"features"`
	Score          scoring.Result         `json:"score"`
	Recommendation lending.Recommendation `json:"recommendation"`
	Cached         bool                   `json:"cached"`
}

// TrajectoryOutcome pairs the current window with the one before it.
type TrajectoryOutcome struct {
	Wallet        string                `json:"wallet"`
	Profile       string                `json:"profile"`
	WalletAgeDays int                   `json:"wallet_age_days"`
	Current       features.Snapshot     `json:"current"`
	Previous      features.Snapshot     `json:"previous"`
	CurrentScore  scoring.Result        `json:"current_score"`
	PreviousScore scoring.Result        `json:"previous_score"`
	Trajectory    trajectory.Comparison `json:"trajectory"`
}

// ComparisonOutcome ranks two wallets scored under the same profile and
// window.
type ComparisonOutcome struct {
	WalletA ScoreOutcome `json:"wallet_a"`
	WalletB ScoreOutcome `json:"wallet_b"`

	// Winner is the higher-scoring wallet address, or "tie".
	Winner string `json:"winner"`
	Margin int    `json:"margin"`
}

// Features computes or recalls the feature snapshot for one wallet window.
func (s *Service) Features(ctx context.Context, wallet, profile string, windowDays, offsetDays int) (FeatureSet, error) {
	addr, prof, days, err := s.resolve(wallet, profile, windowDays)
	if err != nil {
		return FeatureSet{}, err
	}

	res, cached, err := s.run(ctx, addr, prof, days, offsetDays)
	if err != nil {
		return FeatureSet{}, err
	}

	return FeatureSet{
		Wallet:   addr,
		Profile:  prof,
		Features: res.snapshot,
		Score:    res.score,
		Cached:   cached,
		CachedAt: res.cachedAt,
	}, nil
}

// Score runs the pipeline and derives the lending decision and terms.
func (s *Service) Score(ctx context.Context, wallet, profile string, windowDays int) (ScoreOutcome, error) {
	addr, prof, days, err := s.resolve(wallet, profile, windowDays)
	if err != nil {
		return ScoreOutcome{}, err
	}

	res, cached, err := s.run(ctx, addr, prof, days, 0)
	if err != nil {
		return ScoreOutcome{}, err
	}

	rec, err := lending.Recommend(res.snapshot, res.score, prof)
	if err != nil {
		return ScoreOutcome{}, err
	}

	return ScoreOutcome{
		Wallet:         addr,
		Profile:        prof,
		Features:       res.snapshot,
		Score:          res.score,
		Recommendation: rec,
		Cached:         cached,
	}, nil
}

// Trajectory scores the current window and the adjacent earlier one, then
// diffs them.
func (s *Service) Trajectory(ctx context.Context, wallet, profile string, windowDays int) (TrajectoryOutcome, error) {
	addr, prof, days, err := s.resolve(wallet, profile, windowDays)
	if err != nil {
		return TrajectoryOutcome{}, err
	}

	curr, _, err := s.run(ctx, addr, prof, days, 0)
	if err != nil {
		return TrajectoryOutcome{}, err
	}
	prev, _, err := s.run(ctx, addr, prof, days, days)
	if err != nil {
		return TrajectoryOutcome{}, err
	}

	return TrajectoryOutcome{
		Wallet:        addr,
		Profile:       prof,
		WalletAgeDays: curr.snapshot.WalletAgeDays,
		Current:       curr.snapshot,
		Previous:      prev.snapshot,
		CurrentScore:  curr.score,
		PreviousScore: prev.score,
		Trajectory:    trajectory.Compare(curr.snapshot, prev.snapshot, curr.score.RawScore, prev.score.RawScore),
	}, nil
}

// Compare scores two wallets and picks the winner by clamped score.
func (s *Service) Compare(ctx context.Context, walletA, walletB, profile string, windowDays int) (ComparisonOutcome, error) {
	a, err := s.Score(ctx, walletA, profile, windowDays)
	if err != nil {
		return ComparisonOutcome{}, fmt.Errorf("wallet a: %w", err)
	}
	b, err := s.Score(ctx, walletB, profile, windowDays)
	if err != nil {
		return ComparisonOutcome{}, fmt.Errorf("wallet b: %w", err)
	}

	out := ComparisonOutcome{WalletA: a, WalletB: b, Winner: "tie"}
	switch {
	case a.Score.Score > b.Score.Score:
		out.Winner = a.Wallet
		out.Margin = a.Score.Score - b.Score.Score
	case b.Score.Score > a.Score.Score:
		out.Winner = b.Wallet
		out.Margin = b.Score.Score - a.Score.Score
	}
	return out, nil
}

// resolve validates the address, fills parameter defaults, and rejects
// unknown profiles before any upstream call happens.
func (s *Service) resolve(wallet, profile string, windowDays int) (string, string, int, error) {
	addr, err := explorer.ValidateAddress(wallet)
	if err != nil {
		return "", "", 0, err
	}

	prof := strings.TrimSpace(profile)
	if prof == "" {
		prof = s.opts.DefaultProfile
	}
	if _, err := lending.Lookup(prof); err != nil {
		return "", "", 0, err
	}
	prof = strings.ToLower(prof)

	days := windowDays
	if days <= 0 {
		days = s.opts.WindowDays
	}
	return addr, prof, days, nil
}

// run executes one cached pipeline pass for a wallet window. Fetch
// failures degrade the snapshot instead of failing the run; only caller
// cancellation aborts it.
func (s *Service) run(ctx context.Context, addr, prof string, windowDays, offsetDays int) (pipelineResult, bool, error) {
	key := cacheKey(addr, prof, windowDays, offsetDays)
	if res, ok := s.results.Get(key); ok {
		s.opts.Metrics.RecordCache(true)
		s.logger.Debug().Str("wallet", addr).Str("key", key).Msg("cache hit")
		return res, true, nil
	}
	s.opts.Metrics.RecordCache(false)

	started := time.Now()
	window := explorer.WindowForDays(started, windowDays, offsetDays)

	var (
		normal, internal, token          explorer.WindowResult
		normalErr, internalErr, tokenErr error
		firstSeen                        int64
		firstSeenErr                     error
	)

	group := s.pool.NewGroupContext(ctx)
	group.Submit(func() {
		normal, normalErr = s.opts.Source.FetchWindow(ctx, explorer.ActionTxList, addr, window)
	})
	group.Submit(func() {
		internal, internalErr = s.opts.Source.FetchWindow(ctx, explorer.ActionTxListInternal, addr, window)
	})
	group.Submit(func() {
		token, tokenErr = s.opts.Source.FetchWindow(ctx, explorer.ActionTokenTx, addr, window)
	})
	group.Submit(func() {
		firstSeen, firstSeenErr = s.opts.Source.FirstSeen(ctx, addr)
	})
	if werr := group.Wait(); werr != nil {
		return pipelineResult{}, false, werr
	}

	errs := map[string]string{}
	if normalErr != nil {
		errs["normal"] = normalErr.Error()
		normal = explorer.WindowResult{}
	}
	if internalErr != nil {
		errs["internal"] = internalErr.Error()
		internal = explorer.WindowResult{}
	}
	if tokenErr != nil {
		errs["erc20"] = tokenErr.Error()
		token = explorer.WindowResult{}
	}
	if firstSeenErr != nil {
		errs["age"] = firstSeenErr.Error()
		firstSeen = 0
	}
	s.recordFetches(normalErr, internalErr, tokenErr, firstSeenErr)

	snapshot := features.Extract(features.Input{
		Wallet:      addr,
		WindowDays:  windowDays,
		OffsetDays:  offsetDays,
		Now:         started,
		Normal:      normal,
		Internal:    internal,
		Token:       token,
		FirstSeenTS: firstSeen,
		Errors:      errs,
	})
	score := s.engine.Score(snapshot)
	s.opts.Metrics.RecordScore(string(score.Tier))

	outcome := "ok"
	if !snapshot.DataOK {
		outcome = "degraded"
		s.logger.Warn().Str("wallet", addr).Interface("errors", errs).Msg("pipeline degraded by fetch failures")
	}
	s.opts.Metrics.RecordPipeline(outcome, time.Since(started).Seconds())

	s.logger.Info().
		Str("wallet", addr).
		Int("window_days", windowDays).
		Int("offset_days", offsetDays).
		Str("tier", string(score.Tier)).
		Int("score", score.Score).
		Dur("took", time.Since(started)).
		Msg("pipeline run complete")

	res := pipelineResult{snapshot: snapshot, score: score, cachedAt: time.Now()}
	s.results.Set(key, res)
	return res, false, nil
}

func (s *Service) recordFetches(normalErr, internalErr, tokenErr, firstSeenErr error) {
	for category, err := range map[string]error{
		"normal":     normalErr,
		"internal":   internalErr,
		"erc20":      tokenErr,
		"first_seen": firstSeenErr,
	} {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.opts.Metrics.RecordFetch(category, outcome)
	}
}

func cacheKey(wallet, profile string, windowDays, offsetDays int) string {
	return fmt.Sprintf("features:%s:%s:%d:%d", strings.ToLower(wallet), profile, windowDays, offsetDays)
}
