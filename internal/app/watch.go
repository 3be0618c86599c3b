package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chainscore/internal/alerting"
	"chainscore/internal/observability"
	"chainscore/internal/scheduler"
	"chainscore/internal/scoring"
	"chainscore/internal/service"
)

// Watch re-scores a wallet set on a schedule and alerts on deterioration.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	wallets := opts.Wallets
	if len(wallets) == 0 {
		wallets = a.Config.Watch.Wallets
	}
	if len(wallets) == 0 {
		return errors.New("no wallets to watch; pass --wallet or set watch.wallets")
	}

	metrics := observability.NewMetrics()
	svc := a.newService(metrics)
	defer svc.Close()

	notifier := a.newNotifier()
	if a.Config.Alerting.Enabled && notifier == nil {
		a.Logger.Warn().Msg("alerting enabled but no channel configured; alerts will only be logged")
	}

	watcher := &watcher{
		app:      a,
		svc:      svc,
		notifier: notifier,
		profile:  opts.Profile,
		wallets:  wallets,
		last:     make(map[string]service.ScoreOutcome),
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval,
		AlignToStart: a.Config.Watch.AlignToBucket,
		StartupDelay: a.Config.Watch.StartupDelay,
	}, a.Logger)

	a.Logger.Info().
		Int("wallets", len(wallets)).
		Dur("interval", a.Config.Watch.Interval).
		Msg("starting watch loop")

	err := sched.Run(ctx, watcher.tick)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	a.Logger.Info().Msg("watch loop stopped")
	return nil
}

// watcher keeps the last outcome per wallet to detect deterioration.
type watcher struct {
	app      *App
	svc      *service.Service
	notifier alerting.Notifier
	profile  string
	wallets  []string
	last     map[string]service.ScoreOutcome
}

func (w *watcher) tick(ctx context.Context, cycle time.Time) error {
	for _, wallet := range w.wallets {
		outcome, err := w.svc.Score(ctx, wallet, w.profile, 0)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.app.Logger.Error().Err(err).Str("wallet", wallet).Msg("watch scoring failed")
			continue
		}

		key := strings.ToLower(outcome.Wallet)
		prev, seen := w.last[key]
		w.last[key] = outcome
		if !seen {
			w.app.Logger.Info().
				Str("wallet", outcome.Wallet).
				Int("score", outcome.Score.Score).
				Str("tier", string(outcome.Score.Tier)).
				Msg("watch baseline recorded")
			continue
		}

		if reason := w.deteriorated(prev, outcome); reason != "" {
			w.alert(ctx, cycle, prev, outcome, reason)
		}
	}
	return nil
}

// UNKNOWN ranks worst: losing data visibility is itself a deterioration.
var tierRank = map[scoring.Tier]int{
	scoring.TierLow:     0,
	scoring.TierMedium:  1,
	scoring.TierHigh:    2,
	scoring.TierUnknown: 3,
}

func (w *watcher) deteriorated(prev, curr service.ScoreOutcome) string {
	drop := prev.Score.Score - curr.Score.Score
	if w.app.Config.Alerting.MinScoreDrop > 0 && drop >= w.app.Config.Alerting.MinScoreDrop {
		return fmt.Sprintf("score dropped by %d points", drop)
	}
	if tierRank[curr.Score.Tier] > tierRank[prev.Score.Tier] {
		return fmt.Sprintf("tier moved %s -> %s", prev.Score.Tier, curr.Score.Tier)
	}
	return ""
}

func (w *watcher) alert(ctx context.Context, cycle time.Time, prev, curr service.ScoreOutcome, reason string) {
	w.app.Logger.Warn().
		Str("wallet", curr.Wallet).
		Str("reason", reason).
		Int("previous_score", prev.Score.Score).
		Int("current_score", curr.Score.Score).
		Msg("wallet deteriorated")

	if w.notifier == nil || !w.app.Config.Alerting.Enabled {
		return
	}

	note := alerting.Notification{
		Wallet:        curr.Wallet,
		CheckedAt:     cycle,
		PreviousScore: prev.Score.Score,
		CurrentScore:  curr.Score.Score,
		PreviousTier:  string(prev.Score.Tier),
		CurrentTier:   string(curr.Score.Tier),
		Decision:      string(curr.Score.Decision),
		Drivers:       []string{reason},
		Channels:      w.app.Config.Alerting.Channels,
	}
	if err := w.notifier.Notify(ctx, note); err != nil {
		w.app.Logger.Error().Err(err).Str("wallet", curr.Wallet).Msg("alert delivery failed")
	}
}
