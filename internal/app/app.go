package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"chainscore/internal/alerting"
	"chainscore/internal/config"
	"chainscore/internal/explorer"
	"chainscore/internal/observability"
	"chainscore/internal/scoring"
	"chainscore/internal/server"
	"chainscore/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newSource() explorer.Source {
	return explorer.NewClient(explorer.Options{
		BaseURL:     a.Config.Explorer.BaseURL,
		ChainID:     a.Config.Explorer.ChainID,
		APIKey:      a.Config.Explorer.APIKey,
		PageSize:    a.Config.Explorer.PageSize,
		MaxPages:    a.Config.Explorer.MaxPages,
		MinInterval: a.Config.Explorer.MinInterval,
		MaxRetries:  a.Config.Explorer.MaxRetries,
		BackoffBase: a.Config.Explorer.BackoffBase,
		Timeout:     a.Config.Explorer.RequestTimeout,
		UserAgent:   a.Config.Explorer.UserAgent,
	}, a.Logger)
}

func (a *App) policy() scoring.Policy {
	policy := scoring.DefaultPolicy()
	if a.Config.Scoring.MinWalletAgeDays > 0 {
		policy.MinWalletAgeDays = a.Config.Scoring.MinWalletAgeDays
	}
	return policy
}

func (a *App) newService(metrics *observability.Metrics) *service.Service {
	return service.New(service.Options{
		Source:         a.newSource(),
		Policy:         a.policy(),
		CacheTTL:       a.Config.Cache.TTL,
		WindowDays:     a.Config.Scoring.WindowDays,
		DefaultProfile: a.Config.Scoring.DefaultProfile,
		Workers:        a.Config.Scoring.Workers,
		Metrics:        metrics,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// Serve runs the HTTP API until interrupted.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := observability.NewMetrics()
	svc := a.newService(metrics)
	defer svc.Close()

	srv := server.New(server.Options{
		Listen:          a.Config.Server.Listen,
		ReadTimeout:     a.Config.Server.ReadTimeout,
		WriteTimeout:    a.Config.Server.WriteTimeout,
		ShutdownTimeout: a.Config.Server.ShutdownTimeout,
	}, svc, metrics, a.Logger)

	a.Logger.Info().Str("listen", a.Config.Server.Listen).Msg("starting api server")
	err := srv.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("server terminated with error")
		return err
	}

	a.Logger.Info().Msg("api server stopped")
	return nil
}

// ScoreOptions configure one-shot wallet scoring.
type ScoreOptions struct {
	Wallet     string
	Profile    string
	WindowDays int
	JSON       bool
}

// FeatureOptions configure feature extraction without scoring.
type FeatureOptions struct {
	Wallet     string
	Profile    string
	WindowDays int
	OffsetDays int
	JSON       bool
}

// CompareOptions configure head-to-head wallet comparison.
type CompareOptions struct {
	WalletA    string
	WalletB    string
	Profile    string
	WindowDays int
	JSON       bool
}

// TrajectoryOptions configure trend analysis.
type TrajectoryOptions struct {
	Wallet     string
	Profile    string
	WindowDays int
	JSON       bool
}

// ReportOptions configure scorecard generation.
type ReportOptions struct {
	Wallet     string
	Profile    string
	WindowDays int
	CSVPath    string
	PNGPath    string
}

// WatchOptions configure the periodic re-scoring loop.
type WatchOptions struct {
	Wallets []string
	Profile string
}

// SimulateOptions describe a synthetic wallet snapshot scored offline.
type SimulateOptions struct {
	Profile              string
	WindowDays           int
	WalletAgeDays        int
	ActiveDays           int
	UniqueTokens         int
	UniqueCounterparties int
	StablecoinRatio      float64
	NormalTxCount        int
	InternalTxCount      int
	ERC20TxCount         int
	Truncated            bool
	JSON                 bool
}
