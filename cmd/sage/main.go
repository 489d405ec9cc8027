package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/groupflow/sage/internal/analyzer"
	"github.com/groupflow/sage/internal/anthropic"
	"github.com/groupflow/sage/internal/api"
	"github.com/groupflow/sage/internal/baseline"
	"github.com/groupflow/sage/internal/bus"
	"github.com/groupflow/sage/internal/cognitive"
	"github.com/groupflow/sage/internal/config"
	"github.com/groupflow/sage/internal/features"
	"github.com/groupflow/sage/internal/health"
	"github.com/groupflow/sage/internal/intervention"
	"github.com/groupflow/sage/internal/profile"
	"github.com/groupflow/sage/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("sage starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Profile storage: Postgres when configured, in-memory otherwise.
	var storage profile.Storage
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		storage = db
		slog.Info("database connected")
	} else {
		storage = profile.NewMemoryStorage()
		slog.Warn("DATABASE_URL not set, profiles will not survive restarts")
	}
	profiles := profile.NewStore(storage)

	// Lexicon
	lexicon := features.DefaultLexicon()
	if cfg.LexiconPath != "" {
		var err error
		lexicon, err = features.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			slog.Error("failed to load lexicon", "path", cfg.LexiconPath, "error", err)
			os.Exit(1)
		}
		slog.Info("lexicon loaded", "path", cfg.LexiconPath)
	}

	// Message composer (optional, decisions fall back to templates)
	var composer intervention.Composer
	if cfg.AnthropicAPIKey != "" {
		llm := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		composer = intervention.NewLLMComposer(llm, slog.Default())
		slog.Info("anthropic composer ready", "model", cfg.AnthropicModel)
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set, using templated intervention messages")
	}

	thresholds := intervention.Thresholds{
		Confusion:        cfg.ConfusionThreshold,
		Stagnation:       cfg.StagnationThreshold,
		LowUnderstanding: cfg.LowUnderstanding,
		DominantShare:    cfg.DominantSpeakerShare,
	}
	engine := intervention.NewEngine(thresholds, composer, cfg.ComposeTimeout, slog.Default())

	weights := health.Weights{
		Confusion:     cfg.HealthConfusionWeight,
		Stagnation:    cfg.HealthStagnationWeight,
		Understanding: cfg.HealthUnderstandingWeight,
	}

	core := analyzer.New(
		baseline.NewClient(cfg.BaselineURL),
		features.NewExtractor(lexicon),
		cognitive.NewEstimator(cognitive.DefaultConfig()),
		profiles,
		engine,
		weights,
		slog.Default(),
	)

	// NATS
	busClient, err := bus.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer busClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	handler := analyzer.NewHandler(core, busClient)
	if err := busClient.Subscribe(bus.SubjectSegmentReady, handler.HandleSegmentReady); err != nil {
		slog.Error("failed to subscribe to segment events", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, core, profiles, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce registration
	if err := busClient.Publish(bus.SubjectAgentRegistered, bus.Registration{
		AgentID:      "sage",
		Role:         "discussion-analysis",
		Capabilities: []string{"segment-analysis", "intervention", "profiles", "insights", "minutes"},
		StartedAt:    time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		slog.Warn("failed to publish registration", "error", err)
	}

	slog.Info("sage ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	core.Wait()
	slog.Info("sage stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
