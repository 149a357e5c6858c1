// Package app assembles the store, usage recorder, completion client and
// feature orchestrators from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/config"
	"github.com/abhisek/tinysteps/internal/grading"
	"github.com/abhisek/tinysteps/internal/lessons"
	"github.com/abhisek/tinysteps/internal/llm"
	"github.com/abhisek/tinysteps/internal/logger"
	"github.com/abhisek/tinysteps/internal/stem"
	"github.com/abhisek/tinysteps/internal/store"
	"github.com/abhisek/tinysteps/internal/usage"
)

// App holds every long-lived dependency. Close releases them.
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	Store    *store.Store
	Recorder *usage.Recorder
	Client   *ai.Client

	Lessons *lessons.Generator
	Grader  *grading.Grader
	STEM    *stem.Generator

	closers []func() error
}

// Options overrides parts of the assembly, mainly for tests.
type Options struct {
	// Provider replaces the configured completion provider.
	Provider llm.Provider
	// Storage replaces the configured usage storage.
	Storage usage.Storage
}

// New opens the store and builds the services. A missing or broken
// provider configuration is not an error: AI features report themselves
// unavailable instead.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	log = logger.OrNop(log)
	a := &App{Config: cfg, Log: log}

	dsn, err := cfg.ResolveDSN()
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(cfg.DB.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.Store = st
	a.closers = append(a.closers, st.Close)

	storage := opts.Storage
	if storage == nil {
		storage, err = a.usageStorage(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	recOpts := []usage.Option{usage.WithLogger(log)}
	if storage != nil {
		recOpts = append(recOpts, usage.WithStorage(storage))
	}
	a.Recorder = usage.NewRecorder(recOpts...)
	// The recorder flushes before its storage and the store close.
	a.closers = append([]func() error{func() error { a.Recorder.Close(); return nil }}, a.closers...)
	if err := a.Recorder.Load(ctx); err != nil {
		log.Warn("usage history unavailable, saving waits until it loads", "error", err)
	}

	provider := opts.Provider
	switch {
	case provider != nil:
	case cfg.LLMConfigured:
		provider, err = llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
		if err != nil {
			log.Warn("LLM provider setup failed, AI features unavailable", "provider", cfg.LLM.Provider, "error", err)
			provider = nil
		}
	default:
		log.Warn("no LLM credential found, AI features unavailable")
	}

	a.Client = ai.NewClient(provider, a.Recorder, ai.WithLogger(log))
	a.Lessons = lessons.NewGenerator(a.Client, st.Lessons(), lessons.WithLogger(log))
	a.Grader = grading.NewGrader(a.Client, st.Submissions(),
		grading.WithLogger(log),
		grading.WithConcurrency(cfg.Grading.BatchConcurrency))
	a.STEM = stem.NewGenerator(a.Client, stem.WithLogger(log))
	return a, nil
}

func (a *App) usageStorage(ctx context.Context) (usage.Storage, error) {
	switch a.Config.Usage.Backend {
	case config.UsageMemory:
		return nil, nil
	case config.UsageRedis:
		rs, err := usage.DialRedisStorage(ctx, a.Config.Usage.RedisAddr, a.Config.Usage.RedisKey)
		if err != nil {
			return nil, fmt.Errorf("connect usage redis: %w", err)
		}
		a.closers = append([]func() error{rs.Close}, a.closers...)
		return rs, nil
	default:
		path, err := a.Config.UsagePath()
		if err != nil {
			return nil, fmt.Errorf("resolve usage path: %w", err)
		}
		return usage.NewFileStorage(path), nil
	}
}

// Close flushes usage and releases connections in reverse dependency order.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
