package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/abhisek/certquiz/internal/bankgen"
	"github.com/abhisek/certquiz/internal/config"
	"github.com/abhisek/certquiz/internal/controller"
	"github.com/abhisek/certquiz/internal/history"
	"github.com/abhisek/certquiz/internal/llm"
	"github.com/abhisek/certquiz/internal/pool"
	"github.com/abhisek/certquiz/internal/session"
	"github.com/abhisek/certquiz/internal/store"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Build wires a Controller from cfg. The returned closer releases any
// connection Build opened; st stays owned by the caller.
func Build(ctx context.Context, cfg config.Config, st *store.Store, logger zerolog.Logger) (*controller.Controller, io.Closer, error) {
	slot, closeSlot, err := OpenSlot(ctx, cfg.History, st)
	if err != nil {
		return nil, nil, err
	}

	opts := []history.Option{
		history.WithLogger(logger.With().Str("component", "history").Logger()),
		history.WithKey(cfg.History.Key),
	}
	if cfg.History.AutoExport != "" {
		opts = append(opts, history.WithAutoExport(cfg.History.AutoExport))
	}

	p := pool.New(logger.With().Str("component", "pool").Logger())
	if cfg.Quiz.Bank != "" {
		n, err := p.IngestFile(ctx, cfg.Quiz.Bank)
		if err != nil {
			_ = closeSlot.Close()
			return nil, nil, fmt.Errorf("load question bank %s: %w", cfg.Quiz.Bank, err)
		}
		logger.Info().Str("bank", cfg.Quiz.Bank).Int("questions", n).Msg("question bank loaded")
	}

	var gen *bankgen.Generator
	if cfg.LLM.Enabled() {
		var repo store.EventRepo
		if st != nil {
			repo = st.EventRepo()
		}
		provider, err := llm.NewProvider(ctx, cfg.LLM, repo, logger)
		switch {
		case err == nil:
			gen = bankgen.New(provider, bankgen.DefaultConfig(), logger)
		case errors.Is(err, llm.ErrNotConfigured):
		default:
			logger.Warn().Err(err).Msg("AI generation disabled")
		}
	}

	ctrl := controller.New(controller.Deps{
		Pool:      p,
		History:   history.NewStore(slot, opts...),
		Generator: gen,
		Logger:    logger,
		Defaults:  session.Config{Count: cfg.Quiz.Count, Minutes: cfg.Quiz.Minutes},
	})
	return ctrl, closerFunc(func() error {
		ctrl.Close()
		return closeSlot.Close()
	}), nil
}

// OpenSlot opens the history backend named by cfg.Backend.
func OpenSlot(ctx context.Context, cfg config.History, st *store.Store) (history.Slot, io.Closer, error) {
	nop := closerFunc(func() error { return nil })

	switch cfg.Backend {
	case config.BackendSQLite, "":
		if st == nil {
			return nil, nil, errors.New("sqlite history backend needs an open database")
		}
		return st.Slot(), nop, nil

	case config.BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := store.DataDir()
			if err != nil {
				return nil, nil, err
			}
			dir = d
		}
		slot, err := store.NewFileSlot(dir)
		if err != nil {
			return nil, nil, err
		}
		return slot, nop, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store.NewRedisSlot(client, cfg.Redis.Prefix), client, nil
	}
	return nil, nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
}
