// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jeranaias/supportchat/internal/config"
	"github.com/jeranaias/supportchat/internal/llm"
	"github.com/jeranaias/supportchat/internal/server"
	"github.com/jeranaias/supportchat/internal/storage"
)

// shutdownTimeout bounds how long in-flight requests may finish.
const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *Options) *cobra.Command {
	var (
		host      string
		port      int
		staticDir string
		provider  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat proxy server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.Config
			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Server.Host = host
			}
			if flags.Changed("port") {
				cfg.Server.Port = port
			}
			if flags.Changed("static") {
				cfg.Server.StaticDir = staticDir
			}
			if flags.Changed("provider") {
				cfg.Provider.Name = provider
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "address to listen on")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory served at /")
	cmd.Flags().StringVar(&provider, "provider", "", "generative API: gemini, openai or static")
	return cmd
}

// runServer serves until ctx ends, then shuts down gracefully.
func runServer(ctx context.Context, cfg *config.Config) error {
	srv, cleanup, err := buildServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

// buildServer wires the provider and chat history into a server. The
// returned cleanup releases both. A provider that cannot be built leaves
// the server running without one; chat requests then get the fallback
// reply.
func buildServer(ctx context.Context, cfg *config.Config) (*server.Server, func(), error) {
	srv := server.NewServer(cfg.Server).
		WithRecommendations(cfg.Recommendations).
		WithFallbackReply(cfg.Provider.FallbackReply).
		WithProviderTimeout(time.Duration(cfg.Provider.TimeoutSecs) * time.Second).
		WithVersion(Version)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	provider, err := llm.New(ctx, cfg.Provider)
	if err != nil {
		log.Warn().Err(err).Msg("No generative provider available")
	} else {
		srv.WithProvider(provider)
		closers = append(closers, func() {
			if err := llm.Close(provider); err != nil {
				log.Warn().Err(err).Msg("Closing provider failed")
			}
		})
	}

	if cfg.Storage.Enabled {
		store, err := storage.Open(ctx, cfg.Storage.Path)
		if err != nil {
			cleanup()
			return nil, nil, errors.Wrap(err, "open chat history")
		}
		srv.WithStore(store)
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msg("Closing chat history failed")
			}
		})
	}

	return srv, cleanup, nil
}
