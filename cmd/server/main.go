package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/codehive/server/internal/adapters/http"
	"github.com/codehive/server/internal/adapters/signal"
	"github.com/codehive/server/internal/app"
	"github.com/codehive/server/internal/auth"
	"github.com/codehive/server/internal/bus"
	"github.com/codehive/server/internal/config"
	"github.com/codehive/server/internal/store"
)

func main() {
	ctx, cancel := signalctx()
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	st, err := store.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer st.Close()

	var b *bus.Bus
	if cfg.RedisAddr != "" {
		b, err = bus.New(ctx, cfg.RedisAddr, cfg.RedisDB, uuid.NewString())
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect")
		}
		defer b.Close()
		log.Info().Str("addr", cfg.RedisAddr).Msg("cross-instance bus enabled")
	}

	state := app.NewState()
	deb := app.NewDebouncer(cfg.DebounceWindow, st)
	j := auth.New(cfg.Secret)

	ctl := signal.NewController(cfg, state, deb, st, j, b)
	go ctl.RunBusRelay(ctx)

	r := router.SetupRouter(ctx, cfg, ctl, st, j)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("codehive server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Drain any pending debounced writes before the pool closes.
	deb.Stop()
	log.Info().Msg("server exited gracefully")
}

func signalctx() (context.Context, context.CancelFunc) {
	return ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
