package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portal/internal/attendance"
	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/handler"
	"portal/internal/logger"
	"portal/internal/schema"
	"portal/internal/session"
	"portal/internal/store"
	"portal/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("invalid config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// app is the wired server plus everything that must be released on exit.
type app struct {
	server  *http.Server
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// newApp opens the database and session backend and builds the HTTP server.
// Background work (the memory session sweeper) stops when ctx is done.
func newApp(ctx context.Context, cfg config.App, log zerolog.Logger) (*app, error) {
	db, err := store.NewDB(cfg.DBDriver, cfg.DatabaseURL, log)
	if db == nil {
		return nil, err
	}
	if err != nil {
		log.Warn().Err(err).Str("db", db.Driver).Msg("db not reachable")
	}
	a := &app{closers: []func() error{db.Close}}

	if cfg.AutoMigrate {
		if err := schema.Apply(db.Client); err != nil {
			a.Close()
			return nil, err
		}
	}

	var (
		sessions       session.Store
		sessionsPinger handler.Pinger
	)
	switch cfg.SessionBackend {
	case "redis":
		rdb := store.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		a.closers = append(a.closers, rdb.Close)
		if !rdb.Healthy(ctx) {
			log.Warn().Str("addr", cfg.RedisAddr).Msg("redis not reachable")
		}
		sessions = session.NewRedis(rdb.Client, "", nil)
		sessionsPinger = rdb
	default:
		mem := session.NewMemory(nil)
		go mem.Run(ctx, cfg.SessionSweepInterval, func(n int) {
			if n > 0 {
				log.Debug().Int("expired", n).Int("live", mem.Len()).Msg("swept sessions")
			}
		})
		sessions = mem
	}

	users := user.NewService(user.NewRepository(db.Client), cfg.BcryptCost)
	signer := auth.Signer{Key: []byte(cfg.SessionSecret), Issuer: cfg.SessionIssuer}
	mgr := auth.NewManager(users, sessions, signer, cfg.SessionTTL, nil)
	att := attendance.NewService(attendance.NewRepository(db.Client), nil)

	r := handler.NewRouter(handler.Options{
		Log:          log,
		Auth:         mgr,
		Users:        users,
		Attendance:   att,
		DB:           db,
		Sessions:     sessionsPinger,
		CookieName:   cfg.SessionCookie,
		SecureCookie: cfg.Production(),
		WebDir:       cfg.WebDir,
		CORSOrigins:  cfg.CORSOrigins,
		HSTS:         cfg.Production(),
	})

	a.server = &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Info().Str("db", db.Driver).Str("sessions", cfg.SessionBackend).Msg("app wired")
	return a, nil
}

func runHTTP(cfg config.App, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info().Msg("shutting down server")

	// give outstanding requests 10 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced shutdown")
	}
	log.Info().Msg("server exited")
	return nil
}
