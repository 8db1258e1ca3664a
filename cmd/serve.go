package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"surplus-food-api/config"
	"surplus-food-api/discovery"
	"surplus-food-api/handlers"
	"surplus-food-api/logging"
	"surplus-food-api/metrics"
	"surplus-food-api/middleware"
	"surplus-food-api/routes"
	"surplus-food-api/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on startup")
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	if cfg.Release() {
		gin.SetMode(gin.ReleaseMode)
		if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
			log.Warn("running in release mode with the default JWT secret")
		}
	}
	if cfg.Discovery.APIKey == "" {
		log.Warn("discovery API key is not set; discovery requests will fail upstream")
	}

	s, err := store.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer s.Close()
	if !skipMigrate {
		if err := s.Migrate(ctx); err != nil {
			return err
		}
	}

	tokens := middleware.NewTokenIssuer(cfg.Auth)
	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	limiter.StartCleanup(10*time.Minute, ctx.Done())
	m := metrics.New()

	router := routes.NewRouter(routes.Deps{
		Config:  cfg,
		Handler: handlers.New(s, tokens, discovery.New(cfg.Discovery), m, cfg),
		Tokens:  tokens,
		Limiter: limiter,
		Metrics: m,
		Log:     log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
