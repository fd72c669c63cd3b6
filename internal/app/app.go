package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/pulse-social/pulse/internal/comments"
	"github.com/pulse-social/pulse/internal/comments/commentsimpl"
	_ "github.com/pulse-social/pulse/internal/migrations"
	"github.com/pulse-social/pulse/internal/notifier"
	"github.com/pulse-social/pulse/internal/notifier/notifierimpl"
	repositories "github.com/pulse-social/pulse/internal/repositories/fx"
	"github.com/pulse-social/pulse/internal/stories"
	"github.com/pulse-social/pulse/internal/stories/storiesimpl"
	"github.com/pulse-social/pulse/pkg/config"
	"github.com/pulse-social/pulse/pkg/logger"
	"github.com/pulse-social/pulse/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	fx.Provide(
		fx.Annotate(
			notifierimpl.New,
			fx.As(new(notifier.Client)),
		),
		fx.Annotate(
			storiesimpl.New,
			fx.As(new(stories.Client)),
		),
		fx.Annotate(
			commentsimpl.New,
			fx.As(new(comments.Client)),
		),
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(c *config.Config, log logger.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Migrations are registered by the package's init functions; no
	// directory of SQL files exists on disk.
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("Database migrations applied")
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, storiesClient stories.Client, ntf notifier.Client) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, cfg)

			ctx := context.Background()
			if err := storiesClient.ScheduleCleanup(ctx); err != nil {
				log.Error("Story cleanup schedule error", "Error", err)
				ntf.SendAlert("Story cleanup schedule error: " + err.Error())
			}

			return nil
		},
	})
}

func startHttpServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start: %v", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Info("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
