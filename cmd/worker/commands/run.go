package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nepfy/nepfy-backend/config"
	"github.com/nepfy/nepfy-backend/internal/cronjob"
	"github.com/nepfy/nepfy-backend/internal/logging"
	notifrepo "github.com/nepfy/nepfy-backend/internal/notifications/repository"
	notifsvc "github.com/nepfy/nepfy-backend/internal/notifications/service"
	"github.com/nepfy/nepfy-backend/internal/storage/postgres"
)

// Every night at 03:00.
const defaultPurgeSpec = "0 0 3 * * *"

// Purger removes read notifications older than the retention window.
type Purger interface {
	PurgeRead(ctx context.Context, retention time.Duration) (int64, error)
}

func purgeJob(p Purger, retention time.Duration) cronjob.Job {
	return func(ctx context.Context) error {
		n, err := p.PurgeRead(ctx, retention)
		if err != nil {
			return err
		}
		logging.FromContext(ctx).Info("purged read notifications", "count", n, "retention", retention)
		return nil
	}
}

func RunCommand() *cobra.Command {
	var purgeSpec string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduled jobs until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Init(cfg.App.Environment, cfg.App.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pool, err := postgres.NewPool(ctx, &cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			notifications := notifsvc.NewService(notifrepo.NewRepo(pool))

			sched := cronjob.NewScheduler(slog.Default())
			if err := sched.Add("purge-read-notifications", purgeSpec, purgeJob(notifications, cfg.App.NotificationRetention)); err != nil {
				return err
			}

			sched.Start()
			slog.Info("worker started", "purge_spec", purgeSpec)
			<-ctx.Done()

			slog.Info("worker stopping")
			sched.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&purgeSpec, "purge-spec", defaultPurgeSpec, "cron spec (with seconds) for the notification purge")
	return cmd
}
