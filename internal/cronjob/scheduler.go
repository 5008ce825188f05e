package cronjob

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work. The context is cancelled when the
// scheduler stops.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{logger}),
			cron.WithChain(cron.Recover(cronLogger{logger})),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job under a six-field cron spec (seconds first). Runs of
// the same job never overlap.
func (s *Scheduler) Add(name, spec string, job Job) error {
	log := s.logger.With("job", name)
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cronLogger{log})).Then(cron.FuncJob(func() {
		start := time.Now()
		if err := job(s.ctx); err != nil {
			log.Error("job failed", "err", err, "took", time.Since(start))
			return
		}
		log.Info("job done", "took", time.Since(start))
	}))

	if _, err := s.cron.AddJob(spec, wrapped); err != nil {
		return err
	}
	log.Info("job scheduled", "spec", spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cron scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// cronLogger routes cron's own messages to slog. Scheduling chatter and
// skipped runs go to debug; recovered panics are logged as errors.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append([]any{"err", err}, keysAndValues...)...)
}
