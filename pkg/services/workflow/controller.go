package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/de-tools/relief-atlas/pkg/models/store"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	SyncNow(ctx context.Context) (*store.SyncState, error)
	State(ctx context.Context) (*store.SyncState, error)
}

// DefaultController runs a Runner on a cron schedule. Scheduled runs that
// overlap a run in progress are skipped.
type DefaultController struct {
	runner   *Runner
	schedule cron.Schedule
	spec     string

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewController(runner *Runner, spec string) (*DefaultController, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner is nil")
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("error parsing sync schedule %q: %w", spec, err)
	}

	return &DefaultController{
		runner:   runner,
		schedule: schedule,
		spec:     spec,
	}, nil
}

func (ctrl *DefaultController) Start(ctx context.Context) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if ctrl.running {
		return fmt.Errorf("sync already scheduled for %s", ctrl.runner.Name())
	}

	logger := cronLogger{logger: zerolog.Ctx(ctx).With().Str("source", ctrl.runner.Name()).Logger()}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))
	c.Schedule(ctrl.schedule, cron.FuncJob(func() {
		// Failures are recorded in the sync state.
		_, _ = ctrl.runner.Run(ctx)
	}))
	c.Start()

	ctrl.cron = c
	ctrl.running = true
	zerolog.Ctx(ctx).Info().Str("schedule", ctrl.spec).Msg("report sync scheduled")
	return nil
}

// Stop unschedules the sync and waits for a run in progress, or for ctx.
func (ctrl *DefaultController) Stop(ctx context.Context) error {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if !ctrl.running {
		return fmt.Errorf("sync not scheduled for %s", ctrl.runner.Name())
	}

	done := ctrl.cron.Stop()
	ctrl.cron = nil
	ctrl.running = false

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ctrl *DefaultController) SyncNow(ctx context.Context) (*store.SyncState, error) {
	return ctrl.runner.Run(ctx)
}

func (ctrl *DefaultController) State(ctx context.Context) (*store.SyncState, error) {
	return ctrl.runner.State(ctx)
}

type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
