package cron

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunJob for unregistered names.
var ErrUnknownJob = errors.New("unknown cron job")

// zapLogger adapts a sugared zap logger to cron.Logger.
type zapLogger struct {
	log *zap.SugaredLogger
}

func (l zapLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l zapLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}

func (d *Deps) logger() *zap.SugaredLogger {
	if d == nil || d.Log == nil {
		return zap.NewNop().Sugar()
	}
	return d.Log
}

// StartCron schedules every registered job and starts the scheduler. Runs
// stop when ctx is cancelled.
func StartCron(ctx context.Context, d *Deps) (*cron.Cron, error) {
	log := d.logger().Named("cron")
	c := cron.New(
		cron.WithLogger(zapLogger{log}),
		cron.WithChain(cron.Recover(zapLogger{log}), cron.SkipIfStillRunning(zapLogger{log})),
	)
	for name, j := range Jobs() {
		sched := j.Schedule
		if sched == "" && d != nil && d.Config != nil {
			sched = d.Config.RefreshSchedule
		}
		run := j.Run
		_, err := c.AddFunc(sched, func() {
			start := time.Now()
			if err := run(ctx, d); err != nil {
				log.Errorw("cron job failed", "job", name, "error", err)
				return
			}
			log.Infow("cron job finished", "job", name, "took", time.Since(start).String())
		})
		if err != nil {
			return nil, errors.Wrapf(err, "register job %s with schedule %q", name, sched)
		}
		log.Infow("cron job scheduled", "job", name, "schedule", sched)
	}
	c.Start()
	return c, nil
}

// RunJob runs one registered job now.
func RunJob(ctx context.Context, name string, d *Deps, args ...string) error {
	j, ok := Jobs()[strings.ToLower(name)]
	if !ok {
		return errors.Wrap(ErrUnknownJob, name)
	}
	return j.Run(ctx, d, args...)
}
