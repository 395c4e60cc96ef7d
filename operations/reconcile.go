package operations

import (
	"context"
	"sync"
	"time"

	studio "github.com/Roisin-M/Yoga-Studio-Mangement-API"
	"github.com/Roisin-M/Yoga-Studio-Mangement-API/model"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/recovery"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

// startReconcileJob schedules the back-reference reconciliation pass at
// the configured interval. It returns a function that stops the schedule;
// with no interval configured nothing is scheduled.
func startReconcileJob(ctx context.Context, env studio.Environment) (func(), error) {
	interval := env.Settings().Links.ReconcileInterval
	if interval == "" {
		return func() {}, nil
	}
	if _, err := time.ParseDuration(interval); err != nil {
		return nil, errors.Wrapf(err, "parsing reconcile interval '%s'", interval)
	}

	job := &reconcileJob{env: env}
	c := cron.New()
	if err := c.AddFunc("@every "+interval, func() { job.run(ctx) }); err != nil {
		return nil, errors.Wrap(err, "adding reconcile job")
	}
	c.Start()

	grip.Info(message.Fields{
		"message":  "scheduled link reconciliation",
		"interval": interval,
	})
	return c.Stop, nil
}

type reconcileJob struct {
	env studio.Environment
	mu  sync.Mutex
}

// run skips the pass when the previous one is still going.
func (j *reconcileJob) run(ctx context.Context) {
	defer recovery.LogStackTraceAndContinue("link reconciliation")

	if !j.mu.TryLock() {
		grip.Info("previous link reconciliation still running, skipping")
		return
	}
	defer j.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	_, err := model.ReconcileClassLinks(ctx, j.env.Store())
	grip.Error(message.WrapError(err, message.Fields{
		"message": "link reconciliation failed",
	}))
}
