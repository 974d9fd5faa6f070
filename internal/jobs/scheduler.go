// Package jobs runs background work on a cron schedule: the daily goal
// cycle rollover.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/walkpal/walkpal/internal/app/companion"
)

// DefaultRolloverSpec fires at local midnight.
const DefaultRolloverSpec = "0 0 * * *"

// Roller closes the current goal cycle. *companion.Service satisfies it.
type Roller interface {
	Rollover(ctx context.Context) (companion.RolloverResult, error)
}

// Scheduler drives the rollover job.
type Scheduler struct {
	cron   *cron.Cron
	roller Roller
	spec   string
	loc    *time.Location
}

// NewScheduler creates a scheduler evaluating spec in loc. An empty spec
// means DefaultRolloverSpec.
func NewScheduler(roller Roller, spec string, loc *time.Location) *Scheduler {
	if spec == "" {
		spec = DefaultRolloverSpec
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		roller: roller,
		spec:   spec,
		loc:    loc,
	}
}

// LoadLocation resolves a configured IANA zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).WithField("timezone", name).Warn("unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

// Start registers the rollover job and starts the cron loop. A catch-up
// rollover runs first so a day missed while stopped is closed right away.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule rollover %q: %w", s.spec, err)
	}
	s.RunOnce(ctx)
	s.cron.Start()
	log.WithFields(log.Fields{"spec": s.spec, "timezone": s.loc.String()}).Info("scheduler started")
	return nil
}

// RunOnce performs one rollover and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	res, err := s.roller.Rollover(ctx)
	if err != nil {
		log.WithError(err).Error("cycle rollover failed")
		return
	}
	if !res.Rolled {
		log.Debug("cycle rollover: nothing to close")
		return
	}
	entry := log.WithFields(log.Fields{
		"prior_cycle":      res.PriorCycle,
		"consecutive_days": res.Streak.ConsecutiveDays,
	})
	if res.StreakMilestone > 0 {
		entry.WithField("milestone", res.StreakMilestone).Info("streak milestone reached")
	}
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("scheduler stopped")
}
