package services

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the recurring triggers. It is built once at process
// start; there are no module-level timers. Runs of the same kind may
// overlap if one is still in flight when the next trigger fires — they
// proceed independently.
type Scheduler struct {
	cron     *cron.Cron
	dispatch *DispatchService
	log      *slog.Logger
}

type jobTrigger struct {
	spec string
	kind JobKind
}

var defaultTriggers = []jobTrigger{
	{"0 21 * * *", JobDailySummary},
	{"0 20 * * *", JobStreakReminder},
	{"0 10 * * *", JobReEngagement},
}

func NewScheduler(dispatch *DispatchService, log *slog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), dispatch: dispatch, log: log}
}

// Start registers the triggers and begins firing them. Registration
// failure is a startup error; the process should not run half-scheduled.
func (s *Scheduler) Start() error {
	for _, t := range defaultTriggers {
		kind := t.kind
		if _, err := s.cron.AddFunc(t.spec, func() {
			s.log.Info("trigger fired", "kind", string(kind))
			if _, err := s.dispatch.RunDispatch(context.Background(), kind); err != nil {
				// the next scheduled trigger is the retry
				s.log.Error("scheduled run abandoned", "kind", string(kind), "error", err)
			}
		}); err != nil {
			return err
		}
	}
	s.cron.Start()
	s.log.Info("notification schedulers started", "triggers", len(defaultTriggers))
	return nil
}

// Stop halts the triggers and returns once in-flight jobs finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
