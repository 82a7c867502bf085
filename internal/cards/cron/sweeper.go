package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/cardfolio/cardfolio-backend/internal/cards/repository"
)

// Sweeper retires designs whose profile has been deleted. Profile deletion
// does not cascade, so orphans accumulate until the nightly run.
type Sweeper struct {
	designs  *repository.DesignRepository
	schedule string
	log      *zap.Logger
	c        *cron.Cron
}

func NewSweeper(designs *repository.DesignRepository, schedule string, log *zap.Logger) *Sweeper {
	return &Sweeper{designs: designs, schedule: schedule, log: log}
}

// Start registers the cron entry and begins the schedule.
func (s *Sweeper) Start() error {
	s.c = cron.New(cron.WithSeconds())

	if _, err := s.c.AddFunc(s.schedule, s.Run); err != nil {
		return err
	}

	s.c.Start()
	s.log.Info("orphan sweep scheduled", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts the schedule. Safe to call before Start.
func (s *Sweeper) Stop() {
	if s.c != nil {
		s.c.Stop()
	}
}

// Run executes one sweep. Exported so an operator endpoint or test can
// trigger it outside the schedule.
func (s *Sweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := s.designs.RetireOrphans(ctx)
	if err != nil {
		s.log.Error("orphan sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("orphan sweep retired designs", zap.Int64("count", n))
	}
}
