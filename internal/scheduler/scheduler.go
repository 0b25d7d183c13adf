package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"edition_collector/internal/domain"
)

// Collector runs one collection.
type Collector interface {
	Collect(ctx context.Context, now time.Time) (*domain.RunResult, error)
}

type clock struct {
	hour, minute int
}

// Scheduler fires a collection at fixed local times of day.
type Scheduler struct {
	collector  Collector
	times      []clock
	loc        *time.Location
	runTimeout time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewScheduler parses times in "15:04" form, interpreted in loc.
func NewScheduler(collector Collector, times []string, loc *time.Location, runTimeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("no schedule times")
	}

	clocks := make([]clock, 0, len(times))
	for _, t := range times {
		parsed, err := time.Parse("15:04", t)
		if err != nil {
			return nil, fmt.Errorf("parse schedule time %q: %w", t, err)
		}
		clocks = append(clocks, clock{hour: parsed.Hour(), minute: parsed.Minute()})
	}
	slices.SortFunc(clocks, func(a, b clock) int {
		return (a.hour*60 + a.minute) - (b.hour*60 + b.minute)
	})

	return &Scheduler{
		collector:  collector,
		times:      slices.Compact(clocks),
		loc:        loc,
		runTimeout: runTimeout,
		logger:     logger.With("component", "scheduler"),
		now:        time.Now,
	}, nil
}

// Next returns the first scheduled instant strictly after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	local := t.In(s.loc)
	for day := 0; day <= 1; day++ {
		y, m, d := local.AddDate(0, 0, day).Date()
		for _, c := range s.times {
			at := time.Date(y, m, d, c.hour, c.minute, 0, 0, s.loc)
			if at.After(t) {
				return at
			}
		}
	}
	// Unreachable with at least one time configured.
	return local.Add(24 * time.Hour)
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "times", len(s.times), "timezone", s.loc.String())

	for {
		next := s.Next(s.now())
		s.logger.Info("next collection scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	result, err := s.collector.Collect(runCtx, s.now())
	if err != nil {
		s.logger.Error("scheduled collection failed", "error", err)
		return
	}
	s.logger.Info("scheduled collection finished", "status", result.Status, "articles", result.Articles)
}
