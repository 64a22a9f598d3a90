package scroll

import (
	"context"
	"fmt"
	"time"

	"behancedl/pkg/logger"
)

const (
	DefaultStepInterval  = 500 * time.Millisecond
	DefaultCheckInterval = 1000 * time.Millisecond
	DefaultStepHeight    = 500
)

// Scrollable is the part of a page the scroller drives
type Scrollable interface {
	ScrollBy(ctx context.Context, dy int) error
	ScrollOffset(ctx context.Context) (int, error)
}

// Scroller pushes a lazily loading page to its end. A step scrolls down every
// StepInterval; a check every CheckInterval compares the offset with the one
// seen at the previous check. The page is considered fully loaded once the
// offset has been unchanged for budget/CheckInterval consecutive checks.
type Scroller struct {
	StepInterval  time.Duration
	CheckInterval time.Duration
	StepHeight    int

	logger logger.Logger
}

// New creates a Scroller with the default cadence
func New(log logger.Logger) *Scroller {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scroller{
		StepInterval:  DefaultStepInterval,
		CheckInterval: DefaultCheckInterval,
		StepHeight:    DefaultStepHeight,
		logger:        log.WithField("component", "scroller"),
	}
}

// RequiredMatches returns how many consecutive unchanged checks budget buys.
// A budget below one check interval needs none, so the first check ends it.
func (s *Scroller) RequiredMatches(budget time.Duration) int {
	if s.CheckInterval <= 0 {
		return 0
	}
	return int(budget / s.CheckInterval)
}

// ScrollToEnd scrolls page until its offset is stable for the budget window.
// There is no cap on total distance: a page that keeps growing keeps being
// scrolled until ctx is done.
func (s *Scroller) ScrollToEnd(ctx context.Context, page Scrollable, budget time.Duration) error {
	required := s.RequiredMatches(budget)

	last, err := page.ScrollOffset(ctx)
	if err != nil {
		return fmt.Errorf("failed to read initial offset: %w", err)
	}

	s.logger.DebugWithFields("Scrolling to page end", map[string]interface{}{
		"budget":           budget,
		"required_matches": required,
	})

	step := time.NewTicker(s.StepInterval)
	defer step.Stop()
	check := time.NewTicker(s.CheckInterval)
	defer check.Stop()

	start := time.Now()
	matches := 0
	checks := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-step.C:
			if err := page.ScrollBy(ctx, s.StepHeight); err != nil {
				return err
			}

		case <-check.C:
			current, err := page.ScrollOffset(ctx)
			if err != nil {
				return err
			}
			checks++

			if current == last {
				matches++
			} else {
				matches = 0
			}
			last = current

			if matches >= required {
				s.logger.DebugWithFields("Page end reached", map[string]interface{}{
					"offset":   current,
					"checks":   checks,
					"duration": time.Since(start),
				})
				return nil
			}
		}
	}
}
