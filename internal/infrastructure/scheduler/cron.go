package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Expr is a standard five-field cron expression
// (minute hour day-of-month month day-of-week) together with its source text.
type Expr struct {
	raw      string
	schedule cron.Schedule
}

// Parse parses a cron expression. Descriptors such as @daily are accepted too.
func Parse(spec string) (Expr, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return Expr{}, fmt.Errorf("cron %q: %w", spec, err)
	}
	return Expr{raw: spec, schedule: sched}, nil
}

// MustParse is Parse for expressions known at compile time.
func MustParse(spec string) Expr {
	e, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Expr) String() string { return e.raw }

// Next returns the first activation strictly after t, in t's location. The
// zero time means the expression never fires within the next five years.
func (e Expr) Next(t time.Time) time.Time {
	if e.schedule == nil {
		return time.Time{}
	}
	return e.schedule.Next(t)
}
