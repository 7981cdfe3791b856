package scheduler

import (
	"context"
	"time"

	"github.com/kursownik/api/internal/core/ports"
)

// DefaultRetention is how long fetched rates are kept by the weekly maintenance.
const DefaultRetention = 90 * 24 * time.Hour

// ForexJobs returns the rate fetch and maintenance jobs.
func ForexJobs(svc ports.ForexService, retention time.Duration, now func() time.Time) []Job {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if now == nil {
		now = time.Now
	}
	fetch := func(ctx context.Context) error {
		_, err := svc.FetchCurrentRates(ctx)
		return err
	}

	return []Job{
		{
			Name:        "Daily Morning Fetch",
			Expr:        MustParse("0 9 * * *"),
			Description: "Fetches currency rates every day at 9:00 AM (NBP working hours)",
			Run:         fetch,
		},
		{
			Name:        "Weekday Afternoon Fetch",
			Expr:        MustParse("0 14 * * 1-5"),
			Description: "Fetches currency rates on weekdays at 2:00 PM for midday updates",
			Run:         fetch,
		},
		{
			Name:        "Weekly Maintenance",
			Expr:        MustParse("0 0 * * 1"),
			Description: "Runs weekly maintenance every Monday at midnight (cleans up old data)",
			Run: func(ctx context.Context) error {
				_, err := svc.PruneRates(ctx, now().Add(-retention))
				return err
			},
		},
	}
}
