package ports

import (
	"context"
	"time"

	"github.com/kursownik/api/internal/core/domain"
)

// RateRepository stores fetched exchange rates.
type RateRepository interface {
	Insert(ctx context.Context, r *domain.Rate) error
	// Latest returns the most recent rate for currency, or domain.ErrRateUnavailable.
	Latest(ctx context.Context, currency string) (*domain.Rate, error)
	// History returns up to limit rates for the currencies, newest first.
	History(ctx context.Context, currencies []string, limit int) ([]*domain.Rate, error)
	// DeleteBefore removes rates fetched before cutoff and returns how many went.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PaymentRepository stores settled payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
}

// RateCache keeps the latest rate per currency close at hand.
type RateCache interface {
	// Get reports ok=false on a cache miss.
	Get(ctx context.Context, currency string) (rate *domain.Rate, ok bool, err error)
	Set(ctx context.Context, r *domain.Rate) error
}

// PurchaseGuard serialises purchases of the same course by the same user.
type PurchaseGuard interface {
	// Acquire returns false when another purchase holds the lock.
	Acquire(ctx context.Context, userID, courseID string) (bool, error)
	Release(ctx context.Context, userID, courseID string) error
}

// RateProvider fetches the current exchange rate table from upstream.
type RateProvider interface {
	FetchRates(ctx context.Context) ([]domain.Rate, error)
}
