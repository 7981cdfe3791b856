package ports

import (
	"context"
	"time"

	"github.com/kursownik/api/internal/core/domain"
)

// FetchRatesResult is returned after pulling rates from upstream.
type FetchRatesResult struct {
	FetchedCount int
	Rates        []domain.Rate
	FetchedAt    time.Time
}

// PurchaseInput carries a course purchase request.
type PurchaseInput struct {
	UserID      string
	CourseID    string
	Amount      float64
	Currency    string
	Description string
}

// PurchaseResult describes a settled purchase.
type PurchaseResult struct {
	PaymentID        string
	CourseID         string
	OriginalAmount   float64
	OriginalCurrency string
	PLNAmount        float64
	ExchangeRate     *float64
	Status           string
	ProcessedAt      time.Time
}

// ForexService covers exchange rates and course purchases.
type ForexService interface {
	FetchCurrentRates(ctx context.Context) (*FetchRatesResult, error)
	LatestRates(ctx context.Context) ([]domain.Rate, error)
	// RatesHistory lists rates newest first; an empty currency means every
	// supported currency.
	RatesHistory(ctx context.Context, currency string, limit int) ([]domain.Rate, error)
	PurchaseCourse(ctx context.Context, in PurchaseInput) (*PurchaseResult, error)
	// PruneRates deletes rates fetched before cutoff.
	PruneRates(ctx context.Context, cutoff time.Time) (int64, error)
}
