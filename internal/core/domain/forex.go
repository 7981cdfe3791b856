package domain

import "time"

// BaseCurrency is the currency every payment is settled in.
const BaseCurrency = "PLN"

// PaymentStatusCompleted is the only status a purchase currently ends in.
const PaymentStatusCompleted = "COMPLETED"

// Rate is the mid exchange rate of one currency unit in PLN.
type Rate struct {
	Currency  string    `json:"currencyName"`
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Payment records a settled course purchase.
type Payment struct {
	ID               string
	UserID           string
	CourseID         string
	Title            string
	Description      string
	OriginalAmount   float64
	OriginalCurrency string
	PLNAmount        float64
	ExchangeRate     *float64
	Status           string
	ProcessedAt      time.Time
}
