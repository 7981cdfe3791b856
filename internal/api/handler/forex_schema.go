package handler

import (
	"time"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
)

const purchaseMessage = "Course purchased successfully! Premium access granted."

type historyQuery struct {
	Currency string `validate:"omitempty,len=3,alpha"`
	Limit    int    `validate:"min=1,max=100"`
}

type purchaseRequest struct {
	CourseID    string  `json:"courseId"    validate:"required"`
	Amount      float64 `json:"amount"      validate:"required,gt=0"`
	Currency    string  `json:"currency"    validate:"required,len=3,alpha"`
	Description string  `json:"description" validate:"max=500"`
}

type fetchRatesResponse struct {
	FetchedCount int           `json:"fetchedCount"`
	Rates        []domain.Rate `json:"rates"`
	FetchedAt    time.Time     `json:"fetchedAt"`
}

type purchaseResponse struct {
	PaymentID        string    `json:"paymentId"`
	CourseID         string    `json:"courseId"`
	OriginalAmount   float64   `json:"originalAmount"`
	OriginalCurrency string    `json:"originalCurrency"`
	PLNAmount        float64   `json:"plnAmount"`
	ExchangeRate     *float64  `json:"exchangeRate,omitempty"`
	Status           string    `json:"status"`
	ProcessedAt      time.Time `json:"processedAt"`
	Message          string    `json:"message"`
}

type scheduleResponse struct {
	Name        string    `json:"name"`
	Expression  string    `json:"expression"`
	Description string    `json:"description"`
	NextRun     time.Time `json:"nextRun"`
}

type scheduleStatusResponse struct {
	Enabled   bool               `json:"enabled"`
	Schedules []scheduleResponse `json:"schedules"`
}

func toPurchaseResponse(r *ports.PurchaseResult) purchaseResponse {
	return purchaseResponse{
		PaymentID:        r.PaymentID,
		CourseID:         r.CourseID,
		OriginalAmount:   r.OriginalAmount,
		OriginalCurrency: r.OriginalCurrency,
		PLNAmount:        r.PLNAmount,
		ExchangeRate:     r.ExchangeRate,
		Status:           r.Status,
		ProcessedAt:      r.ProcessedAt,
		Message:          purchaseMessage,
	}
}

func toScheduleStatus(s ports.ScheduleStatus) scheduleStatusResponse {
	out := scheduleStatusResponse{Enabled: s.Enabled, Schedules: make([]scheduleResponse, 0, len(s.Schedules))}
	for _, j := range s.Schedules {
		out.Schedules = append(out.Schedules, scheduleResponse{
			Name:        j.Name,
			Expression:  j.Expression,
			Description: j.Description,
			NextRun:     j.NextRun,
		})
	}
	return out
}

func nonNilRates(rates []domain.Rate) []domain.Rate {
	if rates == nil {
		return []domain.Rate{}
	}
	return rates
}
