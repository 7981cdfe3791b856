package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/core/domain"
	"github.com/kursownik/api/internal/core/ports"
)

func TestForexHandler_Fetch(t *testing.T) {
	at := time.Date(2025, 9, 20, 10, 30, 0, 0, time.UTC)
	stub := &stubForexService{
		fetchFn: func(ctx context.Context) (*ports.FetchRatesResult, error) {
			return &ports.FetchRatesResult{
				FetchedCount: 1,
				Rates:        []domain.Rate{{Currency: "USD", Rate: 3.6, FetchedAt: at}},
				FetchedAt:    at,
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/forex/fetch", "", nil)

	if err := NewForexHandler(stub, stubReporter{}).Fetch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	rates, _ := resp["rates"].([]any)
	if resp["fetchedCount"] != float64(1) || len(rates) != 1 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if rate := rates[0].(map[string]any); rate["currencyName"] != "USD" {
		t.Fatalf("unexpected rate: %+v", rate)
	}
}

func TestForexHandler_Fetch_Upstream(t *testing.T) {
	stub := &stubForexService{
		fetchFn: func(ctx context.Context) (*ports.FetchRatesResult, error) { return nil, domain.ErrRatesUpstream },
	}
	c, _ := newContext(http.MethodPost, "/forex/fetch", "", nil)

	if err := NewForexHandler(stub, stubReporter{}).Fetch(c); !errors.Is(err, domain.ErrRatesUpstream) {
		t.Fatalf("expected ErrRatesUpstream, got %v", err)
	}
}

func TestForexHandler_History_Defaults(t *testing.T) {
	stub := &stubForexService{
		historyFn: func(ctx context.Context, currency string, limit int) ([]domain.Rate, error) {
			if currency != "" || limit != 10 {
				t.Fatalf("unexpected args: %q %d", currency, limit)
			}
			return nil, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/forex/history", "", nil)

	if err := NewForexHandler(stub, stubReporter{}).History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestForexHandler_History_UppercasesCurrency(t *testing.T) {
	stub := &stubForexService{
		historyFn: func(ctx context.Context, currency string, limit int) ([]domain.Rate, error) {
			if currency != "EUR" || limit != 5 {
				t.Fatalf("unexpected args: %q %d", currency, limit)
			}
			return []domain.Rate{{Currency: "EUR", Rate: 4.25}}, nil
		},
	}
	c, _ := newContext(http.MethodGet, "/forex/history?currency=eur&limit=5", "", nil)

	if err := NewForexHandler(stub, stubReporter{}).History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestForexHandler_History_Validation(t *testing.T) {
	stub := &stubForexService{
		historyFn: func(ctx context.Context, currency string, limit int) ([]domain.Rate, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	tests := []struct {
		query string
		msg   string
	}{
		{"?currency=US", msgBadCurrency},
		{"?currency=U1D", msgBadCurrency},
		{"?limit=0", msgBadLimit},
		{"?limit=101", msgBadLimit},
		{"?limit=ten", msgBadLimit},
	}
	for _, tt := range tests {
		c, _ := newContext(http.MethodGet, "/forex/history"+tt.query, "", nil)
		err := NewForexHandler(stub, stubReporter{}).History(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", tt.query, err)
		}
		if he.Message != tt.msg {
			t.Fatalf("%s: expected %q, got %v", tt.query, tt.msg, he.Message)
		}
	}
}

func TestForexHandler_ScheduleStatus(t *testing.T) {
	next := time.Date(2025, 9, 22, 9, 0, 0, 0, time.UTC)
	reporter := stubReporter{status: ports.ScheduleStatus{
		Enabled: true,
		Schedules: []ports.JobSchedule{
			{Name: "Daily Morning Fetch", Expression: "0 9 * * *", NextRun: next},
		},
	}}
	c, rec := newContext(http.MethodGet, "/forex/schedule/status", "", nil)

	if err := NewForexHandler(&stubForexService{}, reporter).ScheduleStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp scheduleStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Enabled || len(resp.Schedules) != 1 || !resp.Schedules[0].NextRun.Equal(next) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestForexHandler_Purchase(t *testing.T) {
	rate := 4.0
	stub := &stubForexService{
		purchaseFn: func(ctx context.Context, in ports.PurchaseInput) (*ports.PurchaseResult, error) {
			if in.UserID != alice.ID || in.CourseID != "c1" || in.Currency != "USD" || in.Amount != 10 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.PurchaseResult{
				PaymentID:        "p1",
				CourseID:         in.CourseID,
				OriginalAmount:   in.Amount,
				OriginalCurrency: in.Currency,
				PLNAmount:        40,
				ExchangeRate:     &rate,
				Status:           domain.PaymentStatusCompleted,
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/forex/purchase", `{"courseId":"c1","amount":10,"currency":"usd"}`, &alice)

	if err := NewForexHandler(stub, stubReporter{}).Purchase(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp purchaseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.PLNAmount != 40 || resp.Message != purchaseMessage || resp.ExchangeRate == nil {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestForexHandler_Purchase_Validation(t *testing.T) {
	stub := &stubForexService{
		purchaseFn: func(ctx context.Context, in ports.PurchaseInput) (*ports.PurchaseResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	bodies := []string{
		`{"courseId":"c1","amount":0,"currency":"USD"}`,
		`{"courseId":"c1","amount":-5,"currency":"USD"}`,
		`{"courseId":"c1","amount":5,"currency":"DOLLAR"}`,
		`{"amount":5,"currency":"USD"}`,
	}
	for _, body := range bodies {
		c, _ := newContext(http.MethodPost, "/forex/purchase", body, &alice)
		if code := httpCode(NewForexHandler(stub, stubReporter{}).Purchase(c)); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, code)
		}
	}
}

func TestForexHandler_Purchase_InProgress(t *testing.T) {
	stub := &stubForexService{
		purchaseFn: func(ctx context.Context, in ports.PurchaseInput) (*ports.PurchaseResult, error) {
			return nil, domain.ErrPurchaseInProgress
		},
	}
	c, _ := newContext(http.MethodPost, "/forex/purchase", `{"courseId":"c1","amount":10,"currency":"PLN"}`, &alice)

	if err := NewForexHandler(stub, stubReporter{}).Purchase(c); !errors.Is(err, domain.ErrPurchaseInProgress) {
		t.Fatalf("expected ErrPurchaseInProgress, got %v", err)
	}
}
