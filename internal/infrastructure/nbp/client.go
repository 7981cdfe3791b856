// Package nbp reads average exchange rates (table A) from the National Bank
// of Poland API.
package nbp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kursownik/api/internal/core/domain"
)

const (
	DefaultBaseURL = "https://api.nbp.pl/api/exchangerates"
	defaultTimeout = 10 * time.Second
)

var errEmptyTable = errors.New("nbp: empty rate table")

type table struct {
	Table         string `json:"table"`
	No            string `json:"no"`
	EffectiveDate string `json:"effectiveDate"`
	Rates         []struct {
		Currency string  `json:"currency"`
		Code     string  `json:"code"`
		Mid      float64 `json:"mid"`
	} `json:"rates"`
}

// Client fetches table A. It implements ports.RateProvider.
type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FetchRates returns every rate of the current table. FetchedAt is left to
// the caller.
func (c *Client) FetchRates(ctx context.Context) ([]domain.Rate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tables/a?format=json", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nbp: unexpected status %s", readErrorBody(resp))
	}

	var tables []table
	if err := json.NewDecoder(resp.Body).Decode(&tables); err != nil {
		return nil, fmt.Errorf("nbp: decode response: %w", err)
	}
	if len(tables) == 0 || len(tables[0].Rates) == 0 {
		return nil, errEmptyTable
	}

	rates := make([]domain.Rate, 0, len(tables[0].Rates))
	for _, r := range tables[0].Rates {
		rates = append(rates, domain.Rate{Currency: strings.ToUpper(r.Code), Rate: r.Mid})
	}
	return rates, nil
}

func drainAndClose(r io.ReadCloser) {
	_, _ = io.Copy(io.Discard, r)
	r.Close()
}

func readErrorBody(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, string(body))
}
