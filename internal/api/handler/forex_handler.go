package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/core/ports"
)

const (
	defaultHistoryLimit = 10

	msgBadCurrency = "Currency code must be a 3-letter ISO code (e.g., USD, EUR, GBP)"
	msgBadLimit    = "Limit must be between 1 and 100"
)

// ForexHandler serves exchange rates, the scheduler status, and purchases.
type ForexHandler struct {
	service   ports.ForexService
	scheduler ports.ScheduleReporter
}

func NewForexHandler(service ports.ForexService, scheduler ports.ScheduleReporter) *ForexHandler {
	return &ForexHandler{service: service, scheduler: scheduler}
}

// Fetch handles POST /forex/fetch.
//
// @Summary      Fetch current currency rates
// @Description  Pulls NBP table A and stores the tracked currencies.
// @Tags         forex
// @Produce      json
// @Success      201  {object}  fetchRatesResponse
// @Failure      502  {object}  errorResponse
// @Router       /forex/fetch [post]
func (h *ForexHandler) Fetch(c echo.Context) error {
	res, err := h.service.FetchCurrentRates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fetchRatesResponse{
		FetchedCount: res.FetchedCount,
		Rates:        nonNilRates(res.Rates),
		FetchedAt:    res.FetchedAt,
	})
}

// Latest handles GET /forex/latest.
//
// @Summary      Latest rate per tracked currency
// @Tags         forex
// @Produce      json
// @Success      200  {array}  domain.Rate
// @Router       /forex/latest [get]
func (h *ForexHandler) Latest(c echo.Context) error {
	rates, err := h.service.LatestRates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilRates(rates))
}

// History handles GET /forex/history.
//
// @Summary      Rate history, newest first
// @Tags         forex
// @Produce      json
// @Param        currency  query     string  false  "ISO currency code"  example(USD)
// @Param        limit     query     int     false  "1 to 100, default 10"
// @Success      200       {array}   domain.Rate
// @Failure      400       {object}  errorResponse
// @Router       /forex/history [get]
func (h *ForexHandler) History(c echo.Context) error {
	q := historyQuery{Limit: defaultHistoryLimit}
	err := echo.QueryParamsBinder(c).
		String("currency", &q.Currency).
		Int("limit", &q.Limit).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgBadLimit)
	}
	if err := c.Validate(&q); err != nil {
		if q.Limit < 1 || q.Limit > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, msgBadLimit)
		}
		return echo.NewHTTPError(http.StatusBadRequest, msgBadCurrency)
	}

	rates, err := h.service.RatesHistory(c.Request().Context(), strings.ToUpper(q.Currency), q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNilRates(rates))
}

// ScheduleStatus handles GET /forex/schedule/status.
//
// @Summary      Scheduled rate jobs and their next run
// @Tags         forex
// @Produce      json
// @Success      200  {object}  scheduleStatusResponse
// @Router       /forex/schedule/status [get]
func (h *ForexHandler) ScheduleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, toScheduleStatus(h.scheduler.Status()))
}

// Purchase handles POST /forex/purchase.
//
// @Summary      Purchase premium access to a course
// @Description  Non-PLN amounts are converted with the latest stored rate.
// @Tags         forex
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      purchaseRequest  true  "Purchase"
// @Success      201   {object}  purchaseResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /forex/purchase [post]
func (h *ForexHandler) Purchase(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req purchaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.PurchaseCourse(c.Request().Context(), ports.PurchaseInput{
		UserID:      caller.ID,
		CourseID:    req.CourseID,
		Amount:      req.Amount,
		Currency:    strings.ToUpper(req.Currency),
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPurchaseResponse(res))
}
