package fetchers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"moneyviz/internal/config"
	"moneyviz/internal/logger"
	"moneyviz/internal/models"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("resource not found")

// StatusError is a non-2xx API answer.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.Status)
}

// Unwrap maps 404 answers to ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// FinanceFetcher talks to the finance REST API
type FinanceFetcher struct {
	client     *resty.Client
	normalizer *DataNormalizer
	log        *logger.Logger
}

// NewFinanceFetcher creates a fetcher for the API under cfg.APIBaseURL
func NewFinanceFetcher(cfg *config.Config) *FinanceFetcher {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.APIBaseURL, "/"))
	client.SetTimeout(cfg.APITimeout)
	client.SetRetryCount(cfg.APIRetryCount)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetRetryMaxWaitTime(2 * time.Second)
	client.SetHeader("Accept", "application/json")
	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
		return r.StatusCode() >= http.StatusInternalServerError
	})

	return &FinanceFetcher{
		client:     client,
		normalizer: NewDataNormalizer(),
		log:        logger.Component("fetchers"),
	}
}

// do sends one request and decodes a JSON body into out when out is non-nil.
func (f *FinanceFetcher) do(ctx context.Context, method, path string, params map[string]string, body, out interface{}) error {
	req := f.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	if resp.IsError() {
		var apiErr models.APIError
		_ = json.Unmarshal(resp.Body(), &apiErr)
		f.log.Warn("finance API error", logger.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode(),
		})
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode(), Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func (f *FinanceFetcher) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	return f.do(ctx, http.MethodGet, path, params, nil, out)
}

// Summary fetches the asset totals
func (f *FinanceFetcher) Summary(ctx context.Context) (*models.AssetSummary, error) {
	var s models.AssetSummary
	if err := f.get(ctx, "/analytics/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Distribution fetches the asset distribution by type, category and platform
func (f *FinanceFetcher) Distribution(ctx context.Context) (*models.Distribution, error) {
	var d models.Distribution
	if err := f.get(ctx, "/analytics/distribution", nil, &d); err != nil {
		return nil, err
	}
	f.normalizer.NormalizeDistribution(&d)
	return &d, nil
}

// IncomeExpense fetches income and expense aggregates. Empty dates leave the
// range open.
func (f *FinanceFetcher) IncomeExpense(ctx context.Context, start, end string) (*models.IncomeExpense, error) {
	params := map[string]string{}
	if start != "" {
		params["start_date"] = start
	}
	if end != "" {
		params["end_date"] = end
	}
	var ie models.IncomeExpense
	if err := f.get(ctx, "/analytics/income-expense", params, &ie); err != nil {
		return nil, err
	}
	return &ie, nil
}

// Trend fetches the daily asset trend for the last days days
func (f *FinanceFetcher) Trend(ctx context.Context, days int) ([]models.TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	var points []models.TrendPoint
	if err := f.get(ctx, "/analytics/trend", map[string]string{"days": strconv.Itoa(days)}, &points); err != nil {
		return nil, err
	}
	return f.normalizer.NormalizeTrend(points), nil
}

// MonthlyStats fetches per month income and expense
func (f *FinanceFetcher) MonthlyStats(ctx context.Context) (models.MonthlyStats, error) {
	stats := models.MonthlyStats{}
	if err := f.get(ctx, "/analytics/monthly-stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Ratios fetches the financial health ratios
func (f *FinanceFetcher) Ratios(ctx context.Context) (*models.Ratios, error) {
	var r models.Ratios
	if err := f.get(ctx, "/analytics/ratios", nil, &r); err != nil {
		return nil, err
	}
	f.normalizer.NormalizeRatios(&r)
	return &r, nil
}
