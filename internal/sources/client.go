// internal/sources/client.go
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/javajoker/cardshop/internal/config"
)

// unknownPrice stands in for a missing price when applying the ceiling.
var unknownPrice = decimal.NewFromInt(999999)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
}

type httpClient struct {
	http      *http.Client
	userAgent string
}

func newHTTPClient(cfg config.SourcesConfig) *httpClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &httpClient{
		http:      &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

func (c *httpClient) getJSON(ctx context.Context, url string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// withinCeiling reports whether 0 < price <= ceiling. Unparseable prices are rejected.
func withinCeiling(price *string, ceiling decimal.Decimal) bool {
	p := unknownPrice
	if price != nil && *price != "" {
		var err error
		if p, err = decimal.NewFromString(*price); err != nil {
			return false
		}
	}
	return p.IsPositive() && p.LessThanOrEqual(ceiling)
}
