// Package google holds thin clients for the Geocoding and Places web APIs.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zfogg/curlmap/backend/internal/metrics"
	"github.com/zfogg/curlmap/backend/internal/telemetry"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "https://maps.googleapis.com/maps/api"
	DefaultRequestsPerSecond = 10
	defaultTimeout           = 10 * time.Second
)

var (
	// ErrMissingAPIKey is returned before any request when no key is configured
	ErrMissingAPIKey = errors.New("google: api key not configured")
	// ErrNoResults means the API answered but found nothing
	ErrNoResults = errors.New("google: no results")
)

// StatusError is a non-OK status reported in a Google response body
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("google: status %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("google: status %s", e.Status)
}

// Config configures a client
type Config struct {
	APIKey            string
	BaseURL           string
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

type client struct {
	service    string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newClient(service string, cfg Config) client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = telemetry.NewInstrumentedHTTPClient(telemetry.HTTPClientConfig{
			ServiceName: service,
			Timeout:     defaultTimeout,
		})
	}

	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}

	return client{
		service:    service,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// getJSON issues a throttled GET against path and decodes the body into out
func (c *client) getJSON(ctx context.Context, operation, path string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	ctx, span := telemetry.TraceExternalCall(ctx, telemetry.ExternalCallAttrs{
		Service:   c.service,
		Operation: operation,
	})
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		telemetry.RecordExternalCallError(span, err, 0)
		return fmt.Errorf("%s throttle: %w", c.service, err)
	}

	params.Set("key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.service, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		telemetry.RecordExternalCallError(span, err, 0)
		metrics.RecordEnrichmentCall(c.service, "error")
		return fmt.Errorf("%s %s: %w", c.service, operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%s %s: unexpected http status %d", c.service, operation, resp.StatusCode)
		telemetry.RecordExternalCallError(span, err, resp.StatusCode)
		metrics.RecordEnrichmentCall(c.service, "error")
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		telemetry.RecordExternalCallError(span, err, resp.StatusCode)
		metrics.RecordEnrichmentCall(c.service, "error")
		return fmt.Errorf("%s %s: decode: %w", c.service, operation, err)
	}

	telemetry.RecordExternalCallSuccess(span, resp.StatusCode, "")
	return nil
}

// checkStatus maps a response status to nil, ErrNoResults or a StatusError
func (c *client) checkStatus(status, message string) error {
	switch status {
	case "OK":
		metrics.RecordEnrichmentCall(c.service, "ok")
		return nil
	case "ZERO_RESULTS", "NOT_FOUND":
		metrics.RecordEnrichmentCall(c.service, "not_found")
		return ErrNoResults
	default:
		metrics.RecordEnrichmentCall(c.service, "error")
		return &StatusError{Status: status, Message: message}
	}
}
