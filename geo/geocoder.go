package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/configs"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
)

var (
	ErrEmptyAddress = errors.New("address is empty")
	ErrNoResults    = errors.New("address could not be geocoded")
)

// Geocoder turns a free-text address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Point, error)
}

// HTTPGeocoder calls a Google-compatible geocoding endpoint. Every attempt is
// bounded by the configured timeout; network errors and 5xx are retried.
type HTTPGeocoder struct {
	httpClient *http.Client
	cfg        configs.GeocodingConfig
	log        logger.Logger
}

func NewHTTPGeocoder(cfg configs.GeocodingConfig, log logger.Logger) *HTTPGeocoder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 300 * time.Millisecond
	}

	return &HTTPGeocoder{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   cfg.Timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location Point `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

// retryableError marks failures worth another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Point{}, ErrEmptyAddress
	}

	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * g.cfg.RetryBackoff
			select {
			case <-ctx.Done():
				return Point{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		point, err := g.geocodeOnce(ctx, address)
		if err == nil {
			return point, nil
		}
		lastErr = err

		var retry *retryableError
		if !errors.As(err, &retry) {
			return Point{}, err
		}
		g.log.Warn("geocoding attempt failed",
			logger.Int("attempt", attempt+1),
			logger.Error(err),
		)
	}

	return Point{}, fmt.Errorf("geocode after %d attempts: %w", g.cfg.MaxRetries+1, lastErr)
}

func (g *HTTPGeocoder) geocodeOnce(ctx context.Context, address string) (Point, error) {
	u, err := url.Parse(g.cfg.BaseURL)
	if err != nil {
		return Point{}, fmt.Errorf("invalid geocoding base url: %w", err)
	}
	q := u.Query()
	q.Set("address", address)
	if g.cfg.APIKey != "" {
		q.Set("key", g.cfg.APIKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Point{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Point{}, ctx.Err()
		}
		return Point{}, &retryableError{err: fmt.Errorf("call geocoding api: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Point{}, &retryableError{err: fmt.Errorf("geocoding api status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("geocoding api status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Point{}, fmt.Errorf("decode response: %w", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Point{}, ErrNoResults
	default:
		return Point{}, fmt.Errorf("geocoding api returned %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return Point{}, ErrNoResults
	}

	return body.Results[0].Geometry.Location, nil
}
