package ephemeris

import (
	"context"
	"fmt"
	"strings"
	"time"

	"AstroChart/internal/domain/models"
	apphttp "AstroChart/pkg/http"
)

// Sidecar fetches positions from an external ephemeris HTTP service.
// Concurrent in-flight calls are bounded by a semaphore so a long
// transit scan cannot overwhelm the service.
type Sidecar struct {
	client   *apphttp.Client
	baseURL  string
	sem      chan struct{}
	attempts int
}

// SidecarConfig holds sidecar connection settings.
type SidecarConfig struct {
	BaseURL       string
	Timeout       time.Duration
	MaxInFlight   int
	RetryAttempts int
}

type sidecarResponse struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Speed     float64 `json:"speed"`
}

// NewSidecar creates an HTTP-backed provider.
func NewSidecar(cfg *SidecarConfig) (*Sidecar, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ephemeris: sidecar URL is required")
	}

	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 8
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Sidecar{
		client:   apphttp.NewClient(apphttp.WithTimeout(timeout)),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		sem:      make(chan struct{}, maxInFlight),
		attempts: attempts,
	}, nil
}

func (s *Sidecar) Name() string { return "sidecar" }

func (s *Sidecar) Position(ctx context.Context, body models.Body, instant time.Time) (models.Position, error) {
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-ctx.Done():
		return models.Position{}, ctx.Err()
	}

	opts := &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    s.baseURL + "/position",
		QueryParams: map[string][]string{
			"body":    {string(body)},
			"instant": {instant.UTC().Format(time.RFC3339Nano)},
		},
	}

	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			case <-ctx.Done():
				return models.Position{}, ctx.Err()
			}
		}

		var resp sidecarResponse
		if err := s.client.SendAndParse(ctx, opts, &resp); err != nil {
			lastErr = err
			continue
		}

		return models.Position{
			Longitude: resp.Longitude,
			Latitude:  resp.Latitude,
			Speed:     resp.Speed,
		}, nil
	}

	return models.Position{}, fmt.Errorf("ephemeris sidecar: %w", lastErr)
}
