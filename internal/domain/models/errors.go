package models

import (
	"errors"
	"fmt"
	"time"
)

// InvalidCoordinatesError reports a latitude/longitude outside the valid
// range, or a house system that is undefined at the given latitude.
type InvalidCoordinatesError struct {
	Latitude  float64
	Longitude float64
	Reason    string
}

func (e *InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("invalid coordinates (lat=%.4f lon=%.4f): %s", e.Latitude, e.Longitude, e.Reason)
}

// InvalidTimezoneError reports a zone identifier that cannot be resolved.
type InvalidTimezoneError struct {
	Zone string
	Err  error
}

func (e *InvalidTimezoneError) Error() string {
	return fmt.Sprintf("invalid timezone %q: %v", e.Zone, e.Err)
}

func (e *InvalidTimezoneError) Unwrap() error {
	return e.Err
}

// InvalidConfigurationError reports an unsupported option or option
// combination in the chart configuration.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration (%s): %s", e.Field, e.Reason)
}

// ChartCalculationError reports a provider failure or a calculation that
// could not be completed. Op names the failing step, Body and Instant
// identify the lookup when one triggered the failure.
type ChartCalculationError struct {
	Op      string
	Body    Body
	Instant time.Time
	Err     error
}

func (e *ChartCalculationError) Error() string {
	msg := fmt.Sprintf("chart calculation failed (%s)", e.Op)
	if e.Body != "" {
		msg += fmt.Sprintf(" body=%s", e.Body)
	}
	if !e.Instant.IsZero() {
		msg += fmt.Sprintf(" instant=%s", e.Instant.UTC().Format(time.RFC3339))
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ChartCalculationError) Unwrap() error {
	return e.Err
}

// ErrorKind maps a domain error to a stable machine-readable kind.
func ErrorKind(err error) string {
	var (
		coordErr *InvalidCoordinatesError
		tzErr    *InvalidTimezoneError
		cfgErr   *InvalidConfigurationError
		calcErr  *ChartCalculationError
	)
	switch {
	case errors.As(err, &coordErr):
		return "invalid_coordinates"
	case errors.As(err, &tzErr):
		return "invalid_timezone"
	case errors.As(err, &cfgErr):
		return "invalid_configuration"
	case errors.As(err, &calcErr):
		return "calculation_failed"
	default:
		return "internal"
	}
}
