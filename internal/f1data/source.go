// Package f1data fetches race results and standings from upstream F1 providers.
package f1data

import (
	"context"
	"errors"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// Source defines the interface for fetching F1 data from one provider tier.
// Implementations exist for the live APIs, the Postgres snapshot store and the
// static last-resort dataset; the chain tries them in priority order.
type Source interface {
	// LatestRaceResult retrieves the classification of the most recent
	// completed race of the season.
	LatestRaceResult(ctx context.Context, season int) (*models.RaceResult, error)

	// DriverStandings retrieves the current drivers' championship table.
	DriverStandings(ctx context.Context, season int) (*models.Standings, error)

	// PitStops retrieves the pit stops of one race.
	PitStops(ctx context.Context, season, round int) ([]models.PitStop, error)

	// QualifyingResults retrieves the qualifying classification of one race.
	QualifyingResults(ctx context.Context, season, round int) (*models.RaceResult, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// SourceError represents errors from data source operations
type SourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeNotSupported      = "not_supported"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeDisabled          = "disabled"
)

// Error constructors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrNotFound          = errors.New("data not found")
	ErrNotSupported      = errors.New("operation not supported by this source")
	ErrInvalidData       = errors.New("invalid data format")
	ErrNetworkError      = errors.New("network error")
	ErrServerError       = errors.New("server error")
)

// NewSourceError creates a new data source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
