package analysis

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptySymbol    = errors.New("symbol is empty")
	ErrUnknownProfile = errors.New("unknown scoring profile")
	ErrInvalidPeriod  = errors.New("invalid lookback period")
)

// ProviderError means the market-data provider failed or timed out.
type ProviderError struct {
	Symbol string
	Err    error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("could not fetch data for %s", e.Symbol) }

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the call could succeed.
func (e *ProviderError) Retryable() bool { return !errors.Is(e.Err, ErrEmptySymbol) }

// Timeout reports whether the provider exceeded the per-call deadline.
func (e *ProviderError) Timeout() bool { return errors.Is(e.Err, context.DeadlineExceeded) }

// NoDataError means the provider answered but had no bars for the symbol.
type NoDataError struct {
	Symbol string
}

func (e *NoDataError) Error() string { return fmt.Sprintf("could not fetch data for %s", e.Symbol) }

func (e *NoDataError) Retryable() bool { return false }

// IsAnalysisError reports whether err is a ProviderError or NoDataError.
func IsAnalysisError(err error) bool {
	var pe *ProviderError
	var nd *NoDataError
	return errors.As(err, &pe) || errors.As(err, &nd)
}

// IsRetryable reports whether err is an analysis error worth retrying.
func IsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	return errors.As(err, &r) && r.Retryable()
}
