// Package providers implements LLM provider adapters behind circuit
// breakers, response normalization, and failover selection.
package providers

import (
	"errors"
	"fmt"
)

// ErrNoProviderAvailable is returned when every configured provider is
// circuit-open and none is due for a recovery probe. Callers must not
// substitute a fabricated score at this layer.
var ErrNoProviderAvailable = errors.New("no LLM provider available")

// ErrorKind classifies a provider call failure.
type ErrorKind string

// Provider failure kinds.
const (
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindRateLimited       ErrorKind = "rate_limited"
	KindTimeout           ErrorKind = "timeout"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnknown           ErrorKind = "unknown"
)

// ProviderError is a classified failure from a specific provider.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err as a classified provider failure.
func NewProviderError(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}
