package providers

import (
	"context"

	"github.com/dharmasatrya/flightmatch/internal/models"
)

// Provider supplies raw offer records. Records must come back in the
// provider's own stable order.
type Provider interface {
	Name() string
	Records(ctx context.Context) ([]models.SourceRecord, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
