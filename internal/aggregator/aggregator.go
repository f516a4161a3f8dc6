package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dharmasatrya/flightmatch/internal/models"
	"github.com/dharmasatrya/flightmatch/internal/providers"
	"github.com/dharmasatrya/flightmatch/internal/ratelimit"
)

var (
	ErrNoProviders        = errors.New("no record providers configured")
	ErrAllProvidersFailed = errors.New("all record providers failed")
)

type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	RateLimiter *ratelimit.ProviderLimiter
}

type Aggregator struct {
	providers []providers.Provider
	config    Config
}

type Result struct {
	Records            []models.SourceRecord
	ProvidersQueried   int
	ProvidersSucceeded int
	ProvidersFailed    int
	FailedProviders    []string
	Errors             []error
}

func NewAggregator(providerList []providers.Provider, config Config) *Aggregator {
	return &Aggregator{
		providers: providerList,
		config:    config,
	}
}

// Collect queries every provider concurrently. Records are concatenated in
// provider registration order regardless of which provider answers first.
func (a *Aggregator) Collect(ctx context.Context) (*Result, error) {
	if len(a.providers) == 0 {
		return nil, ErrNoProviders
	}

	searchCtx := ctx
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	type providerResult struct {
		records []models.SourceRecord
		err     error
	}

	results := make([]providerResult, len(a.providers))
	var wg sync.WaitGroup

	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, provider providers.Provider) {
			defer wg.Done()

			if a.config.RateLimiter != nil {
				if err := a.config.RateLimiter.Wait(searchCtx, provider.Name()); err != nil {
					results[i] = providerResult{err: err}
					return
				}
			}

			records, err := a.fetchWithRetry(searchCtx, provider)
			results[i] = providerResult{records: records, err: err}
		}(i, p)
	}

	wg.Wait()

	result := &Result{
		Records:          make([]models.SourceRecord, 0),
		ProvidersQueried: len(a.providers),
	}

	for i, pr := range results {
		name := a.providers[i].Name()
		if pr.err != nil {
			slog.Warn("Provider failed", "provider", name, "error", pr.err)
			result.ProvidersFailed++
			result.FailedProviders = append(result.FailedProviders, name)
			result.Errors = append(result.Errors, providers.NewProviderError(name, pr.err))
			continue
		}
		result.ProvidersSucceeded++
		result.Records = append(result.Records, pr.records...)
	}

	if result.ProvidersSucceeded == 0 {
		return result, errors.Join(append([]error{ErrAllProvidersFailed}, result.Errors...)...)
	}

	return result, nil
}

func (a *Aggregator) fetchWithRetry(ctx context.Context, provider providers.Provider) ([]models.SourceRecord, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 && len(a.config.RetryDelays) > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(a.config.RetryDelays) {
				delayIdx = len(a.config.RetryDelays) - 1
			}

			select {
			case <-time.After(a.config.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		records, err := provider.Records(ctx)
		if err == nil {
			return records, nil
		}

		lastErr = err
		slog.Debug("Provider attempt failed", "provider", provider.Name(), "attempt", attempt+1, "error", err)
	}

	return nil, lastErr
}
