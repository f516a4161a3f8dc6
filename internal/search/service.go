package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dharmasatrya/flightmatch/internal/aggregator"
	"github.com/dharmasatrya/flightmatch/internal/extractor"
	"github.com/dharmasatrya/flightmatch/internal/filter"
	"github.com/dharmasatrya/flightmatch/internal/models"
	"github.com/dharmasatrya/flightmatch/internal/presenter"
	"github.com/dharmasatrya/flightmatch/internal/validator"
)

// RecordSource supplies the raw offers a search runs over.
type RecordSource interface {
	Collect(ctx context.Context) (*aggregator.Result, error)
}

type Config struct {
	Validator validator.Config
	Extractor extractor.Config
	Engine    filter.Options
	Currency  string
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Service runs validate, load, extract, match and present for one request.
// It holds no per-request state.
type Service struct {
	source    RecordSource
	validator *validator.CriteriaValidator
	extractor *extractor.Extractor
	engine    *filter.Engine
	presenter *presenter.Presenter
	now       func() time.Time
}

func NewService(source RecordSource, cfg Config) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		source:    source,
		validator: validator.New(cfg.Validator),
		extractor: extractor.New(cfg.Extractor),
		engine:    filter.NewEngine(cfg.Engine),
		presenter: presenter.New(cfg.Currency),
		now:       clock,
	}
}

// Validate runs the validation pass only.
func (s *Service) Validate(raw models.SearchRequest) models.ValidationErrors {
	_, errs := s.validator.Validate(raw, s.now())
	return errs
}

// Search returns models.ValidationErrors when the request is invalid.
func (s *Service) Search(ctx context.Context, raw models.SearchRequest) (*models.SearchResponse, error) {
	now := s.now()
	criteria, errs := s.validator.Validate(raw, now)
	if len(errs) > 0 {
		return nil, errs
	}
	return s.run(ctx, criteria, now)
}

func (s *Service) run(ctx context.Context, criteria *models.SearchCriteria, now time.Time) (*models.SearchResponse, error) {
	startTime := time.Now()

	collected, err := s.source.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect records: %w", err)
	}

	records := s.extractor.ExtractAll(collected.Records)

	result, err := s.engine.Match(criteria, records, now)
	if err != nil {
		return nil, fmt.Errorf("match records: %w", err)
	}

	resp := s.presenter.Present(result)
	resp.Metadata = models.SearchMetadata{
		TotalResults:       result.TotalCount,
		ProvidersQueried:   collected.ProvidersQueried,
		ProvidersSucceeded: collected.ProvidersSucceeded,
		ProvidersFailed:    collected.ProvidersFailed,
		FailedProviders:    collected.FailedProviders,
		RecordsScanned:     len(records),
		SearchTimeMs:       time.Since(startTime).Milliseconds(),
	}

	slog.Info("Search completed",
		"origin", criteria.Origin,
		"destination", criteria.Destination,
		"trip_type", criteria.TripType,
		"status", result.Status.String(),
		"outbound", len(result.Outbound),
		"inbound", len(result.Inbound),
		"records_scanned", len(records),
	)

	return &resp, nil
}
