package providers

import (
	"context"

	"github.com/dharmasatrya/flightmatch/internal/models"
)

type offerLister interface {
	List(ctx context.Context) ([]models.SourceRecord, error)
}

// SQLiteProvider reads offers from the local offers table.
type SQLiteProvider struct {
	store offerLister
}

func NewSQLiteProvider(store offerLister) *SQLiteProvider {
	return &SQLiteProvider{store: store}
}

func (p *SQLiteProvider) Name() string {
	return "sqlite"
}

func (p *SQLiteProvider) Records(ctx context.Context) ([]models.SourceRecord, error) {
	return p.store.List(ctx)
}
