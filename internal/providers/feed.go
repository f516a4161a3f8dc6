package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dharmasatrya/flightmatch/internal/models"
	"github.com/dharmasatrya/flightmatch/internal/providers/data"
)

type feedResponse struct {
	Offers []models.SourceRecord `json:"offers"`
}

// FeedProvider serves a fixed list of offers decoded once at startup.
type FeedProvider struct {
	name    string
	records []models.SourceRecord
}

func NewFeedProvider() (*FeedProvider, error) {
	return NewFeedProviderFromJSON("feed", data.Offers)
}

func NewFeedProviderFromJSON(name string, raw []byte) (*FeedProvider, error) {
	var resp feedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode %s feed: %w", name, err)
	}
	return &FeedProvider{name: name, records: resp.Offers}, nil
}

func (p *FeedProvider) Name() string {
	return p.name
}

func (p *FeedProvider) Records(ctx context.Context) ([]models.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.SourceRecord, len(p.records))
	copy(out, p.records)
	return out, nil
}
