package presenter

import (
	"fmt"
	"time"

	"github.com/dharmasatrya/flightmatch/internal/filter"
	"github.com/dharmasatrya/flightmatch/internal/models"
	"github.com/dharmasatrya/flightmatch/pkg/currency"
)

const NoResultsTitle = "No Results Found"

type Presenter struct {
	currency string
}

func New(currencyCode string) *Presenter {
	return &Presenter{currency: currencyCode}
}

func Title(totalCount int) string {
	if totalCount == 0 {
		return NoResultsTitle
	}
	return fmt.Sprintf("Search Result (%d)", totalCount)
}

// Present maps a match result onto the response body. Metadata is left for
// the caller to fill in.
func (p *Presenter) Present(result *filter.Result) models.SearchResponse {
	c := result.Criteria

	criteria := models.SearchCriteriaResponse{
		Origin:        c.Origin,
		Destination:   c.Destination,
		NeededSeats:   c.NeededSeats,
		TripType:      c.TripType,
		DepartureDate: c.DepartureDate.Format(time.DateOnly),
		WindowDays:    c.WindowDays,
	}
	if c.ReturnDate != nil {
		rd := c.ReturnDate.Format(time.DateOnly)
		criteria.ReturnDate = &rd
	}

	title := NoResultsTitle
	if result.Found() {
		title = Title(result.TotalCount)
	}

	return models.SearchResponse{
		SearchCriteria: criteria,
		Title:          title,
		TotalCount:     result.TotalCount,
		ShowInbound:    c.IsRoundTrip(),
		Outbound:       p.flights(result.Outbound),
		Inbound:        p.flights(result.Inbound),
	}
}

func (p *Presenter) flights(records []models.FlightRecord) []models.Flight {
	out := make([]models.Flight, 0, len(records))
	for _, r := range records {
		f := models.Flight{FlightRecord: r}
		if r.Price > 0 {
			f.PriceFormatted = currency.Format(r.Price, p.currency)
		}
		out = append(out, f)
	}
	return out
}
