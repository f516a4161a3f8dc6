package filter

import (
	"errors"
	"time"

	"github.com/dharmasatrya/flightmatch/internal/models"
	"github.com/dharmasatrya/flightmatch/internal/window"
)

var ErrNilCriteria = errors.New("filter: nil search criteria")

type Status int

const (
	StatusMatched Status = iota
	StatusNoResults
)

func (s Status) String() string {
	if s == StatusNoResults {
		return "no_results"
	}
	return "matched"
}

type Options struct {
	// MatchTripType additionally requires a record's trip type tag to equal
	// the criteria's trip type.
	MatchTripType bool
}

type Result struct {
	Criteria   models.SearchCriteria
	Outbound   []models.FlightRecord
	Inbound    []models.FlightRecord
	TotalCount int
	Status     Status
}

func (r *Result) Found() bool {
	return r.Status == StatusMatched
}

type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Match returns the records satisfying criteria in their input order. The
// records slice is never modified.
func (e *Engine) Match(criteria *models.SearchCriteria, records []models.FlightRecord, now time.Time) (*Result, error) {
	if criteria == nil {
		return nil, ErrNilCriteria
	}

	result := &Result{
		Criteria: *criteria,
		Outbound: make([]models.FlightRecord, 0),
		Inbound:  make([]models.FlightRecord, 0),
	}

	roundTrip := criteria.IsRoundTrip() && criteria.ReturnDate != nil

	for _, r := range records {
		if e.matchesLeg(r, criteria, criteria.Origin, criteria.Destination, criteria.DepartureDate, now) {
			result.Outbound = append(result.Outbound, r)
		}
		if roundTrip && e.matchesLeg(r, criteria, criteria.Destination, criteria.Origin, *criteria.ReturnDate, now) {
			result.Inbound = append(result.Inbound, r)
		}
	}

	result.TotalCount = len(result.Outbound) + len(result.Inbound)
	if result.TotalCount == 0 {
		result.Status = StatusNoResults
	}

	return result, nil
}

func (e *Engine) matchesLeg(r models.FlightRecord, c *models.SearchCriteria, origin, destination string, date, now time.Time) bool {
	if r.Origin != origin || r.Destination != destination {
		return false
	}

	if r.SeatCapacity < c.NeededSeats {
		return false
	}

	if e.opts.MatchTripType && r.TripType != c.TripType {
		return false
	}

	if r.DepartureAt == nil {
		return false
	}

	return window.InWindow(*r.DepartureAt, date, c.WindowDays, now)
}
