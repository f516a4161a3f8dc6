package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightmatch/internal/models"
	"github.com/dharmasatrya/flightmatch/internal/window"
)

var (
	now   = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	today = window.StartOfDay(now, time.UTC)
)

func at(days, hour int) *time.Time {
	t := today.AddDate(0, 0, days).Add(time.Duration(hour) * time.Hour)
	return &t
}

func record(id, origin, destination string, seats int, departure *time.Time) models.FlightRecord {
	return models.FlightRecord{
		ID:           id,
		Origin:       origin,
		Destination:  destination,
		SeatCapacity: seats,
		DepartureAt:  departure,
		TripType:     models.TripOneWay,
	}
}

func oneWayCriteria() *models.SearchCriteria {
	return &models.SearchCriteria{
		Origin:        "nyc",
		Destination:   "lax",
		NeededSeats:   2,
		TripType:      models.TripOneWay,
		DepartureDate: today.AddDate(0, 0, 5),
		WindowDays:    9,
	}
}

func TestMatch_SingleOneWay(t *testing.T) {
	rec := record("f1", "nyc", "lax", 3, at(5, 14))

	result, err := NewEngine(Options{}).Match(oneWayCriteria(), []models.FlightRecord{rec}, now)

	require.NoError(t, err)
	if diff := cmp.Diff([]models.FlightRecord{rec}, result.Outbound); diff != "" {
		t.Errorf("outbound mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, result.Inbound)
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, StatusMatched, result.Status)
	assert.True(t, result.Found())
}

func TestMatch_NotEnoughSeats(t *testing.T) {
	criteria := oneWayCriteria()
	criteria.NeededSeats = 4
	rec := record("f1", "nyc", "lax", 3, at(5, 14))

	result, err := NewEngine(Options{}).Match(criteria, []models.FlightRecord{rec}, now)

	require.NoError(t, err)
	assert.Empty(t, result.Outbound)
	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, StatusNoResults, result.Status)
	assert.False(t, result.Found())
}

func TestMatch_RoundTripInbound(t *testing.T) {
	criteria := oneWayCriteria()
	criteria.TripType = models.TripRound
	ret := criteria.DepartureDate.AddDate(0, 0, 2)
	criteria.ReturnDate = &ret

	back := record("r1", "lax", "nyc", 5, &ret)

	result, err := NewEngine(Options{}).Match(criteria, []models.FlightRecord{back}, now)

	require.NoError(t, err)
	assert.Empty(t, result.Outbound)
	require.Len(t, result.Inbound, 1)
	assert.Equal(t, "r1", result.Inbound[0].ID)
	assert.Equal(t, 1, result.TotalCount)
}

func TestMatch_OneWayNeverHasInbound(t *testing.T) {
	criteria := oneWayCriteria()
	ret := criteria.DepartureDate.AddDate(0, 0, 1)
	criteria.ReturnDate = &ret

	records := []models.FlightRecord{
		record("r1", "lax", "nyc", 9, &ret),
		record("r2", "lax", "nyc", 9, at(6, 8)),
	}

	result, err := NewEngine(Options{}).Match(criteria, records, now)

	require.NoError(t, err)
	assert.Empty(t, result.Inbound)
}

func TestMatch_Predicate(t *testing.T) {
	criteria := oneWayCriteria()
	criteria.WindowDays = 0

	tests := []struct {
		name string
		rec  models.FlightRecord
		want bool
	}{
		{name: "exact match", rec: record("a", "nyc", "lax", 2, at(5, 0)), want: true},
		{name: "wrong origin", rec: record("b", "bos", "lax", 2, at(5, 10)), want: false},
		{name: "wrong destination", rec: record("c", "nyc", "sfo", 2, at(5, 10)), want: false},
		{name: "reverse direction", rec: record("d", "lax", "nyc", 2, at(5, 10)), want: false},
		{name: "too few seats", rec: record("e", "nyc", "lax", 1, at(5, 10)), want: false},
		{name: "no departure time", rec: record("f", "nyc", "lax", 9, nil), want: false},
		{name: "next day outside exact window", rec: record("g", "nyc", "lax", 9, at(6, 1)), want: false},
		{name: "zero seats never fits", rec: record("h", "nyc", "lax", 0, at(5, 10)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewEngine(Options{}).Match(criteria, []models.FlightRecord{tt.rec}, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, len(result.Outbound) == 1)
		})
	}
}

func TestMatch_TodayCutoff(t *testing.T) {
	criteria := oneWayCriteria()
	criteria.DepartureDate = today
	criteria.WindowDays = 0

	records := []models.FlightRecord{
		record("gone", "nyc", "lax", 5, at(0, 8)),
		record("later", "nyc", "lax", 5, at(0, 18)),
	}

	result, err := NewEngine(Options{}).Match(criteria, records, now)

	require.NoError(t, err)
	require.Len(t, result.Outbound, 1)
	assert.Equal(t, "later", result.Outbound[0].ID)
}

func TestMatch_PreservesOrderAndInput(t *testing.T) {
	records := make([]models.FlightRecord, 0, 20)
	for i := 0; i < 20; i++ {
		seats := i % 4
		records = append(records, record(fmt.Sprintf("f%02d", i), "nyc", "lax", seats, at(5+i%12, i%24)))
	}
	snapshot := append([]models.FlightRecord(nil), records...)

	engine := NewEngine(Options{})
	first, err := engine.Match(oneWayCriteria(), records, now)
	require.NoError(t, err)
	second, err := engine.Match(oneWayCriteria(), records, now)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated match differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(snapshot, records); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}

	want := make([]models.FlightRecord, 0)
	for _, r := range records {
		day := window.StartOfDay(*r.DepartureAt, time.UTC)
		if r.SeatCapacity >= 2 && !day.After(today.AddDate(0, 0, 14)) {
			want = append(want, r)
		}
	}
	if diff := cmp.Diff(want, first.Outbound); diff != "" {
		t.Errorf("outbound mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_TripTypeOption(t *testing.T) {
	rec := record("f1", "nyc", "lax", 3, at(5, 14))
	rec.TripType = "round"

	loose, err := NewEngine(Options{}).Match(oneWayCriteria(), []models.FlightRecord{rec}, now)
	require.NoError(t, err)
	assert.Len(t, loose.Outbound, 1)

	strict, err := NewEngine(Options{MatchTripType: true}).Match(oneWayCriteria(), []models.FlightRecord{rec}, now)
	require.NoError(t, err)
	assert.Empty(t, strict.Outbound)
}

func TestMatch_NilCriteria(t *testing.T) {
	result, err := NewEngine(Options{}).Match(nil, nil, now)

	assert.ErrorIs(t, err, ErrNilCriteria)
	assert.Nil(t, result)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "matched", StatusMatched.String())
	assert.Equal(t, "no_results", StatusNoResults.String())
}
