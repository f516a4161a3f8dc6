package models

import (
	"strings"
	"time"
)

const (
	TripOneWay = "oneway"
	TripRound  = "round"
)

// SearchRequest is the raw, user-entered form.
type SearchRequest struct {
	Origin        string `json:"origin" validate:"required"`
	Destination   string `json:"destination" validate:"required"`
	Travelers     string `json:"travelers" validate:"required"`
	TripType      string `json:"trip_type" validate:"required"`
	DepartureDate string `json:"departure_date" validate:"required"`
	ReturnDate    string `json:"return_date,omitempty"`
	Contact       string `json:"contact,omitempty"`
}

// Trimmed returns a copy with every field stripped of surrounding whitespace.
func (r SearchRequest) Trimmed() SearchRequest {
	return SearchRequest{
		Origin:        strings.TrimSpace(r.Origin),
		Destination:   strings.TrimSpace(r.Destination),
		Travelers:     strings.TrimSpace(r.Travelers),
		TripType:      strings.TrimSpace(r.TripType),
		DepartureDate: strings.TrimSpace(r.DepartureDate),
		ReturnDate:    strings.TrimSpace(r.ReturnDate),
		Contact:       strings.TrimSpace(r.Contact),
	}
}

// SwapRoute returns a copy with origin and destination exchanged.
func (r SearchRequest) SwapRoute() SearchRequest {
	r.Origin, r.Destination = r.Destination, r.Origin
	return r
}

type SearchCriteria struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	NeededSeats   int        `json:"needed_seats"`
	TripType      string     `json:"trip_type"`
	DepartureDate time.Time  `json:"departure_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	WindowDays    int        `json:"window_days"`
}

func (c SearchCriteria) IsRoundTrip() bool {
	return c.TripType == TripRound
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Field returns the message attached to field, if any.
func (e ValidationErrors) Field(field string) (string, bool) {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

const (
	FieldOrigin        = "origin"
	FieldDestination   = "destination"
	FieldTravelers     = "travelers"
	FieldTripType      = "trip_type"
	FieldDepartureDate = "departure_date"
	FieldReturnDate    = "return_date"
	FieldContact       = "contact"
)
