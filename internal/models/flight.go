package models

import "time"

type SourceRecord struct {
	ID              string `json:"id"`
	OriginText      string `json:"origin_text"`
	DestinationText string `json:"destination_text"`
	SeatBadge       string `json:"seat_badge"`
	TripType        string `json:"trip_type"`
	DepartureText   string `json:"departure_text"`
	TimeText        string `json:"time_text,omitempty"`
	PriceText       string `json:"price_text,omitempty"`
	Airline         string `json:"airline,omitempty"`
}

// FlightRecord is the structured form of a SourceRecord. Origin and Destination
// are already trimmed and lower-cased.
type FlightRecord struct {
	ID           string     `json:"id"`
	Origin       string     `json:"origin"`
	Destination  string     `json:"destination"`
	SeatCapacity int        `json:"seat_capacity"`
	DepartureAt  *time.Time `json:"departure_at,omitempty"`
	TripType     string     `json:"trip_type"`
	Airline      string     `json:"airline,omitempty"`
	Price        float64    `json:"price,omitempty"`
}

type Flight struct {
	FlightRecord
	PriceFormatted string `json:"price_formatted,omitempty"`
}
