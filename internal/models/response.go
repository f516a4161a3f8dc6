package models

type SearchMetadata struct {
	TotalResults       int      `json:"total_results"`
	ProvidersQueried   int      `json:"providers_queried"`
	ProvidersSucceeded int      `json:"providers_succeeded"`
	ProvidersFailed    int      `json:"providers_failed"`
	FailedProviders    []string `json:"failed_providers,omitempty"`
	RecordsScanned     int      `json:"records_scanned"`
	SearchTimeMs       int64    `json:"search_time_ms"`
}

type SearchCriteriaResponse struct {
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	NeededSeats   int     `json:"needed_seats"`
	TripType      string  `json:"trip_type"`
	DepartureDate string  `json:"departure_date"`
	ReturnDate    *string `json:"return_date,omitempty"`
	WindowDays    int     `json:"window_days"`
}

type SearchResponse struct {
	SearchCriteria SearchCriteriaResponse `json:"search_criteria"`
	Metadata       SearchMetadata         `json:"metadata"`
	Title          string                 `json:"title"`
	TotalCount     int                    `json:"total_count"`
	ShowInbound    bool                   `json:"show_inbound"`
	Outbound       []Flight               `json:"outbound"`
	Inbound        []Flight               `json:"inbound"`
}

type ValidateResponse struct {
	Valid  bool         `json:"valid"`
	Fields []FieldError `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Code    int          `json:"code"`
	Fields  []FieldError `json:"fields,omitempty"`
}
