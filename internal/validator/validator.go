package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dharmasatrya/flightmatch/internal/models"
	"github.com/dharmasatrya/flightmatch/internal/timezone"
	"github.com/dharmasatrya/flightmatch/internal/window"
)

var ErrInvalidTravelers = errors.New("invalid traveler count")

var travelersPattern = regexp.MustCompile(`^(\d+)\s*(?:-\s*(\d+)|\+)?`)

// Report order for field errors.
var fieldOrder = []string{
	models.FieldOrigin,
	models.FieldDestination,
	models.FieldDepartureDate,
	models.FieldReturnDate,
	models.FieldTravelers,
	models.FieldTripType,
	models.FieldContact,
}

var requiredMessages = map[string]string{
	models.FieldOrigin:        "Origin required",
	models.FieldDestination:   "Destination required",
	models.FieldTravelers:     "Select travelers",
	models.FieldTripType:      "Select type",
	models.FieldDepartureDate: "Departure required",
	models.FieldReturnDate:    "Return required",
	models.FieldContact:       "Phone required",
}

const (
	msgSameRoute          = "Origin & destination cannot match"
	msgInvalidDeparture   = "Invalid departure date"
	msgPastDeparture      = "Departure cannot be in the past"
	msgInvalidReturn      = "Invalid return date"
	msgReturnBeforeDepart = "Return after departure"
	msgInvalidTravelers   = "Invalid traveler count"
)

type Config struct {
	WindowDays      int
	RequireContact  bool
	LabelFirstToken bool
	// Location defines calendar days. Defaults to the location of now.
	Location *time.Location
}

type CriteriaValidator struct {
	cfg      Config
	validate *validator.Validate
}

func New(cfg Config) *CriteriaValidator {
	if cfg.WindowDays < 0 {
		cfg.WindowDays = 0
	}
	return &CriteriaValidator{
		cfg:      cfg,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// Validate checks every rule independently and reports all violations.
// Criteria is non-nil only when there are no errors.
func (v *CriteriaValidator) Validate(raw models.SearchRequest, now time.Time) (*models.SearchCriteria, models.ValidationErrors) {
	req := raw.Trimmed()
	loc := v.cfg.Location
	if loc == nil {
		loc = now.Location()
	}
	today := window.StartOfDay(now, loc)

	found := make(map[string]string)
	v.checkRequired(req, found)

	origin := v.normalizeLocation(req.Origin)
	destination := v.normalizeLocation(req.Destination)
	if origin != "" && destination != "" && origin == destination {
		found[models.FieldDestination] = msgSameRoute
	}

	var departure time.Time
	departureOK := false
	if req.DepartureDate != "" {
		d, err := timezone.ParseDate(req.DepartureDate, loc)
		switch {
		case err != nil:
			found[models.FieldDepartureDate] = msgInvalidDeparture
		case d.Before(today):
			found[models.FieldDepartureDate] = msgPastDeparture
		default:
			departure = d
			departureOK = true
		}
	}

	tripType := NormalizeTripType(req.TripType)

	var returnDate *time.Time
	if tripType == models.TripRound {
		if req.ReturnDate == "" {
			found[models.FieldReturnDate] = requiredMessages[models.FieldReturnDate]
		} else if r, err := timezone.ParseDate(req.ReturnDate, loc); err != nil {
			found[models.FieldReturnDate] = msgInvalidReturn
		} else if departureOK && r.Before(departure) {
			found[models.FieldReturnDate] = msgReturnBeforeDepart
		} else {
			returnDate = &r
		}
	}

	seats := 0
	if req.Travelers != "" {
		n, err := ParseTravelers(req.Travelers)
		if err != nil {
			found[models.FieldTravelers] = msgInvalidTravelers
		}
		seats = n
	}

	if len(found) > 0 {
		return nil, collect(found)
	}

	return &models.SearchCriteria{
		Origin:        origin,
		Destination:   destination,
		NeededSeats:   seats,
		TripType:      tripType,
		DepartureDate: departure,
		ReturnDate:    returnDate,
		WindowDays:    v.cfg.WindowDays,
	}, nil
}

func (v *CriteriaValidator) checkRequired(req models.SearchRequest, found map[string]string) {
	if err := v.validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			for _, e := range errs {
				found[e.Field()] = requiredMessages[e.Field()]
			}
		}
	}
	if v.cfg.RequireContact {
		if err := v.validate.Var(req.Contact, "required"); err != nil {
			found[models.FieldContact] = requiredMessages[models.FieldContact]
		}
	}
}

func (v *CriteriaValidator) normalizeLocation(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if v.cfg.LabelFirstToken {
		if fields := strings.Fields(s); len(fields) > 0 {
			return fields[0]
		}
	}
	return s
}

func collect(found map[string]string) models.ValidationErrors {
	errs := make(models.ValidationErrors, 0, len(found))
	for _, field := range fieldOrder {
		if msg, ok := found[field]; ok {
			errs = append(errs, models.FieldError{Field: field, Message: msg})
		}
	}
	return errs
}

// NormalizeTripType maps selector values onto "oneway" or "round". Unknown
// values come back lower-cased and will not match any trip type.
func NormalizeTripType(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return ""
	case strings.Contains(v, "one"):
		return models.TripOneWay
	case strings.Contains(v, "two"), strings.Contains(v, "round"):
		return models.TripRound
	case strings.Contains(v, "jet"):
		return models.TripOneWay
	}
	return v
}

// ParseTravelers resolves "N", "N-M" and "N+" to the minimum acceptable
// seat count.
func ParseTravelers(value string) (int, error) {
	m := travelersPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, ErrInvalidTravelers
	}
	low, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, ErrInvalidTravelers
	}
	if m[2] != "" {
		high, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, ErrInvalidTravelers
		}
		if high < low {
			return high, nil
		}
	}
	return low, nil
}
