package extractor

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/flightmatch/internal/models"
	"github.com/dharmasatrya/flightmatch/internal/timezone"
)

var (
	digitsPattern     = regexp.MustCompile(`\d+`)
	pricePattern      = regexp.MustCompile(`\d[\d.,]*`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// DefaultBoilerplate lists label fragments commonly printed next to a
// departure date on an offer card.
var DefaultBoilerplate = []string{
	"departure date:",
	"departure:",
	"depart:",
	"date:",
}

type Config struct {
	Location    *time.Location
	Boilerplate []string
}

type Extractor struct {
	loc         *time.Location
	boilerplate []*regexp.Regexp
}

func New(cfg Config) *Extractor {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	labels := cfg.Boilerplate
	if labels == nil {
		labels = DefaultBoilerplate
	}
	patterns := make([]*regexp.Regexp, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		patterns = append(patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(label)))
	}

	return &Extractor{loc: loc, boilerplate: patterns}
}

// Extract never fails: malformed fields fall back to zero seats, a nil
// departure time or a zero price.
func (e *Extractor) Extract(src models.SourceRecord) models.FlightRecord {
	rec := models.FlightRecord{
		ID:           strings.TrimSpace(src.ID),
		Origin:       normalizeText(src.OriginText),
		Destination:  normalizeText(src.DestinationText),
		SeatCapacity: ParseSeats(src.SeatBadge),
		TripType:     src.TripType,
		Airline:      strings.TrimSpace(src.Airline),
		Price:        ParsePrice(src.PriceText),
	}

	if rec.ID == "" {
		rec.ID = ContentID(src)
	}

	if t, ok := e.parseDeparture(src.DepartureText, src.TimeText); ok {
		rec.DepartureAt = &t
	}

	return rec
}

// ContentID derives a stable name-based UUID from the record's text, so the
// same card always gets the same ID.
func ContentID(src models.SourceRecord) string {
	key := strings.Join([]string{
		src.OriginText,
		src.DestinationText,
		src.SeatBadge,
		src.TripType,
		src.DepartureText,
		src.TimeText,
		src.PriceText,
		src.Airline,
	}, "\x1f")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}

// ExtractAll keeps the input order.
func (e *Extractor) ExtractAll(src []models.SourceRecord) []models.FlightRecord {
	out := make([]models.FlightRecord, len(src))
	for i, s := range src {
		out[i] = e.Extract(s)
	}
	return out
}

func (e *Extractor) parseDeparture(dateText, timeText string) (time.Time, bool) {
	clean := e.CleanDate(dateText)
	if clean == "" {
		return time.Time{}, false
	}
	if tt := collapse(timeText); tt != "" {
		if t, ok := timezone.ParsePermissive(clean+" "+tt, e.loc); ok {
			return t, true
		}
	}
	return timezone.ParsePermissive(clean, e.loc)
}

// CleanDate collapses whitespace and strips known label text.
func (e *Extractor) CleanDate(text string) string {
	clean := collapse(text)
	for _, p := range e.boilerplate {
		clean = p.ReplaceAllString(clean, " ")
	}
	return collapse(clean)
}

// ParseSeats returns the first run of digits in a badge, or 0. Runs too
// long for an int are capped at math.MaxInt.
func ParseSeats(badge string) int {
	m := digitsPattern.FindString(badge)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt
	}
	if err != nil {
		return 0
	}
	return n
}

// ParsePrice reads the first number in a price label. A final "." or ","
// followed by one or two digits is the decimal mark; every other separator
// groups thousands. "IDR 1.250.000", "$1,250" and "USD 1,250.99" read as
// 1250000, 1250 and 1250.99.
func ParsePrice(text string) float64 {
	m := pricePattern.FindString(text)
	if m == "" {
		return 0
	}
	m = strings.TrimRight(m, ".,")

	fraction := ""
	if i := strings.LastIndexAny(m, ".,"); i >= 0 {
		if tail := m[i+1:]; len(tail) == 1 || len(tail) == 2 {
			fraction = tail
			m = m[:i]
		}
	}

	m = strings.NewReplacer(",", "", ".", "").Replace(m)
	if fraction != "" {
		m += "." + fraction
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapse(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
