package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/dharmasatrya/flightmatch/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Rows per INSERT statement, well under SQLite's bound-variable limit.
const insertChunkSize = 100

var offerColumns = []string{
	"offer_id",
	"origin_text",
	"destination_text",
	"seat_badge",
	"trip_type",
	"departure_text",
	"time_text",
	"price_text",
	"airline",
}

// OfferRepository stores raw offer records in arrival order
type OfferRepository interface {
	InsertBatch(ctx context.Context, offers []models.SourceRecord) error
	List(ctx context.Context) ([]models.SourceRecord, error)
	IsPopulated(ctx context.Context) (bool, error)
	Close() error
}

// DB implements OfferRepository using SQLite
type DB struct {
	db *sqlx.DB
}

var _ OfferRepository = (*DB)(nil)

type offerModel struct {
	OfferID         string `db:"offer_id"`
	OriginText      string `db:"origin_text"`
	DestinationText string `db:"destination_text"`
	SeatBadge       string `db:"seat_badge"`
	TripType        string `db:"trip_type"`
	DepartureText   string `db:"departure_text"`
	TimeText        string `db:"time_text"`
	PriceText       string `db:"price_text"`
	Airline         string `db:"airline"`
}

func (m offerModel) toRecord() models.SourceRecord {
	return models.SourceRecord{
		ID:              m.OfferID,
		OriginText:      m.OriginText,
		DestinationText: m.DestinationText,
		SeatBadge:       m.SeatBadge,
		TripType:        m.TripType,
		DepartureText:   m.DepartureText,
		TimeText:        m.TimeText,
		PriceText:       m.PriceText,
		Airline:         m.Airline,
	}
}

// New opens the database at dbPath and creates the schema if needed
func New(dbPath string) (*DB, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := configureSQLite(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	database := &DB{db: db}

	if err := database.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

func configureSQLite(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	offersSchema := `CREATE TABLE IF NOT EXISTS offers (
		position INTEGER PRIMARY KEY AUTOINCREMENT,
		offer_id TEXT NOT NULL DEFAULT '',
		origin_text TEXT NOT NULL DEFAULT '',
		destination_text TEXT NOT NULL DEFAULT '',
		seat_badge TEXT NOT NULL DEFAULT '',
		trip_type TEXT NOT NULL DEFAULT '',
		departure_text TEXT NOT NULL DEFAULT '',
		time_text TEXT NOT NULL DEFAULT '',
		price_text TEXT NOT NULL DEFAULT '',
		airline TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := d.db.Exec(offersSchema); err != nil {
		return fmt.Errorf("failed to create offers table: %w", err)
	}

	if _, err := d.db.Exec(`CREATE INDEX IF NOT EXISTS idx_offers_route ON offers(origin_text, destination_text)`); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// InsertBatch appends offers in a single transaction
func (d *DB) InsertBatch(ctx context.Context, offers []models.SourceRecord) error {
	if len(offers) == 0 {
		return nil
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(offers); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(offers) {
			end = len(offers)
		}

		builder := sq.Insert("offers").Columns(offerColumns...)
		for _, o := range offers[start:end] {
			builder = builder.Values(
				o.ID, o.OriginText, o.DestinationText, o.SeatBadge, o.TripType,
				o.DepartureText, o.TimeText, o.PriceText, o.Airline,
			)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert offers: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List returns every stored offer in insertion order
func (d *DB) List(ctx context.Context) ([]models.SourceRecord, error) {
	query, args, err := sq.Select(offerColumns...).
		From("offers").
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	var rows []offerModel
	if err := d.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}

	offers := make([]models.SourceRecord, 0, len(rows))
	for _, r := range rows {
		offers = append(offers, r.toRecord())
	}

	return offers, nil
}

func (d *DB) IsPopulated(ctx context.Context) (bool, error) {
	var ignored int
	err := d.db.GetContext(ctx, &ignored, "SELECT 1 FROM offers LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check offers table: %w", err)
	}
	return true, nil
}
