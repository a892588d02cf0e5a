package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"daft-scraper/models"
)

const propertyColumns = 15

// PostgresWriter persists properties to PostgreSQL, one row per link.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			id            SERIAL PRIMARY KEY,
			link          TEXT UNIQUE NOT NULL,
			property_type TEXT NOT NULL DEFAULT '',
			ber_rating    VARCHAR(16),
			price         INTEGER,
			bedrooms      INTEGER,
			bathrooms     INTEGER,
			floor_area_m2 DOUBLE PRECISION,
			main_address  TEXT NOT NULL DEFAULT '',
			sector        TEXT,
			region        TEXT,
			geolocation   TEXT,
			description   TEXT NOT NULL DEFAULT '',
			updated_at    TEXT,
			views         INTEGER,
			transit       JSONB NOT NULL DEFAULT '{}',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		ALTER TABLE properties ALTER COLUMN updated_at TYPE TEXT USING updated_at::text;

		CREATE INDEX IF NOT EXISTS idx_properties_price  ON properties(price);
		CREATE INDEX IF NOT EXISTS idx_properties_sector ON properties(sector);
		CREATE INDEX IF NOT EXISTS idx_properties_region ON properties(region);
	`)
	return err
}

// Write upserts properties in batches keyed by link.
func (pw *PostgresWriter) Write(properties []*models.Property) error {
	const batchSize = 50
	for i := 0; i < len(properties); i += batchSize {
		end := i + batchSize
		if end > len(properties) {
			end = len(properties)
		}
		if err := pw.upsertBatch(properties[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) upsertBatch(batch []*models.Property) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*propertyColumns)

	for idx, p := range batch {
		args, err := propertyArgs(p)
		if err != nil {
			return err
		}

		placeholders := make([]string, propertyColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*propertyColumns+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, args...)
	}

	query := fmt.Sprintf(`
		INSERT INTO properties (link, property_type, ber_rating, price, bedrooms, bathrooms,
			floor_area_m2, main_address, sector, region, geolocation, description,
			updated_at, views, transit)
		VALUES %s
		ON CONFLICT (link) DO UPDATE SET
			property_type = EXCLUDED.property_type,
			ber_rating    = EXCLUDED.ber_rating,
			price         = EXCLUDED.price,
			bedrooms      = EXCLUDED.bedrooms,
			bathrooms     = EXCLUDED.bathrooms,
			floor_area_m2 = EXCLUDED.floor_area_m2,
			main_address  = EXCLUDED.main_address,
			sector        = EXCLUDED.sector,
			region        = EXCLUDED.region,
			geolocation   = EXCLUDED.geolocation,
			description   = EXCLUDED.description,
			updated_at    = EXCLUDED.updated_at,
			views         = EXCLUDED.views,
			transit       = EXCLUDED.transit
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: upsert batch: %w", err)
	}
	return nil
}

// propertyArgs returns the insert arguments for one property, in column
// order. Absent values bind as NULL. updated_at is stored as text, exactly
// as extracted.
func propertyArgs(p *models.Property) ([]interface{}, error) {
	transit, err := json.Marshal(p.Transit)
	if err != nil {
		return nil, fmt.Errorf("postgres: encode transit for %s: %w", p.Link, err)
	}
	return []interface{}{
		p.Link, p.PropertyType, p.BERRating.Ptr(), p.Price.Ptr(), p.Bedrooms.Ptr(),
		p.Bathrooms.Ptr(), p.FloorAreaM2.Ptr(), p.MainAddress, p.Sector.Ptr(), p.Region.Ptr(),
		p.Geolocation.Ptr(), p.Description, p.UpdatedAt.Ptr(), p.Views.Ptr(), string(transit),
	}, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored properties, used by the insight service.
func (pw *PostgresWriter) FetchAll() ([]*models.Property, error) {
	rows, err := pw.db.Query(`
		SELECT link, property_type, ber_rating, price, bedrooms, bathrooms, floor_area_m2,
			main_address, sector, region, geolocation, description,
			updated_at, views, transit
		FROM properties
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p := &models.Property{}
		var transit []byte
		if err := rows.Scan(
			&p.Link, &p.PropertyType, &p.BERRating, &p.Price, &p.Bedrooms, &p.Bathrooms,
			&p.FloorAreaM2, &p.MainAddress, &p.Sector, &p.Region, &p.Geolocation,
			&p.Description, &p.UpdatedAt, &p.Views, &transit,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if err := json.Unmarshal(transit, &p.Transit); err != nil {
			return nil, fmt.Errorf("postgres: decode transit for %s: %w", p.Link, err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}
