package store

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS Countries (
    Id          INTEGER PRIMARY KEY AUTOINCREMENT,
    Alpha2      TEXT NOT NULL,
    Alpha3      TEXT,
    EnglishName TEXT NOT NULL,
    Region      TEXT,
    Subregion   TEXT,
    Population  INTEGER,
    Area        REAL
);

CREATE TABLE IF NOT EXISTS Bars (
    Id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    Company             TEXT NOT NULL,
    SpecificBeanBarName TEXT NOT NULL,
    REF                 TEXT,
    ReviewDate          TEXT,
    CocoaPercent        REAL,
    CompanyLocationId   INTEGER REFERENCES Countries(Id),
    Rating              REAL,
    BeanType            TEXT,
    BroadBeanOriginId   INTEGER REFERENCES Countries(Id)
);

CREATE INDEX IF NOT EXISTS idx_countries_name ON Countries(EnglishName);
`

// Country is a row of the Countries table.
type Country struct {
	ID          int64
	Alpha2      string
	Alpha3      string
	EnglishName string
	Region      string
	Subregion   string
	Population  int64
	Area        float64
}

// Bar is a row of the Bars table. CocoaPercent is a fraction (0.70 for 70%).
// Zero location ids are stored as NULL.
type Bar struct {
	ID                int64
	Company           string
	SpecificBeanBar   string
	Ref               string
	ReviewDate        string
	CocoaPercent      float64
	CompanyLocationID int64
	Rating            float64
	BeanType          string
	BroadBeanOriginID int64
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if s == nil || s.db == nil {
		return ErrNotOpen
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// InsertCountry adds a country and returns its id.
func (s *Store) InsertCountry(ctx context.Context, c Country) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrNotOpen
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO Countries (Alpha2, Alpha3, EnglishName, Region, Subregion, Population, Area)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Alpha2, c.Alpha3, c.EnglishName, c.Region, c.Subregion, c.Population, c.Area)
	if err != nil {
		return 0, fmt.Errorf("failed to insert country %q: %w", c.EnglishName, err)
	}
	return res.LastInsertId()
}

// InsertBar adds a review and returns its id.
func (s *Store) InsertBar(ctx context.Context, b Bar) (int64, error) {
	if s == nil || s.db == nil {
		return 0, ErrNotOpen
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO Bars (Company, SpecificBeanBarName, REF, ReviewDate, CocoaPercent,
		                   CompanyLocationId, Rating, BeanType, BroadBeanOriginId)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Company, b.SpecificBeanBar, b.Ref, b.ReviewDate, b.CocoaPercent,
		nullID(b.CompanyLocationID), b.Rating, b.BeanType, nullID(b.BroadBeanOriginID))
	if err != nil {
		return 0, fmt.Errorf("failed to insert bar %q: %w", b.SpecificBeanBar, err)
	}
	return res.LastInsertId()
}

// CountryIDs maps English country names to ids.
func (s *Store) CountryIDs(ctx context.Context) (map[string]int64, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx, `SELECT Id, EnglishName FROM Countries`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		ids[name] = id
	}
	return ids, rows.Err()
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
