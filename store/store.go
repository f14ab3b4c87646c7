// Package store executes chocquery descriptors against the chocolate-bar
// reviews database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/relux-works/choc-query/chocquery"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var (
	ErrNotOpen     = errors.New("store not open")
	ErrMissingPath = errors.New("database path is empty")
)

// Config locates the database. It is passed in at construction; the store
// keeps no package-level defaults.
type Config struct {
	// Path is the SQLite database file.
	Path string

	// BusyTimeout bounds how long a statement waits on a locked database.
	BusyTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for query tracing.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store holds one connection pool for the process lifetime.
type Store struct {
	db  *sql.DB
	cfg Config
	log *slog.Logger
}

// Open opens the database described by cfg and verifies the connection.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	if cfg.Path == "" {
		return nil, ErrMissingPath
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	s := &Store{
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Path, err)
	}
	s.db = db
	s.log.Debug("database opened", "path", cfg.Path)
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Query implements chocquery.Executor. The filter value travels as a bound
// parameter. TEXT values come back as string, numbers as int64 or float64.
func (s *Store) Query(ctx context.Context, d *chocquery.Descriptor) ([]chocquery.Row, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotOpen
	}
	query, args := d.SQL()
	s.log.Debug("executing query", "verb", d.Verb, "sql", query, "args", args)

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []chocquery.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out = append(out, chocquery.Row(vals))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	s.log.Debug("query complete", "rows", len(out), "elapsed", time.Since(start))
	return out, nil
}

var _ chocquery.Executor = (*Store)(nil)
