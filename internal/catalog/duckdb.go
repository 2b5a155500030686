// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" database/sql driver

	"github.com/reelpick/reelpick/internal/logging"
)

// ErrUnsupportedFormat is returned when the catalog file extension is not
// a format DuckDB can read here.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// LoadOptions tunes LoadDuckDB.
type LoadOptions struct {
	// Limit caps the number of rows read. Zero reads everything.
	Limit int

	// Timeout bounds the whole load. Zero means no extra deadline.
	Timeout time.Duration
}

// LoadDuckDB reads a parquet or CSV catalog export through an in-memory
// DuckDB instance and returns it as a MemoryCatalog.
//
// Columns are matched by name against the canonical attributes; unknown
// columns are ignored and missing ones read as nil. Row order in the file
// defines the movie index.
func LoadDuckDB(ctx context.Context, path string, opts LoadOptions) (*MemoryCatalog, error) {
	reader, err := readerFor(path)
	if err != nil {
		return nil, err
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing catalog duckdb connection")
		}
	}()

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	//nolint:gosec // path is quoted as a SQL string literal, not interpolated as an identifier
	query := fmt.Sprintf("SELECT * FROM %s(%s)", reader, quoteLiteral(path))
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	start := time.Now()
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog columns: %w", err)
	}

	var loaded []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row %d: %w", len(loaded), err)
		}

		row := make(Row, len(AllAttributes))
		for i, name := range columns {
			attr := Attribute(strings.ToLower(name))
			if attr.Valid() {
				row[attr] = values[i]
			}
		}
		loaded = append(loaded, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}

	logging.Info().
		Str("path", path).
		Int("movies", len(loaded)).
		Dur("duration", time.Since(start)).
		Msg("Catalog loaded")

	return &MemoryCatalog{rows: loaded}, nil
}

func readerFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return "read_parquet", nil
	case ".csv":
		return "read_csv_auto", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
