package app

import (
	"context"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/config"
)

// openDB connects to the watermark database. The pool stays tiny: a
// poll cycle issues one read and one write against app_state.
func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, crerr.Wrap(err, "open database")
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping database")
	}

	return db, nil
}

// normalizeDBURL opts out of prepared binary results when configured,
// so the store works behind transaction-pooling proxies. An explicit
// value in the URL wins.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// dbNameFromURL pulls the database name out of a postgres:// URL or a
// key=value DSN, for the db.name span attribute.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimPrefix(parsed.Path, "/"); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			if name = strings.Trim(name, `"'`); name != "" {
				return name
			}
		}
	}

	return ""
}

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses a statement onto one line for span
// attributes, capping oversized statements.
func formatDBQueryForTrace(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	normalized := strings.Join(fields, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
