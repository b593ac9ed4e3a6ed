package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/rs/zerolog/log"
)

// The event log lives in ClickHouse: pure inserts, no uniqueness
// constraints, one table per event kind. The mutable session summary and
// the contact submissions live in PostgreSQL, where the UNIQUE constraint
// on session_id makes the upsert atomic.

var postgresDDL = []string{
	`CREATE TABLE IF NOT EXISTS session_summary (
		id SERIAL PRIMARY KEY,
		session_id VARCHAR(255) UNIQUE NOT NULL,
		ip_address VARCHAR(45),
		total_pages INTEGER DEFAULT 0,
		total_clicks INTEGER DEFAULT 0,
		triggered_honeypot BOOLEAN DEFAULT false,
		is_suspicious BOOLEAN DEFAULT false,
		first_visit TIMESTAMP,
		last_visit TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS contact_submissions (
		id SERIAL PRIMARY KEY,
		session_id VARCHAR(255),
		ip_address VARCHAR(45),
		name VARCHAR(255),
		email VARCHAR(255),
		message TEXT,
		user_agent TEXT,
		country VARCHAR(100),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_summary_session ON session_summary(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_session_summary_suspicious ON session_summary(is_suspicious)`,
}

var clickhouseDDL = []string{
	`CREATE TABLE IF NOT EXISTS visitor_events (
		event_id String,
		session_id String,
		ip_address String,
		user_agent String,
		referrer String,
		landing_page String,
		country String,
		city String,
		region String,
		latitude Nullable(Float64),
		longitude Nullable(Float64),
		device_type String,
		browser String,
		os String,
		screen_resolution String,
		language String,
		timezone String,
		is_bot Bool,
		bot_name String,
		created_at DateTime
	) ENGINE = MergeTree()
	ORDER BY (session_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS page_view_events (
		event_id String,
		session_id String,
		page_url String,
		page_title String,
		time_on_page Int64,
		scroll_depth Int64,
		clicks_count Int64,
		created_at DateTime
	) ENGINE = MergeTree()
	ORDER BY (session_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS click_events (
		event_id String,
		session_id String,
		element_type String,
		element_id String,
		element_class String,
		element_text String,
		page_url String,
		x_position Int64,
		y_position Int64,
		created_at DateTime
	) ENGINE = MergeTree()
	ORDER BY (session_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS honeypot_alerts (
		event_id String,
		session_id String,
		ip_address String,
		user_agent String,
		trap_type String,
		trap_url String,
		request_method String,
		request_headers String,
		request_body String,
		threat_level String,
		country String,
		created_at DateTime
	) ENGINE = MergeTree()
	ORDER BY (created_at, ip_address)`,
}

// InitSchema creates every table the collector writes to. All statements
// are idempotent, so running it against a live deployment is safe.
func InitSchema(ctx context.Context, db *sql.DB, conn clickhouse.Conn) error {
	for _, stmt := range postgresDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run postgres DDL: %w", err)
		}
	}
	for _, stmt := range clickhouseDDL {
		if err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run clickhouse DDL: %w", err)
		}
	}

	log.Info().Msg("database schema initialized")
	return nil
}
