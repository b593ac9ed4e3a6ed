package store

import (
	"context"
	"database/sql"
	"fmt"

	"greeventech/telemetry/models"
)

// SessionStore maintains the one mutable summary row per session token.
// Every write is a single INSERT ... ON CONFLICT statement so that two
// events for the same token arriving concurrently cannot lose an update:
// the database decides create-vs-increment, never application code.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// UpsertSession records that an event referencing token arrived. Any
// event kind may be the first to reference a token, in which case the
// row is created with total_pages = 1 and both timestamps at now. On an
// existing row, a page view increments total_pages, a click increments
// total_clicks, and every kind advances last_visit.
func (s *SessionStore) UpsertSession(ctx context.Context, token, ip string, kind models.EventKind) error {
	var pagesDelta, clicksDelta int
	switch kind {
	case models.KindPageView:
		pagesDelta = 1
	case models.KindClick:
		clicksDelta = 1
	}

	query := `
		INSERT INTO session_summary (session_id, ip_address, total_pages, total_clicks, first_visit, last_visit)
		VALUES ($1, $2, 1, 0, NOW(), NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET
			total_pages = session_summary.total_pages + $3,
			total_clicks = session_summary.total_clicks + $4,
			last_visit = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, token, ip, pagesDelta, clicksDelta); err != nil {
		return fmt.Errorf("failed to upsert session %s: %w", token, err)
	}
	return nil
}

// MarkSuspicious sets the honeypot flags on a session. The flags are
// monotonic: this only ever sets them true, and no other write path
// touches them. A session that has never been seen before gets its row
// created with the flags already set.
func (s *SessionStore) MarkSuspicious(ctx context.Context, token, ip string) error {
	query := `
		INSERT INTO session_summary (session_id, ip_address, total_pages, total_clicks, triggered_honeypot, is_suspicious, first_visit, last_visit)
		VALUES ($1, $2, 1, 0, true, true, NOW(), NOW())
		ON CONFLICT (session_id)
		DO UPDATE SET
			triggered_honeypot = true,
			is_suspicious = true,
			last_visit = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, token, ip); err != nil {
		return fmt.Errorf("failed to mark session %s suspicious: %w", token, err)
	}
	return nil
}

// GetSession fetches one summary row by token.
func (s *SessionStore) GetSession(ctx context.Context, token string) (*models.SessionSummary, error) {
	sum := &models.SessionSummary{}
	query := `
		SELECT id, session_id, ip_address, total_pages, total_clicks,
		       triggered_honeypot, is_suspicious, first_visit, last_visit
		FROM session_summary
		WHERE session_id = $1
	`
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&sum.ID,
		&sum.SessionID,
		&sum.IPAddress,
		&sum.TotalPages,
		&sum.TotalClicks,
		&sum.TriggeredHoneypot,
		&sum.IsSuspicious,
		&sum.FirstVisit,
		&sum.LastVisit,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session '%s' not found", token)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sum, nil
}

// GetSuspiciousSessions lists the most recently active flagged sessions
// for the operator dashboard.
func (s *SessionStore) GetSuspiciousSessions(ctx context.Context, limit int) ([]models.SessionSummary, error) {
	query := `
		SELECT id, session_id, ip_address, total_pages, total_clicks,
		       triggered_honeypot, is_suspicious, first_visit, last_visit
		FROM session_summary
		WHERE is_suspicious = true OR triggered_honeypot = true
		ORDER BY last_visit DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query suspicious sessions: %w", err)
	}
	defer rows.Close()

	var results []models.SessionSummary
	for rows.Next() {
		var sum models.SessionSummary
		if err := rows.Scan(
			&sum.ID,
			&sum.SessionID,
			&sum.IPAddress,
			&sum.TotalPages,
			&sum.TotalClicks,
			&sum.TriggeredHoneypot,
			&sum.IsSuspicious,
			&sum.FirstVisit,
			&sum.LastVisit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan suspicious session row: %w", err)
		}
		results = append(results, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during suspicious sessions query: %w", err)
	}

	return results, nil
}
