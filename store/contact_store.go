package store

import (
	"context"
	"database/sql"
	"fmt"

	"greeventech/telemetry/models"
)

// ContactStore persists accepted contact-form posts.
type ContactStore struct {
	db *sql.DB
}

func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

func (s *ContactStore) InsertSubmission(ctx context.Context, sub models.ContactSubmission) error {
	query := `
		INSERT INTO contact_submissions (
			session_id, ip_address, name, email, message, user_agent, country
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		sub.SessionID,
		sub.IPAddress,
		sub.Name,
		sub.Email,
		sub.Message,
		sub.UserAgent,
		sub.Country,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact submission: %w", err)
	}
	return nil
}

// CountSubmissions returns the all-time submission total for the
// dashboard.
func (s *ContactStore) CountSubmissions(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_submissions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contact submissions: %w", err)
	}
	return count, nil
}
