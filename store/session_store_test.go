package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greeventech/telemetry/models"
)

func TestUpsertSessionDeltasPerKind(t *testing.T) {
	tests := []struct {
		name        string
		kind        models.EventKind
		pagesDelta  int
		clicksDelta int
	}{
		{"visitor arrival updates timestamps only", models.KindVisitorArrival, 0, 0},
		{"page view increments total_pages", models.KindPageView, 1, 0},
		{"click increments total_clicks", models.KindClick, 0, 1},
		{"honeypot updates timestamps only", models.KindHoneypot, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec("INSERT INTO session_summary").
				WithArgs("abc", "203.0.113.7", tt.pagesDelta, tt.clicksDelta).
				WillReturnResult(sqlmock.NewResult(1, 1))

			s := NewSessionStore(db)
			err = s.UpsertSession(context.Background(), "abc", "203.0.113.7", tt.kind)
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpsertSessionIsSingleStatement(t *testing.T) {
	// The create-or-increment decision must happen inside one statement;
	// a SELECT before the write would reopen the lost-update race.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO session_summary").
		WithArgs("abc", "203.0.113.7", 1, 0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := NewSessionStore(db)
	require.NoError(t, s.UpsertSession(context.Background(), "abc", "203.0.113.7", models.KindPageView))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSessionStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO session_summary").
		WillReturnError(errors.New("connection refused"))

	s := NewSessionStore(db)
	err = s.UpsertSession(context.Background(), "abc", "203.0.113.7", models.KindClick)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "abc")
}

func TestMarkSuspiciousSetsBothFlags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`(?s)INSERT INTO session_summary.+triggered_honeypot = true.+is_suspicious = true`).
		WithArgs("abc", "203.0.113.7").
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := NewSessionStore(db)
	require.NoError(t, s.MarkSuspicious(context.Background(), "abc", "203.0.113.7"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	first := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	last := first.Add(5 * time.Minute)
	rows := sqlmock.NewRows([]string{
		"id", "session_id", "ip_address", "total_pages", "total_clicks",
		"triggered_honeypot", "is_suspicious", "first_visit", "last_visit",
	}).AddRow(int64(7), "abc", "203.0.113.7", int64(3), int64(2), true, true, first, last)

	mock.ExpectQuery("(?s)SELECT.+FROM session_summary").
		WithArgs("abc").
		WillReturnRows(rows)

	s := NewSessionStore(db)
	sum, err := s.GetSession(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", sum.SessionID)
	assert.Equal(t, int64(3), sum.TotalPages)
	assert.True(t, sum.TriggeredHoneypot)
	assert.True(t, sum.IsSuspicious)
	assert.True(t, !sum.LastVisit.Before(sum.FirstVisit), "last_visit must not precede first_visit")
}

func TestGetSessionNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("(?s)SELECT.+FROM session_summary").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := NewSessionStore(db)
	_, err = s.GetSession(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetSuspiciousSessions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "session_id", "ip_address", "total_pages", "total_clicks",
		"triggered_honeypot", "is_suspicious", "first_visit", "last_visit",
	}).
		AddRow(int64(1), "s1", "198.51.100.1", int64(2), int64(0), true, true, now, now).
		AddRow(int64(2), "s2", "198.51.100.2", int64(1), int64(4), false, true, now, now)

	mock.ExpectQuery("(?s)SELECT.+FROM session_summary").
		WithArgs(20).
		WillReturnRows(rows)

	s := NewSessionStore(db)
	results, err := s.GetSuspiciousSessions(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "s1", results[0].SessionID)
}
