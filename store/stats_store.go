package store

import (
	"context"
	"fmt"
	"math"

	"greeventech/telemetry/database"
	"greeventech/telemetry/models"
)

// StatsStore runs the read-only aggregations behind the operator
// dashboard. It only reads the event log; the session and contact
// aggregates come from their own stores.
type StatsStore struct {
	DB *database.ClickHouseClient
}

func NewStatsStore(chClient *database.ClickHouseClient) *StatsStore {
	return &StatsStore{DB: chClient}
}

func (s *StatsStore) GetVisitorStats(ctx context.Context) (models.VisitorStats, error) {
	var stats models.VisitorStats
	query := `
		SELECT
			uniq(session_id) AS total_sessions,
			count() AS total_visitors,
			uniq(ip_address) AS unique_ips,
			countIf(is_bot) AS bot_visits,
			countIf(country != 'unknown') AS geolocated_visits
		FROM visitor_events
	`
	err := s.DB.Conn.QueryRow(ctx, query).Scan(
		&stats.TotalSessions,
		&stats.TotalVisitors,
		&stats.UniqueIPs,
		&stats.BotVisits,
		&stats.GeolocatedVisits,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to query visitor stats: %w", err)
	}
	return stats, nil
}

func (s *StatsStore) GetPageStats(ctx context.Context) (models.PageStats, error) {
	var stats models.PageStats
	query := `
		SELECT
			count() AS total_page_views,
			avg(time_on_page) AS avg_time_on_page,
			avg(scroll_depth) AS avg_scroll_depth
		FROM page_view_events
	`
	err := s.DB.Conn.QueryRow(ctx, query).Scan(
		&stats.TotalPageViews,
		&stats.AvgTimeOnPage,
		&stats.AvgScrollDepth,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to query page stats: %w", err)
	}

	// avg() over an empty table yields NaN, which standard JSON
	// marshalling rejects.
	if math.IsNaN(stats.AvgTimeOnPage) {
		stats.AvgTimeOnPage = 0
	}
	if math.IsNaN(stats.AvgScrollDepth) {
		stats.AvgScrollDepth = 0
	}
	return stats, nil
}

func (s *StatsStore) GetHoneypotStats(ctx context.Context) (models.HoneypotStats, error) {
	var stats models.HoneypotStats
	query := `
		SELECT
			count() AS total_alerts,
			countIf(threat_level = 'high') AS high_threats,
			countIf(threat_level = 'medium') AS medium_threats,
			countIf(threat_level = 'low') AS low_threats
		FROM honeypot_alerts
	`
	err := s.DB.Conn.QueryRow(ctx, query).Scan(
		&stats.TotalAlerts,
		&stats.HighThreats,
		&stats.MediumThreats,
		&stats.LowThreats,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to query honeypot stats: %w", err)
	}
	return stats, nil
}

func (s *StatsStore) GetRecentAlerts(ctx context.Context, limit uint64) ([]models.HoneypotAlert, error) {
	if limit == 0 {
		limit = 10
	}
	query := `
		SELECT event_id, session_id, ip_address, trap_type, trap_url, threat_level, country, created_at
		FROM honeypot_alerts
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent alerts: %w", err)
	}
	defer rows.Close()

	var results []models.HoneypotAlert
	for rows.Next() {
		var a models.HoneypotAlert
		if err := rows.Scan(
			&a.EventID,
			&a.SessionID,
			&a.IPAddress,
			&a.TrapType,
			&a.TrapURL,
			&a.ThreatLevel,
			&a.Country,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent alert row: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during recent alerts query: %w", err)
	}

	return results, nil
}

func (s *StatsStore) GetTopCountries(ctx context.Context, limit uint64) ([]models.CountryCount, error) {
	if limit == 0 {
		limit = 10
	}
	query := `
		SELECT country, count() AS visits
		FROM visitor_events
		WHERE country != 'unknown'
		GROUP BY country
		ORDER BY visits DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top countries: %w", err)
	}
	defer rows.Close()

	var results []models.CountryCount
	for rows.Next() {
		var cc models.CountryCount
		if err := rows.Scan(&cc.Country, &cc.Visits); err != nil {
			return nil, fmt.Errorf("failed to scan top country row: %w", err)
		}
		results = append(results, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error during top countries query: %w", err)
	}

	return results, nil
}
