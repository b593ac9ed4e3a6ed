// Package store holds the persistence layer: the append-only event log
// in ClickHouse and the relational session/contact tables in PostgreSQL.
package store

import (
	"context"
	"fmt"

	"greeventech/telemetry/database"
	"greeventech/telemetry/models"
)

// EventStore appends validated events to the durable log. Appends are
// unconditional: no deduplication, no uniqueness constraints. The log is
// the source of truth for the session aggregate.
type EventStore struct {
	DB *database.ClickHouseClient
}

func NewEventStore(chClient *database.ClickHouseClient) *EventStore {
	return &EventStore{DB: chClient}
}

func (s *EventStore) InsertVisitorEvent(ctx context.Context, e models.VisitorEvent) error {
	err := s.DB.Conn.Exec(ctx, `
		INSERT INTO visitor_events (
			event_id, session_id, ip_address, user_agent, referrer, landing_page,
			country, city, region, latitude, longitude,
			device_type, browser, os, screen_resolution, language, timezone,
			is_bot, bot_name, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.EventID, e.SessionID, e.IPAddress, e.UserAgent, e.Referrer, e.LandingPage,
		e.Country, e.City, e.Region, e.Latitude, e.Longitude,
		e.DeviceType, e.Browser, e.OS, e.ScreenResolution, e.Language, e.Timezone,
		e.IsBot, e.BotName, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert visitor event: %w", err)
	}
	return nil
}

func (s *EventStore) InsertPageViewEvent(ctx context.Context, e models.PageViewEvent) error {
	err := s.DB.Conn.Exec(ctx, `
		INSERT INTO page_view_events (
			event_id, session_id, page_url, page_title,
			time_on_page, scroll_depth, clicks_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.EventID, e.SessionID, e.PageURL, e.PageTitle,
		e.TimeOnPage, e.ScrollDepth, e.ClicksCount, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert page view event: %w", err)
	}
	return nil
}

func (s *EventStore) InsertClickEvent(ctx context.Context, e models.ClickEvent) error {
	err := s.DB.Conn.Exec(ctx, `
		INSERT INTO click_events (
			event_id, session_id, element_type, element_id, element_class,
			element_text, page_url, x_position, y_position, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.EventID, e.SessionID, e.ElementType, e.ElementID, e.ElementClass,
		e.ElementText, e.PageURL, e.XPosition, e.YPosition, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert click event: %w", err)
	}
	return nil
}

func (s *EventStore) InsertHoneypotAlert(ctx context.Context, a models.HoneypotAlert) error {
	err := s.DB.Conn.Exec(ctx, `
		INSERT INTO honeypot_alerts (
			event_id, session_id, ip_address, user_agent, trap_type, trap_url,
			request_method, request_headers, request_body, threat_level, country, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.EventID, a.SessionID, a.IPAddress, a.UserAgent, a.TrapType, a.TrapURL,
		a.RequestMethod, a.RequestHeaders, a.RequestBody, a.ThreatLevel, a.Country, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert honeypot alert: %w", err)
	}
	return nil
}
