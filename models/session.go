package models

import "time"

// SessionSummary is the one mutable row per session token: a best-effort
// materialized view over the event log, rebuildable by replay. The flags
// are monotonic — once set, nothing clears them.
type SessionSummary struct {
	ID                int64     `json:"id"`
	SessionID         string    `json:"sessionId"`
	IPAddress         string    `json:"ipAddress"`
	TotalPages        int64     `json:"totalPages"`
	TotalClicks       int64     `json:"totalClicks"`
	TriggeredHoneypot bool      `json:"triggeredHoneypot"`
	IsSuspicious      bool      `json:"isSuspicious"`
	FirstVisit        time.Time `json:"firstVisit"`
	LastVisit         time.Time `json:"lastVisit"`
}
