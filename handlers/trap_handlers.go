package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"greeventech/telemetry/models"
	"greeventech/telemetry/threat"
)

// TrapHandlers serves the disguised endpoints. Nothing legitimate links
// to them, so any hit is an automated scanner or a manual probe; each
// hit runs the full honeypot pipeline server-side.
type TrapHandlers struct {
	Events   EventStore
	Sessions SessionStore
}

func NewTrapHandlers(events EventStore, sessions SessionStore) *TrapHandlers {
	return &TrapHandlers{Events: events, Sessions: sessions}
}

// FakeUsers plays back a plausible user listing so a scanner believes it
// found an exposed API.
func (h *TrapHandlers) FakeUsers(c *gin.Context) {
	h.recordTrap(c, threat.TrapAPI)

	c.JSON(http.StatusOK, gin.H{
		"users": []gin.H{
			{"id": 1, "username": "admin", "email": "admin@fake.com"},
			{"id": 2, "username": "root", "email": "root@fake.com"},
		},
	})
}

// WPAdmin answers probes for a WordPress admin panel.
func (h *TrapHandlers) WPAdmin(c *gin.Context) {
	h.recordTrap(c, threat.TrapAdmin)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, "<html><head><title>Log In</title></head><body><form method=\"post\"><input name=\"log\"><input name=\"pwd\" type=\"password\"></form></body></html>")
}

// EnvFile answers probes for an exposed dotenv file.
func (h *TrapHandlers) EnvFile(c *gin.Context) {
	h.recordTrap(c, threat.TrapEnv)
	c.Status(http.StatusNotFound)
}

// PHPMyAdmin answers probes for a database admin console.
func (h *TrapHandlers) PHPMyAdmin(c *gin.Context) {
	h.recordTrap(c, threat.TrapSQL)
	c.Status(http.StatusNotFound)
}

func (h *TrapHandlers) recordTrap(c *gin.Context, trapType string) {
	rc := requestContext(c)
	level := threat.Classify(trapType)

	// Direct probes carry no client session token; mint one so the
	// flagged session still exists for the dashboard.
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	headers := map[string]string{}
	for name, values := range c.Request.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}
	headersJSON, err := json.Marshal(headers)
	if err != nil {
		headersJSON = []byte("{}")
	}

	alert := models.HoneypotAlert{
		EventID:        uuid.New().String(),
		SessionID:      sessionID,
		IPAddress:      rc.IP,
		UserAgent:      rc.UserAgent,
		TrapType:       trapType,
		TrapURL:        c.Request.URL.Path,
		RequestMethod:  c.Request.Method,
		RequestHeaders: string(headersJSON),
		ThreatLevel:    string(level),
		Country:        rc.Country,
		CreatedAt:      time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.InsertHoneypotAlert(ctx, alert); err != nil {
		log.Error().Err(err).Str("trap_type", trapType).Msg("trap alert append failed")
		// The fake response still goes out; a probe should never see a
		// difference whether logging worked or not.
	}
	if err := h.Sessions.MarkSuspicious(ctx, sessionID, rc.IP); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to flag session after trap hit")
	}

	log.Warn().
		Str("ip", rc.IP).
		Str("trap_type", trapType).
		Str("path", c.Request.URL.Path).
		Str("threat_level", string(level)).
		Msg("trap endpoint hit")
}
