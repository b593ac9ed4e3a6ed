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

// maxElementTextLen bounds the click element text snippet stored per
// click event.
const maxElementTextLen = 100

// EventStore is the append-only event log consumed by the recorder.
type EventStore interface {
	InsertVisitorEvent(ctx context.Context, e models.VisitorEvent) error
	InsertPageViewEvent(ctx context.Context, e models.PageViewEvent) error
	InsertClickEvent(ctx context.Context, e models.ClickEvent) error
	InsertHoneypotAlert(ctx context.Context, a models.HoneypotAlert) error
}

// SessionStore is the per-token summary aggregate consumed by the
// recorder. The aggregate is a derived cache over the event log: a
// failed upsert is logged and swallowed, never rolled into the response.
type SessionStore interface {
	UpsertSession(ctx context.Context, token, ip string, kind models.EventKind) error
	MarkSuspicious(ctx context.Context, token, ip string) error
}

type TrackHandlers struct {
	Events   EventStore
	Sessions SessionStore
}

func NewTrackHandlers(events EventStore, sessions SessionStore) *TrackHandlers {
	return &TrackHandlers{Events: events, Sessions: sessions}
}

// TrackVisitor records one visitor-arrival event per page load.
func (h *TrackHandlers) TrackVisitor(c *gin.Context) {
	var req models.VisitorArrivalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("invalid visitor payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rc := requestContext(c)
	referrer := c.GetHeader("Referer")
	if referrer == "" {
		referrer = req.Referrer
	}
	if referrer == "" {
		referrer = "direct"
	}
	botName := ""
	if req.BotName != nil {
		botName = *req.BotName
	}

	event := models.VisitorEvent{
		EventID:          uuid.New().String(),
		SessionID:        req.SessionID,
		IPAddress:        rc.IP,
		UserAgent:        rc.UserAgent,
		Referrer:         referrer,
		LandingPage:      req.LandingPage,
		Country:          rc.Country,
		City:             rc.City,
		Region:           rc.Region,
		Latitude:         rc.Latitude,
		Longitude:        rc.Longitude,
		DeviceType:       req.DeviceType,
		Browser:          req.Browser,
		OS:               req.OS,
		ScreenResolution: req.ScreenResolution,
		Language:         req.Language,
		Timezone:         req.Timezone,
		IsBot:            *req.IsBot,
		BotName:          botName,
		CreatedAt:        time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.InsertVisitorEvent(ctx, event); err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("visitor event append failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tracking failed"})
		return
	}

	h.upsertSession(ctx, req.SessionID, rc.IP, models.KindVisitorArrival)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TrackPageView records one page-view event per page unload or
// visibility loss.
func (h *TrackHandlers) TrackPageView(c *gin.Context) {
	var req models.PageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("invalid page view payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rc := requestContext(c)
	event := models.PageViewEvent{
		EventID:     uuid.New().String(),
		SessionID:   req.SessionID,
		PageURL:     req.PageURL,
		PageTitle:   req.PageTitle,
		TimeOnPage:  *req.TimeOnPage,
		ScrollDepth: *req.ScrollDepth,
		ClicksCount: *req.ClicksCount,
		CreatedAt:   time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.InsertPageViewEvent(ctx, event); err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("page view append failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tracking failed"})
		return
	}

	h.upsertSession(ctx, req.SessionID, rc.IP, models.KindPageView)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TrackClick records one click event per DOM click.
func (h *TrackHandlers) TrackClick(c *gin.Context) {
	var req models.ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("invalid click payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rc := requestContext(c)
	event := models.ClickEvent{
		EventID:      uuid.New().String(),
		SessionID:    req.SessionID,
		ElementType:  req.ElementType,
		ElementID:    req.ElementID,
		ElementClass: req.ElementClass,
		ElementText:  truncate(req.ElementText, maxElementTextLen),
		PageURL:      req.PageURL,
		XPosition:    *req.X,
		YPosition:    *req.Y,
		CreatedAt:    time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.InsertClickEvent(ctx, event); err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("click append failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tracking failed"})
		return
	}

	h.upsertSession(ctx, req.SessionID, rc.IP, models.KindClick)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TrackHoneypot records one trap trigger: the alert is appended with a
// server-derived threat level and the owning session is flagged
// suspicious. Level and country are never client-supplied.
func (h *TrackHandlers) TrackHoneypot(c *gin.Context) {
	var req models.HoneypotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("invalid honeypot payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rc := requestContext(c)
	level := threat.Classify(req.TrapType)

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	headers := req.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	headersJSON, err := json.Marshal(headers)
	if err != nil {
		headersJSON = []byte("{}")
	}

	alert := models.HoneypotAlert{
		EventID:        uuid.New().String(),
		SessionID:      req.SessionID,
		IPAddress:      rc.IP,
		UserAgent:      rc.UserAgent,
		TrapType:       req.TrapType,
		TrapURL:        req.TrapURL,
		RequestMethod:  method,
		RequestHeaders: string(headersJSON),
		RequestBody:    req.Body,
		ThreatLevel:    string(level),
		Country:        rc.Country,
		CreatedAt:      time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.InsertHoneypotAlert(ctx, alert); err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("honeypot alert append failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tracking failed"})
		return
	}

	if err := h.Sessions.MarkSuspicious(ctx, req.SessionID, rc.IP); err != nil {
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to flag session after honeypot trigger")
	}

	log.Warn().
		Str("ip", rc.IP).
		Str("trap_type", req.TrapType).
		Str("trap_url", req.TrapURL).
		Str("threat_level", string(level)).
		Msg("honeypot triggered")

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Activity logged"})
}

// upsertSession applies the best-effort aggregate update. The event log
// is authoritative; a failed upsert is logged for manual replay and the
// request still succeeds.
func (h *TrackHandlers) upsertSession(ctx context.Context, token, ip string, kind models.EventKind) {
	if err := h.Sessions.UpsertSession(ctx, token, ip, kind); err != nil {
		log.Error().Err(err).
			Str("session_id", token).
			Str("event_kind", string(kind)).
			Msg("session summary upsert failed, event log remains authoritative")
	}
}
