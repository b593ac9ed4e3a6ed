package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"greeventech/telemetry/mailer"
	"greeventech/telemetry/models"
	"greeventech/telemetry/ratelimit"
)

// ContactStore persists accepted contact submissions.
type ContactStore interface {
	InsertSubmission(ctx context.Context, sub models.ContactSubmission) error
}

type ContactHandlers struct {
	Limiter  ratelimit.Limiter
	Contacts ContactStore
	Mail     mailer.Mailer
}

func NewContactHandlers(limiter ratelimit.Limiter, contacts ContactStore, mail mailer.Mailer) *ContactHandlers {
	return &ContactHandlers{Limiter: limiter, Contacts: contacts, Mail: mail}
}

// SubmitContact handles the one user-facing write path with an external
// side effect. Order: rate-limit gate, schema validation (this path
// returns field-level detail), mail delivery, then the submission
// record.
func (h *ContactHandlers) SubmitContact(c *gin.Context) {
	rc := requestContext(c)

	allowed, err := h.Limiter.Allow(c.Request.Context(), rc.IP)
	if err != nil {
		// A broken limiter backend should not take the contact form
		// down with it; fail open and log.
		log.Error().Err(err).Msg("rate limiter check failed")
		allowed = true
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
		return
	}

	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data", "details": err.Error()})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = unknownValue
	}

	sub := models.ContactSubmission{
		SessionID: sessionID,
		IPAddress: rc.IP,
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		UserAgent: rc.UserAgent,
		Country:   rc.Country,
	}

	if err := h.Mail.SendContactNotification(sub); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("contact notification delivery failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email. Please try again later."})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Contacts.InsertSubmission(ctx, sub); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to store contact submission")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
}
