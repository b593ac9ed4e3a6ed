package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greeventech/telemetry/models"
)

type memContactStore struct {
	submissions []models.ContactSubmission
	failing     bool
}

func (s *memContactStore) InsertSubmission(_ context.Context, sub models.ContactSubmission) error {
	if s.failing {
		return errStorage
	}
	s.submissions = append(s.submissions, sub)
	return nil
}

type fakeMailer struct {
	sent    []models.ContactSubmission
	failing bool
}

func (m *fakeMailer) SendContactNotification(sub models.ContactSubmission) error {
	if m.failing {
		return errors.New("smtp dial failed")
	}
	m.sent = append(m.sent, sub)
	return nil
}

type stubLimiter struct {
	allowed bool
	keys    []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, nil
}

func newContactRouter(limiter *stubLimiter, contacts *memContactStore, mail *fakeMailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewContactHandlers(limiter, contacts, mail)
	r := gin.New()
	r.POST("/api/contact", h.SubmitContact)
	return r
}

func contactPayload(message string) map[string]any {
	return map[string]any{
		"name":    "Ada",
		"email":   "ada@example.com",
		"message": message,
	}
}

func postContact(r *gin.Engine, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitContactSuccess(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	contacts := &memContactStore{}
	mail := &fakeMailer{}
	r := newContactRouter(limiter, contacts, mail)

	w := postContact(r, contactPayload("I would like a quote for a site."))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mail.sent, 1)
	require.Len(t, contacts.submissions, 1)
	assert.Equal(t, "Ada", contacts.submissions[0].Name)
	assert.Equal(t, "unknown", contacts.submissions[0].SessionID)
}

func TestSubmitContactMessageBoundary(t *testing.T) {
	// The documented minimum is 10 characters: 9 fails, exactly 10
	// succeeds.
	tests := []struct {
		name    string
		message string
		want    int
	}{
		{"nine characters rejected", strings.Repeat("a", 9), http.StatusBadRequest},
		{"ten characters accepted", strings.Repeat("a", 10), http.StatusOK},
		{"thousand characters accepted", strings.Repeat("a", 1000), http.StatusOK},
		{"over a thousand rejected", strings.Repeat("a", 1001), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newContactRouter(&stubLimiter{allowed: true}, &memContactStore{}, &fakeMailer{})
			w := postContact(r, contactPayload(tt.message))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSubmitContactValidationDetail(t *testing.T) {
	r := newContactRouter(&stubLimiter{allowed: true}, &memContactStore{}, &fakeMailer{})

	w := postContact(r, map[string]any{
		"name":    "Ada",
		"email":   "not-an-email",
		"message": "long enough message",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// The contact path is the one place field-level detail is returned.
	assert.Contains(t, w.Body.String(), "details")
	assert.Contains(t, w.Body.String(), "Email")
}

func TestSubmitContactRateLimited(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	contacts := &memContactStore{}
	mail := &fakeMailer{}
	r := newContactRouter(limiter, contacts, mail)

	w := postContact(r, contactPayload("a perfectly valid message"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, mail.sent, "denied requests must not reach the mailer")
	assert.Empty(t, contacts.submissions)
}

func TestSubmitContactDeliveryFailure(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	contacts := &memContactStore{}
	mail := &fakeMailer{failing: true}
	r := newContactRouter(limiter, contacts, mail)

	w := postContact(r, contactPayload("a perfectly valid message"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "smtp", "internal detail must not leak")
	assert.Empty(t, contacts.submissions, "nothing is stored when delivery fails")
}

func TestSubmitContactStorageFailure(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	contacts := &memContactStore{failing: true}
	mail := &fakeMailer{}
	r := newContactRouter(limiter, contacts, mail)

	w := postContact(r, contactPayload("a perfectly valid message"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
