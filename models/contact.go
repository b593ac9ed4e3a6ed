package models

import "time"

// ContactRequest is the user-facing contact form payload. This is the
// one path that returns field-level validation detail to the client.
type ContactRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Message   string `json:"message" binding:"required,min=10,max=1000"`
	SessionID string `json:"sessionId"`
}

// ContactSubmission is one accepted contact-form post, written after the
// rate-limit gate and mail delivery succeed.
type ContactSubmission struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	IPAddress string    `json:"ipAddress"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	UserAgent string    `json:"userAgent"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
}
