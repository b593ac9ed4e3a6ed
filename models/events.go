package models

import "time"

// EventKind identifies which append-only log an event belongs to and
// which counters its session upsert touches.
type EventKind string

const (
	KindVisitorArrival EventKind = "visitor_arrival"
	KindPageView       EventKind = "page_view"
	KindClick          EventKind = "click"
	KindHoneypot       EventKind = "honeypot"
)

// RequestContext carries the trusted request-derived fields: client IP,
// user-agent, and the geolocation headers supplied by the fronting proxy.
// Absent values default to "unknown" (nil for coordinates); nothing here
// is ever read from the request body.
type RequestContext struct {
	IP        string
	UserAgent string
	Country   string
	City      string
	Region    string
	Latitude  *float64
	Longitude *float64
}

// VisitorArrivalRequest is the ingestion payload for one page load.
type VisitorArrivalRequest struct {
	SessionID        string  `json:"sessionId" binding:"required"`
	LandingPage      string  `json:"landingPage" binding:"required"`
	Referrer         string  `json:"referrer"`
	DeviceType       string  `json:"deviceType" binding:"required"`
	Browser          string  `json:"browser" binding:"required"`
	OS               string  `json:"os" binding:"required"`
	ScreenResolution string  `json:"screenResolution" binding:"required"`
	Language         string  `json:"language" binding:"required"`
	Timezone         string  `json:"timezone" binding:"required"`
	IsBot            *bool   `json:"isBot" binding:"required"`
	BotName          *string `json:"botName"`
}

// PageViewRequest is reported on page unload or visibility loss.
// Numeric fields are pointers so a genuine zero survives the required
// check.
type PageViewRequest struct {
	SessionID   string `json:"sessionId" binding:"required"`
	PageURL     string `json:"pageUrl" binding:"required"`
	PageTitle   string `json:"pageTitle" binding:"required"`
	TimeOnPage  *int64 `json:"timeOnPage" binding:"required"`
	ScrollDepth *int64 `json:"scrollDepth" binding:"required,min=0,max=100"`
	ClicksCount *int64 `json:"clicksCount" binding:"required"`
}

// ClickRequest is reported once per DOM click.
type ClickRequest struct {
	SessionID    string `json:"sessionId" binding:"required"`
	ElementType  string `json:"elementType" binding:"required"`
	ElementID    string `json:"elementId"`
	ElementClass string `json:"elementClass"`
	ElementText  string `json:"elementText"`
	PageURL      string `json:"pageUrl" binding:"required"`
	X            *int64 `json:"x" binding:"required"`
	Y            *int64 `json:"y" binding:"required"`
}

// HoneypotRequest is reported when a trap URL or hidden element is hit.
// Threat level and country are never taken from the client; both are
// derived server-side.
type HoneypotRequest struct {
	SessionID string            `json:"sessionId" binding:"required"`
	TrapType  string            `json:"trapType" binding:"required"`
	TrapURL   string            `json:"trapUrl" binding:"required"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Body      string            `json:"body"`
}

// VisitorEvent is one immutable visitor-arrival row in the event log.
type VisitorEvent struct {
	EventID          string    `json:"eventId"`
	SessionID        string    `json:"sessionId"`
	IPAddress        string    `json:"ipAddress"`
	UserAgent        string    `json:"userAgent"`
	Referrer         string    `json:"referrer"`
	LandingPage      string    `json:"landingPage"`
	Country          string    `json:"country"`
	City             string    `json:"city"`
	Region           string    `json:"region"`
	Latitude         *float64  `json:"latitude,omitempty"`
	Longitude        *float64  `json:"longitude,omitempty"`
	DeviceType       string    `json:"deviceType"`
	Browser          string    `json:"browser"`
	OS               string    `json:"os"`
	ScreenResolution string    `json:"screenResolution"`
	Language         string    `json:"language"`
	Timezone         string    `json:"timezone"`
	IsBot            bool      `json:"isBot"`
	BotName          string    `json:"botName,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PageViewEvent is one immutable page-view row in the event log.
type PageViewEvent struct {
	EventID     string    `json:"eventId"`
	SessionID   string    `json:"sessionId"`
	PageURL     string    `json:"pageUrl"`
	PageTitle   string    `json:"pageTitle"`
	TimeOnPage  int64     `json:"timeOnPage"`
	ScrollDepth int64     `json:"scrollDepth"`
	ClicksCount int64     `json:"clicksCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClickEvent is one immutable click row in the event log.
type ClickEvent struct {
	EventID      string    `json:"eventId"`
	SessionID    string    `json:"sessionId"`
	ElementType  string    `json:"elementType"`
	ElementID    string    `json:"elementId,omitempty"`
	ElementClass string    `json:"elementClass,omitempty"`
	ElementText  string    `json:"elementText,omitempty"`
	PageURL      string    `json:"pageUrl"`
	XPosition    int64     `json:"x"`
	YPosition    int64     `json:"y"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HoneypotAlert is one immutable trap-trigger row in the event log.
// RequestHeaders holds the captured headers as a JSON document.
type HoneypotAlert struct {
	EventID        string    `json:"eventId"`
	SessionID      string    `json:"sessionId"`
	IPAddress      string    `json:"ipAddress"`
	UserAgent      string    `json:"userAgent"`
	TrapType       string    `json:"trapType"`
	TrapURL        string    `json:"trapUrl"`
	RequestMethod  string    `json:"requestMethod"`
	RequestHeaders string    `json:"requestHeaders"`
	RequestBody    string    `json:"requestBody,omitempty"`
	ThreatLevel    string    `json:"threatLevel"`
	Country        string    `json:"country"`
	CreatedAt      time.Time `json:"createdAt"`
}
