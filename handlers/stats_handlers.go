package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"greeventech/telemetry/models"
	"greeventech/telemetry/store"
)

// StatsHandlers serves the read-only operator dashboard. It aggregates
// over everything the collector writes but mutates nothing.
type StatsHandlers struct {
	Stats    *store.StatsStore
	Sessions *store.SessionStore
	Contacts *store.ContactStore
}

func NewStatsHandlers(stats *store.StatsStore, sessions *store.SessionStore, contacts *store.ContactStore) *StatsHandlers {
	return &StatsHandlers{Stats: stats, Sessions: sessions, Contacts: contacts}
}

func (h *StatsHandlers) GetDashboard(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	var dashboard models.DashboardStats
	var err error

	if dashboard.Visitors, err = h.Stats.GetVisitorStats(ctx); err != nil {
		h.fail(c, err, "visitor stats")
		return
	}
	if dashboard.Pages, err = h.Stats.GetPageStats(ctx); err != nil {
		h.fail(c, err, "page stats")
		return
	}
	if dashboard.Honeypot, err = h.Stats.GetHoneypotStats(ctx); err != nil {
		h.fail(c, err, "honeypot stats")
		return
	}
	if dashboard.RecentAlerts, err = h.Stats.GetRecentAlerts(ctx, 10); err != nil {
		h.fail(c, err, "recent alerts")
		return
	}
	if dashboard.TopCountries, err = h.Stats.GetTopCountries(ctx, 10); err != nil {
		h.fail(c, err, "top countries")
		return
	}
	if dashboard.TotalSubmissions, err = h.Contacts.CountSubmissions(ctx); err != nil {
		h.fail(c, err, "contact submissions count")
		return
	}
	if dashboard.SuspiciousSessions, err = h.Sessions.GetSuspiciousSessions(ctx, 20); err != nil {
		h.fail(c, err, "suspicious sessions")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *StatsHandlers) fail(c *gin.Context, err error, what string) {
	log.Error().Err(err).Str("aggregate", what).Msg("dashboard query failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
}
