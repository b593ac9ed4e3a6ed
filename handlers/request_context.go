package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"greeventech/telemetry/models"
)

// unknownValue is the default for any context field the fronting proxy
// did not supply.
const unknownValue = "unknown"

// requestContext reads the trusted request-derived fields: client IP,
// user-agent, and the geolocation headers set by the network edge. None
// of these are ever taken from the request body.
func requestContext(c *gin.Context) models.RequestContext {
	ip := c.ClientIP()
	if ip == "" {
		ip = unknownValue
	}
	return models.RequestContext{
		IP:        ip,
		UserAgent: headerOr(c, "User-Agent", unknownValue),
		Country:   headerOr(c, "CF-IPCountry", unknownValue),
		City:      headerOr(c, "CF-IPCity", unknownValue),
		Region:    headerOr(c, "CF-Region", unknownValue),
		Latitude:  coordinateHeader(c, "CF-Latitude"),
		Longitude: coordinateHeader(c, "CF-Longitude"),
	}
}

func headerOr(c *gin.Context, name, fallback string) string {
	if v := c.GetHeader(name); v != "" {
		return v
	}
	return fallback
}

// coordinateHeader returns nil rather than "unknown" when the edge sent
// no coordinate, so the column stays NULL.
func coordinateHeader(c *gin.Context, name string) *float64 {
	v := c.GetHeader(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
