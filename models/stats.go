package models

// VisitorStats are dashboard totals over the visitor-arrival log.
type VisitorStats struct {
	TotalSessions    uint64 `json:"totalSessions"`
	TotalVisitors    uint64 `json:"totalVisitors"`
	UniqueIPs        uint64 `json:"uniqueIps"`
	BotVisits        uint64 `json:"botVisits"`
	GeolocatedVisits uint64 `json:"geolocatedVisits"`
}

// PageStats are dashboard totals over the page-view log.
type PageStats struct {
	TotalPageViews uint64  `json:"totalPageViews"`
	AvgTimeOnPage  float64 `json:"avgTimeOnPage"`
	AvgScrollDepth float64 `json:"avgScrollDepth"`
}

// HoneypotStats are alert counts broken down by threat level.
type HoneypotStats struct {
	TotalAlerts   uint64 `json:"totalAlerts"`
	HighThreats   uint64 `json:"highThreats"`
	MediumThreats uint64 `json:"mediumThreats"`
	LowThreats    uint64 `json:"lowThreats"`
}

// CountryCount is one row of the top-countries breakdown.
type CountryCount struct {
	Country string `json:"country"`
	Visits  uint64 `json:"visits"`
}

// DashboardStats is the operator dashboard aggregate.
type DashboardStats struct {
	Visitors           VisitorStats     `json:"visitors"`
	Pages              PageStats        `json:"pages"`
	Honeypot           HoneypotStats    `json:"honeypot"`
	RecentAlerts       []HoneypotAlert  `json:"recentAlerts"`
	TopCountries       []CountryCount   `json:"topCountries"`
	TotalSubmissions   int64            `json:"totalSubmissions"`
	SuspiciousSessions []SessionSummary `json:"suspiciousSessions"`
}
