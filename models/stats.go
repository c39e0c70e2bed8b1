// api/models/stats.go
package models

// TrafficSource is one referrer-domain bucket with its rounded share of all
// recorded events. Buckets whose share rounds to 0 are dropped upstream.
type TrafficSource struct {
	Source     string `json:"source"`
	Percentage int    `json:"percentage"`
}

// RecentVisitor is the dashboard projection of a single recent event.
// Pages is always 1 because each document represents exactly one page load.
type RecentVisitor struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Time    string `json:"time"`
	Pages   int    `json:"pages"`
}

// StatsSummary is the GET /api/stats response: one flat object, re-polled by
// the dashboard every 60s.
//
// AvgSessionDuration and BounceRate are intentional "N/A" placeholders; the
// dashboard renders them verbatim, so they are part of the contract.
type StatsSummary struct {
	TotalVisitors      int64            `json:"totalVisitors"`
	ActiveUsers        int64            `json:"activeUsers"`
	AvgSessionDuration string           `json:"avgSessionDuration"`
	BounceRate         string           `json:"bounceRate"`
	PageViews          map[string]int64 `json:"pageViews"`
	TrafficSources     []TrafficSource  `json:"trafficSources"`
	RecentVisitors     []RecentVisitor  `json:"recentVisitors"`
	DailyVisits        []int64          `json:"dailyVisits"`
}
