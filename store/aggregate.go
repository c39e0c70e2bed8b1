// api/store/aggregate.go
package store

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Witt007/techos-api/models"
)

// directBucket groups every event without a usable referrer: direct visits,
// bookmarks, and referrers the extraction below cannot parse.
const directBucket = "Direct"

// referrerSource extracts the host-ish segment of a referrer URL by splitting
// on "/" and taking index 2 ("https://example.com/x" -> "example.com"). The
// prefix check is on "http" so both schemes pass; anything else (android-app://,
// empty, garbage) lands in the Direct bucket. Deliberately not a full URL
// parse: the dashboard only needs a coarse grouping label.
func referrerSource(referrer string) string {
	if !strings.HasPrefix(referrer, "http") {
		return directBucket
	}
	parts := strings.Split(referrer, "/")
	if len(parts) < 3 || parts[2] == "" {
		return directBucket
	}
	return parts[2]
}

// aggregateTrafficSources turns raw referrer counts (empty key = no referrer)
// into at most 10 domain buckets with rounded percentage shares. Buckets whose
// share rounds to 0 are dropped, so the shares may sum below 100 but never
// meaningfully above.
func aggregateTrafficSources(counts map[string]int64) []models.TrafficSource {
	grouped := make(map[string]int64)
	var total int64
	for referrer, n := range counts {
		grouped[referrerSource(referrer)] += n
		total += n
	}
	if total == 0 {
		total = 1
	}

	sources := make([]models.TrafficSource, 0, len(grouped))
	for source, n := range grouped {
		pct := int(math.Round(float64(n) / float64(total) * 100))
		if pct == 0 {
			continue
		}
		sources = append(sources, models.TrafficSource{Source: source, Percentage: pct})
	}

	// Sort by share descending; ties alphabetically so output is stable.
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Percentage != sources[j].Percentage {
			return sources[i].Percentage > sources[j].Percentage
		}
		return sources[i].Source < sources[j].Source
	})
	if len(sources) > 10 {
		sources = sources[:10]
	}
	return sources
}

// dailyBuckets counts events per calendar day over the last 12 days in the
// given location, oldest first, with the final bucket representing "today".
// Timestamps outside the window are ignored.
func dailyBuckets(stamps []time.Time, now time.Time) []int64 {
	const dayKey = "2006-01-02"

	buckets := make([]int64, 12)
	index := make(map[string]int, 12)
	for i := 0; i < 12; i++ {
		index[now.AddDate(0, 0, i-11).Format(dayKey)] = i
	}
	for _, ts := range stamps {
		if i, ok := index[ts.In(now.Location()).Format(dayKey)]; ok {
			buckets[i]++
		}
	}
	return buckets
}

// timeLabel renders an event age for the recent-visitors list.
func timeLabel(ts, now time.Time) string {
	mins := int(now.Sub(ts).Minutes())
	if mins < 0 {
		mins = 0
	}
	if mins < 60 {
		return fmt.Sprintf("%d min ago", mins)
	}
	return fmt.Sprintf("%d h ago", mins/60)
}

// recentVisitorView projects one stored event into its dashboard row.
// Pages is 1 because each document is exactly one page load.
func recentVisitorView(ev models.PageViewEvent, now time.Time) models.RecentVisitor {
	v := models.RecentVisitor{
		Country: "Unknown",
		City:    "Unknown",
		Time:    timeLabel(ev.Timestamp, now),
		Pages:   1,
	}
	if ev.Geo != nil {
		if ev.Geo.Country != "" {
			v.Country = ev.Geo.Country
		}
		if ev.Geo.City != "" {
			v.City = ev.Geo.City
		}
	}
	return v
}
