// api/handlers/stats_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Witt007/techos-api/models"
	"github.com/Witt007/techos-api/store"
)

const (
	activeWindow       = 5 * time.Minute
	pageViewLimit      = 50
	recentVisitorLimit = 20
)

type StatsHandlers struct {
	Events store.EventStore
}

func NewStatsHandlers(events store.EventStore) *StatsHandlers {
	return &StatsHandlers{Events: events}
}

// GetStats computes the dashboard summary from the full event history.
//
// The six metrics are independent reads over the same append-only collection,
// so they fan out concurrently and join before responding. Events inserted
// mid-aggregation may or may not be counted; the dashboard re-polls every
// 60s, so eventual consistency is fine. Any query failure fails the whole
// response, never a partial one.
func (h *StatsHandlers) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	now := time.Now()
	summary := models.StatsSummary{
		AvgSessionDuration: "N/A",
		BounceRate:         "N/A",
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TotalVisitors, err = h.Events.TotalVisitors(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.ActiveUsers, err = h.Events.ActiveUsers(gctx, now.Add(-activeWindow))
		return err
	})
	g.Go(func() (err error) {
		summary.PageViews, err = h.Events.PageViews(gctx, pageViewLimit)
		return err
	})
	g.Go(func() (err error) {
		summary.TrafficSources, err = h.Events.TrafficSources(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.DailyVisits, err = h.Events.DailyVisits(gctx, now)
		return err
	})
	g.Go(func() (err error) {
		summary.RecentVisitors, err = h.Events.RecentVisitors(gctx, recentVisitorLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("Error aggregating stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
