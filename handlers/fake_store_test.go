package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Witt007/techos-api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeEventStore satisfies store.EventStore with canned data so handlers can
// be exercised without a database.
type fakeEventStore struct {
	inserted []models.PageViewEvent

	total   int64
	active  int64
	views   map[string]int64
	sources []models.TrafficSource
	daily   []int64
	recent  []models.RecentVisitor

	insertErr error
	queryErr  error
}

func (f *fakeEventStore) InsertPageView(_ context.Context, ev models.PageViewEvent) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, ev)
	return nil
}

func (f *fakeEventStore) TotalVisitors(context.Context) (int64, error) {
	return f.total, f.queryErr
}

func (f *fakeEventStore) ActiveUsers(context.Context, time.Time) (int64, error) {
	return f.active, f.queryErr
}

func (f *fakeEventStore) PageViews(context.Context, int64) (map[string]int64, error) {
	return f.views, f.queryErr
}

func (f *fakeEventStore) TrafficSources(context.Context) ([]models.TrafficSource, error) {
	return f.sources, f.queryErr
}

func (f *fakeEventStore) DailyVisits(context.Context, time.Time) ([]int64, error) {
	return f.daily, f.queryErr
}

func (f *fakeEventStore) RecentVisitors(context.Context, int64) ([]models.RecentVisitor, error) {
	return f.recent, f.queryErr
}
