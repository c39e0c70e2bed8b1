// api/store/event_store.go
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Witt007/techos-api/database"
	"github.com/Witt007/techos-api/models"
)

// EventStore is the persistence boundary for page-view events. Handlers
// depend on this interface so tests can swap in a fake without a database.
type EventStore interface {
	InsertPageView(ctx context.Context, ev models.PageViewEvent) error
	TotalVisitors(ctx context.Context) (int64, error)
	ActiveUsers(ctx context.Context, since time.Time) (int64, error)
	PageViews(ctx context.Context, limit int64) (map[string]int64, error)
	TrafficSources(ctx context.Context) ([]models.TrafficSource, error)
	DailyVisits(ctx context.Context, now time.Time) ([]int64, error)
	RecentVisitors(ctx context.Context, limit int64) ([]models.RecentVisitor, error)
}

// MongoEventStore stores events in an append-only MongoDB collection. The
// application never updates or deletes documents; every dashboard number is
// derived at read time.
type MongoEventStore struct {
	coll *mongo.Collection
}

func NewMongoEventStore(mc *database.MongoClient) *MongoEventStore {
	s := &MongoEventStore{coll: mc.Collection("page_views")}

	// Indexes back the distinct-session and time-window queries. Creation is
	// idempotent; a failure here only costs query speed, not correctness.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}}},
		{Keys: bson.D{{Key: "path", Value: 1}}},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	})

	return s
}

func (s *MongoEventStore) InsertPageView(ctx context.Context, ev models.PageViewEvent) error {
	if _, err := s.coll.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("failed to insert page view: %w", err)
	}
	return nil
}

// distinctSessions counts distinct session_id values matching the filter.
func (s *MongoEventStore) distinctSessions(ctx context.Context, filter bson.M) (int64, error) {
	pipeline := []bson.M{}
	if len(filter) > 0 {
		pipeline = append(pipeline, bson.M{"$match": filter})
	}
	pipeline = append(pipeline,
		bson.M{"$group": bson.M{"_id": "$session_id"}},
		bson.M{"$count": "sessions"},
	)

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate distinct sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Sessions int64 `bson:"sessions"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode distinct session count: %w", err)
		}
		return result.Sessions, nil
	}
	return 0, cursor.Err()
}

func (s *MongoEventStore) TotalVisitors(ctx context.Context) (int64, error) {
	return s.distinctSessions(ctx, bson.M{})
}

// ActiveUsers counts distinct sessions seen at or after the cutoff. The
// boundary is inclusive: an event timestamped exactly at `since` counts.
func (s *MongoEventStore) ActiveUsers(ctx context.Context, since time.Time) (int64, error) {
	return s.distinctSessions(ctx, bson.M{"timestamp": bson.M{"$gte": since}})
}

func (s *MongoEventStore) PageViews(ctx context.Context, limit int64) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$path", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
		{"$limit": limit},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate page views: %w", err)
	}
	defer cursor.Close(ctx)

	views := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Path  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		views[row.Path] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating page view rows: %w", err)
	}
	return views, nil
}

// TrafficSources groups events by referrer in the database (one row per
// distinct referrer) and buckets them into domains in memory, where the
// null-handling rules live.
func (s *MongoEventStore) TrafficSources(ctx context.Context) ([]models.TrafficSource, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$referrer", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate referrers: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[string]int64)
	for cursor.Next(ctx) {
		var row struct {
			Referrer *string `bson:"_id"`
			Count    int64   `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		key := ""
		if row.Referrer != nil {
			key = *row.Referrer
		}
		counts[key] += row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating referrer rows: %w", err)
	}
	return aggregateTrafficSources(counts), nil
}

// DailyVisits returns per-day event counts for the last 12 calendar days in
// now's location, oldest first.
func (s *MongoEventStore) DailyVisits(ctx context.Context, now time.Time) ([]int64, error) {
	y, m, d := now.AddDate(0, 0, -11).Date()
	windowStart := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	cursor, err := s.coll.Find(ctx,
		bson.M{"timestamp": bson.M{"$gte": windowStart}},
		options.Find().SetProjection(bson.M{"timestamp": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily visit window: %w", err)
	}
	defer cursor.Close(ctx)

	var stamps []time.Time
	for cursor.Next(ctx) {
		var row struct {
			Timestamp time.Time `bson:"timestamp"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		stamps = append(stamps, row.Timestamp)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily visit rows: %w", err)
	}
	return dailyBuckets(stamps, now), nil
}

func (s *MongoEventStore) RecentVisitors(ctx context.Context, limit int64) ([]models.RecentVisitor, error) {
	cursor, err := s.coll.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.M{"timestamp": -1}).
			SetLimit(limit).
			SetProjection(bson.M{"session_id": 1, "path": 1, "timestamp": 1, "geo": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent visitors: %w", err)
	}
	defer cursor.Close(ctx)

	now := time.Now()
	visitors := make([]models.RecentVisitor, 0, limit)
	for cursor.Next(ctx) {
		var ev models.PageViewEvent
		if err := cursor.Decode(&ev); err != nil {
			continue
		}
		visitors = append(visitors, recentVisitorView(ev, now))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent visitor rows: %w", err)
	}
	return visitors, nil
}
