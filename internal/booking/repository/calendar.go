package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"urbarber/pkg/config"
	"urbarber/pkg/model"
)

const EventCollectionName = "Calendar_events"

// CalendarStore is the authoritative event repository. The scheduler trusts
// nothing but this store at decision time: it re-reads the window on every
// attempt and never caches results across calls. Inserts are not assumed to
// reject overlapping events on their own.
type CalendarStore interface {
	ListEvents(ctx context.Context, windowStart, windowEnd time.Time) ([]*model.CalendarEvent, error)
	InsertEvent(ctx context.Context, event *model.CalendarEvent) (*model.CalendarEvent, error)
}

type mongoCalendarStore struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCalendarStore(cfg *config.Config) CalendarStore {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCalendarStore{
		cfg:        cfg,
		collection: db.Collection(EventCollectionName),
	}
}

// ListEvents returns every event intersecting [windowStart, windowEnd) under
// half-open semantics. The filter is the intersection predicate itself, so
// even an event far longer than the caller's scan window is returned as long
// as it reaches into the window.
func (s *mongoCalendarStore) ListEvents(ctx context.Context, windowStart, windowEnd time.Time) ([]*model.CalendarEvent, error) {
	filter := bson.M{
		"start_time": bson.M{"$lt": windowEnd},
		"end_time":   bson.M{"$gt": windowStart},
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := s.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.CalendarEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode calendar events: %w", err)
	}
	return events, nil
}

func (s *mongoCalendarStore) InsertEvent(ctx context.Context, event *model.CalendarEvent) (*model.CalendarEvent, error) {
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if s.cfg.EventLinkBase != "" {
		event.HTMLLink = s.cfg.EventLinkBase + event.ID
	}

	if _, err := s.collection.InsertOne(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return event, nil
}

// EnsureEventIndexes backs the window scan with an index over the interval
// bounds.
func EnsureEventIndexes(ctx context.Context, cfg *config.Config) error {
	collection := cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(EventCollectionName)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		},
	})
	return err
}
