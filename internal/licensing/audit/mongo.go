package audit

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultMongoCollection = "license_audit"

var validCollectionName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var _ Reader = (*MongoSink)(nil)

// MongoOption configures a MongoSink.
type MongoOption func(*MongoSink)

// WithCollectionName sets the collection events are written to.
// Default: "license_audit".
func WithCollectionName(name string) MongoOption {
	return func(s *MongoSink) {
		s.collectionName = name
	}
}

// MongoSink appends events to a MongoDB collection. The caller owns the
// database handle and its client lifecycle.
type MongoSink struct {
	collection     *mongo.Collection
	collectionName string
}

// NewMongoSink binds a sink to db and creates its indexes.
func NewMongoSink(ctx context.Context, db *mongo.Database, opts ...MongoOption) (*MongoSink, error) {
	s := &MongoSink{collectionName: defaultMongoCollection}
	for _, opt := range opts {
		opt(s)
	}
	if !validCollectionName.MatchString(s.collectionName) {
		return nil, fmt.Errorf("invalid collection name %q", s.collectionName)
	}
	s.collection = db.Collection(s.collectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "domain", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "license_id", Value: 1}, {Key: "at", Value: -1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return s, nil
}

func (s *MongoSink) Record(ctx context.Context, e Event) error {
	if _, err := s.collection.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByDomain returns the most recent events for domain, newest first.
func (s *MongoSink) ListByDomain(ctx context.Context, domain string, limit int64) ([]Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit)
	cursor, err := s.collection.Find(ctx, bson.M{"domain": domain}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}
	return events, nil
}
