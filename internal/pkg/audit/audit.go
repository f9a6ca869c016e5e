// Package audit records who changed what. Entries go to MongoDB when it is
// configured and to the process log otherwise.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Entry is a single audit record
type Entry struct {
	ID         string                 `bson:"_id" json:"id"`
	ActorID    string                 `bson:"actorId" json:"actorId"`
	Action     string                 `bson:"action" json:"action"`
	EntityType string                 `bson:"entityType" json:"entityType"`
	EntityID   string                 `bson:"entityId" json:"entityId"`
	Metadata   map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time              `bson:"createdAt" json:"createdAt"`
}

// Recorder persists and lists audit entries
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

func normalize(entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
}

// MongoRecorder writes entries into a collection
type MongoRecorder struct {
	coll *mongo.Collection
}

// ConnectMongo opens a client and verifies it with a ping
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}
	return client, nil
}

func NewMongoRecorder(client *mongo.Client, database, collection string) *MongoRecorder {
	return &MongoRecorder{coll: client.Database(database).Collection(collection)}
}

func (r *MongoRecorder) Record(ctx context.Context, entry Entry) error {
	normalize(&entry)
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *MongoRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]Entry, 0, limit)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit entries: %w", err)
	}
	return entries, nil
}

// LogRecorder writes entries to the logger and keeps the latest ones in memory
type LogRecorder struct {
	log      zerolog.Logger
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

func NewLogRecorder(log zerolog.Logger, capacity int) *LogRecorder {
	if capacity <= 0 {
		capacity = 200
	}
	return &LogRecorder{log: log, capacity: capacity}
}

func (r *LogRecorder) Record(_ context.Context, entry Entry) error {
	normalize(&entry)

	r.log.Info().
		Str("actor", entry.ActorID).
		Str("action", entry.Action).
		Str("entity_type", entry.EntityType).
		Str("entity_id", entry.EntityID).
		Fields(entry.Metadata).
		Msg("audit")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[len(r.entries)-r.capacity:]
	}
	return nil
}

func (r *LogRecorder) Recent(_ context.Context, limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
