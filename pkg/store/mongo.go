package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nloeffler/chaosgame/pkg/observability"
)

// Mongo backend defaults.
const (
	// DefaultMongoDatabase is used when MongoConfig.Database is empty.
	DefaultMongoDatabase = "chaosgame"

	// mongoCollection is the collection session records live in.
	mongoCollection = "sessions"

	// mongoCloseTimeout bounds the disconnect on Close.
	mongoCloseTimeout = 5 * time.Second
)

// MongoConfig holds connection settings for the MongoDB backend.
type MongoConfig struct {
	URI      string
	Database string
}

// MongoStore is a MongoDB-backed session store for durable deployments.
// Records are stored as JSON payloads in documents keyed by session ID, so
// the on-disk shape stays identical across backends.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoRecord is the document shape: the serialized record plus the fields
// queries filter and sort on.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri required")
	}
	db := cfg.Database
	if db == "" {
		db = DefaultMongoDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Put(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	doc := mongoRecord{ID: rec.ID, Data: data, UpdatedAt: rec.UpdatedAt}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	observability.Store().OnPut(ctx, string(KindMongo), rec.ID, len(data))
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc mongoRecord
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			observability.Store().OnGet(ctx, string(KindMongo), id, false)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(doc.Data, &rec); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}

	observability.Store().OnGet(ctx, string(KindMongo), id, true)
	return &rec, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}

	observability.Store().OnDelete(ctx, string(KindMongo), id)
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode session id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return ids, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoCloseTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
