package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists stories in a MongoDB collection, one document per
// slug.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to "storyloom"
	Collection string // defaults to "stories"
}

// NewMongoStore connects to MongoDB, verifies the connection with a
// ping, and ensures a unique index on the slug field.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "storyloom"
	}
	if cfg.Collection == "" {
		cfg.Collection = "stories"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create slug index: %w", err)
	}

	return &MongoStore{client: client, collection: coll}, nil
}

// Save upserts a record by slug.
func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec); err != nil {
		return err
	}

	if old, err := s.Load(ctx, rec.Slug); err == nil {
		rec.ID = old.ID
		rec.CreatedAt = old.CreatedAt
	}

	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"slug": rec.Slug}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Load retrieves a record by slug.
func (s *MongoStore) Load(ctx context.Context, slug string) (*Record, error) {
	var rec Record
	err := s.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	return &rec, nil
}

// Delete removes a record by slug.
func (s *MongoStore) Delete(ctx context.Context, slug string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns summaries for all stored stories, most recently updated
// first. The scene payload is excluded from the query projection.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	cur, err := s.collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"scenes": 0}))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer cur.Close(ctx)

	var infos []Info
	for cur.Next(ctx) {
		var info Info
		if err := cur.Decode(&info); err != nil {
			continue
		}
		infos = append(infos, info)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	sortInfos(infos)
	return infos, nil
}

// Close disconnects the MongoDB client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
