// Package mongo is a MongoDB key-value backend. Every key lives in one
// document so a save is a single atomic upsert.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultDatabase = "tindahan"
	collectionName  = "state"
	stateID         = "state"
)

// StateCollection is what the store needs from the driver. It returns
// mongo.ErrNoDocuments from FindState when nothing was saved yet.
type StateCollection interface {
	FindState(ctx context.Context) (StateDocument, error)
	UpsertState(ctx context.Context, set bson.M) error
}

// MongoCollection adapts *mongo.Collection to StateCollection.
type MongoCollection struct {
	*mongo.Collection
}

func (c *MongoCollection) FindState(ctx context.Context) (StateDocument, error) {
	var doc StateDocument
	err := c.Collection.FindOne(ctx, bson.M{"_id": stateID}).Decode(&doc)
	return doc, err
}

func (c *MongoCollection) UpsertState(ctx context.Context, set bson.M) error {
	_, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": stateID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true))
	return err
}

// StateDocument holds every key of the store.
type StateDocument struct {
	ID        string            `bson:"_id"`
	Values    map[string]string `bson:"values"`
	UpdatedAt time.Time         `bson:"updatedAt"`
}

type Store struct {
	coll   StateCollection
	client *mongo.Client
	now    func() time.Time
}

// Connect dials uri, pings the server and returns a store on database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}
	slog.DebugContext(ctx, "Connecting to MongoDB", "database", database)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	s := NewStore(&MongoCollection{client.Database(database).Collection(collectionName)})
	s.client = client
	return s, nil
}

// NewStore wraps an existing collection.
func NewStore(coll StateCollection) *Store {
	return &Store{coll: coll, now: time.Now}
}

// Get implements persist.KV
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	doc, err := s.coll.FindState(ctx)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find state: %w", err)
	}
	v, ok := doc.Values[key]
	return v, ok, nil
}

// SetAll implements persist.KV
func (s *Store) SetAll(ctx context.Context, values map[string]string) error {
	set := bson.M{"updatedAt": s.now().UTC()}
	for k, v := range values {
		set["values."+k] = v
	}
	if err := s.coll.UpsertState(ctx, set); err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
