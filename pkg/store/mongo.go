package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoCollection is the collection shared diagrams live in.
const DefaultMongoCollection = "diagrams"

// Mongo stores one BSON document per diagram, keyed by _id.
type Mongo struct {
	client *mongo.Client // nil when built from a collection
	coll   *mongo.Collection
}

// NewMongo connects to uri and uses database.diagrams, creating the
// created_at index used by List.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(database).Collection(DefaultMongoCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Mongo{client: client, coll: coll}, nil
}

// NewMongoFromCollection uses an existing collection. Close leaves the
// owning client connected.
func NewMongoFromCollection(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

func (m *Mongo) Put(ctx context.Context, doc Document) error {
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save to mongo: %w", err)
	}
	return nil
}

func (m *Mongo) Get(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, notFound(id)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get from mongo: %w", err)
	}
	return doc, nil
}

func (m *Mongo) Delete(ctx context.Context, id string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (m *Mongo) List(ctx context.Context, limit int) ([]Document, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit)))
	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list from mongo: %w", err)
	}
	out := []Document{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return out, nil
}

func (m *Mongo) Close() error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(context.Background())
}

var _ Store = (*Mongo)(nil)
