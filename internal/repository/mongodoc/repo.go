// Package mongodoc stores resource documents in MongoDB, one collection per
// resource kind, keyed by the record id in _id.
package mongodoc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// Repo implements usecase/entity.Repository over a MongoDB database.
type Repo struct {
	db *mongo.Database
}

// New creates a repository over db.
func New(db *mongo.Database) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var m bson.M
	err := r.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s %q: %w", collection, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find %s %q: %w", collection, id, err)
	}
	return fromBSON(m)
}

func (r *Repo) List(ctx context.Context, collection string) ([][]byte, error) {
	return r.find(ctx, collection, bson.M{})
}

// Save replaces the document under id, inserting it when absent.
func (r *Repo) Save(ctx context.Context, collection, id string, doc []byte) error {
	m, err := toBSON(id, doc)
	if err != nil {
		return fmt.Errorf("save %s %q: %w", collection, id, err)
	}

	_, err = r.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace %s %q: %w", collection, id, err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, collection, id string) error {
	if _, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s %q: %w", collection, id, err)
	}
	return nil
}

func (r *Repo) Exists(ctx context.Context, collection, id string) (bool, error) {
	n, err := r.db.Collection(collection).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count %s %q: %w", collection, id, err)
	}
	return n > 0, nil
}

// Count uses the collection metadata estimate; the tag field is irrelevant here.
func (r *Repo) Count(ctx context.Context, collection, _ string) (int, error) {
	n, err := r.db.Collection(collection).EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return int(n), nil
}

func (r *Repo) FindByTags(ctx context.Context, collection, field string, tags []string) ([][]byte, error) {
	if len(tags) == 0 {
		return [][]byte{}, nil
	}
	return r.find(ctx, collection, tagFilter(field, tags))
}

// EnsureIndex creates an ascending index on the tag field. Creating an
// identical index twice is a no-op on the server.
func (r *Repo) EnsureIndex(ctx context.Context, collection, tagField string) error {
	_, err := r.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: tagField, Value: 1}},
		Options: options.Index().SetName(tagField + "_idx"),
	})
	if err != nil {
		return fmt.Errorf("create index %s.%s: %w", collection, tagField, err)
	}
	return nil
}

func (r *Repo) find(ctx context.Context, collection string, filter bson.M) ([][]byte, error) {
	cur, err := r.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	out := make([][]byte, 0)
	for cur.Next(ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		raw, err := fromBSON(m)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

func tagFilter(field string, tags []string) bson.M {
	return bson.M{field: bson.M{"$in": tags}}
}

// toBSON converts a JSON document into a BSON map keyed by id.
func toBSON(id string, doc []byte) (bson.M, error) {
	var m bson.M
	if err := bson.UnmarshalExtJSON(doc, false, &m); err != nil {
		return nil, fmt.Errorf("decode json document: %w", err)
	}
	m["_id"] = id
	return m, nil
}

// fromBSON converts a stored BSON map back to plain JSON without _id.
func fromBSON(m bson.M) ([]byte, error) {
	delete(m, "_id")
	raw, err := bson.MarshalExtJSON(m, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode json document: %w", err)
	}
	return raw, nil
}
