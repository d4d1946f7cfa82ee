package registry

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mydressline-hue/stockpile/pkg/errors"
)

const (
	registryCollection  = "discontinued_styles"
	inventoryCollection = "inventory_items"
)

// MongoStore persists registry records in MongoDB. One document per
// (saleSourceId, style) pair; soft deletes flip the active flag.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connecting to registry store")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "pinging registry store")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(registryCollection),
	}, nil
}

func (s *MongoStore) List(ctx context.Context, sourceID string) ([]Record, error) {
	filter := bson.M{}
	if sourceID != "" {
		filter["saleSourceId"] = sourceID
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *MongoStore) Upsert(ctx context.Context, rec Record) error {
	filter := bson.M{"saleSourceId": rec.SaleSourceID, "style": rec.Style}
	update := bson.M{"$set": rec}

	_, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)

// MongoInventoryStore purges persisted inventory rows from MongoDB.
// Documents carry a lowercased styleKey field for case-insensitive style
// matching.
type MongoInventoryStore struct {
	coll *mongo.Collection
}

// NewMongoInventoryStore opens the inventory collection on an existing
// registry connection.
func NewMongoInventoryStore(s *MongoStore, database string) *MongoInventoryStore {
	return &MongoInventoryStore{
		coll: s.client.Database(database).Collection(inventoryCollection),
	}
}

func (s *MongoInventoryStore) DeleteByStyles(ctx context.Context, dataSourceID string, styles []string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{
		"dataSourceId": dataSourceID,
		"styleKey":     bson.M{"$in": styles},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var _ InventoryStore = (*MongoInventoryStore)(nil)
