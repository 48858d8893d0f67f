package catalog

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coffeeintel/models"
)

// Mongo serves reference records from the "blocks" and "models" collections.
type Mongo struct {
	client *mongo.Client
	blocks *mongo.Collection
	models *mongo.Collection
}

// NewMongo connects, ensures indexes and seeds empty collections from f.
func NewMongo(ctx context.Context, uri, database string, f *Fixtures) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	db := client.Database(database)
	m := &Mongo{
		client: client,
		blocks: db.Collection("blocks"),
		models: db.Collection("models"),
	}
	if _, err := m.blocks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "estate", Value: 1}},
	}); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("blocks index: %w", err)
	}
	if err := m.seed(ctx, f); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

func (m *Mongo) seed(ctx context.Context, f *Fixtures) error {
	if n, err := m.blocks.EstimatedDocumentCount(ctx); err != nil {
		return fmt.Errorf("count blocks: %w", err)
	} else if n == 0 && len(f.Blocks) > 0 {
		docs := make([]any, len(f.Blocks))
		for i := range f.Blocks {
			docs[i] = f.Blocks[i]
		}
		if _, err := m.blocks.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed blocks: %w", err)
		}
	}
	if n, err := m.models.EstimatedDocumentCount(ctx); err != nil {
		return fmt.Errorf("count models: %w", err)
	} else if n == 0 && len(f.Models) > 0 {
		docs := make([]any, len(f.Models))
		for i := range f.Models {
			docs[i] = f.Models[i]
		}
		if _, err := m.models.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed models: %w", err)
		}
	}
	return nil
}

// Blocks returns every block ordered by id.
func (m *Mongo) Blocks(ctx context.Context) ([]models.Block, error) {
	cur, err := m.blocks.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find blocks: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Block{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	return out, nil
}

// Models returns the registry in insertion order.
func (m *Mongo) Models(ctx context.Context) ([]models.Model, error) {
	cur, err := m.models.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find models: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.Model{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	return out, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error { return m.client.Disconnect(ctx) }
