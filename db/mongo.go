package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sequence-recognition/models"
)

const summariesCollection = "summaries"

type MongoClient struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoClient(ctx context.Context, uri, database string) (*MongoClient, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}

	return &MongoClient{
		client:     client,
		collection: client.Database(database).Collection(summariesCollection),
	}, nil
}

func (db *MongoClient) Close() error {
	if db.client != nil {
		return db.client.Disconnect(context.Background())
	}
	return nil
}

func (db *MongoClient) StoreSummary(ctx context.Context, record *models.SummaryRecord) error {
	if _, err := db.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("error storing summary: %w", err)
	}
	return nil
}

func (db *MongoClient) GetSummaries(ctx context.Context, name string) ([]models.SummaryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := db.collection.Find(ctx, bson.M{"name": name}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.SummaryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding summaries: %w", err)
	}
	return records, nil
}
