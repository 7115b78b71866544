package db

import (
	"context"
	"fmt"
	"time"

	"cry-classification/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoOpTimeout = 10 * time.Second

type MongoClient struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoClient(uri string) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %s", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("error pinging MongoDB: %s", err)
	}

	dbName := utils.GetEnv("MONGO_DB_NAME", "cry-classification")
	return &MongoClient{client: client, db: client.Database(dbName)}, nil
}

func (m *MongoClient) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoClient) StoreRun(run *RunRecord) error {
	if run.ID == 0 {
		run.ID = utils.GenerateUniqueID()
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	_, err := m.db.Collection("runs").InsertOne(ctx, run)
	if err != nil {
		return fmt.Errorf("error storing run: %s", err)
	}
	return nil
}

func (m *MongoClient) StorePredictions(records []PredictionRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(records))
	for i := range records {
		if records[i].ID == 0 {
			records[i].ID = utils.GenerateUniqueID()
		}
		docs = append(docs, records[i])
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	_, err := m.db.Collection("predictions").InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("error storing predictions: %s", err)
	}
	return nil
}

func (m *MongoClient) RecentRuns(limit int) ([]RunRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := m.db.Collection("runs").Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying runs: %s", err)
	}
	defer cursor.Close(ctx)

	var runs []RunRecord
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("error decoding runs: %s", err)
	}
	return runs, nil
}

func (m *MongoClient) RecentPredictions(limit int) ([]PredictionRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := m.db.Collection("predictions").Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying predictions: %s", err)
	}
	defer cursor.Close(ctx)

	var records []PredictionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding predictions: %s", err)
	}
	return records, nil
}

func (m *MongoClient) TotalPredictions() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	count, err := m.db.Collection("predictions").CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("error counting predictions: %s", err)
	}
	return int(count), nil
}
