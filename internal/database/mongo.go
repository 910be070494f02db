package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens the MongoDB database that holds learner state
// documents. MONGO_URI and MONGO_DB override the local defaults.
func ConnectMongo(ctx context.Context) (*mongo.Database, error) {
	uri := getEnv("MONGO_URI", "mongodb://localhost:27017")
	dbName := getEnv("MONGO_DB", "algo_prep")

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client.Database(dbName), nil
}
