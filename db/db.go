package db

import (
	"context"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client

	UserCollection      *mongo.Collection
	CondosCollection    *mongo.Collection
	ApartmentCollection *mongo.Collection
	PlacesCollection    *mongo.Collection
	BooksCollection     *mongo.Collection
	PostsCollection     *mongo.Collection
)

const dbName = "vivenda"

// Init connects to MongoDB and wires up the collection handles. The client
// owns the connection pool; call Close on shutdown to drain it.
func Init(ctx context.Context) error {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetMaxPoolSize(10))
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}

	Client = client
	database := client.Database(dbName)
	UserCollection = database.Collection("users")
	CondosCollection = database.Collection("condominiums")
	ApartmentCollection = database.Collection("apartments")
	PlacesCollection = database.Collection("places")
	BooksCollection = database.Collection("books")
	PostsCollection = database.Collection("posts")

	return ensureIndexes(ctx)
}

func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

func ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = PlacesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "placeid", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("places id index: %w", err)
	}

	_, err = BooksCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "placeId", Value: 1}, {Key: "dateHour", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("books indexes: %w", err)
	}

	return nil
}
