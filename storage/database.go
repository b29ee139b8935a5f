package storage

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client
	DB     *mongo.Database

	Users      *mongo.Collection
	Properties *mongo.Collection
	AuditLogs  *mongo.Collection
)

func InitializeDB() {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		log.Panic("error connecting to db: " + err.Error())
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Panic("db ping failed: " + err.Error())
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "darimmo"
	}

	Client = client
	DB = client.Database(dbName)
	Users = DB.Collection("users")
	Properties = DB.Collection("properties")
	AuditLogs = DB.Collection("audit_logs")

	ensureIndexes(ctx)
}

func ensureIndexes(ctx context.Context) {
	_, err := Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Println("Warning: could not create users.email index:", err)
	}

	_, err = Properties.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "location.city", Value: 1}, {Key: "location.country", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		log.Println("Warning: could not create properties indexes:", err)
	}
}

func CloseDB() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.Println("error disconnecting from db:", err)
	}
}
