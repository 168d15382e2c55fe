package database

import (
	"context"
	"log"
	"os"

	"github.com/bradfitz/gomemcache/memcache"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ctx    = context.Background()
	client *mongo.Client

	Users         *mongo.Collection
	Posts         *mongo.Collection
	Notifications *mongo.Collection
)

// Init create the main variables for the MongoDB connection
func Init() {
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(os.Getenv("MONGO_URL")))
	if err != nil {
		log.Fatalf("Cannot connect to %v: %v", os.Getenv("MONGO_URL"), err)
	}
	client = c

	db := client.Database(os.Getenv("MONGO_DB"))
	Users = db.Collection("users")
	Posts = db.Collection("posts")
	Notifications = db.Collection("notifications")

	Mem = memcache.New(os.Getenv("MEM_URL"))
}
