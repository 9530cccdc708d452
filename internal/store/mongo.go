package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB bundles the Mongo client with the task and user repositories.
type DB struct {
	client *mongo.Client
	Tasks  *TaskRepo
	Users  *UserRepo
}

// Open connects to MongoDB and prepares the collections, creating indexes on
// first use.
func Open(ctx context.Context, uri, database string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	d := &DB{
		client: client,
		Tasks:  NewTaskRepo(db),
		Users:  NewUserRepo(db),
	}
	if err := d.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return d, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	// Unique email, compared case-insensitively (collation strength 2).
	_, err := d.Users.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	})
	if err != nil {
		return err
	}

	_, err = d.Tasks.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignedUser", Value: 1}, {Key: "completed", Value: 1}}},
		{Keys: bson.D{{Key: "dateCreated", Value: -1}}},
	})
	return err
}

// Ping checks connectivity to the primary.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
