package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnOptions carries the tunables for the cart database connection.
// The composition root fills them from live configuration; zero values
// fall back to the driver defaults.
type ConnOptions struct {
	URI              string
	Database         string
	ConnectTimeout   time.Duration
	SelectionTimeout time.Duration
	MaxPoolSize      uint64
	MinPoolSize      uint64
}

func clientOptions(o ConnOptions) *options.ClientOptions {
	opts := options.Client().ApplyURI(o.URI)
	if o.ConnectTimeout > 0 {
		opts.SetConnectTimeout(o.ConnectTimeout)
	}
	if o.SelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(o.SelectionTimeout)
	}
	if o.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(o.MaxPoolSize)
	}
	if o.MinPoolSize > 0 {
		opts.SetMinPoolSize(o.MinPoolSize)
	}
	return opts
}

// ConnectMongoDB opens the cart database and verifies it answers before
// any repository is built on top of it.
func ConnectMongoDB(ctx context.Context, o ConnOptions) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, clientOptions(o))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(o.Database), nil
}
