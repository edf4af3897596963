package document

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/stud0000299683/bd-special/internal/config"
)

const connectTimeout = 10 * time.Second

// Client is a connected MongoDB client bound to the configured collection.
type Client struct {
	*mongo.Client
	cfg config.MongoConfig
}

// Connect dials MongoDB and waits for the primary to answer a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return &Client{Client: client, cfg: cfg}, nil
}

func (c *Client) Collection() *mongo.Collection {
	return c.Database(c.cfg.Database).Collection(c.cfg.Collection)
}

func (c *Client) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}
