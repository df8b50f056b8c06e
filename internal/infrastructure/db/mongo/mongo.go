package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const defaultTimeout = 10 * time.Second

var errNotConnected = errors.New("mongo: not connected")

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Connector owns the process-wide client. The first Database call dials;
// callers arriving while that dial is in flight wait for the same result.
// A failed dial is not cached, so the next call tries again.
type Connector struct {
	cfg   Config
	dial  func(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error)
	group singleflight.Group

	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
}

// NewConnector returns a Connector that has not dialed yet.
func NewConnector(cfg Config) *Connector {
	return &Connector{cfg: cfg, dial: Connect}
}

// Database returns the connected database, dialing on first use. The dial
// runs detached from ctx so that one caller giving up does not fail the
// others waiting on it; ctx only bounds how long this caller waits.
func (c *Connector) Database(ctx context.Context) (*mongo.Database, error) {
	if db := c.current(); db != nil {
		return db, nil
	}

	ch := c.group.DoChan("connect", func() (any, error) {
		if db := c.current(); db != nil {
			return db, nil
		}
		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opTimeout(c.cfg.Timeout))
		defer cancel()

		client, db, err := c.dial(dialCtx, c.cfg)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.client, c.db = client, db
		c.mu.Unlock()
		return db, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("mongo connect: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*mongo.Database), nil
	}
}

// Ping checks that the server is reachable. It does not trigger a dial.
func (c *Connector) Ping(ctx context.Context) error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client == nil {
		return errNotConnected
	}
	return client.Ping(ctx, nil)
}

// Close disconnects the client if one was established.
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client, c.db = nil, nil
	c.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func (c *Connector) current() *mongo.Database {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

func opTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}
