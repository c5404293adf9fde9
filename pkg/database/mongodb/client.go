package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/huynhanx03/go-mongoapi/pkg/settings"
	"github.com/huynhanx03/go-mongoapi/pkg/utils"
)

const (
	defaultHost    = "localhost"
	defaultPort    = 27017
	defaultTimeout = 10
)

// Client holds the single shared connection to one database.
// The driver client is safe for concurrent use; the mutex only guards
// swapping the handle on Connect and Disconnect.
type Client struct {
	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
	config settings.MongoDB
}

// NewClient creates a Client from a copy of cfg; nothing is dialed until Connect
func NewClient(cfg *settings.MongoDB) *Client {
	c := &Client{}
	if cfg != nil {
		c.config = *cfg
	}
	return c
}

// NewConnection creates a Client and connects it
func NewConnection(ctx context.Context, cfg *settings.MongoDB) (*Client, error) {
	c := NewClient(cfg)
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Config returns a copy of the settings of the current connection target
func (c *Client) Config() settings.MongoDB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// ConnectURI connects to uri and selects database. The new target replaces
// the configured one only when the connection succeeds.
func (c *Client) ConnectURI(ctx context.Context, uri string, database string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.config
	cfg.URI = uri
	cfg.Database = database
	return c.connect(ctx, cfg)
}

// ConnectWithConfig connects using a copy of cfg, which becomes the
// configured target only when the connection succeeds.
func (c *Client) ConnectWithConfig(ctx context.Context, cfg *settings.MongoDB) error {
	if cfg == nil {
		return errors.Wrap(ErrConnectFailed, "missing configuration")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connect(ctx, *cfg)
}

// Connect dials the configured server and pings the primary. A previous
// connection is closed once the new one is up.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connect(ctx, c.config)
}

// connect must be called with mu held
func (c *Client) connect(ctx context.Context, cfg settings.MongoDB) error {
	setDefaultConfig(&cfg)

	if cfg.Database == "" {
		return errors.Wrap(ErrConnectFailed, "database name is required")
	}

	timeout := utils.ToDuration(cfg.Timeout)
	opts := options.Client().
		ApplyURI(BuildURI(&cfg)).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}
	if cfg.MaxConnIdleTime > 0 {
		opts.SetMaxConnIdleTime(utils.ToDuration(int(cfg.MaxConnIdleTime)))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("%w: %v", ErrPingFailed, err)
	}

	previous := c.client
	c.client = client
	c.db = client.Database(cfg.Database)
	c.config = cfg

	if previous != nil {
		_ = previous.Disconnect(ctx)
	}
	return nil
}

func setDefaultConfig(cfg *settings.MongoDB) {
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
}

// Disconnect closes the connection; calling it while disconnected is a no-op
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}

	err := c.client.Disconnect(ctx)
	c.client = nil
	c.db = nil
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDisconnectFailed, err)
	}
	return nil
}

// IsConnected reports whether a handle is held
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db != nil
}

// Database returns the active database handle
func (c *Client) Database() (*mongo.Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, ErrNotConnected
	}
	return c.db, nil
}

// Collection returns the named collection of the active database
func (c *Client) Collection(name string) (*mongo.Collection, error) {
	db, err := c.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// GetClient returns the underlying driver client (Escape hatch)
func (c *Client) GetClient() *mongo.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// BuildURI returns cfg.URI when set, otherwise a URI assembled from the
// host, port and credential fields.
func BuildURI(cfg *settings.MongoDB) string {
	if cfg.URI != "" {
		return cfg.URI
	}

	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   "/",
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	if cfg.AuthSource != "" {
		q := url.Values{}
		q.Set("authSource", cfg.AuthSource)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
