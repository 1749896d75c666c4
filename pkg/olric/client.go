package olric

import (
	"context"
	"fmt"
	"time"

	olriclib "github.com/olric-data/olric"
	"go.uber.org/zap"
)

// Client wraps an Olric cluster client
type Client struct {
	client  olriclib.Client
	logger  *zap.Logger
	timeout time.Duration
}

// Config holds configuration for the Olric client
type Config struct {
	// Servers is a list of Olric server addresses (e.g., ["localhost:3320"])
	// If empty, defaults to ["localhost:3320"]
	Servers []string

	// Timeout bounds each DMap operation
	// If zero, defaults to 5 seconds
	Timeout time.Duration
}

// NewClient creates a new Olric client wrapper
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	servers := cfg.Servers
	if len(servers) == 0 {
		servers = []string{"localhost:3320"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := olriclib.NewClusterClient(servers)
	if err != nil {
		return nil, fmt.Errorf("failed to create Olric cluster client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	logger.Debug("olric cluster client created", zap.Strings("servers", servers))

	return &Client{
		client:  client,
		logger:  logger,
		timeout: timeout,
	}, nil
}

// Health round-trips a test key through a scratch DMap
func (c *Client) Health(ctx context.Context) error {
	dm, err := c.client.NewDMap("_health_check")
	if err != nil {
		return fmt.Errorf("failed to create DMap for health check: %w", err)
	}

	testKey := fmt.Sprintf("_health_%d", time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := dm.Put(ctx, testKey, "ok"); err != nil {
		return fmt.Errorf("health check put failed: %w", err)
	}

	gr, err := dm.Get(ctx, testKey)
	if err != nil {
		return fmt.Errorf("health check get failed: %w", err)
	}
	if val, err := gr.String(); err != nil || val != "ok" {
		return fmt.Errorf("health check value mismatch: got %q (%v)", val, err)
	}

	_, _ = dm.Delete(ctx, testKey)
	return nil
}

// PageStore opens the named DMap as a cache.Store
func (c *Client) PageStore(name string) (*PageStore, error) {
	dm, err := c.client.NewDMap(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create DMap %s: %w", name, err)
	}
	return newPageStore(dmapKV{dm: dm}, c.timeout, c.logger), nil
}

// Close closes the Olric client connection
func (c *Client) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Close(ctx)
}

// dmapKV adapts an Olric DMap to the byte-level kv used by PageStore
type dmapKV struct {
	dm olriclib.DMap
}

func (d dmapKV) put(ctx context.Context, key string, value []byte) error {
	return d.dm.Put(ctx, key, value)
}

func (d dmapKV) get(ctx context.Context, key string) ([]byte, bool, error) {
	gr, err := d.dm.Get(ctx, key)
	if err != nil {
		if isKeyNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var raw []byte
	if err := gr.Scan(&raw); err != nil {
		return nil, false, fmt.Errorf("failed to scan value: %w", err)
	}
	return raw, true, nil
}

func (d dmapKV) del(ctx context.Context, keys ...string) error {
	_, err := d.dm.Delete(ctx, keys...)
	if err != nil && isKeyNotFound(err) {
		return nil
	}
	return err
}

func (d dmapKV) keys(ctx context.Context, match string) ([]string, error) {
	iterator, err := d.dm.Scan(ctx, olriclib.Match(match))
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	defer iterator.Close()

	var keys []string
	for iterator.Next() {
		keys = append(keys, iterator.Key())
	}
	return keys, nil
}
