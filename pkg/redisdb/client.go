package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures Client.
type Option func(*Config)

// Config holds Redis connection parameters.
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
	DialWait     time.Duration
}

// Client wraps a Redis connection verified at construction time.
type Client struct {
	client *redis.Client
}

// New connects to Redis and pings it before returning.
func New(opts ...Option) (*Client, error) {
	cfg := &Config{
		Addr:         "localhost:6379",
		DB:           0,
		PoolSize:     10,
		PoolTimeout:  30 * time.Second,
		MinIdleConns: 5,
		DialWait:     5 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialWait)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Client{client: client}, nil
}

// Client returns underlying redis client.
func (c *Client) Client() *redis.Client {
	return c.client
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// WithAddr sets the server address.
func WithAddr(addr string) Option {
	return func(c *Config) { c.Addr = addr }
}

// WithPassword sets the auth password.
func WithPassword(password string) Option {
	return func(c *Config) { c.Password = password }
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return func(c *Config) { c.DB = db }
}

// WithPoolSize sets the connection pool size.
func WithPoolSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.PoolSize = n
		}
	}
}

// WithDialWait bounds the initial connection check.
func WithDialWait(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.DialWait = d
		}
	}
}
