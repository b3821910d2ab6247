package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Engine implements ports.SignalEngine against a Redis instance.
// It mirrors the physical connections of an out-of-process engine that reads
// them from a set (one JSON member per connection) and parameter values from a hash.
type Engine struct {
	client  *backend.Client
	prefix  string
	timeout time.Duration
}

type Option func(*Engine)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(e *Engine) {
		e.prefix = prefix
	}
}

// WithTimeout bounds every call. A stuck Redis would otherwise stall graph mutation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// New creates a new Redis engine with options.
func New(address, password string, db int, opts ...Option) *Engine {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis engine from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Engine {
	e := &Engine{
		client:  client,
		prefix:  "modularsynth:engine:",
		timeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) connectionsKey() string {
	return e.prefix + "connections"
}

func (e *Engine) paramsKey() string {
	return e.prefix + "params"
}

func (e *Engine) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}

func member(source, sink domain.Endpoint) (string, error) {
	data, err := json.Marshal(domain.Connection{Source: source, Sink: sink})
	if err != nil {
		return "", fmt.Errorf("failed to marshal connection: %w", err)
	}
	return string(data), nil
}

// Materialize adds the connection to the set.
func (e *Engine) Materialize(ctx context.Context, source, sink domain.Endpoint) error {
	if source.IsZero() || sink.IsZero() {
		return fmt.Errorf("cannot connect %s to %s: empty endpoint", source, sink)
	}
	m, err := member(source, sink)
	if err != nil {
		return err
	}

	ctx, cancel := e.bound(ctx)
	defer cancel()

	if err := e.client.SAdd(ctx, e.connectionsKey(), m).Err(); err != nil {
		return fmt.Errorf("failed to save connection to redis: %w", err)
	}
	return nil
}

// Sever removes the connection from the set. SREM on a missing member is a no-op.
func (e *Engine) Sever(ctx context.Context, source, sink domain.Endpoint) error {
	m, err := member(source, sink)
	if err != nil {
		return err
	}

	ctx, cancel := e.bound(ctx)
	defer cancel()

	if err := e.client.SRem(ctx, e.connectionsKey(), m).Err(); err != nil {
		return fmt.Errorf("failed to remove connection from redis: %w", err)
	}
	return nil
}

// Reset drops every connection.
func (e *Engine) Reset(ctx context.Context) error {
	ctx, cancel := e.bound(ctx)
	defer cancel()

	if err := e.client.Del(ctx, e.connectionsKey()).Err(); err != nil {
		return fmt.Errorf("failed to reset redis engine: %w", err)
	}
	return nil
}

// SetParam stores a parameter value in the params hash.
func (e *Engine) SetParam(ctx context.Context, target domain.Endpoint, value float64) error {
	ctx, cancel := e.bound(ctx)
	defer cancel()

	field := target.String()
	if err := e.client.HSet(ctx, e.paramsKey(), field, strconv.FormatFloat(value, 'g', -1, 64)).Err(); err != nil {
		return fmt.Errorf("failed to set param %s: %w", field, err)
	}
	return nil
}

// Param reads a parameter value back. The boolean is false when it was never set.
func (e *Engine) Param(ctx context.Context, target domain.Endpoint) (float64, bool, error) {
	ctx, cancel := e.bound(ctx)
	defer cancel()

	val, err := e.client.HGet(ctx, e.paramsKey(), target.String()).Result()
	if err != nil {
		if err == backend.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get param: %w", err)
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt param %s: %w", target, err)
	}
	return f, true, nil
}

// Connections lists the mirrored connections.
func (e *Engine) Connections(ctx context.Context) ([]domain.Connection, error) {
	ctx, cancel := e.bound(ctx)
	defer cancel()

	members, err := e.client.SMembers(ctx, e.connectionsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	out := make([]domain.Connection, 0, len(members))
	for _, m := range members {
		var c domain.Connection
		if err := json.Unmarshal([]byte(m), &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out, nil
}

// Close closes the redis client.
func (e *Engine) Close() error {
	return e.client.Close()
}
