package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/golang/groupcache/lru"
	"github.com/sirupsen/logrus"

	"github.com/featherdb/pgdriver/protocol"
)

// StatementCache maps SQL text to a server-assigned prepared statement
// name. Resolution is coupled to the first binding of an execution because
// the parameter type signature is fixed once the statement is parsed.
type StatementCache interface {
	// Resolve returns the statement name for the given SQL, registering a
	// new server-side prepared statement on first sight.
	Resolve(ctx context.Context, first *Binding, sql string) (string, error)
}

// CacheStats tracks statement cache performance metrics.
type CacheStats struct {
	Hits      atomic.Int64
	Misses    atomic.Int64
	Evictions atomic.Int64
}

// NewStatementCache builds a cache for the given connection: bounded LRU
// when opts.StatementCacheCapacity is positive, unbounded otherwise.
func NewStatementCache(client Client, opts *Options) StatementCache {
	opts = opts.normalize()
	if opts.StatementCacheCapacity > 0 {
		return NewBoundedStatementCache(client, opts.StatementCacheCapacity, opts.Logger)
	}
	return NewIndefiniteStatementCache(client, opts.Logger)
}

// cacheKey hashes the SQL text together with the first binding's parameter
// type signature. Two statements with identical text but different inferred
// parameter types must not share a server-side handle.
func cacheKey(sql string, first *Binding) uint64 {
	digest := xxhash.New()
	digest.Write([]byte(sql))
	for _, oid := range first.TypeSignature() {
		digest.Write([]byte{0})
		digest.Write([]byte(oid.String()))
	}
	return digest.Sum64()
}

// IndefiniteStatementCache keeps every prepared statement for the lifetime
// of the connection.
type IndefiniteStatementCache struct {
	client  Client
	log     *logrus.Entry
	stats   *CacheStats
	mu      sync.Mutex
	names   map[uint64]string
	counter int
}

// NewIndefiniteStatementCache creates an unbounded statement cache.
func NewIndefiniteStatementCache(client Client, log *logrus.Entry) *IndefiniteStatementCache {
	if log == nil {
		log = NewNoopLogger()
	}
	return &IndefiniteStatementCache{
		client: client,
		log:    log,
		stats:  &CacheStats{},
		names:  make(map[uint64]string),
	}
}

// Resolve implements StatementCache.
func (c *IndefiniteStatementCache) Resolve(ctx context.Context, first *Binding, sql string) (string, error) {
	if first == nil {
		return "", ErrNilArgument("first binding")
	}

	key := cacheKey(sql, first)

	c.mu.Lock()
	defer c.mu.Unlock()

	if name, ok := c.names[key]; ok {
		c.stats.Hits.Add(1)
		return name, nil
	}
	c.stats.Misses.Add(1)

	c.counter++
	name := fmt.Sprintf("S_%d", c.counter)
	if err := parseStatement(ctx, c.client, name, sql, first); err != nil {
		return "", err
	}

	c.names[key] = name
	c.log.WithFields(logrus.Fields{fieldStatement: name, fieldSQL: sql}).Debug("prepared statement registered")
	return name, nil
}

// Stats returns the cache statistics.
func (c *IndefiniteStatementCache) Stats() *CacheStats {
	return c.stats
}

// BoundedStatementCache caps the number of cached prepared statements,
// evicting the least recently used entry and closing its server-side
// handle.
type BoundedStatementCache struct {
	client  Client
	log     *logrus.Entry
	stats   *CacheStats
	mu      sync.Mutex
	entries *lru.Cache
	evicted []string
	counter int
}

// NewBoundedStatementCache creates a statement cache with the given
// capacity.
func NewBoundedStatementCache(client Client, capacity int, log *logrus.Entry) *BoundedStatementCache {
	if log == nil {
		log = NewNoopLogger()
	}
	c := &BoundedStatementCache{
		client:  client,
		log:     log,
		stats:   &CacheStats{},
		entries: lru.New(capacity),
	}
	c.entries.OnEvicted = func(key lru.Key, value interface{}) {
		c.evicted = append(c.evicted, value.(string))
	}
	return c
}

// Resolve implements StatementCache.
func (c *BoundedStatementCache) Resolve(ctx context.Context, first *Binding, sql string) (string, error) {
	if first == nil {
		return "", ErrNilArgument("first binding")
	}

	key := cacheKey(sql, first)

	c.mu.Lock()
	defer c.mu.Unlock()

	if name, ok := c.entries.Get(key); ok {
		c.stats.Hits.Add(1)
		return name.(string), nil
	}
	c.stats.Misses.Add(1)

	c.counter++
	name := fmt.Sprintf("S_%d", c.counter)
	if err := parseStatement(ctx, c.client, name, sql, first); err != nil {
		return "", err
	}

	c.entries.Add(key, name)
	c.closeEvicted(ctx)
	return name, nil
}

// Stats returns the cache statistics.
func (c *BoundedStatementCache) Stats() *CacheStats {
	return c.stats
}

// closeEvicted releases server-side handles displaced by the last Add.
// Failures are logged and do not fail the resolution that caused them.
func (c *BoundedStatementCache) closeEvicted(ctx context.Context) {
	for _, name := range c.evicted {
		c.stats.Evictions.Add(1)
		if err := closeStatement(ctx, c.client, name); err != nil {
			c.log.WithError(err).WithField(fieldStatement, name).Warn("failed to close evicted statement")
		}
	}
	c.evicted = c.evicted[:0]
}

// parseStatement registers a prepared statement on the server and waits for
// its acknowledgement.
func parseStatement(ctx context.Context, client Client, name, sql string, first *Binding) error {
	parse := &protocol.Parse{Name: name, Query: sql, ParameterOIDs: first.TypeSignature()}
	if err := client.Send(ctx, parse, &protocol.Flush{}); err != nil {
		return err
	}

	msg, err := client.Receive(ctx)
	if err != nil {
		return err
	}
	switch m := msg.(type) {
	case protocol.ParseComplete:
		return nil
	case protocol.ErrorResponse:
		return newServerError(m, sql)
	default:
		return protocol.UnexpectedMessageError("ParseComplete", m)
	}
}

// closeStatement releases a server-side prepared statement and waits for
// its acknowledgement.
func closeStatement(ctx context.Context, client Client, name string) error {
	if err := client.Send(ctx, &protocol.Close{Target: protocol.TargetStatement, Name: name}, &protocol.Flush{}); err != nil {
		return err
	}

	msg, err := client.Receive(ctx)
	if err != nil {
		return err
	}
	switch m := msg.(type) {
	case protocol.CloseComplete:
		return nil
	case protocol.ErrorResponse:
		return newServerError(m, "")
	default:
		return protocol.UnexpectedMessageError("CloseComplete", m)
	}
}
