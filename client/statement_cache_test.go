package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherdb/pgdriver/codec"
	"github.com/featherdb/pgdriver/mock"
	"github.com/featherdb/pgdriver/protocol"
)

func bindingWithTypes(t *testing.T, oids ...protocol.OID) *Binding {
	t.Helper()

	b := NewBinding(len(oids))
	for i, oid := range oids {
		require.NoError(t, b.Add(i, codec.Parameter{Format: protocol.FormatBinary, OID: oid}))
	}
	return b
}

func TestIndefiniteStatementCacheResolve(t *testing.T) {
	ctx := context.Background()
	client := mock.NewClient().WithInbound(protocol.ParseComplete{})
	cache := NewIndefiniteStatementCache(client, nil)

	first := bindingWithTypes(t, protocol.OIDInt8)

	name, err := cache.Resolve(ctx, first, "SELECT $1")
	require.NoError(t, err)
	assert.Equal(t, "S_1", name)

	// The miss parses the statement server-side.
	frames := client.SentFrames()
	require.Len(t, frames, 2)
	parse := frames[0].(*protocol.Parse)
	assert.Equal(t, "S_1", parse.Name)
	assert.Equal(t, "SELECT $1", parse.Query)
	assert.Equal(t, []protocol.OID{protocol.OIDInt8}, parse.ParameterOIDs)
	assert.IsType(t, &protocol.Flush{}, frames[1])

	// The hit resolves without any wire interaction.
	name, err = cache.Resolve(ctx, bindingWithTypes(t, protocol.OIDInt8), "SELECT $1")
	require.NoError(t, err)
	assert.Equal(t, "S_1", name)
	assert.Len(t, client.SentFrames(), 2)

	assert.EqualValues(t, 1, cache.Stats().Hits.Load())
	assert.EqualValues(t, 1, cache.Stats().Misses.Load())
}

func TestStatementCacheKeyIncludesTypeSignature(t *testing.T) {
	ctx := context.Background()
	client := mock.NewClient().WithInbound(protocol.ParseComplete{}, protocol.ParseComplete{})
	cache := NewIndefiniteStatementCache(client, nil)

	name1, err := cache.Resolve(ctx, bindingWithTypes(t, protocol.OIDInt8), "SELECT $1")
	require.NoError(t, err)

	// Same SQL with a different parameter type is a distinct statement.
	name2, err := cache.Resolve(ctx, bindingWithTypes(t, protocol.OIDVarchar), "SELECT $1")
	require.NoError(t, err)

	assert.NotEqual(t, name1, name2)
	assert.EqualValues(t, 2, cache.Stats().Misses.Load())
}

func TestStatementCacheNilBinding(t *testing.T) {
	cache := NewIndefiniteStatementCache(mock.NewClient(), nil)

	_, err := cache.Resolve(context.Background(), nil, "SELECT $1")
	var aerr *ArgumentError
	assert.ErrorAs(t, err, &aerr)
}

func TestStatementCacheParseFailure(t *testing.T) {
	ctx := context.Background()
	client := mock.NewClient().WithInbound(protocol.ErrorResponse{
		Severity: "ERROR",
		Code:     "42601",
		Message:  "syntax error",
	})
	cache := NewIndefiniteStatementCache(client, nil)

	_, err := cache.Resolve(ctx, bindingWithTypes(t, protocol.OIDInt8), "SELEC $1")
	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, "42601", srvErr.SQLState)
	assert.Equal(t, "SELEC $1", srvErr.Query)

	// The failed statement is not cached; the next resolution parses again.
	client.WithInbound(protocol.ParseComplete{})
	_, err = cache.Resolve(ctx, bindingWithTypes(t, protocol.OIDInt8), "SELEC $1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, cache.Stats().Misses.Load())
}

func TestStatementCacheUnexpectedParseReply(t *testing.T) {
	ctx := context.Background()
	client := mock.NewClient().WithInbound(protocol.ReadyForQuery{Status: protocol.TxIdle})
	cache := NewIndefiniteStatementCache(client, nil)

	_, err := cache.Resolve(ctx, bindingWithTypes(t, protocol.OIDInt8), "SELECT $1")
	var perr *protocol.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, protocol.ErrorCodeUnexpectedMessage, perr.Code)
}

func TestBoundedStatementCacheEvicts(t *testing.T) {
	ctx := context.Background()
	client := mock.NewClient().WithInbound(
		protocol.ParseComplete{},
		protocol.ParseComplete{},
		protocol.CloseComplete{},
	)
	cache := NewBoundedStatementCache(client, 1, nil)

	name1, err := cache.Resolve(ctx, bindingWithTypes(t, protocol.OIDInt8), "SELECT a FROM t WHERE id = $1")
	require.NoError(t, err)

	// Capacity one: the second statement displaces the first, closing its
	// server-side handle.
	_, err = cache.Resolve(ctx, bindingWithTypes(t, protocol.OIDInt8), "SELECT b FROM t WHERE id = $1")
	require.NoError(t, err)

	var closed []string
	for _, frame := range client.SentFrames() {
		if c, ok := frame.(*protocol.Close); ok && c.Target == protocol.TargetStatement {
			closed = append(closed, c.Name)
		}
	}
	assert.Equal(t, []string{name1}, closed)
	assert.EqualValues(t, 1, cache.Stats().Evictions.Load())
	assert.EqualValues(t, 2, cache.Stats().Misses.Load())

	// The surviving entry still resolves without a new parse.
	name2, err := cache.Resolve(ctx, bindingWithTypes(t, protocol.OIDInt8), "SELECT b FROM t WHERE id = $1")
	require.NoError(t, err)
	assert.Equal(t, "S_2", name2)
	assert.EqualValues(t, 1, cache.Stats().Hits.Load())
}

func TestNewStatementCacheSelectsVariant(t *testing.T) {
	client := mock.NewClient()

	unbounded := NewStatementCache(client, &Options{})
	assert.IsType(t, &IndefiniteStatementCache{}, unbounded)

	bounded := NewStatementCache(client, &Options{StatementCacheCapacity: 8})
	assert.IsType(t, &BoundedStatementCache{}, bounded)

	assert.IsType(t, &IndefiniteStatementCache{}, NewStatementCache(client, nil))
}
