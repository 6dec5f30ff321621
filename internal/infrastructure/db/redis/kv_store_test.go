package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/admin-console/internal/core/ports"
)

func newTestStore(t *testing.T, prefix string) (*KVStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewKVStore(client, prefix), mr
}

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, "console:session:")

	_, ok, err := store.Get(ctx, ports.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, ports.TokenKey, "abc"))
	raw, err := mr.Get("console:session:token")
	require.NoError(t, err)
	assert.Equal(t, "abc", raw)
	assert.Zero(t, mr.TTL("console:session:token"))

	v, ok, err := store.Get(ctx, ports.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, store.Remove(ctx, ports.TokenKey))
	assert.False(t, mr.Exists("console:session:token"))
	require.NoError(t, store.Remove(ctx, ports.TokenKey))
}

func TestKVStore_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	a, mr := newTestStore(t, "a:")
	b := NewKVStore(a.client, "b:")

	require.NoError(t, a.Set(ctx, ports.TokenKey, "one"))
	_, ok, err := b.Get(ctx, ports.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{"a:token"}, mr.Keys())
}

func TestKVStore_ServerDown(t *testing.T) {
	store, mr := newTestStore(t, "")
	mr.Close()

	_, _, err := store.Get(context.Background(), ports.TokenKey)
	assert.Error(t, err)
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), Config{Addr: addr})
	assert.Error(t, err)
}

func TestConnect_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	_, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	assert.Error(t, err, "unauthenticated ping must fail")

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "s3cret"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, NewKVStore(client, "p:").Set(context.Background(), ports.TokenKey, "t"))
}
