package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data    map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	pingErr error
	closed  bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.pingErr)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestSetThenGet(t *testing.T) {
	rdb := newFakeRedis()
	c := NewRedisDescriptorCache(rdb, 5*time.Minute)
	ctx := context.Background()

	m := &gatewayapi.Media{ID: "m1", Kind: "image", URLs: []string{"https://get/m1"}}
	require.NoError(t, c.Set(ctx, m))
	assert.Equal(t, 5*time.Minute, rdb.ttls[keyPrefix+"m1"])

	got, ok, err := c.Get(ctx, "m1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, m, got)
}

func TestGet_MissIsNotAnError(t *testing.T) {
	c := NewRedisDescriptorCache(newFakeRedis(), time.Minute)

	got, ok, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestGet_BackendError(t *testing.T) {
	rdb := newFakeRedis()
	rdb.getErr = errors.New("conn reset")
	c := NewRedisDescriptorCache(rdb, time.Minute)

	_, ok, err := c.Get(context.Background(), "m1")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "conn reset")
}

func TestGet_CorruptValue(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data[keyPrefix+"m1"] = "{"
	c := NewRedisDescriptorCache(rdb, time.Minute)

	_, _, err := c.Get(context.Background(), "m1")
	assert.ErrorContains(t, err, "decode descriptor")
}

func TestSet_BackendError(t *testing.T) {
	rdb := newFakeRedis()
	rdb.setErr = errors.New("readonly")
	c := NewRedisDescriptorCache(rdb, time.Minute)

	err := c.Set(context.Background(), &gatewayapi.Media{ID: "m1"})
	assert.ErrorContains(t, err, "readonly")
}

func TestConnectAndClose(t *testing.T) {
	rdb := newFakeRedis()
	c := NewRedisDescriptorCache(rdb, time.Minute)

	require.NoError(t, c.Connect(context.Background()))
	rdb.pingErr = errors.New("refused")
	assert.ErrorContains(t, c.Connect(context.Background()), "redis ping failed")

	require.NoError(t, c.Close())
	assert.True(t, rdb.closed)
}

func TestNopCache(t *testing.T) {
	var c NopCache
	_, ok, err := c.Get(context.Background(), "m1")
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.NoError(t, c.Set(context.Background(), &gatewayapi.Media{ID: "m1"}))
	assert.NoError(t, c.Close())
}
