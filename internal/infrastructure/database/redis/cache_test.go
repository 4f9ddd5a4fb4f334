package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/ContractPilot/pkg/errors"
)

type testStruct struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// CacheTestSuite exercises error paths against a scripted client.
type CacheTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache Cache
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	log := logging.NewNopLogger()
	s.cache = NewRedisCache(NewClientFromUniversal(db, log), log, WithPrefix("test:"))
}

func (s *CacheTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CacheTestSuite) TestGet_CacheHit() {
	val := testStruct{Name: "John", Age: 30}
	raw, _ := json.Marshal(val)
	s.mock.ExpectGet("test:key1").SetVal(string(raw))

	var dest testStruct
	s.NoError(s.cache.Get(context.Background(), "key1", &dest))
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGet_CacheMiss() {
	s.mock.ExpectGet("test:key1").RedisNil()

	var dest testStruct
	s.Equal(ErrCacheMiss, s.cache.Get(context.Background(), "key1", &dest))
}

func (s *CacheTestSuite) TestGet_NullMarker() {
	s.mock.ExpectGet("test:key1").SetVal(nullMarker)

	var dest testStruct
	s.Equal(ErrCacheMiss, s.cache.Get(context.Background(), "key1", &dest))
}

func (s *CacheTestSuite) TestGet_Error() {
	s.mock.ExpectGet("test:key1").SetErr(stderrors.New("connection reset"))

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestGet_CorruptValue() {
	s.mock.ExpectGet("test:key1").SetVal("{not json")

	var dest testStruct
	err := s.cache.Get(context.Background(), "key1", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestDelete() {
	s.mock.ExpectDel("test:a", "test:b").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "a", "b"))
	s.NoError(s.cache.Delete(context.Background()))
}

func (s *CacheTestSuite) TestGetOrSet_CacheErrorSkipsLoader() {
	s.mock.ExpectGet("test:key1").SetErr(stderrors.New("timeout"))

	called := false
	var dest testStruct
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, func(context.Context) (interface{}, error) {
		called = true
		return testStruct{}, nil
	})
	s.Error(err)
	s.False(called)
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func newMiniCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	client, mr := newTestClient(t)
	return NewRedisCache(client, nil, WithPrefix("test:"), WithNullCacheTTL(5*time.Second)), mr
}

func TestCache_SetGet_WithTTL(t *testing.T) {
	cache, mr := newMiniCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", testStruct{Name: "Mona", Age: 31}, time.Minute))

	var got testStruct
	require.NoError(t, cache.Get(ctx, "k", &got))
	assert.Equal(t, "Mona", got.Name)

	ttl := mr.TTL("test:k")
	assert.GreaterOrEqual(t, ttl, 54*time.Second)
	assert.LessOrEqual(t, ttl, 66*time.Second)

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, ErrCacheMiss, cache.Get(ctx, "k", &got))
}

func TestCache_GetOrSet_LoadsOnce(t *testing.T) {
	cache, _ := newMiniCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return testStruct{Name: "Karim", Age: 40}, nil
	}

	var first, second testStruct
	require.NoError(t, cache.GetOrSet(ctx, "user", &first, time.Minute, loader))
	require.NoError(t, cache.GetOrSet(ctx, "user", &second, time.Minute, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestCache_GetOrSet_NilCachedAsNull(t *testing.T) {
	cache, mr := newMiniCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return nil, nil
	}

	var dest testStruct
	assert.Equal(t, ErrCacheMiss, cache.GetOrSet(ctx, "ghost", &dest, time.Minute, loader))
	assert.Equal(t, ErrCacheMiss, cache.GetOrSet(ctx, "ghost", &dest, time.Minute, loader))
	assert.Equal(t, 1, calls)

	mr.FastForward(10 * time.Second)
	assert.Equal(t, ErrCacheMiss, cache.GetOrSet(ctx, "ghost", &dest, time.Minute, loader))
	assert.Equal(t, 2, calls)
}

func TestCache_GetOrSet_LoaderError(t *testing.T) {
	cache, mr := newMiniCache(t)
	boom := stderrors.New("boom")

	var dest testStruct
	err := cache.GetOrSet(context.Background(), "k", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("test:k"))
}

func TestCache_DeleteByPrefix(t *testing.T) {
	cache, mr := newMiniCache(t)
	ctx := context.Background()

	for _, k := range []string{"lead:1", "lead:2", "lead:3", "other:1"} {
		require.NoError(t, cache.Set(ctx, k, testStruct{}, time.Minute))
	}

	n, err := cache.DeleteByPrefix(ctx, "lead:")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.True(t, mr.Exists("test:other:1"))
	assert.NoError(t, cache.Ping(ctx))
}

//Personal.AI order the ending
