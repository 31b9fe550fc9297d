package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	AuctionID int64   `json:"auction_id"`
	Price     float64 `json:"price"`
}

func TestKeys(t *testing.T) {
	require.Equal(t, "ah:auction:42", AuctionKey(42))
	require.Equal(t, "ah:stats:42", StatsKey(42))
}

func TestSetAndGet(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	c := New(rdc, time.Minute)
	ctx := context.Background()

	v := snapshot{AuctionID: 42, Price: 99.5}
	raw := []byte(`{"auction_id":42,"price":99.5}`)

	mock.ExpectSet(AuctionKey(42), raw, time.Minute).SetVal("OK")
	c.Set(ctx, AuctionKey(42), &v)

	mock.ExpectGet(AuctionKey(42)).SetVal(string(raw))
	var got snapshot
	require.True(t, c.Get(ctx, AuctionKey(42), &got))
	require.Equal(t, v, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_MissAndGarbage(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	c := New(rdc, time.Minute)
	ctx := context.Background()

	mock.ExpectGet(AuctionKey(1)).RedisNil()
	var got snapshot
	require.False(t, c.Get(ctx, AuctionKey(1), &got))

	// A corrupt entry counts as a miss, not an error.
	mock.ExpectGet(AuctionKey(2)).SetVal("{not json")
	require.False(t, c.Get(ctx, AuctionKey(2), &got))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidate(t *testing.T) {
	rdc, mock := redismock.NewClientMock()
	c := New(rdc, time.Minute)

	mock.ExpectDel(AuctionKey(42), StatsKey(42)).SetVal(2)
	c.Invalidate(context.Background(), AuctionKey(42), StatsKey(42))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNilCacheIsInert(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	var got snapshot
	require.False(t, c.Get(ctx, AuctionKey(1), &got))
	c.Set(ctx, AuctionKey(1), &got)
	c.Invalidate(ctx, AuctionKey(1))
}
