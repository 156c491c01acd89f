package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, 100*time.Millisecond, time.Minute), srv
}

// withClock pins the queue's clock and returns a func that advances it.
func withClock(q *Redis) func(time.Duration) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return now }
	return func(d time.Duration) { now = now.Add(d) }
}

func TestRedisRoundTripIsFIFO(t *testing.T) {
	ctx := context.Background()
	q, srv := newTestRedis(t)

	a, b := NewTask("site-a"), NewTask("site-b")
	require.NoError(t, q.Enqueue(ctx, a))
	require.NoError(t, q.Enqueue(ctx, b))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "site-a", got.SiteID)

	processing, err := srv.List(processingKey)
	require.NoError(t, err)
	assert.Len(t, processing, 1)

	require.NoError(t, q.Ack(ctx, got))
	assert.False(t, srv.Exists(processingKey))

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "site-b", got.SiteID)
}

func TestRedisDequeueEmpty(t *testing.T) {
	q, _ := newTestRedis(t)
	_, err := q.Dequeue(context.Background())
	assert.True(t, errors.Is(err, ErrEmpty), "got %v", err)
}

func TestRedisRecoverLeavesLiveClaims(t *testing.T) {
	ctx := context.Background()
	q, srv := newTestRedis(t)
	withClock(q)

	require.NoError(t, q.Enqueue(ctx, NewTask("site-a")))
	claimed, err := q.Dequeue(ctx)
	require.NoError(t, err)

	moved, err := q.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, moved)

	_, err = q.Dequeue(ctx)
	assert.True(t, errors.Is(err, ErrEmpty), "live claim was handed out twice: %v", err)

	require.NoError(t, q.Ack(ctx, claimed))
	assert.False(t, srv.Exists(processingKey))
	assert.False(t, srv.Exists(claimsKey))
}

func TestRedisRecoverRequeuesExpiredClaims(t *testing.T) {
	ctx := context.Background()
	q, srv := newTestRedis(t)
	advance := withClock(q)

	require.NoError(t, q.Enqueue(ctx, NewTask("site-a")))
	require.NoError(t, q.Enqueue(ctx, NewTask("site-b")))
	first, err := q.Dequeue(ctx)
	require.NoError(t, err)
	advance(30 * time.Second)
	second, err := q.Dequeue(ctx)
	require.NoError(t, err)

	advance(45 * time.Second)
	moved, err := q.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved, "only the claim past its lease moves")

	again, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	processing, err := srv.List(processingKey)
	require.NoError(t, err)
	assert.Len(t, processing, 2)
	require.NoError(t, q.Ack(ctx, second))
	require.NoError(t, q.Ack(ctx, again))
	assert.False(t, srv.Exists(processingKey))
}

func TestRedisRecoverStampsUnstampedClaims(t *testing.T) {
	ctx := context.Background()
	q, srv := newTestRedis(t)
	advance := withClock(q)

	require.NoError(t, q.Enqueue(ctx, NewTask("site-a")))
	claimed, err := q.Dequeue(ctx)
	require.NoError(t, err)
	srv.HDel(claimsKey, claimed.raw)

	moved, err := q.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
	assert.NotEmpty(t, srv.HGet(claimsKey, claimed.raw))

	advance(2 * time.Minute)
	moved, err = q.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	assert.False(t, srv.Exists(claimsKey))

	again, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, claimed.ID, again.ID)
}

func TestRedisAckRequiresDequeuedTask(t *testing.T) {
	q, _ := newTestRedis(t)
	assert.Error(t, q.Ack(context.Background(), NewTask("site-a")))
}

func TestRedisDropsUndecodablePayload(t *testing.T) {
	ctx := context.Background()
	q, srv := newTestRedis(t)
	_, err := srv.Lpush(pendingKey, "not-json")
	require.NoError(t, err)

	_, err = q.Dequeue(ctx)
	require.Error(t, err)
	assert.False(t, srv.Exists(processingKey))
}
