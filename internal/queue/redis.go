package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pendingKey    = "webgen:delivery:pending"
	processingKey = "webgen:delivery:processing"
	claimsKey     = "webgen:delivery:claims"
)

// DefaultLease is how long a claimed task may stay unacked before Recover
// hands it to another worker.
const DefaultLease = 10 * time.Minute

// requeueScript moves one claimed payload back to the pending list only if
// it is still claimed, so a concurrent Ack cannot be undone.
var requeueScript = redis.NewScript(`
local removed = redis.call('LREM', KEYS[1], 1, ARGV[1])
if removed == 1 then
  redis.call('RPUSH', KEYS[2], ARGV[1])
end
redis.call('HDEL', KEYS[3], ARGV[1])
return removed
`)

// Redis keeps pending tasks in one list and claimed tasks in another. A task
// is moved atomically on Dequeue, stamped with its claim time, and removed
// from the processing list on Ack. Claims older than the lease are treated
// as abandoned by a crashed worker.
type Redis struct {
	client      *redis.Client
	pollTimeout time.Duration
	lease       time.Duration
	now         func() time.Time
}

func NewRedis(client *redis.Client, pollTimeout, lease time.Duration) *Redis {
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	if lease <= 0 {
		lease = DefaultLease
	}
	return &Redis{client: client, pollTimeout: pollTimeout, lease: lease, now: time.Now}
}

func (r *Redis) Enqueue(ctx context.Context, task Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("queue: encode task: %w", err)
	}
	if err := r.client.LPush(ctx, pendingKey, payload).Err(); err != nil {
		return fmt.Errorf("queue: push: %w", err)
	}
	return nil
}

func (r *Redis) Dequeue(ctx context.Context) (Task, error) {
	raw, err := r.client.BLMove(ctx, pendingKey, processingKey, "RIGHT", "LEFT", r.pollTimeout).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Task{}, ErrEmpty
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Task{}, ctxErr
		}
		return Task{}, fmt.Errorf("queue: pop: %w", err)
	}
	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		// Drop undecodable payloads so they do not block the list.
		_ = r.client.LRem(ctx, processingKey, 1, raw).Err()
		return Task{}, fmt.Errorf("queue: decode task: %w", err)
	}
	if err := r.client.HSet(ctx, claimsKey, raw, r.now().UnixMilli()).Err(); err != nil {
		return Task{}, fmt.Errorf("queue: stamp claim: %w", err)
	}
	task.raw = raw
	return task, nil
}

func (r *Redis) Ack(ctx context.Context, task Task) error {
	if task.raw == "" {
		return errors.New("queue: ack of a task that was not dequeued")
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, processingKey, 1, task.raw)
		pipe.HDel(ctx, claimsKey, task.raw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("queue: ack: %w", err)
	}
	return nil
}

func (r *Redis) Len(ctx context.Context) (int64, error) {
	n, err := r.client.LLen(ctx, pendingKey).Result()
	if err != nil {
		return 0, fmt.Errorf("queue: len: %w", err)
	}
	return n, nil
}

// Recover moves claims older than the lease back to the pending list and
// returns how many it moved. Claims still within their lease belong to a
// live worker and are left alone, so Recover is safe to call while other
// workers run. A claim with no timestamp (its worker died between the move
// and the stamp) gets stamped now and is recovered once that lease expires.
func (r *Redis) Recover(ctx context.Context) (int, error) {
	claimed, err := r.client.LRange(ctx, processingKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("queue: recover: list claims: %w", err)
	}
	now := r.now()
	moved := 0
	// The processing list is newest first; walk it oldest first so
	// recovered tasks keep their order.
	for i := len(claimed) - 1; i >= 0; i-- {
		raw := claimed[i]
		stamp, err := r.client.HGet(ctx, claimsKey, raw).Result()
		if errors.Is(err, redis.Nil) {
			if err := r.client.HSetNX(ctx, claimsKey, raw, now.UnixMilli()).Err(); err != nil {
				return moved, fmt.Errorf("queue: recover: stamp claim: %w", err)
			}
			continue
		}
		if err != nil {
			return moved, fmt.Errorf("queue: recover: read claim: %w", err)
		}
		ms, err := strconv.ParseInt(stamp, 10, 64)
		if err == nil && now.Sub(time.UnixMilli(ms)) < r.lease {
			continue
		}
		n, err := requeueScript.Run(ctx, r.client, []string{processingKey, pendingKey, claimsKey}, raw).Int()
		if err != nil {
			return moved, fmt.Errorf("queue: recover: requeue: %w", err)
		}
		moved += n
	}
	return moved, nil
}

var _ Queue = (*Redis)(nil)
