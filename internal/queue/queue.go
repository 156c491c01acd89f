// Package queue carries delivery tasks from the payment handler to the
// delivery workers.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmpty is returned by Dequeue when no task arrived within the poll window.
var ErrEmpty = errors.New("queue: empty")

// DefaultPollTimeout bounds one Dequeue call.
const DefaultPollTimeout = 2 * time.Second

// Task asks a worker to deliver one paid site.
type Task struct {
	ID         string    `json:"id"`
	SiteID     string    `json:"site_id"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`

	// raw is the encoded payload as read from the backend, used to ack.
	raw string
}

// NewTask builds the first attempt for siteID.
func NewTask(siteID string) Task {
	return Task{ID: uuid.NewString(), SiteID: siteID, Attempt: 1, EnqueuedAt: time.Now().UTC()}
}

// Retry returns the next attempt of t.
func (t Task) Retry() Task {
	return Task{ID: t.ID, SiteID: t.SiteID, Attempt: t.Attempt + 1, EnqueuedAt: time.Now().UTC()}
}

// Queue is an at-least-once task queue. A dequeued task stays claimed until
// it is acked.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	// Dequeue blocks until a task is available, the poll window elapses
	// (ErrEmpty) or ctx is done.
	Dequeue(ctx context.Context) (Task, error)
	Ack(ctx context.Context, task Task) error
	Len(ctx context.Context) (int64, error)
}
