package queue

import (
	"context"
	"time"
)

// Memory is a bounded in-process queue. Tasks are lost when the process exits.
type Memory struct {
	tasks       chan Task
	pollTimeout time.Duration
}

func NewMemory(capacity int, pollTimeout time.Duration) *Memory {
	if capacity <= 0 {
		capacity = 1024
	}
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return &Memory{tasks: make(chan Task, capacity), pollTimeout: pollTimeout}
}

// Enqueue blocks while the queue is full.
func (m *Memory) Enqueue(ctx context.Context, task Task) error {
	select {
	case m.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Memory) Dequeue(ctx context.Context) (Task, error) {
	timer := time.NewTimer(m.pollTimeout)
	defer timer.Stop()
	select {
	case task := <-m.tasks:
		return task, nil
	case <-timer.C:
		return Task{}, ErrEmpty
	case <-ctx.Done():
		return Task{}, ctx.Err()
	}
}

// Ack is a no-op: a received task is already gone from the channel.
func (m *Memory) Ack(context.Context, Task) error {
	return nil
}

func (m *Memory) Len(context.Context) (int64, error) {
	return int64(len(m.tasks)), nil
}

var _ Queue = (*Memory)(nil)
