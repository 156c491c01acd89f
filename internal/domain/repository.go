package domain

import "context"

// JobStore persists generation jobs. Implementations return copies so callers
// can never mutate stored state without going through the store.
type JobStore interface {
	// Create records a job in the generated state and returns its id.
	Create(ctx context.Context, profile WebsiteProfile) (string, error)
	// CreatePaid records a job in the paid_pending_delivery state.
	CreatePaid(ctx context.Context, profile WebsiteProfile, payment Payment) (string, error)
	// AppendModification appends mod to the job's log and returns mod's id.
	// It returns ErrNotFound, leaving the store unchanged, for unknown ids.
	AppendModification(ctx context.Context, jobID string, mod EditModification) (string, error)
	// Get returns the job or ErrNotFound.
	Get(ctx context.Context, jobID string) (*GenerationJob, error)
	// SetStatus applies a forward status transition.
	SetStatus(ctx context.Context, jobID string, update StatusUpdate) error
}
