package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"webgen/internal/domain"
)

// Memory is the process-local job store. Jobs live until the process exits.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]*domain.GenerationJob
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*domain.GenerationJob), now: time.Now}
}

func (m *Memory) Create(ctx context.Context, profile domain.WebsiteProfile) (string, error) {
	return m.insert(ctx, profile, domain.JobStatusGenerated, nil)
}

func (m *Memory) CreatePaid(ctx context.Context, profile domain.WebsiteProfile, payment domain.Payment) (string, error) {
	return m.insert(ctx, profile, domain.JobStatusPaidPendingDelivery, &payment)
}

func (m *Memory) insert(ctx context.Context, profile domain.WebsiteProfile, status domain.JobStatus, payment *domain.Payment) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	job := &domain.GenerationJob{
		ID:            uuid.NewString(),
		Profile:       profile.Clone(),
		CreatedAt:     m.now().UTC(),
		Status:        status,
		Modifications: []domain.EditModification{},
	}
	if payment != nil {
		p := *payment
		job.Payment = &p
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	return job.ID, nil
}

func (m *Memory) AppendModification(ctx context.Context, jobID string, mod domain.EditModification) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mod = prepareModification(mod, m.now)

	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return "", fmt.Errorf("store: append modification to %s: %w", jobID, domain.ErrNotFound)
	}
	job.Modifications = append(job.Modifications, mod)
	return mod.ID, nil
}

func (m *Memory) Get(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("store: get %s: %w", jobID, domain.ErrNotFound)
	}
	clone := job.Clone()
	return &clone, nil
}

func (m *Memory) SetStatus(ctx context.Context, jobID string, update domain.StatusUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if update.Status == domain.JobStatusDelivered && update.DeliveredAt.IsZero() {
		update.DeliveredAt = m.now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return fmt.Errorf("store: set status of %s: %w", jobID, domain.ErrNotFound)
	}
	// Apply on a copy so a rejected transition leaves the stored job untouched.
	next := job.Clone()
	if err := next.Apply(update); err != nil {
		return fmt.Errorf("store: set status of %s: %w", jobID, err)
	}
	m.jobs[jobID] = &next
	return nil
}

// Len reports how many jobs are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}

func prepareModification(mod domain.EditModification, now func() time.Time) domain.EditModification {
	if mod.ID == "" {
		mod.ID = uuid.NewString()
	}
	if mod.Page == "" {
		mod.Page = domain.DefaultEditPage
	}
	if mod.Timestamp.IsZero() {
		mod.Timestamp = now().UTC()
	}
	return mod
}

var _ domain.JobStore = (*Memory)(nil)
