package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"webgen/internal/domain"
	"webgen/internal/infra"
	"webgen/internal/sqlinline"
)

// Postgres keeps jobs in the websites table and their edit log in
// website_modifications.
type Postgres struct {
	db  infra.SQLExecutor
	now func() time.Time
}

func NewPostgres(db infra.SQLExecutor) *Postgres {
	return &Postgres{db: db, now: time.Now}
}

// Migrate creates the tables when they do not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	for _, q := range []string{
		sqlinline.QCreateWebsitesTable,
		sqlinline.QCreateModificationsTable,
		sqlinline.QCreateModificationsIndex,
	} {
		if _, err := p.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("store: migrate: %w", err)
		}
	}
	return nil
}

func (p *Postgres) Create(ctx context.Context, profile domain.WebsiteProfile) (string, error) {
	return p.insert(ctx, profile, domain.JobStatusGenerated, nil)
}

func (p *Postgres) CreatePaid(ctx context.Context, profile domain.WebsiteProfile, payment domain.Payment) (string, error) {
	return p.insert(ctx, profile, domain.JobStatusPaidPendingDelivery, &payment)
}

func (p *Postgres) insert(ctx context.Context, profile domain.WebsiteProfile, status domain.JobStatus, payment *domain.Payment) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("store: encode profile: %w", err)
	}
	paymentJSON, err := encodePayment(payment)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := p.db.Exec(ctx, sqlinline.QInsertWebsite, id, profileJSON, string(status), paymentJSON, p.now().UTC()); err != nil {
		return "", fmt.Errorf("store: insert website: %w", err)
	}
	return id, nil
}

func (p *Postgres) AppendModification(ctx context.Context, jobID string, mod domain.EditModification) (string, error) {
	mod = prepareModification(mod, p.now)
	tag, err := p.db.Exec(ctx, sqlinline.QInsertModification,
		mod.ID, jobID, string(mod.Command), mod.Selector, mod.Value, mod.Page, mod.Timestamp)
	if err != nil {
		return "", fmt.Errorf("store: insert modification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", fmt.Errorf("store: append modification to %s: %w", jobID, domain.ErrNotFound)
	}
	return mod.ID, nil
}

func (p *Postgres) Get(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	var (
		job         domain.GenerationJob
		status      string
		profileJSON []byte
		paymentJSON []byte
		deliveredAt *time.Time
	)
	err := p.db.QueryRow(ctx, sqlinline.QGetWebsite, jobID).Scan(
		&job.ID, &profileJSON, &status, &paymentJSON, &job.Error, &job.CreatedAt, &deliveredAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, fmt.Errorf("store: get %s: %w", jobID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("store: get %s: %w", jobID, err)
	}
	job.Status = domain.JobStatus(status)
	job.CreatedAt = job.CreatedAt.UTC()
	if deliveredAt != nil {
		at := deliveredAt.UTC()
		job.DeliveredAt = &at
	}
	if err := json.Unmarshal(profileJSON, &job.Profile); err != nil {
		return nil, fmt.Errorf("store: decode profile: %w", err)
	}
	if len(paymentJSON) > 0 {
		var payment domain.Payment
		if err := json.Unmarshal(paymentJSON, &payment); err != nil {
			return nil, fmt.Errorf("store: decode payment: %w", err)
		}
		job.Payment = &payment
	}

	mods, err := p.modifications(ctx, jobID)
	if err != nil {
		return nil, err
	}
	job.Modifications = mods
	return &job, nil
}

func (p *Postgres) modifications(ctx context.Context, jobID string) ([]domain.EditModification, error) {
	rows, err := p.db.Query(ctx, sqlinline.QListModifications, jobID)
	if err != nil {
		return nil, fmt.Errorf("store: list modifications: %w", err)
	}
	defer rows.Close()

	mods := []domain.EditModification{}
	for rows.Next() {
		var (
			mod     domain.EditModification
			command string
		)
		if err := rows.Scan(&mod.ID, &command, &mod.Selector, &mod.Value, &mod.Page, &mod.Timestamp); err != nil {
			return nil, fmt.Errorf("store: scan modification: %w", err)
		}
		mod.Command = domain.EditCommand(command)
		mod.Timestamp = mod.Timestamp.UTC()
		mods = append(mods, mod)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list modifications: %w", err)
	}
	return mods, nil
}

func (p *Postgres) SetStatus(ctx context.Context, jobID string, update domain.StatusUpdate) error {
	job, err := p.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if update.Status == domain.JobStatusDelivered && update.DeliveredAt.IsZero() {
		update.DeliveredAt = p.now().UTC()
	}
	previous := job.Status
	if err := job.Apply(update); err != nil {
		return fmt.Errorf("store: set status of %s: %w", jobID, err)
	}
	paymentJSON, err := encodePayment(job.Payment)
	if err != nil {
		return err
	}
	tag, err := p.db.Exec(ctx, sqlinline.QUpdateWebsiteStatus,
		jobID, string(job.Status), job.Error, job.DeliveredAt, paymentJSON, string(previous))
	if err != nil {
		return fmt.Errorf("store: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store: set status of %s: %w", jobID, domain.ErrInvalidTransition)
	}
	return nil
}

func encodePayment(payment *domain.Payment) ([]byte, error) {
	if payment == nil {
		return nil, nil
	}
	data, err := json.Marshal(payment)
	if err != nil {
		return nil, fmt.Errorf("store: encode payment: %w", err)
	}
	return data, nil
}

var _ domain.JobStore = (*Postgres)(nil)
