// Package delivery builds paid sites and emails them to their owners.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"webgen/internal/domain"
	"webgen/internal/infra"
	"webgen/internal/metrics"
	"webgen/internal/providers/mail"
	"webgen/internal/queue"
	"webgen/internal/site"
	"webgen/internal/storage"
	"webgen/pkg/zip"
)

const defaultPollInterval = 2 * time.Second

// Outcomes recorded in metrics and logs.
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
	OutcomeRetried   = "retried"
	OutcomeMissing   = "missing"
	OutcomeSkipped   = "skipped"
)

// Options wires a Worker.
type Options struct {
	Store     domain.JobStore
	Queue     queue.Queue
	Assembler *site.Assembler
	Mailer    mail.Sender
	Staging   *storage.FileStore
	Logger    infra.Logger
	Metrics   *metrics.Metrics
	// MaxAttempts is the number of delivery attempts per job, at least 1.
	MaxAttempts  int
	PollInterval time.Duration
}

// Worker consumes delivery tasks one at a time.
type Worker struct {
	name         string
	store        domain.JobStore
	queue        queue.Queue
	assembler    *site.Assembler
	mailer       mail.Sender
	staging      *storage.FileStore
	logger       infra.Logger
	metrics      *metrics.Metrics
	maxAttempts  int
	pollInterval time.Duration
	now          func() time.Time
}

func NewWorker(name string, opts Options) *Worker {
	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &Worker{
		name:         name,
		store:        opts.Store,
		queue:        opts.Queue,
		assembler:    opts.Assembler,
		mailer:       opts.Mailer,
		staging:      opts.Staging,
		logger:       opts.Logger.With().Str("worker", name).Logger(),
		metrics:      opts.Metrics,
		maxAttempts:  maxAttempts,
		pollInterval: poll,
		now:          time.Now,
	}
}

// Run processes tasks until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Msg("delivery: worker started")
	for {
		task, err := w.queue.Dequeue(ctx)
		if ctx.Err() != nil {
			w.logger.Info().Msg("delivery: worker stopped")
			return ctx.Err()
		}
		if err != nil {
			if errors.Is(err, queue.ErrEmpty) {
				continue
			}
			w.logger.Error().Err(err).Msg("delivery: dequeue failed")
			if !sleep(ctx, w.pollInterval) {
				return ctx.Err()
			}
			continue
		}
		if err := w.Process(ctx, task); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error().Err(err).Str("site_id", task.SiteID).Msg("delivery: task failed")
		}
	}
}

// Process delivers one task. The job ends in exactly one terminal status
// unless the task is re-enqueued for another attempt. An error is returned
// only when the outcome could not be recorded.
func (w *Worker) Process(ctx context.Context, task queue.Task) error {
	log := w.logger.With().Str("site_id", task.SiteID).Int("attempt", task.Attempt).Logger()
	start := w.now()

	job, err := w.store.Get(ctx, task.SiteID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Msg("delivery: site not found, dropping task")
		w.observe(OutcomeMissing, start)
		return w.ack(ctx, task)
	}
	if err != nil {
		return fmt.Errorf("delivery: load %s: %w", task.SiteID, err)
	}
	if job.Status != domain.JobStatusPaidPendingDelivery {
		log.Warn().Str("status", string(job.Status)).Msg("delivery: site not awaiting delivery, dropping task")
		w.observe(OutcomeSkipped, start)
		return w.ack(ctx, task)
	}

	sendErr := w.deliver(ctx, job, task)
	if sendErr != nil && ctx.Err() != nil {
		// Shutting down: leave the task claimed so it can be recovered.
		return ctx.Err()
	}

	switch {
	case sendErr == nil:
		err := w.store.SetStatus(ctx, job.ID, domain.StatusUpdate{Status: domain.JobStatusDelivered, DeliveredAt: w.now().UTC()})
		if errors.Is(err, domain.ErrInvalidTransition) {
			return w.skipSettled(ctx, task, log, start)
		}
		if err != nil {
			return fmt.Errorf("delivery: mark delivered: %w", err)
		}
		log.Info().Str("to", job.Profile.UserEmail).Msg("delivery: site delivered")
		w.observe(OutcomeDelivered, start)
	case task.Attempt < w.maxAttempts:
		if err := w.queue.Enqueue(ctx, task.Retry()); err != nil {
			return fmt.Errorf("delivery: re-enqueue: %w", err)
		}
		log.Warn().Err(sendErr).Msg("delivery: attempt failed, retrying")
		w.observe(OutcomeRetried, start)
	default:
		err := w.store.SetStatus(ctx, job.ID, domain.StatusUpdate{Status: domain.JobStatusDeliveryFailed, Error: sendErr.Error()})
		if errors.Is(err, domain.ErrInvalidTransition) {
			return w.skipSettled(ctx, task, log, start)
		}
		if err != nil {
			return fmt.Errorf("delivery: mark failed: %w", err)
		}
		log.Error().Err(sendErr).Msg("delivery: site delivery failed")
		w.observe(OutcomeFailed, start)
	}
	return w.ack(ctx, task)
}

// skipSettled acks a task whose job reached a terminal status while it was
// being delivered, typically by another worker holding a recovered copy.
func (w *Worker) skipSettled(ctx context.Context, task queue.Task, log infra.Logger, start time.Time) error {
	log.Warn().Msg("delivery: site settled concurrently, dropping task")
	w.observe(OutcomeSkipped, start)
	return w.ack(ctx, task)
}

func (w *Worker) deliver(ctx context.Context, job *domain.GenerationJob, task queue.Task) error {
	files, err := w.assembler.Assemble(job.Profile)
	if err != nil {
		return fmt.Errorf("assemble site: %w", err)
	}
	archive, err := zip.Archive(zip.FromMap(files))
	if err != nil {
		return fmt.Errorf("build archive: %w", err)
	}

	key, err := w.staging.Write(ctx, fmt.Sprintf("deliveries/%s-%d.zip", job.ID, task.Attempt), archive)
	if err != nil {
		return fmt.Errorf("stage archive: %w", err)
	}
	defer func() {
		if err := w.staging.Remove(key); err != nil {
			w.logger.Warn().Err(err).Str("key", key).Msg("delivery: remove staged archive")
		}
	}()
	path, err := w.staging.Path(key)
	if err != nil {
		return fmt.Errorf("stage archive: %w", err)
	}

	return w.mailer.Send(ctx, composeMessage(job.Profile, path))
}

func composeMessage(p domain.WebsiteProfile, archivePath string) mail.Message {
	return mail.Message{
		To:      p.UserEmail,
		Subject: fmt.Sprintf("Votre site web %s est prêt", p.BusinessName),
		Body: fmt.Sprintf(`Bonjour,

Merci pour votre commande ! Vous trouverez en pièce jointe le site web de %s.

Pour le mettre en ligne :
1. Décompressez l'archive.
2. Ouvrez index.html pour le prévisualiser.
3. Copiez les fichiers sur votre hébergement.

Le fichier README.md détaille les options de personnalisation.

À bientôt,
L'équipe WebGen`, p.BusinessName),
		AttachmentPath: archivePath,
		AttachmentName: site.ArchiveName(p.BusinessName),
	}
}

func (w *Worker) ack(ctx context.Context, task queue.Task) error {
	if err := w.queue.Ack(ctx, task); err != nil {
		return fmt.Errorf("delivery: ack: %w", err)
	}
	return nil
}

func (w *Worker) observe(outcome string, start time.Time) {
	if w.metrics == nil {
		return
	}
	w.metrics.DeliveriesTotal.WithLabelValues(outcome).Inc()
	w.metrics.DeliveryDuration.Observe(w.now().Sub(start).Seconds())
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
