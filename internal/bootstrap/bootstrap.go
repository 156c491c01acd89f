// Package bootstrap builds the runtime dependencies shared by cmd/api and
// cmd/worker from a loaded configuration.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"webgen/internal/delivery"
	"webgen/internal/domain"
	"webgen/internal/infra"
	"webgen/internal/metrics"
	"webgen/internal/providers/mail"
	"webgen/internal/queue"
	"webgen/internal/site"
	"webgen/internal/storage"
	"webgen/internal/store"
)

const memoryQueueCapacity = 1024

// Deps holds the store, queue and delivery collaborators for one process.
type Deps struct {
	Store     domain.JobStore
	Queue     queue.Queue
	Mailer    mail.Sender
	Staging   *storage.FileStore
	Assembler *site.Assembler

	closers []func()
}

// Open connects the configured drivers. On error every resource opened so
// far is released.
func Open(ctx context.Context, cfg *infra.Config, logger infra.Logger) (deps *Deps, err error) {
	deps = &Deps{}
	defer func() {
		if err != nil {
			deps.Close()
			deps = nil
		}
	}()

	if deps.Assembler, err = site.NewDefaultAssembler(); err != nil {
		return deps, err
	}
	if deps.Store, err = deps.openStore(ctx, cfg, logger); err != nil {
		return deps, err
	}
	if deps.Queue, err = deps.openQueue(ctx, cfg); err != nil {
		return deps, err
	}
	if deps.Mailer, err = newMailer(cfg, logger); err != nil {
		return deps, err
	}
	if deps.Staging, err = storage.NewFileStore(filepath.Join(cfg.StoragePath, "webgen")); err != nil {
		return deps, err
	}
	return deps, nil
}

func (d *Deps) openStore(ctx context.Context, cfg *infra.Config, logger infra.Logger) (domain.JobStore, error) {
	if cfg.StoreDriver != infra.DriverPostgres {
		return store.NewMemory(), nil
	}
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, pool.Close)
	pg := store.NewPostgres(infra.NewSQLRunner(pool, infra.NewComponentLogger(logger, "sql")))
	if err := pg.Migrate(ctx); err != nil {
		return nil, err
	}
	return pg, nil
}

func (d *Deps) openQueue(ctx context.Context, cfg *infra.Config) (queue.Queue, error) {
	if cfg.QueueDriver != infra.DriverRedis {
		return queue.NewMemory(memoryQueueCapacity, queue.DefaultPollTimeout), nil
	}
	client, err := infra.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, func() { _ = client.Close() })
	return queue.NewRedis(client, queue.DefaultPollTimeout, cfg.DeliveryLease), nil
}

func newMailer(cfg *infra.Config, logger infra.Logger) (mail.Sender, error) {
	if cfg.SMTPHost == "" {
		logger.Warn().Msg("SMTP_HOST not set, deliveries are logged instead of sent")
		return mail.NewLog(infra.NewComponentLogger(logger, "mail")), nil
	}
	sender, err := mail.NewSMTP(mail.SMTPOptions{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return sender, nil
}

// RecoverQueue requeues tasks a crashed worker had claimed. It is a no-op
// for queues that do not track claimed tasks.
func (d *Deps) RecoverQueue(ctx context.Context) (int, error) {
	rq, ok := d.Queue.(*queue.Redis)
	if !ok {
		return 0, nil
	}
	return rq.Recover(ctx)
}

// DeliveryPool builds the worker pool described by cfg.
func (d *Deps) DeliveryPool(cfg *infra.Config, logger infra.Logger, m *metrics.Metrics) *delivery.Pool {
	return delivery.NewPool(cfg.DeliveryWorkers, delivery.Options{
		Store:        d.Store,
		Queue:        d.Queue,
		Assembler:    d.Assembler,
		Mailer:       d.Mailer,
		Staging:      d.Staging,
		Logger:       infra.NewComponentLogger(logger, "delivery"),
		Metrics:      m,
		MaxAttempts:  cfg.DeliveryMaxAttempts,
		PollInterval: time.Second,
	})
}

// Close releases connections in reverse order of opening.
func (d *Deps) Close() {
	if d == nil {
		return
	}
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
