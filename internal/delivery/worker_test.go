package delivery

import (
	"archive/zip"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webgen/internal/domain"
	"webgen/internal/metrics"
	"webgen/internal/providers/mail"
	"webgen/internal/queue"
	"webgen/internal/site"
	"webgen/internal/storage"
	"webgen/internal/store"
)

type fakeMailer struct {
	mu      sync.Mutex
	err     error
	sent    []mail.Message
	entries []string
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	zr, err := zip.OpenReader(msg.AttachmentPath)
	if err != nil {
		return err
	}
	defer zr.Close()
	for _, file := range zr.File {
		f.entries = append(f.entries, file.Name)
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fixture struct {
	store   *store.Memory
	queue   *queue.Memory
	mailer  *fakeMailer
	staging *storage.FileStore
	metrics *metrics.Metrics
	worker  *Worker
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()
	assembler, err := site.NewDefaultAssembler()
	require.NoError(t, err)
	staging, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		store:   store.NewMemory(),
		queue:   queue.NewMemory(8, 20*time.Millisecond),
		mailer:  &fakeMailer{},
		staging: staging,
		metrics: metrics.New(),
	}
	f.worker = NewWorker("test", Options{
		Store:        f.store,
		Queue:        f.queue,
		Assembler:    assembler,
		Mailer:       f.mailer,
		Staging:      staging,
		Logger:       zerolog.Nop(),
		Metrics:      f.metrics,
		MaxAttempts:  maxAttempts,
		PollInterval: 10 * time.Millisecond,
	})
	return f
}

func paidProfile() domain.WebsiteProfile {
	p := domain.WebsiteProfile{
		BusinessName:  "Le Gourmet",
		Description:   "Restaurant gastronomique au coeur de Lyon",
		SiteType:      "restaurant",
		UserEmail:     "chef@legourmet.fr",
		SelectedPages: []string{"accueil", "apropos", "services", "contact"},
	}
	p.Normalize()
	return p
}

func (f *fixture) createPaid(t *testing.T) string {
	t.Helper()
	id, err := f.store.CreatePaid(context.Background(), paidProfile(), domain.Payment{OfferType: domain.OfferSite, TotalPrice: 299, Status: "pending"})
	require.NoError(t, err)
	return id
}

func stagedFiles(t *testing.T, s *storage.FileStore) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(s.BasePath(), "deliveries", "*"))
	require.NoError(t, err)
	return matches
}

func TestProcessDelivers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	id := f.createPaid(t)

	require.NoError(t, f.worker.Process(ctx, queue.NewTask(id)))

	job, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusDelivered, job.Status)
	assert.NotNil(t, job.DeliveredAt)
	assert.Empty(t, job.Error)

	require.Equal(t, 1, f.mailer.count())
	msg := f.mailer.sent[0]
	assert.Equal(t, "chef@legourmet.fr", msg.To)
	assert.Equal(t, "le-gourmet.zip", msg.AttachmentName)
	assert.Contains(t, msg.Subject, "Le Gourmet")
	assert.ElementsMatch(t, []string{
		"README.md", "apropos.html", "contact.html", "index.html", "script.js", "services.html", "styles.css",
	}, f.mailer.entries)

	assert.Empty(t, stagedFiles(t, f.staging), "staged archive must be removed")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DeliveriesTotal.WithLabelValues(OutcomeDelivered)))
}

func TestProcessMarksFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	f.mailer.err = errors.New("smtp: connection refused")
	id := f.createPaid(t)

	require.NoError(t, f.worker.Process(ctx, queue.NewTask(id)))

	job, err := f.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusDeliveryFailed, job.Status)
	assert.Equal(t, "smtp: connection refused", job.Error)
	assert.Nil(t, job.DeliveredAt)
	assert.Empty(t, stagedFiles(t, f.staging), "staged archive must be removed on failure")

	n, _ := f.queue.Len(ctx)
	assert.Zero(t, n, "no retry with a single attempt")
}

func TestProcessRetriesWhileAttemptsRemain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 2)
	f.mailer.err = errors.New("smtp: timeout")
	id := f.createPaid(t)

	require.NoError(t, f.worker.Process(ctx, queue.NewTask(id)))

	job, _ := f.store.Get(ctx, id)
	assert.Equal(t, domain.JobStatusPaidPendingDelivery, job.Status, "status unchanged while retrying")

	retry, err := f.queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, retry.Attempt)

	require.NoError(t, f.worker.Process(ctx, retry))
	job, _ = f.store.Get(ctx, id)
	assert.Equal(t, domain.JobStatusDeliveryFailed, job.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DeliveriesTotal.WithLabelValues(OutcomeRetried)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DeliveriesTotal.WithLabelValues(OutcomeFailed)))
}

func TestProcessMissingSite(t *testing.T) {
	f := newFixture(t, 1)
	require.NoError(t, f.worker.Process(context.Background(), queue.NewTask("does-not-exist")))
	assert.Zero(t, f.mailer.count())
	assert.Zero(t, f.store.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DeliveriesTotal.WithLabelValues(OutcomeMissing)))
}

func TestProcessSkipsTerminalJobs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 1)
	id := f.createPaid(t)
	require.NoError(t, f.worker.Process(ctx, queue.NewTask(id)))
	require.NoError(t, f.worker.Process(ctx, queue.NewTask(id)))

	assert.Equal(t, 1, f.mailer.count(), "a delivered site is not mailed twice")
}

// settledElsewhere marks the job delivered just before the worker records its
// own outcome, as a second worker holding the same task would.
type settledElsewhere struct {
	*store.Memory
}

func (s settledElsewhere) SetStatus(ctx context.Context, id string, update domain.StatusUpdate) error {
	if err := s.Memory.SetStatus(ctx, id, domain.StatusUpdate{Status: domain.JobStatusDelivered, DeliveredAt: time.Now().UTC()}); err != nil {
		return err
	}
	return s.Memory.SetStatus(ctx, id, update)
}

type ackRecorder struct {
	queue.Queue
	mu    sync.Mutex
	acked []string
}

func (a *ackRecorder) Ack(ctx context.Context, task queue.Task) error {
	a.mu.Lock()
	a.acked = append(a.acked, task.ID)
	a.mu.Unlock()
	return a.Queue.Ack(ctx, task)
}

func TestProcessAcksTasksSettledConcurrently(t *testing.T) {
	for _, tc := range []struct {
		name    string
		sendErr error
	}{
		{name: "delivered", sendErr: nil},
		{name: "failed", sendErr: errors.New("smtp: connection refused")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, 1)
			f.mailer.err = tc.sendErr
			id := f.createPaid(t)
			acks := &ackRecorder{Queue: f.queue}
			assembler, err := site.NewDefaultAssembler()
			require.NoError(t, err)
			w := NewWorker("test", Options{
				Store:     settledElsewhere{f.store},
				Queue:     acks,
				Assembler: assembler,
				Mailer:    f.mailer,
				Staging:   f.staging,
				Logger:    zerolog.Nop(),
				Metrics:   f.metrics,
			})

			task := queue.NewTask(id)
			require.NoError(t, w.Process(ctx, task))

			assert.Equal(t, []string{task.ID}, acks.acked)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DeliveriesTotal.WithLabelValues(OutcomeSkipped)))
			assert.Zero(t, testutil.ToFloat64(f.metrics.DeliveriesTotal.WithLabelValues(OutcomeDelivered)))
			job, err := f.store.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, domain.JobStatusDelivered, job.Status)
		})
	}
}

func TestRunDrainsQueueUntilCancelled(t *testing.T) {
	f := newFixture(t, 1)
	ids := []string{f.createPaid(t), f.createPaid(t)}
	for _, id := range ids {
		require.NoError(t, f.queue.Enqueue(context.Background(), queue.NewTask(id)))
	}

	pool := NewPool(2, Options{
		Store:       f.store,
		Queue:       f.queue,
		Assembler:   f.worker.assembler,
		Mailer:      f.mailer,
		Staging:     f.staging,
		Logger:      zerolog.Nop(),
		MaxAttempts: 1,
	})
	require.Equal(t, 2, pool.Size())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pool.Run(ctx) }()

	require.Eventually(t, func() bool { return f.mailer.count() == 2 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not stop")
	}

	for _, id := range ids {
		job, err := f.store.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusDelivered, job.Status)
	}
}

func TestComposeMessage(t *testing.T) {
	msg := composeMessage(paidProfile(), "/tmp/x.zip")
	assert.Equal(t, "/tmp/x.zip", msg.AttachmentPath)
	assert.Equal(t, "le-gourmet.zip", msg.AttachmentName)
	assert.Contains(t, msg.Body, "Le Gourmet")
}
