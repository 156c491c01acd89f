package bootstrap

import (
	"context"
	"testing"

	"webgen/internal/infra"
	"webgen/internal/metrics"
	"webgen/internal/providers/mail"
	"webgen/internal/queue"
	"webgen/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) *infra.Config {
	return &infra.Config{
		StoreDriver:         infra.DriverMemory,
		QueueDriver:         infra.DriverMemory,
		DeliveryWorkers:     3,
		DeliveryMaxAttempts: 2,
		StoragePath:         t.TempDir(),
	}
}

func TestOpenMemoryDrivers(t *testing.T) {
	deps, err := Open(context.Background(), memoryConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &store.Memory{}, deps.Store)
	assert.IsType(t, &queue.Memory{}, deps.Queue)
	assert.IsType(t, &mail.Log{}, deps.Mailer)
	assert.NotNil(t, deps.Assembler)
	assert.DirExists(t, deps.Staging.BasePath())

	n, err := deps.RecoverQueue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenSMTPMailer(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.SMTPHost = "smtp.example.com"
	cfg.SMTPPort = 587
	cfg.SMTPFrom = "noreply@example.com"

	deps, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer deps.Close()
	assert.IsType(t, &mail.SMTP{}, deps.Mailer)
}

func TestDeliveryPoolSize(t *testing.T) {
	cfg := memoryConfig(t)
	deps, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer deps.Close()

	pool := deps.DeliveryPool(cfg, zerolog.Nop(), metrics.New())
	assert.Equal(t, 3, pool.Size())
}

func TestCloseRunsInReverseOrder(t *testing.T) {
	var order []int
	deps := &Deps{}
	deps.closers = append(deps.closers, func() { order = append(order, 1) }, func() { order = append(order, 2) })
	deps.Close()
	deps.Close()
	assert.Equal(t, []int{2, 1}, order)
}
