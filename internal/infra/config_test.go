package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("QUEUE_DRIVER", "")
	t.Setenv("PORT", "")
	t.Setenv("DELIVERY_MAX_ATTEMPTS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("DELIVERY_LEASE_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Fatalf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.StoreDriver != DriverMemory || cfg.QueueDriver != DriverMemory {
		t.Fatalf("drivers = %q/%q, want memory", cfg.StoreDriver, cfg.QueueDriver)
	}
	if cfg.DeliveryMaxAttempts != 1 {
		t.Fatalf("DeliveryMaxAttempts = %d, want 1", cfg.DeliveryMaxAttempts)
	}
	if cfg.DeliveryLease != 10*time.Minute {
		t.Fatalf("DeliveryLease = %s, want 10m", cfg.DeliveryLease)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigPostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://example")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StoreDriver != DriverPostgres {
		t.Fatalf("StoreDriver = %q", cfg.StoreDriver)
	}
}

func TestLoadConfigRejectsUnknownDrivers(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("QUEUE_DRIVER", "kafka")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig expected error for QUEUE_DRIVER=kafka")
	}
}

func TestLoadConfigParsesLists(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("QUEUE_DRIVER", "Redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("DELIVERY_EMBEDDED", "false")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.QueueDriver != DriverRedis {
		t.Fatalf("QueueDriver = %q", cfg.QueueDriver)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Fatalf("CORSAllowedOrigins[%d] = %q", i, cfg.CORSAllowedOrigins[i])
		}
	}
	if cfg.DeliveryEmbedded {
		t.Fatalf("DeliveryEmbedded = true, want false")
	}
}

func TestLoadConfigRejectsZeroAttempts(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("QUEUE_DRIVER", "")
	t.Setenv("DELIVERY_MAX_ATTEMPTS", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig expected error for zero attempts")
	}
}

func TestLoadConfigRejectsNonPositiveLease(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("QUEUE_DRIVER", "")
	t.Setenv("DELIVERY_LEASE_SECONDS", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("LoadConfig expected error for a zero lease")
	}
}
