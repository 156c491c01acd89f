package domain

import (
	"errors"
	"testing"
	"time"
)

func TestJobStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to JobStatus
		want     bool
	}{
		{JobStatusGenerated, JobStatusPaidPendingDelivery, true},
		{JobStatusGenerated, JobStatusDelivered, false},
		{JobStatusPaidPendingDelivery, JobStatusDelivered, true},
		{JobStatusPaidPendingDelivery, JobStatusDeliveryFailed, true},
		{JobStatusPaidPendingDelivery, JobStatusGenerated, false},
		{JobStatusDelivered, JobStatusDeliveryFailed, false},
		{JobStatusDeliveryFailed, JobStatusDelivered, false},
	}
	for _, tc := range tests {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestGenerationJobApplyDelivered(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	job := GenerationJob{Status: JobStatusPaidPendingDelivery, Payment: &Payment{Status: "pending"}}
	if err := job.Apply(StatusUpdate{Status: JobStatusDelivered, DeliveredAt: at}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if job.DeliveredAt == nil || !job.DeliveredAt.Equal(at) {
		t.Fatalf("DeliveredAt = %v, want %v", job.DeliveredAt, at)
	}
	if job.Error != "" {
		t.Fatalf("Error = %q, want empty", job.Error)
	}
	if job.Payment.Status != "completed" {
		t.Fatalf("Payment.Status = %q", job.Payment.Status)
	}
}

func TestGenerationJobApplyFailedKeepsNoDeliveredAt(t *testing.T) {
	job := GenerationJob{Status: JobStatusPaidPendingDelivery}
	if err := job.Apply(StatusUpdate{Status: JobStatusDeliveryFailed, Error: "smtp: refused"}); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if job.DeliveredAt != nil {
		t.Fatalf("DeliveredAt = %v, want nil", job.DeliveredAt)
	}
	if job.Error != "smtp: refused" {
		t.Fatalf("Error = %q", job.Error)
	}
	if err := job.Apply(StatusUpdate{Status: JobStatusDelivered}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second Apply() = %v, want ErrInvalidTransition", err)
	}
}

func TestParseEditCommand(t *testing.T) {
	for raw, want := range map[string]EditCommand{
		"setText":   EditSetText,
		"set-html":  EditSetHTML,
		"SETIMAGE":  EditSetImage,
		"set-style": EditSetStyle,
	} {
		got, ok := ParseEditCommand(raw)
		if !ok || got != want {
			t.Errorf("ParseEditCommand(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := ParseEditCommand("delete"); ok {
		t.Fatalf("ParseEditCommand(delete) should fail")
	}
}
