package domain

import "time"

// JobStatus enumerates generation job lifecycle states.
type JobStatus string

const (
	JobStatusGenerated           JobStatus = "generated"
	JobStatusPaidPendingDelivery JobStatus = "paid_pending_delivery"
	JobStatusDelivered           JobStatus = "delivered"
	JobStatusDeliveryFailed      JobStatus = "delivery_failed"
)

// OfferType enumerates what the customer paid for.
type OfferType string

const (
	OfferSite         OfferType = "site"
	OfferConciergerie OfferType = "conciergerie"
)

// Valid reports whether o is a known offer.
func (o OfferType) Valid() bool {
	return o == OfferSite || o == OfferConciergerie
}

// Terminal reports whether no further transition is allowed from s.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDelivered || s == JobStatusDeliveryFailed
}

// CanTransition reports whether moving from s to next is a forward step.
func (s JobStatus) CanTransition(next JobStatus) bool {
	switch s {
	case JobStatusGenerated:
		return next == JobStatusPaidPendingDelivery
	case JobStatusPaidPendingDelivery:
		return next == JobStatusDelivered || next == JobStatusDeliveryFailed
	default:
		return false
	}
}

// Payment records the simulated checkout attached to a paid job.
type Payment struct {
	OfferType           OfferType `json:"offer_type"`
	TotalPrice          float64   `json:"total_price"`
	PaypalTransactionID string    `json:"paypal_transaction_id"`
	Status              string    `json:"status"`
}

// GenerationJob is one generation/delivery lifecycle for a submitted profile.
type GenerationJob struct {
	ID            string             `json:"id"`
	Profile       WebsiteProfile     `json:"data"`
	CreatedAt     time.Time          `json:"created_at"`
	Status        JobStatus          `json:"status"`
	Payment       *Payment           `json:"payment,omitempty"`
	Modifications []EditModification `json:"modifications"`
	Error         string             `json:"error,omitempty"`
	DeliveredAt   *time.Time         `json:"delivered_at,omitempty"`
}

// Clone returns a deep copy of the job.
func (j GenerationJob) Clone() GenerationJob {
	out := j
	out.Profile = j.Profile.Clone()
	if j.Payment != nil {
		p := *j.Payment
		out.Payment = &p
	}
	out.Modifications = append([]EditModification{}, j.Modifications...)
	if j.DeliveredAt != nil {
		t := *j.DeliveredAt
		out.DeliveredAt = &t
	}
	return out
}

// StatusUpdate carries the fields written alongside a status transition.
type StatusUpdate struct {
	Status      JobStatus
	Error       string
	DeliveredAt time.Time
}

// Apply transitions j according to u. It enforces forward-only moves and
// keeps delivered_at and error mutually exclusive.
func (j *GenerationJob) Apply(u StatusUpdate) error {
	if !j.Status.CanTransition(u.Status) {
		return ErrInvalidTransition
	}
	j.Status = u.Status
	switch u.Status {
	case JobStatusDelivered:
		at := u.DeliveredAt
		if at.IsZero() {
			at = time.Now().UTC()
		}
		j.DeliveredAt = &at
		j.Error = ""
		if j.Payment != nil {
			j.Payment.Status = "completed"
		}
	case JobStatusDeliveryFailed:
		j.DeliveredAt = nil
		j.Error = u.Error
		if j.Error == "" {
			j.Error = "delivery failed"
		}
	}
	return nil
}
