package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"webgen/internal/domain"
	"webgen/internal/queue"
)

type paymentRequest struct {
	WebsiteData         domain.WebsiteProfile `json:"websiteData"`
	OfferType           string                `json:"offerType"`
	TotalPrice          float64               `json:"totalPrice"`
	PaypalTransactionID string                `json:"paypalTransactionId"`
}

func (r *paymentRequest) validate() error {
	r.WebsiteData.Normalize()
	if err := r.WebsiteData.Validate(); err != nil {
		return err
	}
	if !domain.OfferType(r.OfferType).Valid() {
		return domain.Invalid("offerType", domain.CodeUnsupported, "must be site or conciergerie")
	}
	if r.TotalPrice < 0 {
		return domain.Invalid("totalPrice", domain.CodeNegative, "must not be negative")
	}
	return nil
}

// ProcessPayment stores a paid job and hands it to the delivery queue. The job
// is in paid_pending_delivery before the task becomes visible to workers.
func (a *App) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !a.decode(w, r, &req) {
		return
	}
	req.OfferType = strings.ToLower(strings.TrimSpace(req.OfferType))
	if err := req.validate(); err != nil {
		a.fail(w, r, err)
		return
	}
	payment := domain.Payment{
		OfferType:           domain.OfferType(req.OfferType),
		TotalPrice:          req.TotalPrice,
		PaypalTransactionID: strings.TrimSpace(req.PaypalTransactionID),
		Status:              "pending",
	}
	siteID, err := a.Store.CreatePaid(r.Context(), req.WebsiteData, payment)
	if err != nil {
		a.fail(w, r, fmt.Errorf("create paid job: %w", err))
		return
	}
	if err := a.Queue.Enqueue(r.Context(), queue.NewTask(siteID)); err != nil {
		if markErr := a.Store.SetStatus(context.WithoutCancel(r.Context()), siteID, domain.StatusUpdate{
			Status: domain.JobStatusDeliveryFailed,
			Error:  "could not schedule delivery",
		}); markErr != nil {
			a.Logger.Error().Err(markErr).Str("site_id", siteID).Msg("failed to mark unscheduled delivery as failed")
		}
		a.fail(w, r, fmt.Errorf("enqueue delivery %s: %w", siteID, err))
		return
	}
	if a.Metrics != nil {
		a.Metrics.PaymentsAccepted.WithLabelValues(req.OfferType).Inc()
	}
	a.Logger.Info().
		Str("site_id", siteID).
		Str("offer_type", req.OfferType).
		Str("email", req.WebsiteData.UserEmail).
		Msg("payment accepted, delivery scheduled")
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"site_id": siteID,
		"message": a.msg(r, msgPaymentOK),
	})
}

// PaypalWebhook acknowledges any well-formed JSON callback.
func (a *App) PaypalWebhook(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if !a.decode(w, r, &payload) {
		return
	}
	a.Logger.Info().RawJSON("payload", payload).Msg("paypal webhook received")
	a.json(w, http.StatusOK, map[string]string{"status": "success"})
}
