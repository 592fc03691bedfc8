package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/confdesk/confdesk/internal/storage"
	"github.com/confdesk/confdesk/pkg/billing"
	"github.com/confdesk/confdesk/pkg/models"
)

// PaymentHandler serves payment reads. Payments are mutated by the
// back-office confirmation process, not through this API.
type PaymentHandler struct {
	store storage.Store
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(store storage.Store) *PaymentHandler {
	return &PaymentHandler{store: store}
}

// paymentResponse wraps a payment with its evaluated totals so clients that
// do not embed the billing rules still show consistent numbers.
type paymentResponse struct {
	*models.Payment

	// EffectiveTotal is the payable amount after applicable discounts,
	// judged at confirmation time for paid payments.
	EffectiveTotal float64 `json:"effective_total"`

	// DiscountDeadline is the nearest cutoff among still-applicable
	// discounts, if any.
	DiscountDeadline *time.Time `json:"discount_deadline,omitempty"`
}

// Get handles GET /api/payment/{id}.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.store.GetPayment(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, paymentResponse{
		Payment:          p,
		EffectiveTotal:   billing.Total(p, now),
		DiscountDeadline: billing.NextDeadline(p, now),
	})
}

// ConferenceHandler serves conference reference data.
type ConferenceHandler struct {
	store storage.Store
}

// NewConferenceHandler creates a new ConferenceHandler.
func NewConferenceHandler(store storage.Store) *ConferenceHandler {
	return &ConferenceHandler{store: store}
}

// Get handles GET /api/conference/{id}.
func (h *ConferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	conf, err := h.store.GetConference(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conf)
}
