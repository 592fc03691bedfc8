package models

import "time"

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	// PaymentWaiting means the payment is open and awaiting a transfer.
	PaymentWaiting PaymentStatus = "waiting"
	// PaymentPaid means the transfer was confirmed by the back office.
	PaymentPaid PaymentStatus = "paid"
	// PaymentClosed means the payment was cancelled without being paid.
	PaymentClosed PaymentStatus = "closed"
)

// Payment represents an order to be settled by bank transfer.
// Payments are created and transitioned (waiting -> paid / closed) by an
// external confirmation process; this service only reads them.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// ConferenceID is the conference this payment belongs to.
	ConferenceID string `json:"conference_id"`

	// PayeeID is the user who owes the payment.
	PayeeID string `json:"payee_id"`

	// Ident is the short string the payer puts in the transfer remark so
	// the back office can match the incoming transfer to this payment.
	Ident string `json:"ident"`

	// Total is the nominal amount before discounts.
	Total float64 `json:"total"`

	// Description is the one-line summary shown on the order.
	Description string `json:"description"`

	// Detail is optional long-form text describing the order.
	Detail string `json:"detail,omitempty"`

	// Status is the payment lifecycle state.
	Status PaymentStatus `json:"status"`

	// Discounts are the time-boxed discounts attached to the payment.
	Discounts []Discount `json:"discounts,omitempty"`

	// CreatedAt is the Unix timestamp when the payment was created.
	CreatedAt int64 `json:"created_at"`

	// ConfirmedAt is when the transfer was confirmed.
	// Set if and only if Status is PaymentPaid.
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}

// Discount is a reduction of the payment total, optionally valid only
// until a cutoff time.
type Discount struct {
	// Amount is subtracted from the payment total while applicable.
	Amount float64 `json:"amount"`

	// Description explains the discount (e.g. "early bird").
	Description string `json:"description"`

	// Until is the cutoff after which the discount no longer applies.
	// Nil means the discount never expires.
	Until *time.Time `json:"until,omitempty"`
}
