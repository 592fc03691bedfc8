// Package billing computes effective payment totals from time-boxed
// discounts. All functions are pure; callers pass the evaluation time.
package billing

import (
	"time"

	"github.com/confdesk/confdesk/pkg/models"
)

// DiscountOutdated reports whether a discount's validity window has elapsed.
//
// A discount without a cutoff never expires. Otherwise the cutoff is compared
// against a reference time: the payment's confirmation time once the payment
// is paid, the given now otherwise. Judging a paid payment as of its
// confirmation keeps the effective total of a confirmed order stable no
// matter when it is displayed later.
func DiscountOutdated(d models.Discount, p *models.Payment, now time.Time) bool {
	if d.Until == nil {
		return false
	}

	ref := now
	if p.Status == models.PaymentPaid && p.ConfirmedAt != nil {
		ref = *p.ConfirmedAt
	}

	return !ref.Before(*d.Until)
}

// Total computes the effective payable amount: the payment total minus every
// discount still applicable at the reference time. Outdated discounts
// contribute nothing. The result is deliberately not clamped at zero; a
// negative total signals a data-entry error upstream that must stay visible.
func Total(p *models.Payment, now time.Time) float64 {
	total := p.Total
	for _, d := range p.Discounts {
		if DiscountOutdated(d, p, now) {
			continue
		}
		total -= d.Amount
	}
	return total
}

// NextDeadline returns the nearest cutoff among still-applicable dated
// discounts, or nil if none qualify (no discounts, all outdated, or only
// undated ones). Shown on open orders as "this discount still applies until".
func NextDeadline(p *models.Payment, now time.Time) *time.Time {
	var minimal *time.Time
	for _, d := range p.Discounts {
		if d.Until == nil || DiscountOutdated(d, p, now) {
			continue
		}
		if minimal == nil || d.Until.Before(*minimal) {
			minimal = d.Until
		}
	}
	return minimal
}
