package lifecycle

import (
	"time"

	"clubops/internal/dates"
	"clubops/internal/models"
	"clubops/internal/money"

	"github.com/google/uuid"
)

// PaidAmount derives the total paid against a subscription by summing
// its ledger. The total is never stored redundantly.
func PaidAmount(sub *models.Subscription) money.Money {
	total := money.Zero(sub.Price.Currency)
	for i := range sub.Payments {
		total = total.Add(sub.Payments[i].Amount)
	}
	return total
}

// RemainingAmount is the plan price minus the sum of recorded payments.
func RemainingAmount(sub *models.Subscription) money.Money {
	return sub.Price.Sub(PaidAmount(sub))
}

// RecordPayment appends a payment to the ledger. A payment that would
// exceed the remaining amount is rejected outright rather than clamped:
// clamping would hide a stale remaining-amount read on the caller's side
// and misstate revenue.
func RecordPayment(sub *models.Subscription, amount money.Money, methodID uuid.UUID, now time.Time) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if sub.IsCancelled {
		return nil, ErrSubscriptionCancelled
	}
	if amount.GreaterThan(RemainingAmount(sub)) {
		return nil, ErrExceedsRemaining
	}

	payment := models.Payment{
		ID:             uuid.New(),
		SubscriptionID: sub.ID,
		Amount:         amount,
		MethodID:       methodID,
		CreatedAt:      now,
	}
	sub.Payments = append(sub.Payments, payment)
	return &sub.Payments[len(sub.Payments)-1], nil
}

// RemainingEntries reports how many entries are left on the plan quota.
// The second return is false for unlimited plans (max_entries = 0), in
// which case the count is meaningless.
func RemainingEntries(sub *models.Subscription) (int, bool) {
	if sub.MaxEntries == 0 {
		return 0, false
	}
	remaining := sub.MaxEntries - sub.EntryCount
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// ValidateEntry checks whether one more attendance entry may be consumed
// right now. Recording the entry itself is the attendance collaborator's
// job; the engine only enforces the quota and lifecycle preconditions.
func ValidateEntry(sub *models.Subscription, today dates.Date) error {
	switch ResolveStatus(sub, today) {
	case models.StatusCancelled:
		return ErrSubscriptionCancelled
	case models.StatusActive:
	default:
		return ErrNotActive
	}
	if remaining, limited := RemainingEntries(sub); limited && remaining == 0 {
		return ErrNoEntriesRemaining
	}
	return nil
}
