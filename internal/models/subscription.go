package models

import (
	"time"

	"clubops/internal/dates"
	"clubops/internal/money"

	"github.com/google/uuid"
)

// Subscription is the aggregate root for a member's time-bounded club
// access. Plan fields are snapshotted from the SubscriptionType at
// creation. EndDate changes only through freeze approval, freeze
// cancellation or renewal.
type Subscription struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	MemberID     uuid.UUID   `json:"member_id" db:"member_id"`
	PlanID       uuid.UUID   `json:"plan_id" db:"plan_id"`
	PlanName     string      `json:"plan_name" db:"plan_name"`
	MaxEntries   int         `json:"max_entries" db:"max_entries"` // 0 means unlimited
	DurationDays int         `json:"duration_days" db:"duration_days"`
	Price        money.Money `json:"price"`
	StartDate    dates.Date  `json:"start_date" db:"start_date"`
	EndDate      dates.Date  `json:"end_date" db:"end_date"`
	EntryCount   int         `json:"entry_count" db:"entry_count"`
	IsCancelled  bool        `json:"is_cancelled" db:"is_cancelled"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`

	Freezes  []FreezeRequest `json:"freezes"`
	Payments []Payment       `json:"payments"`
}

// FreezeRequest pauses a subscription for RequestedDays starting at
// StartDate. At most one freeze per subscription is active at a time.
type FreezeRequest struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	SubscriptionID uuid.UUID  `json:"subscription_id" db:"subscription_id"`
	RequestedDays  int        `json:"requested_days" db:"requested_days"`
	StartDate      dates.Date `json:"start_date" db:"start_date"`
	IsActive       bool       `json:"is_active" db:"is_active"`
	CancelledAt    *time.Time `json:"cancelled_at" db:"cancelled_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Payment is an append-only ledger entry. Payments are never edited or
// deleted; paid amount is always derived by summing them.
type Payment struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	SubscriptionID uuid.UUID   `json:"subscription_id" db:"subscription_id"`
	Amount         money.Money `json:"amount"`
	MethodID       uuid.UUID   `json:"method_id" db:"method_id"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// ActiveFreeze returns the freeze currently marked active, or nil.
func (s *Subscription) ActiveFreeze() *FreezeRequest {
	for i := range s.Freezes {
		if s.Freezes[i].IsActive {
			return &s.Freezes[i]
		}
	}
	return nil
}

// Covers reports whether the freeze window contains the given day.
func (f *FreezeRequest) Covers(day dates.Date) bool {
	return !day.Before(f.StartDate) && day.Before(f.StartDate.AddDays(f.RequestedDays))
}
