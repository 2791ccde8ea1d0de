package models

import (
	"time"

	"clubops/internal/money"

	"github.com/google/uuid"
)

// SubscriptionType is a plan template. Subscriptions snapshot its fields
// at creation, so later edits never change existing subscriptions.
type SubscriptionType struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	MaxEntries   int         `json:"max_entries" db:"max_entries"` // 0 means unlimited
	DurationDays int         `json:"duration_days" db:"duration_days"`
	Price        money.Money `json:"price"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}
