package lifecycle

import (
	"time"

	"clubops/internal/dates"
	"clubops/internal/models"

	"github.com/google/uuid"
)

// NewSubscription creates a subscription from a plan, snapshotting the
// plan fields so later plan edits never change it. The end date is
// derived as start_date + duration_days.
func NewSubscription(memberID uuid.UUID, plan *models.SubscriptionType, startDate dates.Date, now time.Time) (*models.Subscription, error) {
	if plan.DurationDays <= 0 {
		return nil, ErrInvalidDuration
	}
	return &models.Subscription{
		ID:           uuid.New(),
		MemberID:     memberID,
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		MaxEntries:   plan.MaxEntries,
		DurationDays: plan.DurationDays,
		Price:        plan.Price,
		StartDate:    startDate,
		EndDate:      startDate.AddDays(plan.DurationDays),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Cancel flags the subscription as cancelled. Cancellation is a flag,
// not a rollback: payments and dates are left untouched.
func Cancel(sub *models.Subscription) error {
	if sub.IsCancelled {
		return ErrAlreadyCancelled
	}
	sub.IsCancelled = true
	return nil
}

// Renew creates a brand-new subscription period from an expired one,
// carrying the same member and plan snapshot. The prior subscription is
// never mutated, so the audit trail survives renewal. Only subscriptions
// resolving to Expired are renewable.
func Renew(sub *models.Subscription, today dates.Date, now time.Time) (*models.Subscription, error) {
	if ResolveStatus(sub, today) != models.StatusExpired {
		return nil, ErrNotRenewable
	}
	return &models.Subscription{
		ID:           uuid.New(),
		MemberID:     sub.MemberID,
		PlanID:       sub.PlanID,
		PlanName:     sub.PlanName,
		MaxEntries:   sub.MaxEntries,
		DurationDays: sub.DurationDays,
		Price:        sub.Price,
		StartDate:    today,
		EndDate:      today.AddDays(sub.DurationDays),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
