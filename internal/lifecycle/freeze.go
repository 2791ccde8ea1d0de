package lifecycle

import (
	"time"

	"clubops/internal/dates"
	"clubops/internal/models"

	"github.com/google/uuid"
)

// RequestFreeze approves a freeze of requestedDays starting at startDate
// and extends the subscription end date by the same number of days. The
// extension is computed from the current end date, so consecutive
// freezes compound additively. There is no separate approval step.
func RequestFreeze(sub *models.Subscription, requestedDays int, startDate dates.Date, now time.Time) (*models.FreezeRequest, error) {
	if requestedDays <= 0 {
		return nil, ErrInvalidDuration
	}
	if sub.IsCancelled {
		return nil, ErrSubscriptionCancelled
	}
	if startDate.After(sub.EndDate) {
		return nil, ErrSubscriptionExpired
	}
	if sub.ActiveFreeze() != nil {
		return nil, ErrAlreadyFrozen
	}

	freeze := models.FreezeRequest{
		ID:             uuid.New(),
		SubscriptionID: sub.ID,
		RequestedDays:  requestedDays,
		StartDate:      startDate,
		IsActive:       true,
		CreatedAt:      now,
	}
	sub.Freezes = append(sub.Freezes, freeze)
	sub.EndDate = sub.EndDate.AddDays(requestedDays)
	return &sub.Freezes[len(sub.Freezes)-1], nil
}

// CancelFreeze deactivates the referenced freeze and returns the unused
// portion of the extension: the end date keeps only the days that had
// already elapsed between the freeze start and asOf, clamped to
// [0, requested_days]. Cancelling immediately restores the pre-freeze
// end date exactly; cancelling after the window fully elapsed returns
// nothing.
func CancelFreeze(sub *models.Subscription, freezeID uuid.UUID, asOf dates.Date, now time.Time) (*models.FreezeRequest, error) {
	var freeze *models.FreezeRequest
	for i := range sub.Freezes {
		if sub.Freezes[i].ID == freezeID {
			freeze = &sub.Freezes[i]
			break
		}
	}
	if freeze == nil || !freeze.IsActive {
		return nil, ErrNoActiveFreeze
	}

	elapsed := freeze.StartDate.DaysUntil(asOf)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > freeze.RequestedDays {
		elapsed = freeze.RequestedDays
	}

	freeze.IsActive = false
	freeze.CancelledAt = &now
	sub.EndDate = sub.EndDate.AddDays(elapsed - freeze.RequestedDays)
	return freeze, nil
}
