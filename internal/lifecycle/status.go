package lifecycle

import (
	"clubops/internal/dates"
	"clubops/internal/models"
)

// ResolveStatus maps a subscription and the current day to exactly one
// lifecycle state. The check order is load-bearing: cancellation wins
// over an active freeze window, and a freeze whose window has elapsed
// falls through to the date comparison instead of reporting Frozen
// forever.
func ResolveStatus(sub *models.Subscription, today dates.Date) models.Status {
	if sub.IsCancelled {
		return models.StatusCancelled
	}
	for i := range sub.Freezes {
		f := &sub.Freezes[i]
		if f.IsActive && f.Covers(today) {
			return models.StatusFrozen
		}
	}
	if today.Before(sub.StartDate) {
		return models.StatusUpcoming
	}
	if today.After(sub.EndDate) {
		return models.StatusExpired
	}
	return models.StatusActive
}
