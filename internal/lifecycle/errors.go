package lifecycle

import "errors"

// Domain errors are expected, recoverable outcomes of precondition
// checks. Callers match them with errors.Is; none of them indicates an
// infrastructure fault.
var (
	ErrInvalidDuration       = errors.New("freeze duration must be a positive number of days")
	ErrAlreadyFrozen         = errors.New("subscription already has an active freeze")
	ErrNoActiveFreeze        = errors.New("freeze request is not active on this subscription")
	ErrSubscriptionCancelled = errors.New("subscription is cancelled")
	ErrSubscriptionExpired   = errors.New("subscription is expired")
	ErrExceedsRemaining      = errors.New("payment exceeds remaining amount")
	ErrInvalidAmount         = errors.New("payment amount must be positive")
	ErrNotRenewable          = errors.New("only expired subscriptions can be renewed")
	ErrAlreadyCancelled      = errors.New("subscription is already cancelled")
	ErrNotActive             = errors.New("subscription is not active")
	ErrNoEntriesRemaining    = errors.New("no entries remaining on this subscription")
)

// IsDomainError reports whether err is one of the lifecycle precondition
// errors, as opposed to an infrastructure failure passed through.
func IsDomainError(err error) bool {
	for _, domain := range []error{
		ErrInvalidDuration,
		ErrAlreadyFrozen,
		ErrNoActiveFreeze,
		ErrSubscriptionCancelled,
		ErrSubscriptionExpired,
		ErrExceedsRemaining,
		ErrInvalidAmount,
		ErrNotRenewable,
		ErrAlreadyCancelled,
		ErrNotActive,
		ErrNoEntriesRemaining,
	} {
		if errors.Is(err, domain) {
			return true
		}
	}
	return false
}
