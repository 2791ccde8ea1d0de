package models

// Status is the closed set of subscription lifecycle states.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusActive    Status = "active"
	StatusFrozen    Status = "frozen"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusFrozen, StatusExpired, StatusCancelled:
		return true
	}
	return false
}
