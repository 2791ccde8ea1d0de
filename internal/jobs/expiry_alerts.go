package jobs

import (
	"context"
	"log"

	"clubops/internal/common"
	"clubops/internal/dates"
	"clubops/internal/lifecycle"
	"clubops/internal/models"
	"clubops/internal/repositories"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	expiryAlertWindowDays = 7
	sweepPageSize         = 500
)

// ExpiryAlertService runs the nightly subscription sweep. It resolves
// every subscription's status for the dashboard counts and flags the
// ones expiring within the alert window so front desk staff can chase
// renewals.
type ExpiryAlertService struct {
	subscriptionRepo repositories.SubscriptionRepository
	memberRepo       repositories.MemberRepository
	clock            clockwork.Clock
}

// ExpiryAlert identifies a subscription ending within the alert window
type ExpiryAlert struct {
	SubscriptionID uuid.UUID
	MemberID       uuid.UUID
	MemberName     string
	MemberPhone    string
	PlanName       string
	EndDate        dates.Date
	DaysLeft       int
}

func NewExpiryAlertService(subscriptionRepo repositories.SubscriptionRepository, memberRepo repositories.MemberRepository, clock clockwork.Clock) *ExpiryAlertService {
	return &ExpiryAlertService{
		subscriptionRepo: subscriptionRepo,
		memberRepo:       memberRepo,
		clock:            clock,
	}
}

// Sweep walks all subscriptions once and returns the status counts and
// the expiring-soon alerts for a single observation of the clock.
func (a *ExpiryAlertService) Sweep(ctx context.Context) (map[string]int, []ExpiryAlert, error) {
	today := dates.FromTime(a.clock.Now())

	counts := make(map[string]int)
	var alerts []ExpiryAlert

	offset := 0
	for {
		subs, err := a.subscriptionRepo.List(ctx, sweepPageSize, offset)
		if err != nil {
			return nil, nil, err
		}
		if len(subs) == 0 {
			break
		}

		for _, sub := range subs {
			status := lifecycle.ResolveStatus(sub, today)
			counts[string(status)]++

			if status != models.StatusActive && status != models.StatusFrozen {
				continue
			}
			daysLeft := today.DaysUntil(sub.EndDate)
			if daysLeft > expiryAlertWindowDays {
				continue
			}
			alerts = append(alerts, a.alertFor(ctx, sub, daysLeft))
		}

		if len(subs) < sweepPageSize {
			break
		}
		offset += sweepPageSize
	}

	return counts, alerts, nil
}

func (a *ExpiryAlertService) alertFor(ctx context.Context, sub *models.Subscription, daysLeft int) ExpiryAlert {
	alert := ExpiryAlert{
		SubscriptionID: sub.ID,
		MemberID:       sub.MemberID,
		PlanName:       sub.PlanName,
		EndDate:        sub.EndDate,
		DaysLeft:       daysLeft,
	}
	member, err := a.memberRepo.GetByID(ctx, sub.MemberID)
	if err != nil {
		log.Printf("Failed to get member %s for expiry alert: %v", sub.MemberID.String(), err)
		return alert
	}
	alert.MemberName = member.Name
	alert.MemberPhone = common.SafeString(member.Phone)
	return alert
}

// LogExpiryAlerts writes the alerts to the application log
func (a *ExpiryAlertService) LogExpiryAlerts(alerts []ExpiryAlert) {
	if len(alerts) == 0 {
		log.Println("No subscriptions expiring within the alert window")
		return
	}

	log.Printf("%d subscriptions expiring within %d days:", len(alerts), expiryAlertWindowDays)
	for _, alert := range alerts {
		log.Printf("- %s (plan '%s') ends %s, %d days left",
			alert.MemberName,
			alert.PlanName,
			alert.EndDate.String(),
			alert.DaysLeft)
	}
}
