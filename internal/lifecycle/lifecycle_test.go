package lifecycle

import (
	"testing"
	"time"

	"clubops/internal/dates"
	"clubops/internal/models"
	"clubops/internal/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type LifecycleTestSuite struct {
	suite.Suite
	plan     *models.SubscriptionType
	memberID uuid.UUID
	methodID uuid.UUID
	now      time.Time
}

func TestLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}

func (suite *LifecycleTestSuite) SetupTest() {
	suite.memberID = uuid.New()
	suite.methodID = uuid.New()
	suite.now = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	suite.plan = &models.SubscriptionType{
		ID:           uuid.New(),
		Name:         "Monthly",
		MaxEntries:   12,
		DurationDays: 30,
		Price:        money.New(10000, "USD"), // 100.00
	}
}

// day returns the calendar day n days after the baseline day 0.
func (suite *LifecycleTestSuite) day(n int) dates.Date {
	return dates.New(2025, time.January, 1).AddDays(n)
}

func (suite *LifecycleTestSuite) newSubscription() *models.Subscription {
	sub, err := NewSubscription(suite.memberID, suite.plan, suite.day(0), suite.now)
	assert.NoError(suite.T(), err)
	return sub
}

func (suite *LifecycleTestSuite) TestCreate_DerivesEndDate() {
	sub := suite.newSubscription()

	assert.True(suite.T(), sub.EndDate.Equal(suite.day(30)))
	assert.Equal(suite.T(), suite.plan.ID, sub.PlanID)
	assert.Equal(suite.T(), suite.plan.MaxEntries, sub.MaxEntries)
	assert.Equal(suite.T(), 0, sub.EntryCount)
	assert.Equal(suite.T(), models.StatusActive, ResolveStatus(sub, suite.day(15)))
}

func (suite *LifecycleTestSuite) TestCreate_RejectsNonPositiveDuration() {
	bad := &models.SubscriptionType{ID: uuid.New(), Name: "Broken", DurationDays: 0}
	sub, err := NewSubscription(suite.memberID, bad, suite.day(0), suite.now)
	assert.ErrorIs(suite.T(), err, ErrInvalidDuration)
	assert.Nil(suite.T(), sub)
}

func (suite *LifecycleTestSuite) TestResolveStatus_Upcoming() {
	sub := suite.newSubscription()
	assert.Equal(suite.T(), models.StatusUpcoming, ResolveStatus(sub, suite.day(-1)))
}

func (suite *LifecycleTestSuite) TestResolveStatus_Expired() {
	sub := suite.newSubscription()
	assert.Equal(suite.T(), models.StatusActive, ResolveStatus(sub, suite.day(30)))
	assert.Equal(suite.T(), models.StatusExpired, ResolveStatus(sub, suite.day(31)))
}

func (suite *LifecycleTestSuite) TestResolveStatus_CancelledDominatesFreeze() {
	sub := suite.newSubscription()
	_, err := RequestFreeze(sub, 10, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)
	sub.IsCancelled = true

	// Day 20 is inside the freeze window, yet cancellation wins.
	assert.Equal(suite.T(), models.StatusCancelled, ResolveStatus(sub, suite.day(20)))
}

func (suite *LifecycleTestSuite) TestResolveStatus_Totality() {
	sub := suite.newSubscription()
	_, err := RequestFreeze(sub, 10, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)

	for n := -5; n <= 45; n++ {
		status := ResolveStatus(sub, suite.day(n))
		assert.True(suite.T(), status.Valid(), "day %d resolved to %q", n, status)
	}
}

func (suite *LifecycleTestSuite) TestFreeze_ExtendsEndDate() {
	sub := suite.newSubscription()

	freeze, err := RequestFreeze(sub, 10, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), freeze.IsActive)
	assert.True(suite.T(), sub.EndDate.Equal(suite.day(40)))

	assert.Equal(suite.T(), models.StatusFrozen, ResolveStatus(sub, suite.day(20)))
	// Window elapsed but freeze still flagged active: falls through to dates.
	assert.Equal(suite.T(), models.StatusActive, ResolveStatus(sub, suite.day(35)))
	assert.Equal(suite.T(), models.StatusExpired, ResolveStatus(sub, suite.day(41)))
}

func (suite *LifecycleTestSuite) TestFreeze_SecondFreezeRejected() {
	sub := suite.newSubscription()
	_, err := RequestFreeze(sub, 10, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)

	_, err = RequestFreeze(sub, 5, suite.day(16), suite.now)
	assert.ErrorIs(suite.T(), err, ErrAlreadyFrozen)
	assert.True(suite.T(), sub.EndDate.Equal(suite.day(40)), "rejected freeze must not move the end date")
}

func (suite *LifecycleTestSuite) TestFreeze_RejectedOnCancelled() {
	sub := suite.newSubscription()
	sub.IsCancelled = true
	_, err := RequestFreeze(sub, 10, suite.day(15), suite.now)
	assert.ErrorIs(suite.T(), err, ErrSubscriptionCancelled)
}

func (suite *LifecycleTestSuite) TestFreeze_RejectedAfterExpiry() {
	sub := suite.newSubscription()
	_, err := RequestFreeze(sub, 10, suite.day(31), suite.now)
	assert.ErrorIs(suite.T(), err, ErrSubscriptionExpired)
}

func (suite *LifecycleTestSuite) TestFreeze_RejectedForNonPositiveDays() {
	sub := suite.newSubscription()
	_, err := RequestFreeze(sub, 0, suite.day(15), suite.now)
	assert.ErrorIs(suite.T(), err, ErrInvalidDuration)
	_, err = RequestFreeze(sub, -3, suite.day(15), suite.now)
	assert.ErrorIs(suite.T(), err, ErrInvalidDuration)
}

func (suite *LifecycleTestSuite) TestFreeze_ConsecutiveFreezesCompound() {
	sub := suite.newSubscription()

	first, err := RequestFreeze(sub, 10, suite.day(5), suite.now)
	assert.NoError(suite.T(), err)
	_, err = CancelFreeze(sub, first.ID, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), sub.EndDate.Equal(suite.day(40)), "fully consumed freeze keeps all 10 days")

	_, err = RequestFreeze(sub, 7, suite.day(20), suite.now)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), sub.EndDate.Equal(suite.day(47)), "second freeze extends from the current end date")
}

func (suite *LifecycleTestSuite) TestCancelFreeze_ImmediateCancelRestoresEndDate() {
	sub := suite.newSubscription()
	before := sub.EndDate

	freeze, err := RequestFreeze(sub, 30, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)

	_, err = CancelFreeze(sub, freeze.ID, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), sub.EndDate.Equal(before), "zero elapsed days must restore the pre-freeze end date")
	assert.False(suite.T(), sub.Freezes[0].IsActive)
	assert.NotNil(suite.T(), sub.Freezes[0].CancelledAt)
}

func (suite *LifecycleTestSuite) TestCancelFreeze_PartialReturn() {
	sub := suite.newSubscription()

	freeze, err := RequestFreeze(sub, 10, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), sub.EndDate.Equal(suite.day(40)))

	// Cancelled on day 18: three days consumed, seven returned.
	_, err = CancelFreeze(sub, freeze.ID, suite.day(18), suite.now)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), sub.EndDate.Equal(suite.day(33)))
}

func (suite *LifecycleTestSuite) TestCancelFreeze_ElapsedClampedToRequestedDays() {
	sub := suite.newSubscription()

	freeze, err := RequestFreeze(sub, 10, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)

	// Cancelled long after the window ended: nothing comes back.
	_, err = CancelFreeze(sub, freeze.ID, suite.day(60), suite.now)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), sub.EndDate.Equal(suite.day(40)))
}

func (suite *LifecycleTestSuite) TestCancelFreeze_NoActiveFreeze() {
	sub := suite.newSubscription()
	_, err := CancelFreeze(sub, uuid.New(), suite.day(15), suite.now)
	assert.ErrorIs(suite.T(), err, ErrNoActiveFreeze)

	freeze, err := RequestFreeze(sub, 10, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)
	_, err = CancelFreeze(sub, freeze.ID, suite.day(16), suite.now)
	assert.NoError(suite.T(), err)

	// Second cancellation of the same freeze is rejected.
	_, err = CancelFreeze(sub, freeze.ID, suite.day(17), suite.now)
	assert.ErrorIs(suite.T(), err, ErrNoActiveFreeze)
}

func (suite *LifecycleTestSuite) pay(sub *models.Subscription, amount string) (*models.Payment, error) {
	m, err := money.Parse(amount, "USD")
	assert.NoError(suite.T(), err)
	return RecordPayment(sub, m, suite.methodID, suite.now)
}

func (suite *LifecycleTestSuite) TestPayments_PartialThenExactRemainder() {
	sub := suite.newSubscription()

	_, err := suite.pay(sub, "60.00")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "40.00 USD", RemainingAmount(sub).String())

	// 50.00 would exceed the remaining 40.00: rejected, ledger unchanged.
	_, err = suite.pay(sub, "50.00")
	assert.ErrorIs(suite.T(), err, ErrExceedsRemaining)
	assert.Len(suite.T(), sub.Payments, 1)
	assert.Equal(suite.T(), "40.00 USD", RemainingAmount(sub).String())

	_, err = suite.pay(sub, "40.00")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), RemainingAmount(sub).IsZero())
	assert.True(suite.T(), PaidAmount(sub).Equal(sub.Price))
}

func (suite *LifecycleTestSuite) TestPayments_SumNeverExceedsPrice() {
	sub := suite.newSubscription()

	for _, amount := range []string{"25.00", "25.00", "25.00", "25.00"} {
		_, err := suite.pay(sub, amount)
		assert.NoError(suite.T(), err)
		assert.False(suite.T(), PaidAmount(sub).GreaterThan(sub.Price))
	}
	_, err := suite.pay(sub, "0.01")
	assert.ErrorIs(suite.T(), err, ErrExceedsRemaining)
}

func (suite *LifecycleTestSuite) TestPayments_RejectedOnCancelledOrNonPositive() {
	sub := suite.newSubscription()

	_, err := suite.pay(sub, "0.00")
	assert.ErrorIs(suite.T(), err, ErrInvalidAmount)

	sub.IsCancelled = true
	_, err = suite.pay(sub, "10.00")
	assert.ErrorIs(suite.T(), err, ErrSubscriptionCancelled)
	assert.Empty(suite.T(), sub.Payments)
}

func (suite *LifecycleTestSuite) TestCancel_IsAFlagNotARollback() {
	sub := suite.newSubscription()
	_, err := suite.pay(sub, "60.00")
	assert.NoError(suite.T(), err)
	endBefore := sub.EndDate

	assert.NoError(suite.T(), Cancel(sub))
	assert.True(suite.T(), sub.IsCancelled)
	assert.Len(suite.T(), sub.Payments, 1)
	assert.True(suite.T(), sub.EndDate.Equal(endBefore))
	assert.Equal(suite.T(), models.StatusCancelled, ResolveStatus(sub, suite.day(15)))

	assert.ErrorIs(suite.T(), Cancel(sub), ErrAlreadyCancelled)
}

func (suite *LifecycleTestSuite) TestRenew_CreatesNewPeriodLeavesOriginalUntouched() {
	sub := suite.newSubscription()
	sub.EntryCount = 7
	_, err := suite.pay(sub, "100.00")
	assert.NoError(suite.T(), err)

	renewed, err := Renew(sub, suite.day(32), suite.now)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), sub.ID, renewed.ID)
	assert.Equal(suite.T(), sub.MemberID, renewed.MemberID)
	assert.Equal(suite.T(), sub.PlanID, renewed.PlanID)
	assert.True(suite.T(), renewed.StartDate.Equal(suite.day(32)))
	assert.True(suite.T(), renewed.EndDate.Equal(suite.day(62)))
	assert.Equal(suite.T(), 0, renewed.EntryCount)
	assert.Empty(suite.T(), renewed.Payments)
	assert.Empty(suite.T(), renewed.Freezes)

	// Original is unchanged and still resolves Expired; the new one is Active.
	assert.Equal(suite.T(), 7, sub.EntryCount)
	assert.Len(suite.T(), sub.Payments, 1)
	assert.Equal(suite.T(), models.StatusExpired, ResolveStatus(sub, suite.day(32)))
	assert.Equal(suite.T(), models.StatusActive, ResolveStatus(renewed, suite.day(32)))

	// Renewal does not link periods: renewing the original again succeeds.
	again, err := Renew(sub, suite.day(33), suite.now)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), renewed.ID, again.ID)
}

func (suite *LifecycleTestSuite) TestRenew_OnlyExpiredIsRenewable() {
	sub := suite.newSubscription()

	_, err := Renew(sub, suite.day(15), suite.now) // Active
	assert.ErrorIs(suite.T(), err, ErrNotRenewable)

	_, err = Renew(sub, suite.day(-1), suite.now) // Upcoming
	assert.ErrorIs(suite.T(), err, ErrNotRenewable)

	_, err = RequestFreeze(sub, 10, suite.day(15), suite.now)
	assert.NoError(suite.T(), err)
	_, err = Renew(sub, suite.day(20), suite.now) // Frozen
	assert.ErrorIs(suite.T(), err, ErrNotRenewable)

	sub.IsCancelled = true
	_, err = Renew(sub, suite.day(50), suite.now) // Cancelled
	assert.ErrorIs(suite.T(), err, ErrNotRenewable)
}

func (suite *LifecycleTestSuite) TestRemainingEntries() {
	sub := suite.newSubscription()
	remaining, limited := RemainingEntries(sub)
	assert.True(suite.T(), limited)
	assert.Equal(suite.T(), 12, remaining)

	sub.EntryCount = 14 // over-consumed by the attendance side
	remaining, limited = RemainingEntries(sub)
	assert.True(suite.T(), limited)
	assert.Equal(suite.T(), 0, remaining, "remaining entries never go negative")

	sub.MaxEntries = 0
	_, limited = RemainingEntries(sub)
	assert.False(suite.T(), limited)
}

func (suite *LifecycleTestSuite) TestValidateEntry() {
	sub := suite.newSubscription()
	assert.NoError(suite.T(), ValidateEntry(sub, suite.day(15)))

	assert.ErrorIs(suite.T(), ValidateEntry(sub, suite.day(31)), ErrNotActive)

	sub.EntryCount = sub.MaxEntries
	assert.ErrorIs(suite.T(), ValidateEntry(sub, suite.day(15)), ErrNoEntriesRemaining)

	sub.EntryCount = 0
	sub.IsCancelled = true
	assert.ErrorIs(suite.T(), ValidateEntry(sub, suite.day(15)), ErrSubscriptionCancelled)
}
