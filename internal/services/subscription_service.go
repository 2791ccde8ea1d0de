package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"clubops/internal/caching"
	"clubops/internal/common"
	"clubops/internal/dates"
	"clubops/internal/lifecycle"
	"clubops/internal/models"
	"clubops/internal/money"
	"clubops/internal/repositories"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const subscriptionCacheTTL = 5 * time.Minute

// SubscriptionService is the lifecycle engine façade exposed to the
// transport layer. Every write runs in one transaction holding a row
// lock on the aggregate, and the clock is read exactly once per call so
// all checks within an operation see the same "now".
type SubscriptionService interface {
	Create(ctx context.Context, req *CreateSubscriptionRequest) (*SubscriptionView, error)
	GetByID(ctx context.Context, subscriptionID uuid.UUID) (*SubscriptionView, error)
	List(ctx context.Context, limit, offset int) ([]*SubscriptionView, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*SubscriptionView, error)
	RecordPayment(ctx context.Context, subscriptionID uuid.UUID, amount money.Money, methodID uuid.UUID) (*models.Payment, error)
	RequestFreeze(ctx context.Context, subscriptionID uuid.UUID, requestedDays int, startDate dates.Date) (*models.FreezeRequest, error)
	CancelFreeze(ctx context.Context, subscriptionID, freezeID uuid.UUID) (*SubscriptionView, error)
	Cancel(ctx context.Context, subscriptionID uuid.UUID) (*SubscriptionView, error)
	Renew(ctx context.Context, subscriptionID uuid.UUID) (*SubscriptionView, error)
	CheckIn(ctx context.Context, subscriptionID uuid.UUID) (*SubscriptionView, error)
}

// CreateSubscriptionRequest carries the create operation input. A zero
// StartDate means "starts today".
type CreateSubscriptionRequest struct {
	MemberID  uuid.UUID
	PlanID    uuid.UUID
	StartDate dates.Date
}

// SubscriptionView is the aggregate plus the derived values every list
// and card screen needs: resolved status, paid/remaining amounts and the
// entry quota. RemainingEntries is nil for unlimited plans.
type SubscriptionView struct {
	*models.Subscription
	Status           models.Status `json:"status"`
	PaidAmount       money.Money   `json:"paid_amount"`
	RemainingAmount  money.Money   `json:"remaining_amount"`
	RemainingEntries *int          `json:"remaining_entries"`
}

type subscriptionService struct {
	db               repositories.DB
	subscriptionRepo repositories.SubscriptionRepository
	memberRepo       repositories.MemberRepository
	planRepo         repositories.SubscriptionTypeRepository
	methodRepo       repositories.PaymentMethodRepository
	cacheSvc         caching.CacheService
	clock            clockwork.Clock
}

func NewSubscriptionService(
	db repositories.DB,
	subscriptionRepo repositories.SubscriptionRepository,
	memberRepo repositories.MemberRepository,
	planRepo repositories.SubscriptionTypeRepository,
	methodRepo repositories.PaymentMethodRepository,
	cacheSvc caching.CacheService,
	clock clockwork.Clock,
) SubscriptionService {
	return &subscriptionService{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		memberRepo:       memberRepo,
		planRepo:         planRepo,
		methodRepo:       methodRepo,
		cacheSvc:         cacheSvc,
		clock:            clock,
	}
}

func (s *subscriptionService) view(sub *models.Subscription, today dates.Date) *SubscriptionView {
	v := &SubscriptionView{
		Subscription:    sub,
		Status:          lifecycle.ResolveStatus(sub, today),
		PaidAmount:      lifecycle.PaidAmount(sub),
		RemainingAmount: lifecycle.RemainingAmount(sub),
	}
	if remaining, limited := lifecycle.RemainingEntries(sub); limited {
		v.RemainingEntries = &remaining
	}
	return v
}

func (s *subscriptionService) Create(ctx context.Context, req *CreateSubscriptionRequest) (*SubscriptionView, error) {
	now := s.clock.Now()
	today := dates.FromTime(now)

	if _, err := s.memberRepo.GetByID(ctx, req.MemberID); err != nil {
		return nil, fmt.Errorf("member lookup failed: %w", err)
	}
	plan, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan lookup failed: %w", err)
	}

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = today
	}

	sub, err := lifecycle.NewSubscription(req.MemberID, plan, startDate, now)
	if err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.Create(ctx, s.db, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return s.view(sub, today), nil
}

func (s *subscriptionService) GetByID(ctx context.Context, subscriptionID uuid.UUID) (*SubscriptionView, error) {
	today := dates.FromTime(s.clock.Now())

	if cached, err := s.cacheSvc.GetSubscription(ctx, subscriptionID); err == nil && cached != nil {
		return s.view(cached, today), nil
	}

	sub, err := s.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	// Cache write failures must not fail the read path.
	if err := s.cacheSvc.SetSubscription(ctx, sub, subscriptionCacheTTL); err != nil {
		log.Printf("WARN: failed to cache subscription %s: %v", subscriptionID, err)
	}
	return s.view(sub, today), nil
}

func (s *subscriptionService) List(ctx context.Context, limit, offset int) ([]*SubscriptionView, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	today := dates.FromTime(s.clock.Now())

	subs, err := s.subscriptionRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]*SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, s.view(sub, today))
	}
	return views, nil
}

func (s *subscriptionService) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*SubscriptionView, error) {
	today := dates.FromTime(s.clock.Now())

	subs, err := s.subscriptionRepo.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	views := make([]*SubscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, s.view(sub, today))
	}
	return views, nil
}

// withAggregate runs fn against the locked aggregate and commits. The
// row lock makes the engine's check-then-act sequences atomic per
// subscription; operations on different subscriptions do not contend.
func (s *subscriptionService) withAggregate(ctx context.Context, subscriptionID uuid.UUID, fn func(q repositories.Querier, sub *models.Subscription) error) (*models.Subscription, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sub, err := s.subscriptionRepo.GetForUpdate(ctx, tx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := fn(tx, sub); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	if err := s.cacheSvc.DeleteSubscription(ctx, subscriptionID); err != nil {
		log.Printf("WARN: failed to invalidate subscription cache %s: %v", subscriptionID, err)
	}
	return sub, nil
}

func (s *subscriptionService) RecordPayment(ctx context.Context, subscriptionID uuid.UUID, amount money.Money, methodID uuid.UUID) (*models.Payment, error) {
	now := s.clock.Now()

	if _, err := s.methodRepo.GetByID(ctx, methodID); err != nil {
		return nil, fmt.Errorf("payment method lookup failed: %w", err)
	}

	var payment *models.Payment
	_, err := s.withAggregate(ctx, subscriptionID, func(q repositories.Querier, sub *models.Subscription) error {
		p, err := lifecycle.RecordPayment(sub, amount, methodID, now)
		if err != nil {
			return err
		}
		payment = p
		return s.subscriptionRepo.InsertPayment(ctx, q, p)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *subscriptionService) RequestFreeze(ctx context.Context, subscriptionID uuid.UUID, requestedDays int, startDate dates.Date) (*models.FreezeRequest, error) {
	now := s.clock.Now()
	if startDate.IsZero() {
		startDate = dates.FromTime(now)
	}

	var freeze *models.FreezeRequest
	_, err := s.withAggregate(ctx, subscriptionID, func(q repositories.Querier, sub *models.Subscription) error {
		f, err := lifecycle.RequestFreeze(sub, requestedDays, startDate, now)
		if err != nil {
			return err
		}
		freeze = f
		if err := s.subscriptionRepo.InsertFreeze(ctx, q, f); err != nil {
			return err
		}
		return s.subscriptionRepo.Save(ctx, q, sub)
	})
	if err != nil {
		return nil, err
	}
	return freeze, nil
}

func (s *subscriptionService) CancelFreeze(ctx context.Context, subscriptionID, freezeID uuid.UUID) (*SubscriptionView, error) {
	now := s.clock.Now()
	today := dates.FromTime(now)

	sub, err := s.withAggregate(ctx, subscriptionID, func(q repositories.Querier, sub *models.Subscription) error {
		freeze, err := lifecycle.CancelFreeze(sub, freezeID, today, now)
		if err != nil {
			return err
		}
		if err := s.subscriptionRepo.UpdateFreeze(ctx, q, freeze); err != nil {
			return err
		}
		return s.subscriptionRepo.Save(ctx, q, sub)
	})
	if err != nil {
		return nil, err
	}
	return s.view(sub, today), nil
}

func (s *subscriptionService) Cancel(ctx context.Context, subscriptionID uuid.UUID) (*SubscriptionView, error) {
	today := dates.FromTime(s.clock.Now())

	sub, err := s.withAggregate(ctx, subscriptionID, func(q repositories.Querier, sub *models.Subscription) error {
		if err := lifecycle.Cancel(sub); err != nil {
			return err
		}
		return s.subscriptionRepo.Save(ctx, q, sub)
	})
	if err != nil {
		return nil, err
	}
	return s.view(sub, today), nil
}

func (s *subscriptionService) Renew(ctx context.Context, subscriptionID uuid.UUID) (*SubscriptionView, error) {
	now := s.clock.Now()
	today := dates.FromTime(now)

	var renewed *models.Subscription
	_, err := s.withAggregate(ctx, subscriptionID, func(q repositories.Querier, sub *models.Subscription) error {
		next, err := lifecycle.Renew(sub, today, now)
		if err != nil {
			return err
		}
		renewed = next
		return s.subscriptionRepo.Create(ctx, q, next)
	})
	if err != nil {
		return nil, err
	}
	return s.view(renewed, today), nil
}

// CheckIn is the attendance collaborator: it consumes one entry after
// the engine validates the lifecycle state and quota.
func (s *subscriptionService) CheckIn(ctx context.Context, subscriptionID uuid.UUID) (*SubscriptionView, error) {
	today := dates.FromTime(s.clock.Now())

	sub, err := s.withAggregate(ctx, subscriptionID, func(q repositories.Querier, sub *models.Subscription) error {
		if err := lifecycle.ValidateEntry(sub, today); err != nil {
			return err
		}
		sub.EntryCount++
		return s.subscriptionRepo.Save(ctx, q, sub)
	})
	if err != nil {
		return nil, err
	}
	return s.view(sub, today), nil
}
