package services

import (
	"context"
	"errors"
	"strings"

	"clubops/internal/common"
	"clubops/internal/models"
	"clubops/internal/money"
	"clubops/internal/repositories"

	"github.com/google/uuid"
)

type PlanService interface {
	Create(ctx context.Context, req *CreatePlanRequest) (*models.SubscriptionType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionType, error)
	Update(ctx context.Context, req *UpdatePlanRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.SubscriptionType, error)
}

type planService struct {
	planRepo repositories.SubscriptionTypeRepository
}

func NewPlanService(planRepo repositories.SubscriptionTypeRepository) PlanService {
	return &planService{planRepo: planRepo}
}

type CreatePlanRequest struct {
	Name         string `json:"name" validate:"required"`
	MaxEntries   int    `json:"max_entries"` // 0 means unlimited
	DurationDays int    `json:"duration_days" validate:"required"`
	Price        string `json:"price" validate:"required"`
	Currency     string `json:"currency"`
}

type UpdatePlanRequest struct {
	ID           uuid.UUID
	Name         string `json:"name" validate:"required"`
	MaxEntries   int    `json:"max_entries"`
	DurationDays int    `json:"duration_days" validate:"required"`
	Price        string `json:"price" validate:"required"`
	Currency     string `json:"currency"`
}

func validatePlan(name string, maxEntries, durationDays int) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("plan name is required")
	}
	if durationDays <= 0 {
		return errors.New("duration must be a positive number of days")
	}
	if maxEntries < 0 {
		return errors.New("max entries cannot be negative")
	}
	return nil
}

func (s *planService) Create(ctx context.Context, req *CreatePlanRequest) (*models.SubscriptionType, error) {
	if err := validatePlan(req.Name, req.MaxEntries, req.DurationDays); err != nil {
		return nil, err
	}
	price, err := money.Parse(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, errors.New("price cannot be negative")
	}

	plan := &models.SubscriptionType{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		MaxEntries:   req.MaxEntries,
		DurationDays: req.DurationDays,
		Price:        price,
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionType, error) {
	return s.planRepo.GetByID(ctx, id)
}

// Update edits the plan template only. Existing subscriptions keep the
// snapshot taken at their creation.
func (s *planService) Update(ctx context.Context, req *UpdatePlanRequest) error {
	if err := validatePlan(req.Name, req.MaxEntries, req.DurationDays); err != nil {
		return err
	}
	price, err := money.Parse(req.Price, req.Currency)
	if err != nil {
		return err
	}
	if price.IsNegative() {
		return errors.New("price cannot be negative")
	}

	plan, err := s.planRepo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	plan.Name = strings.TrimSpace(req.Name)
	plan.MaxEntries = req.MaxEntries
	plan.DurationDays = req.DurationDays
	plan.Price = price

	return s.planRepo.Update(ctx, plan)
}

func (s *planService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.planRepo.Delete(ctx, id)
}

func (s *planService) List(ctx context.Context, limit, offset int) ([]*models.SubscriptionType, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.planRepo.List(ctx, limit, offset)
}
