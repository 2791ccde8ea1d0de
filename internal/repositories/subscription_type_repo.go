package repositories

import (
	"context"

	"clubops/internal/models"
	"clubops/internal/money"

	"github.com/google/uuid"
)

type SubscriptionTypeRepository interface {
	Create(ctx context.Context, plan *models.SubscriptionType) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionType, error)
	Update(ctx context.Context, plan *models.SubscriptionType) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.SubscriptionType, error)
}

type subscriptionTypeRepo struct {
	db DB
}

func NewSubscriptionTypeRepo(db DB) SubscriptionTypeRepository {
	return &subscriptionTypeRepo{db: db}
}

func (r *subscriptionTypeRepo) Create(ctx context.Context, plan *models.SubscriptionType) error {
	query := `
		INSERT INTO subscription_types (id, name, max_entries, duration_days, price_units, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, plan.ID, plan.Name, plan.MaxEntries, plan.DurationDays,
		plan.Price.Units, plan.Price.Currency)
	return err
}

func (r *subscriptionTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionType, error) {
	plan := &models.SubscriptionType{}
	var units int64
	var currency string
	query := `
		SELECT id, name, max_entries, duration_days, price_units, currency, created_at, updated_at
		FROM subscription_types
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&plan.ID, &plan.Name, &plan.MaxEntries,
		&plan.DurationDays, &units, &currency, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	plan.Price = money.New(units, currency)
	return plan, nil
}

func (r *subscriptionTypeRepo) Update(ctx context.Context, plan *models.SubscriptionType) error {
	query := `
		UPDATE subscription_types
		SET name = $1, max_entries = $2, duration_days = $3, price_units = $4, currency = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, plan.Name, plan.MaxEntries, plan.DurationDays,
		plan.Price.Units, plan.Price.Currency, plan.ID)
	return err
}

func (r *subscriptionTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM subscription_types WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *subscriptionTypeRepo) List(ctx context.Context, limit, offset int) ([]*models.SubscriptionType, error) {
	query := `
		SELECT id, name, max_entries, duration_days, price_units, currency, created_at, updated_at
		FROM subscription_types
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.SubscriptionType
	for rows.Next() {
		plan := &models.SubscriptionType{}
		var units int64
		var currency string
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.MaxEntries, &plan.DurationDays,
			&units, &currency, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, err
		}
		plan.Price = money.New(units, currency)
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
