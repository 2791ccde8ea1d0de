package repositories

import (
	"context"
	"time"

	"clubops/internal/dates"
	"clubops/internal/models"
	"clubops/internal/money"

	"github.com/google/uuid"
)

// SubscriptionRepository persists the subscription aggregate. Reads load
// the full aggregate (freezes and payments in insertion order). Writes
// that belong to an engine operation take a Querier so the service can
// run them inside the transaction that holds the row lock.
type SubscriptionRepository interface {
	Create(ctx context.Context, q Querier, sub *models.Subscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	GetForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.Subscription, error)
	Save(ctx context.Context, q Querier, sub *models.Subscription) error
	InsertFreeze(ctx context.Context, q Querier, freeze *models.FreezeRequest) error
	UpdateFreeze(ctx context.Context, q Querier, freeze *models.FreezeRequest) error
	InsertPayment(ctx context.Context, q Querier, payment *models.Payment) error
	List(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*models.Subscription, error)
}

type subscriptionRepo struct {
	db DB
}

func NewSubscriptionRepo(db DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

const subscriptionColumns = `id, member_id, plan_id, plan_name, max_entries, duration_days,
	price_units, currency, start_date, end_date, entry_count, is_cancelled, created_at, updated_at`

func (r *subscriptionRepo) Create(ctx context.Context, q Querier, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, member_id, plan_id, plan_name, max_entries, duration_days,
			price_units, currency, start_date, end_date, entry_count, is_cancelled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := q.Exec(ctx, query,
		sub.ID, sub.MemberID, sub.PlanID, sub.PlanName, sub.MaxEntries, sub.DurationDays,
		sub.Price.Units, sub.Price.Currency, sub.StartDate.Time(), sub.EndDate.Time(),
		sub.EntryCount, sub.IsCancelled, sub.CreatedAt, sub.UpdatedAt)
	return err
}

func scanSubscription(row interface{ Scan(...interface{}) error }) (*models.Subscription, error) {
	sub := &models.Subscription{}
	var priceUnits int64
	var currency string
	var start, end time.Time
	err := row.Scan(&sub.ID, &sub.MemberID, &sub.PlanID, &sub.PlanName, &sub.MaxEntries,
		&sub.DurationDays, &priceUnits, &currency, &start, &end,
		&sub.EntryCount, &sub.IsCancelled, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sub.Price = money.New(priceUnits, currency)
	sub.StartDate = dates.FromTime(start)
	sub.EndDate = dates.FromTime(end)
	return sub, nil
}

func (r *subscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	sub, err := scanSubscription(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, r.db, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetForUpdate locks the aggregate row for the duration of the caller's
// transaction, which is the per-subscription mutual-exclusion boundary
// for all check-then-act engine operations.
func (r *subscriptionRepo) GetForUpdate(ctx context.Context, q Querier, id uuid.UUID) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 FOR UPDATE`
	sub, err := scanSubscription(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, q, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *subscriptionRepo) loadChildren(ctx context.Context, q Querier, sub *models.Subscription) error {
	freezeQuery := `
		SELECT id, subscription_id, requested_days, start_date, is_active, cancelled_at, created_at
		FROM freeze_requests
		WHERE subscription_id = $1
		ORDER BY created_at, id
	`
	rows, err := q.Query(ctx, freezeQuery, sub.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var f models.FreezeRequest
		var start time.Time
		if err := rows.Scan(&f.ID, &f.SubscriptionID, &f.RequestedDays, &start, &f.IsActive, &f.CancelledAt, &f.CreatedAt); err != nil {
			return err
		}
		f.StartDate = dates.FromTime(start)
		sub.Freezes = append(sub.Freezes, f)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	paymentQuery := `
		SELECT id, subscription_id, amount_units, currency, method_id, created_at
		FROM payments
		WHERE subscription_id = $1
		ORDER BY created_at, id
	`
	rows, err = q.Query(ctx, paymentQuery, sub.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Payment
		var units int64
		var currency string
		if err := rows.Scan(&p.ID, &p.SubscriptionID, &units, &currency, &p.MethodID, &p.CreatedAt); err != nil {
			return err
		}
		p.Amount = money.New(units, currency)
		sub.Payments = append(sub.Payments, p)
	}
	return rows.Err()
}

// Save writes back the mutable aggregate fields. Plan snapshot columns
// are immutable after creation and deliberately not updated here.
func (r *subscriptionRepo) Save(ctx context.Context, q Querier, sub *models.Subscription) error {
	query := `
		UPDATE subscriptions
		SET end_date = $1, entry_count = $2, is_cancelled = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := q.Exec(ctx, query, sub.EndDate.Time(), sub.EntryCount, sub.IsCancelled, sub.ID)
	return err
}

func (r *subscriptionRepo) InsertFreeze(ctx context.Context, q Querier, freeze *models.FreezeRequest) error {
	query := `
		INSERT INTO freeze_requests (id, subscription_id, requested_days, start_date, is_active, cancelled_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query, freeze.ID, freeze.SubscriptionID, freeze.RequestedDays,
		freeze.StartDate.Time(), freeze.IsActive, freeze.CancelledAt, freeze.CreatedAt)
	return err
}

func (r *subscriptionRepo) UpdateFreeze(ctx context.Context, q Querier, freeze *models.FreezeRequest) error {
	query := `
		UPDATE freeze_requests
		SET is_active = $1, cancelled_at = $2
		WHERE id = $3 AND subscription_id = $4
	`
	_, err := q.Exec(ctx, query, freeze.IsActive, freeze.CancelledAt, freeze.ID, freeze.SubscriptionID)
	return err
}

// InsertPayment is the only write the ledger supports: payments are
// append-only and never updated or deleted.
func (r *subscriptionRepo) InsertPayment(ctx context.Context, q Querier, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, subscription_id, amount_units, currency, method_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.Exec(ctx, query, payment.ID, payment.SubscriptionID,
		payment.Amount.Units, payment.Amount.Currency, payment.MethodID, payment.CreatedAt)
	return err
}

func (r *subscriptionRepo) List(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	subs, err := collectSubscriptions(rows)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if err := r.loadChildren(ctx, r.db, sub); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func (r *subscriptionRepo) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*models.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE member_id = $1
		ORDER BY start_date DESC
	`
	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	subs, err := collectSubscriptions(rows)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if err := r.loadChildren(ctx, r.db, sub); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func collectSubscriptions(rows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}) ([]*models.Subscription, error) {
	defer rows.Close()
	var subs []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
