package repositories

import (
	"context"

	"clubops/internal/models"

	"github.com/google/uuid"
)

type PaymentMethodRepository interface {
	Create(ctx context.Context, method *models.PaymentMethod) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.PaymentMethod, error)
}

type paymentMethodRepo struct {
	db DB
}

func NewPaymentMethodRepo(db DB) PaymentMethodRepository {
	return &paymentMethodRepo{db: db}
}

func (r *paymentMethodRepo) Create(ctx context.Context, method *models.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (id, name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, method.ID, method.Name)
	return err
}

func (r *paymentMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	method := &models.PaymentMethod{}
	query := `SELECT id, name, created_at FROM payment_methods WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&method.ID, &method.Name, &method.CreatedAt)
	if err != nil {
		return nil, err
	}
	return method, nil
}

func (r *paymentMethodRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM payment_methods WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *paymentMethodRepo) List(ctx context.Context) ([]*models.PaymentMethod, error) {
	query := `SELECT id, name, created_at FROM payment_methods ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []*models.PaymentMethod
	for rows.Next() {
		method := &models.PaymentMethod{}
		if err := rows.Scan(&method.ID, &method.Name, &method.CreatedAt); err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	return methods, rows.Err()
}
