package repositories

import (
	"context"

	"clubops/internal/models"

	"github.com/google/uuid"
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Member, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Member, error)
}

type memberRepo struct {
	db DB
}

func NewMemberRepo(db DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Create(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO members (id, name, phone, email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, member.ID, member.Name, member.Phone, member.Email, member.Notes)
	return err
}

func (r *memberRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	member := &models.Member{}
	query := `
		SELECT id, name, phone, email, notes, created_at, updated_at
		FROM members
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&member.ID, &member.Name, &member.Phone,
		&member.Email, &member.Notes, &member.CreatedAt, &member.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *memberRepo) Update(ctx context.Context, member *models.Member) error {
	query := `
		UPDATE members
		SET name = $1, phone = $2, email = $3, notes = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, member.Name, member.Phone, member.Email, member.Notes, member.ID)
	return err
}

func (r *memberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM members WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *memberRepo) List(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	query := `
		SELECT id, name, phone, email, notes, created_at, updated_at
		FROM members
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		if err := rows.Scan(&member.ID, &member.Name, &member.Phone, &member.Email,
			&member.Notes, &member.CreatedAt, &member.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *memberRepo) Search(ctx context.Context, search string, limit, offset int) ([]*models.Member, error) {
	query := `
		SELECT id, name, phone, email, notes, created_at, updated_at
		FROM members
		WHERE name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member := &models.Member{}
		if err := rows.Scan(&member.ID, &member.Name, &member.Phone, &member.Email,
			&member.Notes, &member.CreatedAt, &member.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
