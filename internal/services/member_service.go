package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"clubops/internal/caching"
	"clubops/internal/common"
	"clubops/internal/models"
	"clubops/internal/repositories"

	"github.com/google/uuid"
)

const memberCacheTTL = 10 * time.Minute

type MemberService interface {
	Create(ctx context.Context, req *CreateMemberRequest) (*models.Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error)
	Update(ctx context.Context, req *UpdateMemberRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Member, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Member, error)
}

type memberService struct {
	memberRepo repositories.MemberRepository
	cacheSvc   caching.CacheService
}

func NewMemberService(memberRepo repositories.MemberRepository, cacheSvc caching.CacheService) MemberService {
	return &memberService{memberRepo: memberRepo, cacheSvc: cacheSvc}
}

type CreateMemberRequest struct {
	Name  string  `json:"name" validate:"required"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

type UpdateMemberRequest struct {
	ID    uuid.UUID
	Name  string  `json:"name" validate:"required"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

func (s *memberService) Create(ctx context.Context, req *CreateMemberRequest) (*models.Member, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("member name is required")
	}

	member := &models.Member{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(req.Name),
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *memberService) GetByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	if cached, err := s.cacheSvc.GetMember(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cacheSvc.SetMember(ctx, member, memberCacheTTL); err != nil {
		log.Printf("WARN: failed to cache member %s: %v", id, err)
	}
	return member, nil
}

func (s *memberService) Update(ctx context.Context, req *UpdateMemberRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("member name is required")
	}

	member, err := s.memberRepo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	member.Name = strings.TrimSpace(req.Name)
	member.Phone = req.Phone
	member.Email = req.Email
	member.Notes = req.Notes

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteMember(ctx, req.ID); err != nil {
		log.Printf("WARN: failed to invalidate member cache %s: %v", req.ID, err)
	}
	return nil
}

func (s *memberService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteMember(ctx, id); err != nil {
		log.Printf("WARN: failed to invalidate member cache %s: %v", id, err)
	}
	return nil
}

func (s *memberService) List(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.memberRepo.List(ctx, limit, offset)
}

func (s *memberService) Search(ctx context.Context, query string, limit, offset int) ([]*models.Member, error) {
	if strings.TrimSpace(query) == "" {
		return s.List(ctx, limit, offset)
	}
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.memberRepo.Search(ctx, strings.TrimSpace(query), limit, offset)
}
