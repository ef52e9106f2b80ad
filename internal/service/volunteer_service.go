package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/model"
	"agridynamic/internal/repository"
)

var (
	// ErrVolunteerNotFound is returned when no volunteer matches the id.
	ErrVolunteerNotFound = apperrors.NotFound("Volunteer not found")
	// ErrEmailRegistered is returned when a volunteer email is already on file.
	ErrEmailRegistered = apperrors.Conflict("Email already registered.")
)

// VolunteerInput carries create and update fields. Nil fields are not supplied.
type VolunteerInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// VolunteerService manages volunteer sign-ups.
type VolunteerService interface {
	List(ctx context.Context) ([]model.Volunteer, error)
	Get(ctx context.Context, id string) (*model.Volunteer, error)
	Create(ctx context.Context, in VolunteerInput) (*model.Volunteer, error)
	Update(ctx context.Context, id string, in VolunteerInput) (*model.Volunteer, error)
	Delete(ctx context.Context, id string) error
}

type volunteerService struct {
	repo repository.VolunteerRepository
}

// NewVolunteerService creates a new volunteer service.
func NewVolunteerService(repo repository.VolunteerRepository) VolunteerService {
	return &volunteerService{repo: repo}
}

func (s *volunteerService) List(ctx context.Context) ([]model.Volunteer, error) {
	volunteers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	return volunteers, nil
}

func (s *volunteerService) Get(ctx context.Context, id string) (*model.Volunteer, error) {
	volunteerID, err := parseID("Volunteer", id)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, volunteerID)
}

// Create stores a volunteer. The unique index on email rejects duplicates.
func (s *volunteerService) Create(ctx context.Context, in VolunteerInput) (*model.Volunteer, error) {
	volunteer := &model.Volunteer{}
	applyVolunteerInput(volunteer, in)
	if err := checkEntity(volunteer); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, volunteer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailRegistered
		}
		return nil, fmt.Errorf("create volunteer: %w", err)
	}
	return volunteer, nil
}

func (s *volunteerService) Update(ctx context.Context, id string, in VolunteerInput) (*model.Volunteer, error) {
	volunteerID, err := parseID("Volunteer", id)
	if err != nil {
		return nil, err
	}
	volunteer, err := s.find(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	applyVolunteerInput(volunteer, in)
	if err := checkEntity(volunteer); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, volunteer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailRegistered
		}
		return nil, fmt.Errorf("update volunteer: %w", err)
	}
	return volunteer, nil
}

func (s *volunteerService) Delete(ctx context.Context, id string) error {
	volunteerID, err := parseID("Volunteer", id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, volunteerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVolunteerNotFound
		}
		return fmt.Errorf("delete volunteer: %w", err)
	}
	return nil
}

func (s *volunteerService) find(ctx context.Context, id uuid.UUID) (*model.Volunteer, error) {
	volunteer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("find volunteer: %w", err)
	}
	return volunteer, nil
}

func applyVolunteerInput(v *model.Volunteer, in VolunteerInput) {
	setString(&v.FirstName, in.FirstName, strings.TrimSpace)
	setString(&v.LastName, in.LastName, strings.TrimSpace)
	setString(&v.Email, in.Email, normalizeEmail)
}
