package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agridynamic/internal/model"
)

// VolunteerRepository defines volunteer persistence operations.
type VolunteerRepository interface {
	Create(ctx context.Context, volunteer *model.Volunteer) error
	Update(ctx context.Context, volunteer *model.Volunteer) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Volunteer, error)
	List(ctx context.Context) ([]model.Volunteer, error)
}

type volunteerRepository struct {
	db *gorm.DB
}

// NewVolunteerRepository creates a new volunteer repository.
func NewVolunteerRepository(db *gorm.DB) VolunteerRepository {
	return &volunteerRepository{db: db}
}

// Create inserts a volunteer. A taken email surfaces as gorm.ErrDuplicatedKey.
func (r *volunteerRepository) Create(ctx context.Context, volunteer *model.Volunteer) error {
	return r.db.WithContext(ctx).Create(volunteer).Error
}

func (r *volunteerRepository) Update(ctx context.Context, volunteer *model.Volunteer) error {
	return r.db.WithContext(ctx).Save(volunteer).Error
}

func (r *volunteerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Volunteer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *volunteerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Volunteer, error) {
	var volunteer model.Volunteer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&volunteer).Error; err != nil {
		return nil, err
	}
	return &volunteer, nil
}

func (r *volunteerRepository) List(ctx context.Context) ([]model.Volunteer, error) {
	volunteers := []model.Volunteer{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&volunteers).Error; err != nil {
		return nil, err
	}
	return volunteers, nil
}
