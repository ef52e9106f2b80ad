package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agridynamic/internal/model"
)

// PartnerRepository defines partner persistence operations.
type PartnerRepository interface {
	Create(ctx context.Context, partner *model.Partner) error
	Update(ctx context.Context, partner *model.Partner) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Partner, error)
	List(ctx context.Context) ([]model.Partner, error)
}

type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a new partner repository.
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) Create(ctx context.Context, partner *model.Partner) error {
	return r.db.WithContext(ctx).Create(partner).Error
}

func (r *partnerRepository) Update(ctx context.Context, partner *model.Partner) error {
	return r.db.WithContext(ctx).Save(partner).Error
}

func (r *partnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Partner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *partnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Partner, error) {
	var partner model.Partner
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// List returns partners ordered alphabetically by name.
func (r *partnerRepository) List(ctx context.Context) ([]model.Partner, error) {
	partners := []model.Partner{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}
