package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agridynamic/internal/model"
)

// EnquiryRepository defines enquiry persistence operations.
type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *model.Enquiry) error
	Update(ctx context.Context, enquiry *model.Enquiry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Enquiry, error)
	List(ctx context.Context) ([]model.Enquiry, error)
}

type enquiryRepository struct {
	db *gorm.DB
}

// NewEnquiryRepository creates a new enquiry repository.
func NewEnquiryRepository(db *gorm.DB) EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) Create(ctx context.Context, enquiry *model.Enquiry) error {
	return r.db.WithContext(ctx).Create(enquiry).Error
}

func (r *enquiryRepository) Update(ctx context.Context, enquiry *model.Enquiry) error {
	return r.db.WithContext(ctx).Save(enquiry).Error
}

func (r *enquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Enquiry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Enquiry, error) {
	var enquiry model.Enquiry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&enquiry).Error; err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// List returns enquiries newest first.
func (r *enquiryRepository) List(ctx context.Context) ([]model.Enquiry, error) {
	enquiries := []model.Enquiry{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&enquiries).Error; err != nil {
		return nil, err
	}
	return enquiries, nil
}
