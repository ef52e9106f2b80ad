package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Partner is an organisation shown in the partners strip.
type Partner struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index" validate:"required,max=255"`
	Logo        string    `json:"logo" gorm:"size:1024;not null" validate:"required"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Link        string    `json:"link" gorm:"size:1024;not null" validate:"required,max=1024"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Partner) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
