package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Volunteer is a person who signed up to help.
type Volunteer struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName string    `json:"firstName" gorm:"size:255;not null" validate:"required,max=255"`
	LastName  string    `json:"lastName" gorm:"size:255;not null" validate:"required,max=255"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null" validate:"required,email"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (v *Volunteer) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
