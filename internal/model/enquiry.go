package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnquiryStatus tracks how far an enquiry has been handled.
type EnquiryStatus string

const (
	EnquiryStatusNew       EnquiryStatus = "new"
	EnquiryStatusRead      EnquiryStatus = "read"
	EnquiryStatusResponded EnquiryStatus = "responded"
	EnquiryStatusArchived  EnquiryStatus = "archived"
)

// Enquiry is a message submitted through the public contact form.
type Enquiry struct {
	ID        uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string        `json:"name" gorm:"size:255;not null" validate:"required,max=255"`
	Email     string        `json:"email" gorm:"size:255;not null;index" validate:"required,email"`
	Message   string        `json:"message" gorm:"type:text;not null" validate:"required"`
	Status    EnquiryStatus `json:"status" gorm:"size:20;not null;default:'new';index" validate:"required,oneof=new read responded archived"`
	CreatedAt time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// BeforeCreate sets UUID and the initial status before creating the record.
func (e *Enquiry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = EnquiryStatusNew
	}
	return nil
}
