package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleStatus is the lifecycle stage of an article or project.
type ArticleStatus string

const (
	ArticleStatusUpcoming   ArticleStatus = "upcoming"
	ArticleStatusInProgress ArticleStatus = "in-progress"
	ArticleStatusCompleted  ArticleStatus = "completed"
	ArticleStatusArchived   ArticleStatus = "archived"
)

// ArticleStatuses lists every status in display order.
var ArticleStatuses = []ArticleStatus{
	ArticleStatusUpcoming,
	ArticleStatusInProgress,
	ArticleStatusCompleted,
	ArticleStatusArchived,
}

// Valid reports whether s is a known status.
func (s ArticleStatus) Valid() bool {
	for _, known := range ArticleStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Article represents a project or article entry published on the site.
type Article struct {
	ID              uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Title           string        `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Description     string        `json:"description" gorm:"size:500;not null" validate:"required,max=500"`
	Image           string        `json:"image" gorm:"size:1024;not null" validate:"required"`
	AuthorID        *uuid.UUID    `json:"author,omitempty" gorm:"type:char(36);index"`
	Published       bool          `json:"published" gorm:"not null;default:false;index"`
	Status          ArticleStatus `json:"status" gorm:"size:20;not null;default:'upcoming';index" validate:"required,oneof=upcoming in-progress completed archived"`
	Background      string        `json:"background,omitempty" gorm:"type:text"`
	Methodology     string        `json:"methodology,omitempty" gorm:"type:text"`
	Results         string        `json:"results,omitempty" gorm:"type:text"`
	Conclusions     string        `json:"conclusions,omitempty" gorm:"type:text"`
	Recommendations string        `json:"recommendations,omitempty" gorm:"type:text"`
	Application     string        `json:"application,omitempty" gorm:"type:text"`
	Contributors    []string      `json:"contributors" gorm:"type:text;serializer:json"`
	CreatedAt       time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ArticleCard is the reduced projection served to listing cards.
type ArticleCard struct {
	ID           uuid.UUID     `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Image        string        `json:"image"`
	Contributors []string      `json:"contributors" gorm:"serializer:json"`
	Status       ArticleStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// ArticleFilter narrows article listings. Zero values mean "any".
type ArticleFilter struct {
	Status    ArticleStatus
	Published *bool
}
