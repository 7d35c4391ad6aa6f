package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VirtualTour is the single walkaround video attached to a car.
type VirtualTour struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CarID           uuid.UUID `gorm:"column:car_id;type:uuid;not null;uniqueIndex" json:"car_id"`
	VideoURL        string    `gorm:"column:video_url;not null" json:"video_url"`
	TourTitle       *string   `gorm:"column:tour_title" json:"tour_title,omitempty"`
	TourDescription *string   `gorm:"column:tour_description" json:"tour_description,omitempty"`
	VideoThumbnail  *string   `gorm:"column:video_thumbnail" json:"video_thumbnail,omitempty"`
	VideoDuration   *int      `gorm:"column:video_duration" json:"video_duration,omitempty"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (VirtualTour) TableName() string { return "virtual_tours" }

func (v *VirtualTour) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
