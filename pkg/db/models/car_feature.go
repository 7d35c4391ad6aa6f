package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CarFeature struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CarID           uuid.UUID `gorm:"column:car_id;type:uuid;not null" json:"car_id"`
	FeatureName     string    `gorm:"column:feature_name;not null" json:"feature_name"`
	FeatureValue    *string   `gorm:"column:feature_value" json:"feature_value,omitempty"`
	FeatureCategory *string   `gorm:"column:feature_category" json:"feature_category,omitempty"`
	SortOrder       int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CarFeature) TableName() string { return "car_features" }

func (f *CarFeature) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
