package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
)

// CarImage is the metadata row for one stored image of a car.
type CarImage struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CarID           uuid.UUID       `gorm:"column:car_id;type:uuid;not null" json:"car_id"`
	ImageURL        string          `gorm:"column:image_url;not null" json:"image_url"`
	ImageType       enums.ImageType `gorm:"column:image_type;not null;default:exterior" json:"image_type"`
	SortOrder       int             `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	GallerySelected bool            `gorm:"column:gallery_selected;not null;default:false" json:"gallery_selected"`
	AltText         *string         `gorm:"column:alt_text" json:"alt_text,omitempty"`
	Caption         *string         `gorm:"column:caption" json:"caption,omitempty"`
	FileSize        *int64          `gorm:"column:file_size" json:"file_size,omitempty"`
	Format          *string         `gorm:"column:format" json:"format,omitempty"`
	StoragePath     *string         `gorm:"column:storage_path" json:"storage_path,omitempty"`
	Width           *int            `gorm:"column:width" json:"width,omitempty"`
	Height          *int            `gorm:"column:height" json:"height,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CarImage) TableName() string { return "car_images" }

func (i *CarImage) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
