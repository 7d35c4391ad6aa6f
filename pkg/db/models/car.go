package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
)

// Car is a catalog listing. Images, features and the tour hang off it and
// cascade on delete.
type Car struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string             `gorm:"column:name;not null" json:"name"`
	Make            string             `gorm:"column:make;not null" json:"make"`
	Model           string             `gorm:"column:model;not null" json:"model"`
	Year            int                `gorm:"column:year;not null" json:"year"`
	Price           decimal.Decimal    `gorm:"column:price;type:numeric(14,2);not null" json:"price"`
	PriceCurrency   string             `gorm:"column:price_currency;not null;default:USD" json:"price_currency"`
	OriginalPrice   *decimal.Decimal   `gorm:"column:original_price;type:numeric(14,2)" json:"original_price,omitempty"`
	Status          enums.CarStatus    `gorm:"column:status;not null;default:available" json:"status"`
	Category        *enums.CarCategory `gorm:"column:category" json:"category,omitempty"`
	Location        *string            `gorm:"column:location" json:"location,omitempty"`
	Mileage         *string            `gorm:"column:mileage" json:"mileage,omitempty"`
	MileageUnit     string             `gorm:"column:mileage_unit;not null;default:miles" json:"mileage_unit"`
	Engine          *string            `gorm:"column:engine" json:"engine,omitempty"`
	Horsepower      *string            `gorm:"column:horsepower" json:"horsepower,omitempty"`
	Transmission    *string            `gorm:"column:transmission" json:"transmission,omitempty"`
	ExteriorColor   *string            `gorm:"column:exterior_color" json:"exterior_color,omitempty"`
	InteriorColor   *string            `gorm:"column:interior_color" json:"interior_color,omitempty"`
	Description     *string            `gorm:"column:description" json:"description,omitempty"`
	IsFeatured      bool               `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	IsExclusive     bool               `gorm:"column:is_exclusive;not null;default:false" json:"is_exclusive"`
	Badge           *string            `gorm:"column:badge" json:"badge,omitempty"`
	Slug            string             `gorm:"column:slug;not null" json:"slug"`
	MetaTitle       string             `gorm:"column:meta_title;not null" json:"meta_title"`
	MetaDescription *string            `gorm:"column:meta_description" json:"meta_description,omitempty"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Features []CarFeature `gorm:"foreignKey:CarID;references:ID" json:"features"`
}

func (Car) TableName() string { return "cars" }

func (c *Car) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
