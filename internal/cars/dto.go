package cars

import (
	"github.com/shopspring/decimal"

	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
)

// CreateCarInput is the admin form for a new listing.
type CreateCarInput struct {
	Name            string             `json:"name"`
	Make            string             `json:"make"`
	Model           string             `json:"model"`
	Year            int                `json:"year" validate:"omitempty,min=1886,max=2100"`
	Price           *decimal.Decimal   `json:"price"`
	PriceCurrency   string             `json:"price_currency" validate:"omitempty,len=3"`
	OriginalPrice   *decimal.Decimal   `json:"original_price"`
	Status          enums.CarStatus    `json:"status"`
	Category        *enums.CarCategory `json:"category"`
	Location        *string            `json:"location"`
	Mileage         *string            `json:"mileage"`
	MileageUnit     string             `json:"mileage_unit" validate:"omitempty,oneof=miles km"`
	Engine          *string            `json:"engine"`
	Horsepower      *string            `json:"horsepower"`
	Transmission    *string            `json:"transmission"`
	ExteriorColor   *string            `json:"exterior_color"`
	InteriorColor   *string            `json:"interior_color"`
	Description     *string            `json:"description"`
	IsFeatured      bool               `json:"is_featured"`
	IsExclusive     bool               `json:"is_exclusive"`
	Badge           *string            `json:"badge"`
	MetaTitle       string             `json:"meta_title"`
	MetaDescription *string            `json:"meta_description"`
	Features        []string           `json:"features"`
}

// UpdateCarInput only touches the fields that are present.
type UpdateCarInput struct {
	Name            *string            `json:"name"`
	Make            *string            `json:"make"`
	Model           *string            `json:"model"`
	Year            *int               `json:"year" validate:"omitempty,min=1886,max=2100"`
	Price           *decimal.Decimal   `json:"price"`
	PriceCurrency   *string            `json:"price_currency" validate:"omitempty,len=3"`
	OriginalPrice   *decimal.Decimal   `json:"original_price"`
	Status          *enums.CarStatus   `json:"status"`
	Category        *enums.CarCategory `json:"category"`
	Location        *string            `json:"location"`
	Mileage         *string            `json:"mileage"`
	MileageUnit     *string            `json:"mileage_unit" validate:"omitempty,oneof=miles km"`
	Engine          *string            `json:"engine"`
	Horsepower      *string            `json:"horsepower"`
	Transmission    *string            `json:"transmission"`
	ExteriorColor   *string            `json:"exterior_color"`
	InteriorColor   *string            `json:"interior_color"`
	Description     *string            `json:"description"`
	IsFeatured      *bool              `json:"is_featured"`
	IsExclusive     *bool              `json:"is_exclusive"`
	Badge           *string            `json:"badge"`
	MetaTitle       *string            `json:"meta_title"`
	MetaDescription *string            `json:"meta_description"`
	Features        []string           `json:"features"`
}
