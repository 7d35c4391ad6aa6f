package enums

import "fmt"

// CarStatus is the listing availability of a car.
type CarStatus string

const (
	CarStatusAvailable   CarStatus = "available"
	CarStatusSold        CarStatus = "sold"
	CarStatusWaitingList CarStatus = "waiting_list"
	CarStatusComingSoon  CarStatus = "coming_soon"
	CarStatusBooked      CarStatus = "booked"
	CarStatusReserved    CarStatus = "reserved"
)

var validCarStatuses = []CarStatus{
	CarStatusAvailable,
	CarStatusSold,
	CarStatusWaitingList,
	CarStatusComingSoon,
	CarStatusBooked,
	CarStatusReserved,
}

func (s CarStatus) String() string {
	return string(s)
}

func (s CarStatus) IsValid() bool {
	for _, candidate := range validCarStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCarStatus converts raw input into a CarStatus.
func ParseCarStatus(value string) (CarStatus, error) {
	for _, candidate := range validCarStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid car status %q", value)
}

// CarCategory groups cars on the catalog.
type CarCategory string

const (
	CarCategoryHypercar CarCategory = "hypercar"
	CarCategorySupercar CarCategory = "supercar"
	CarCategoryLuxury   CarCategory = "luxury"
	CarCategoryClassic  CarCategory = "classic"
	CarCategoryElectric CarCategory = "electric"
	CarCategoryTrack    CarCategory = "track"
	CarCategorySports   CarCategory = "sports"
)

var validCarCategories = []CarCategory{
	CarCategoryHypercar,
	CarCategorySupercar,
	CarCategoryLuxury,
	CarCategoryClassic,
	CarCategoryElectric,
	CarCategoryTrack,
	CarCategorySports,
}

func (c CarCategory) String() string {
	return string(c)
}

func (c CarCategory) IsValid() bool {
	for _, candidate := range validCarCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCarCategory converts raw input into a CarCategory.
func ParseCarCategory(value string) (CarCategory, error) {
	for _, candidate := range validCarCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid car category %q", value)
}
