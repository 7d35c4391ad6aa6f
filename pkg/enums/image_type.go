package enums

import "fmt"

// ImageType classifies a car image within its gallery.
type ImageType string

const (
	ImageTypePrimary   ImageType = "primary"
	ImageTypeInterior  ImageType = "interior"
	ImageTypeExterior  ImageType = "exterior"
	ImageTypeEngine    ImageType = "engine"
	ImageTypeSpecial   ImageType = "special"
	ImageTypeThumbnail ImageType = "thumbnail"
)

var validImageTypes = []ImageType{
	ImageTypePrimary,
	ImageTypeInterior,
	ImageTypeExterior,
	ImageTypeEngine,
	ImageTypeSpecial,
	ImageTypeThumbnail,
}

// String returns the literal string for the type.
func (t ImageType) String() string {
	return string(t)
}

// IsValid reports whether the type is known.
func (t ImageType) IsValid() bool {
	for _, candidate := range validImageTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseImageType converts raw input into an ImageType.
func ParseImageType(value string) (ImageType, error) {
	for _, candidate := range validImageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid image type %q", value)
}

// ImageTypeValues lists the accepted literals in declaration order.
func ImageTypeValues() []string {
	values := make([]string, len(validImageTypes))
	for i, t := range validImageTypes {
		values[i] = string(t)
	}
	return values
}
