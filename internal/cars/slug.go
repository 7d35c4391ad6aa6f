package cars

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and collapses every run of other characters into
// a single dash.
func Slugify(name string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// MetaTitle is the default page title for a listing.
func MetaTitle(name string, year int) string {
	return fmt.Sprintf("%s - %d | Revura", name, year)
}
