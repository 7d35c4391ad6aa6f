package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
	pkgerrors "github.com/shamsoul-ali/THE-VAULT/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded to
// [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a whole number").
			WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max)).
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseImageTypeQuery reads the optional image type filter. A missing
// parameter means no filter.
func ParseImageTypeQuery(r *http.Request, key string) (*enums.ImageType, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := enums.ParseImageType(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image type").
			WithDetails(map[string]any{"field": key, "allowed": enums.ImageTypeValues()})
	}
	return &parsed, nil
}
