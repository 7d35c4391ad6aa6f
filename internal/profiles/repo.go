package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shamsoul-ali/THE-VAULT/pkg/db/models"
	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
)

// Repository reads user_profiles. Rows are written by the identity provider.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RoleFor returns the profile role for userID. A missing profile surfaces
// gorm.ErrRecordNotFound.
func (r *Repository) RoleFor(ctx context.Context, userID uuid.UUID) (enums.ProfileRole, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).
		Select("id", "role").
		First(&profile, "id = ?", userID).Error; err != nil {
		return "", err
	}
	return profile.Role, nil
}
