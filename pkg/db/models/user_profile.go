package models

import (
	"github.com/google/uuid"

	"github.com/shamsoul-ali/THE-VAULT/pkg/enums"
)

// UserProfile is owned by the identity provider; this service only reads it.
type UserProfile struct {
	ID   uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Role enums.ProfileRole `gorm:"column:role;not null"`
}

func (UserProfile) TableName() string { return "user_profiles" }
