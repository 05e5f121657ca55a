package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nyxoasis/oasis-backend/pkg/enums"
)

// User represents the canonical identity entity. Password hashing and
// verification mail flows live in the auth collaborator; this service only
// reads identity and owns the user's cart.
type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string      `gorm:"type:text;not null;uniqueIndex"`
	Name         string      `gorm:"column:name;not null"`
	PasswordHash string      `gorm:"column:password_hash;not null"`
	Role         enums.Role  `gorm:"column:role;type:text;not null;default:'customer'"`
	IsVerified   bool        `gorm:"column:is_verified;not null;default:false"`
	CartEntries  []CartEntry `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
