package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User is an account of the app. Only the fields the group features need are kept here.
type User struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Username    string    `gorm:"unique;size:100;not null" json:"username"`
	DisplayName string    `gorm:"size:100;not null" json:"displayName"`
	Email       string    `gorm:"size:255" json:"email,omitempty"`
	Password    string    `gorm:"size:255" json:"-"` // argon2id hash
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a uuid.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	newID(&u.ID)
	return nil
}

// HashPassword hashes a plaintext password using argon2id with default parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword compares a plaintext password with the stored hash in constant time.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Str("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
