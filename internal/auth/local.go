package auth

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/models"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Registration holds the fields of a new account.
type Registration struct {
	Username    string `json:"username"    validate:"required,min=3,max=100,alphanum"`
	DisplayName string `json:"displayName" validate:"max=100"`
	Email       string `json:"email"       validate:"omitempty,email,max=255"`
	Password    string `json:"password"    validate:"required,min=8,max=128"`
}

// Register creates an active local account.
func (s *Service) Register(in Registration) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if len(in.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	query := s.db.Where("username = ?", username)
	if email != "" {
		query = query.Or("email = ?", email)
	}

	var existing models.User

	err := query.First(&existing).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	displayName := strings.TrimSpace(in.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := &models.User{
		Username:    username,
		DisplayName: displayName,
		Email:       email,
		Password:    hash,
		Active:      true,
	}

	if err = s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserNameOrEmailExists
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate checks username and password against the local database.
func (s *Service) Authenticate(username, password string) (*models.User, error) {
	var user models.User

	err := s.db.Where("username = ?", strings.ToLower(strings.TrimSpace(username))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return &user, nil
}

// User returns an active user by id.
func (s *Service) User(userID string) (*models.User, error) {
	var user models.User

	err := s.db.First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return &user, nil
}
