// Package setting stores named JSON blobs in the settings table.
package setting

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fitcircle/fitcircle/internal/db/controller"
	"github.com/fitcircle/fitcircle/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = fmt.Errorf("setting %w", controller.ErrNotFound)
	// ErrSettingNameEmpty is returned when a setting name is empty.
	ErrSettingNameEmpty = fmt.Errorf("%w: setting name cannot be empty", controller.ErrInvalid)
)

// Get retrieves a setting by its name.
func Get(db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting

	result := db.Where(nameQueryPattern, name).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, fmt.Errorf("failed to get setting %s: %w", name, result.Error)
	}

	return &setting, nil
}

// Set creates or updates a setting by name.
func Set(db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting

	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where(nameQueryPattern, name).First(&setting)

		switch {
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			setting = models.Setting{Name: name, Value: value}
			return tx.Create(&setting).Error
		case result.Error != nil:
			return result.Error
		}

		setting.Value = value

		return tx.Save(&setting).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set setting %s: %w", name, err)
	}

	return &setting, nil
}

// Delete deletes a setting by name.
func Delete(db *gorm.DB, name string) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete setting %s: %w", name, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
