// Package models contains the gorm models of every stored table.
package models

// Setting is a named JSON blob, used for per group policies.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:191;not null"`
	Value []byte
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
