package models

import (
	"gorm.io/gorm"
)

// User is the local account row the external identity provider's tokens resolve to.
// Transfers hang off it so a removed account takes its transfer history with it.
type User struct {
	gorm.Model
	Name     string `gorm:"default:''" json:"name"`
	Email    string `gorm:"unique;not null" json:"email"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

func (User) TableName() string {
	return "users"
}
