package models

import (
	"gorm.io/gorm"
)

// FundHouse is an issuer of mutual fund schemes. Houses are shared reference data,
// maintained by back-office tooling and soft-deactivated via IsActive rather than
// deleted.
type FundHouse struct {
	gorm.Model
	Name          string `gorm:"size:200;unique;not null" json:"name"`
	Code          string `gorm:"size:10;unique;not null" json:"code"`
	Website       string `gorm:"default:''" json:"website"`
	ContactNumber string `gorm:"size:15;default:''" json:"contact_number"`
	Email         string `gorm:"default:''" json:"email"`
	Address       string `gorm:"type:text" json:"address"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
}

func (FundHouse) TableName() string {
	return "fund_houses"
}
