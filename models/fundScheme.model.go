package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FundType defines the category of a fund scheme
type FundType string

const (
	FundTypeEquity FundType = "equity"
	FundTypeDebt   FundType = "debt"
	FundTypeHybrid FundType = "hybrid"
	FundTypeLiquid FundType = "liquid"
	FundTypeOther  FundType = "other"
)

// FundTypeLabels maps fund type codes to display labels for the presentation layer
var FundTypeLabels = map[FundType]string{
	FundTypeEquity: "Equity",
	FundTypeDebt:   "Debt",
	FundTypeHybrid: "Hybrid",
	FundTypeLiquid: "Liquid",
	FundTypeOther:  "Other",
}

// IsValidFundType reports whether the given code is a known fund type
func IsValidFundType(t FundType) bool {
	_, ok := FundTypeLabels[t]
	return ok
}

// FundScheme is a specific investable fund product belonging to a FundHouse
type FundScheme struct {
	gorm.Model
	Name        string          `gorm:"size:200;not null" json:"name"`
	Code        string          `gorm:"size:20;unique;not null" json:"code"`
	FundHouseID uint            `gorm:"not null;index" json:"fund_house_id"`
	FundType    FundType        `gorm:"type:varchar(20);not null" json:"fund_type"`
	Nav         decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"nav"`
	NavDate     *datatypes.Date `json:"-"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`

	FundHouse FundHouse `gorm:"foreignKey:FundHouseID;constraint:OnDelete:CASCADE" json:"-"`
}

func (FundScheme) TableName() string {
	return "fund_schemes"
}
