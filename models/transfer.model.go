package models

import (
	"time"

	"mft/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransferType defines the direction of a transfer
type TransferType string

const (
	TransferTypeIn  TransferType = "in"
	TransferTypeOut TransferType = "out"
)

// TransferStatus defines the lifecycle status of a transfer
type TransferStatus string

const (
	TransferStatusPending    TransferStatus = "pending"
	TransferStatusProcessing TransferStatus = "processing"
	TransferStatusCompleted  TransferStatus = "completed"
	TransferStatusFailed     TransferStatus = "failed"
	TransferStatusCancelled  TransferStatus = "cancelled"
)

// TransferTypeLabels maps transfer type codes to display labels
var TransferTypeLabels = map[TransferType]string{
	TransferTypeIn:  "Transfer In",
	TransferTypeOut: "Transfer Out",
}

// TransferStatusLabels maps status codes to display labels
var TransferStatusLabels = map[TransferStatus]string{
	TransferStatusPending:    "Pending",
	TransferStatusProcessing: "Processing",
	TransferStatusCompleted:  "Completed",
	TransferStatusFailed:     "Failed",
	TransferStatusCancelled:  "Cancelled",
}

// IsValidTransferStatus reports whether the given code is a known status
func IsValidTransferStatus(s TransferStatus) bool {
	_, ok := TransferStatusLabels[s]
	return ok
}

// Transfer records a single transfer instruction between fund schemes on behalf of a
// user. Owned exclusively by that user; schemes and houses are shared reference data.
type Transfer struct {
	gorm.Model
	UserID         uint            `gorm:"not null;index" json:"user_id"`
	TransferType   TransferType    `gorm:"type:varchar(3);not null" json:"transfer_type"`
	SourceSchemeID uint            `gorm:"not null;index" json:"source_scheme_id"`
	TargetSchemeID *uint           `json:"target_scheme_id"`
	Units          decimal.Decimal `gorm:"type:decimal(15,4);not null" json:"units"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	NavAtTransfer  decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"nav_at_transfer"`

	Status          TransferStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ReferenceNumber string         `gorm:"size:50;uniqueIndex" json:"reference_number"`

	// RequestedAt is CreatedAt; ProcessedAt/CompletedAt are populated by the
	// workflows that move a transfer into processing/completed, not by this layer.
	TransferDate datatypes.Date `gorm:"not null" json:"-"`
	ProcessedAt  *time.Time     `json:"processed_at"`
	CompletedAt  *time.Time     `json:"completed_at"`

	Notes        string `gorm:"type:text" json:"notes"`
	DocumentPath string `gorm:"size:255;default:''" json:"document"`

	User         User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SourceScheme FundScheme  `gorm:"foreignKey:SourceSchemeID;constraint:OnDelete:CASCADE" json:"-"`
	TargetScheme *FundScheme `gorm:"foreignKey:TargetSchemeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Transfer) TableName() string {
	return "transfers"
}

// BeforeCreate assigns the reference number at first persistence. It is never
// regenerated afterwards; the unique index is the uniqueness backstop.
func (t *Transfer) BeforeCreate(tx *gorm.DB) error {
	if t.ReferenceNumber == "" {
		t.ReferenceNumber = utils.GenerateReferenceNumber()
	}
	return nil
}

// IsCompleted checks if the transfer is completed
func (t *Transfer) IsCompleted() bool {
	return t.Status == TransferStatusCompleted
}

// IsPending checks if the transfer is pending
func (t *Transfer) IsPending() bool {
	return t.Status == TransferStatusPending
}

// IsDeletable reports whether the owner may delete this transfer. In-flight and
// settled transfers stay on record.
func (t *Transfer) IsDeletable() bool {
	switch t.Status {
	case TransferStatusProcessing, TransferStatusCompleted:
		return false
	}
	return true
}
