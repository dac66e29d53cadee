package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/erp/shipping/internal/domain/shipping"
)

// LabelAttachmentModel is the persistence model for generated shipping labels.
// Label images are stored inline; they are small PNGs (4x6 thermal stock).
type LabelAttachmentModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Data           []byte    `gorm:"type:bytea;not null"`
	OwnerReference string    `gorm:"column:owner_reference;type:varchar(64);not null;index"`
}

// TableName returns the table name for GORM
func (LabelAttachmentModel) TableName() string {
	return "shipping_label_attachments"
}

// ToDomain converts the persistence model to a domain Attachment
func (m *LabelAttachmentModel) ToDomain() shipping.Attachment {
	return shipping.Attachment{
		Name:           m.Name,
		Data:           m.Data,
		OwnerReference: m.OwnerReference,
	}
}

// LabelAttachmentModelFromDomain creates a persistence model from a domain Attachment
func LabelAttachmentModelFromDomain(a shipping.Attachment) *LabelAttachmentModel {
	return &LabelAttachmentModel{
		ID:             uuid.New(),
		Name:           a.Name,
		Data:           a.Data,
		OwnerReference: a.OwnerReference,
	}
}

// CurrencyModel is the persistence model for currency records
type CurrencyModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Code      string    `gorm:"type:varchar(3);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(64);not null"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}
