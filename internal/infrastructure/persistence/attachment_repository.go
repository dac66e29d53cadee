package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/erp/shipping/internal/domain/shipping"
	"github.com/erp/shipping/internal/infrastructure/persistence/models"
)

// GormAttachmentStore implements shipping.AttachmentStore using GORM
type GormAttachmentStore struct {
	db *gorm.DB
}

// NewGormAttachmentStore creates a new GormAttachmentStore
func NewGormAttachmentStore(db *gorm.DB) *GormAttachmentStore {
	return &GormAttachmentStore{db: db}
}

// Create persists a generated label image
func (s *GormAttachmentStore) Create(ctx context.Context, attachment shipping.Attachment) error {
	model := models.LabelAttachmentModelFromDomain(attachment)
	return s.db.WithContext(ctx).Create(model).Error
}

// FindByOwner returns all label attachments stored for a shipment reference
func (s *GormAttachmentStore) FindByOwner(ctx context.Context, ownerReference string) ([]shipping.Attachment, error) {
	var attachmentModels []models.LabelAttachmentModel
	if err := s.db.WithContext(ctx).
		Where("owner_reference = ?", ownerReference).
		Order("created_at ASC").
		Find(&attachmentModels).Error; err != nil {
		return nil, err
	}

	attachments := make([]shipping.Attachment, len(attachmentModels))
	for i, model := range attachmentModels {
		attachments[i] = model.ToDomain()
	}
	return attachments, nil
}

var _ shipping.AttachmentStore = (*GormAttachmentStore)(nil)
