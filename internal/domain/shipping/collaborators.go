package shipping

import (
	"context"

	"github.com/google/uuid"
)

// CurrencyLookup resolves an ISO 4217 currency code to the host ERP's
// currency record identifier.
type CurrencyLookup interface {
	FindByCode(ctx context.Context, code string) (uuid.UUID, error)
}

// Attachment is an opaque binary blob tied to an owning record, used here
// for carrier label images.
type Attachment struct {
	Name           string
	Data           []byte
	OwnerReference string
}

// AttachmentStore persists label images produced during label generation.
type AttachmentStore interface {
	Create(ctx context.Context, attachment Attachment) error
}
