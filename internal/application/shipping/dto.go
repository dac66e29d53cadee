package shipping

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateQuote is the normalized outcome of a rate request: the carrier's total
// net charge and the resolved host currency. Ephemeral - consumed once by the
// caller to build a shipping-cost line.
type RateQuote struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	CurrencyID   uuid.UUID       `json:"currencyId"`
}

// LabelResult is the outcome of label generation for a whole shipment.
type LabelResult struct {
	MasterTrackingNumber string          `json:"masterTrackingNumber"`
	Cost                 decimal.Decimal `json:"cost"`
	CurrencyCode         string          `json:"currencyCode"`
	CurrencyID           uuid.UUID       `json:"currencyId"`
}
