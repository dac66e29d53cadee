package shipping

import (
	"github.com/erp/shipping/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ShipmentState mirrors the host ERP's outgoing-shipment workflow states.
type ShipmentState string

const (
	ShipmentStateDraft     ShipmentState = "draft"
	ShipmentStateWaiting   ShipmentState = "waiting"
	ShipmentStateAssigned  ShipmentState = "assigned"
	ShipmentStatePacked    ShipmentState = "packed"
	ShipmentStateDone      ShipmentState = "done"
	ShipmentStateCancelled ShipmentState = "cancelled"
)

// Package is one physical parcel of a shipment. The host ERP owns the record;
// this module assigns the carrier tracking number onto it.
type Package struct {
	Code           string             `json:"code"`
	Weight         valueobject.Weight `json:"weight"`
	TrackingNumber string             `json:"trackingNumber"`
}

// AssignTrackingNumber records the carrier tracking number for the package.
func (p *Package) AssignTrackingNumber(number string) {
	p.TrackingNumber = number
}

// Shipment is the outgoing-shipment projection labels are generated for.
type Shipment struct {
	ID               uuid.UUID            `json:"id"`
	Reference        string               `json:"reference"`
	State            ShipmentState        `json:"state"`
	CarrierMethod    CostMethod           `json:"carrierMethod"`
	Settings         ShippingSettings     `json:"settings"`
	Moves            []OrderLine          `json:"moves"`
	Packages         []*Package           `json:"packages"`
	WarehouseAddress *PostalAddress       `json:"warehouseAddress"`
	DeliveryAddress  PostalAddress        `json:"deliveryAddress"`
	CurrencyCode     valueobject.Currency `json:"currencyCode"`
	CostCurrencyCode valueobject.Currency `json:"costCurrencyCode"`
	International    bool                 `json:"international"`
	TotalWeight      valueobject.Weight   `json:"totalWeight"`

	TrackingNumber string            `json:"trackingNumber"`
	Cost           valueobject.Money `json:"cost"`
	CostCurrencyID uuid.UUID         `json:"costCurrencyId"`
}

// QuoteCurrency returns the currency rate quotes are requested in: the
// shipment's cost currency when set, otherwise the shipment currency.
func (s *Shipment) QuoteCurrency() valueobject.Currency {
	if s.CostCurrencyCode != "" {
		return s.CostCurrencyCode
	}
	return s.CurrencyCode
}

// CanGenerateLabels reports whether the shipment state allows label generation.
func (s *Shipment) CanGenerateLabels() bool {
	return s.State == ShipmentStatePacked || s.State == ShipmentStateDone
}

// HasTracking reports whether a tracking number was already assigned.
func (s *Shipment) HasTracking() bool {
	return s.TrackingNumber != ""
}

// WarehouseCountryCode returns the ship-from country, or "" when the
// warehouse address is absent.
func (s *Shipment) WarehouseCountryCode() string {
	if s.WarehouseAddress == nil {
		return ""
	}
	return s.WarehouseAddress.CountryCode
}

// ApplyShippingCost records the carrier-confirmed cost and master tracking
// number. Written exactly once per shipment; the tracking-number guard in the
// label workflow rejects regeneration.
func (s *Shipment) ApplyShippingCost(cost valueobject.Money, currencyID uuid.UUID, masterTracking string) {
	s.Cost = cost
	s.CostCurrencyID = currencyID
	s.TrackingNumber = masterTracking
}
