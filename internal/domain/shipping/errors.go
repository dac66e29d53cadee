package shipping

import "errors"

var (
	// ErrShippingSettingsMissing indicates drop-off, packaging, or service type is not set
	ErrShippingSettingsMissing = errors.New("shipping: drop-off, packaging and service types must all be set")
	// ErrWarehouseAddressMissing indicates the ship-from warehouse has no address
	ErrWarehouseAddressMissing = errors.New("shipping: warehouse address is required")
	// ErrInvalidShipmentState indicates labels were requested outside packed/done states
	ErrInvalidShipmentState = errors.New("shipping: labels can only be generated for packed or done shipments")
	// ErrWrongCarrier indicates the shipment is not assigned to this carrier
	ErrWrongCarrier = errors.New("shipping: shipment carrier is not FedEx")
	// ErrTrackingAlreadyPresent indicates the shipment already has a tracking number
	ErrTrackingAlreadyPresent = errors.New("shipping: tracking number is already present for this shipment")
	// ErrCarrierRequestFailed indicates the carrier rejected or failed a rate request
	ErrCarrierRequestFailed = errors.New("shipping: error while getting rates from carrier")
	// ErrLabelGenerationFailed indicates the carrier rejected or failed a ship request
	ErrLabelGenerationFailed = errors.New("shipping: error while generating label")
	// ErrCurrencyNotFound indicates a currency code returned by the carrier is unknown
	ErrCurrencyNotFound = errors.New("shipping: currency not found")
)
