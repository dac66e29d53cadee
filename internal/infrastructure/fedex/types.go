package fedex

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Transport contract
// ---------------------------------------------------------------------------

// RequestError is the typed error the transport surfaces when the carrier
// rejects a request. The message is the carrier's own text and is propagated
// to the invoking workflow verbatim.
type RequestError struct {
	Code    string
	Message string
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("fedex: request failed: %s", e.Message)
	}
	return fmt.Sprintf("fedex: request failed: %s - %s", e.Code, e.Message)
}

// RateTransport sends a populated rate request and returns the carrier reply.
type RateTransport interface {
	Rate(ctx context.Context, req *RateRequest) (*RateReply, error)
}

// ShipTransport sends a populated ship request and returns the carrier reply.
type ShipTransport interface {
	ProcessShipment(ctx context.Context, req *ProcessShipmentRequest) (*ProcessShipmentReply, error)
}

// ---------------------------------------------------------------------------
// Shared request elements
// ---------------------------------------------------------------------------

// Weight is a carrier weight element. Units is always "LB" in requests this
// module builds.
type Weight struct {
	Units string          `xml:"Units"`
	Value decimal.Decimal `xml:"Value"`
}

// CurrencyAmount is a carrier monetary element. Customs amounts are
// integer-valued per the carrier API; response amounts carry decimals.
type CurrencyAmount struct {
	Currency string `xml:"Currency"`
	Amount   string `xml:"Amount"`
}

// Contact holds the person-level details of a shipper or recipient.
type Contact struct {
	CompanyName  string `xml:"CompanyName,omitempty"`
	PersonName   string `xml:"PersonName,omitempty"`
	PhoneNumber  string `xml:"PhoneNumber,omitempty"`
	EMailAddress string `xml:"EMailAddress,omitempty"`
}

// Address holds the postal details of a shipper or recipient.
type Address struct {
	StreetLines         []string `xml:"StreetLines,omitempty"`
	City                string   `xml:"City,omitempty"`
	StateOrProvinceCode string   `xml:"StateOrProvinceCode,omitempty"`
	PostalCode          string   `xml:"PostalCode,omitempty"`
	CountryCode         string   `xml:"CountryCode,omitempty"`
}

// Party is a shipper or recipient: account, contact and address.
type Party struct {
	AccountNumber string  `xml:"AccountNumber,omitempty"`
	Contact       Contact `xml:"Contact"`
	Address       Address `xml:"Address"`
}

// Payment selects who pays shipping or duty charges.
type Payment struct {
	PaymentType      string `xml:"PaymentType"`
	ResponsibleParty *Party `xml:"Payor>ResponsibleParty,omitempty"`
}

// ExpressFreightDetail carries freight booking information.
type ExpressFreightDetail struct {
	PackingListEnclosed       bool   `xml:"PackingListEnclosed"`
	ShippersLoadAndCount      int    `xml:"ShippersLoadAndCount,omitempty"`
	BookingConfirmationNumber string `xml:"BookingConfirmationNumber,omitempty"`
}

// Commodity is one customs line item.
type Commodity struct {
	Name                 string         `xml:"Name,omitempty"`
	NumberOfPieces       int            `xml:"NumberOfPieces"`
	Description          string         `xml:"Description,omitempty"`
	CountryOfManufacture string         `xml:"CountryOfManufacture,omitempty"`
	Weight               Weight         `xml:"Weight"`
	Quantity             int            `xml:"Quantity"`
	QuantityUnits        string         `xml:"QuantityUnits"`
	UnitPrice            CurrencyAmount `xml:"UnitPrice"`
	CustomsValue         CurrencyAmount `xml:"CustomsValue"`
}

// CommercialInvoice carries the terms of sale for international shipments.
type CommercialInvoice struct {
	TermsOfSale string `xml:"TermsOfSale,omitempty"`
}

// CustomsClearanceDetail is the customs declaration for international
// shipments: commodities plus total declared value.
type CustomsClearanceDetail struct {
	DutiesPayment     Payment           `xml:"DutiesPayment"`
	DocumentContent   string            `xml:"DocumentContent"`
	CustomsValue      CurrencyAmount    `xml:"CustomsValue"`
	CommercialInvoice CommercialInvoice `xml:"CommercialInvoice"`
	Commodities       []Commodity       `xml:"Commodities"`
}

// LabelSpecification selects the label format the carrier renders.
type LabelSpecification struct {
	LabelFormatType string `xml:"LabelFormatType"`
	ImageType       string `xml:"ImageType"`
	LabelStockType  string `xml:"LabelStockType"`
}

// RequestedPackageLineItem describes one parcel of the requested shipment.
type RequestedPackageLineItem struct {
	SequenceNumber    int    `xml:"SequenceNumber"`
	GroupPackageCount int    `xml:"GroupPackageCount"`
	Weight            Weight `xml:"Weight"`
}

// TrackingID is a carrier tracking identifier.
type TrackingID struct {
	TrackingIDType string `xml:"TrackingIdType,omitempty"`
	TrackingNumber string `xml:"TrackingNumber"`
}

// RequestedShipment is the shipment description shared by rate and ship
// requests.
type RequestedShipment struct {
	DropoffType               string                     `xml:"DropoffType"`
	ServiceType               string                     `xml:"ServiceType"`
	PackagingType             string                     `xml:"PackagingType"`
	TotalWeight               *Weight                    `xml:"TotalWeight,omitempty"`
	PreferredCurrency         string                     `xml:"PreferredCurrency,omitempty"`
	Shipper                   Party                      `xml:"Shipper"`
	Recipient                 Party                      `xml:"Recipient"`
	ShippingChargesPayment    Payment                    `xml:"ShippingChargesPayment"`
	ExpressFreightDetail      ExpressFreightDetail       `xml:"ExpressFreightDetail"`
	CustomsClearanceDetail    *CustomsClearanceDetail    `xml:"CustomsClearanceDetail,omitempty"`
	LabelSpecification        LabelSpecification         `xml:"LabelSpecification"`
	RateRequestTypes          []string                   `xml:"RateRequestTypes"`
	MasterTrackingID          *TrackingID                `xml:"MasterTrackingId,omitempty"`
	PackageCount              int                        `xml:"PackageCount"`
	RequestedPackageLineItems []RequestedPackageLineItem `xml:"RequestedPackageLineItems"`
}

// TransactionDetail carries the caller's idempotency reference; the carrier
// echoes it back on the reply.
type TransactionDetail struct {
	CustomerTransactionID string `xml:"CustomerTransactionId"`
}

// RateRequest is a fully populated rate-quote request.
type RateRequest struct {
	TransactionDetail TransactionDetail
	RequestedShipment RequestedShipment
}

// ProcessShipmentRequest is a fully populated label-generation request for a
// single package of the shipment.
type ProcessShipmentRequest struct {
	TransactionDetail TransactionDetail
	RequestedShipment RequestedShipment
}

// ---------------------------------------------------------------------------
// Replies
// ---------------------------------------------------------------------------

// Notification is a carrier status message attached to a reply.
type Notification struct {
	Severity string `xml:"Severity"`
	Code     string `xml:"Code"`
	Message  string `xml:"Message"`
}

// ShipmentRateDetail carries the rated totals for a shipment.
type ShipmentRateDetail struct {
	TotalNetCharge CurrencyAmount `xml:"TotalNetCharge"`
}

// RatedShipmentDetail is one rating of a shipment within a reply detail.
type RatedShipmentDetail struct {
	ShipmentRateDetail ShipmentRateDetail `xml:"ShipmentRateDetail"`
}

// RateReplyDetail is one service-level rating block of a rate reply.
type RateReplyDetail struct {
	ServiceType          string                `xml:"ServiceType"`
	RatedShipmentDetails []RatedShipmentDetail `xml:"RatedShipmentDetails"`
}

// RateReply is the carrier response to a RateRequest.
type RateReply struct {
	HighestSeverity  string            `xml:"HighestSeverity"`
	Notifications    []Notification    `xml:"Notifications"`
	RateReplyDetails []RateReplyDetail `xml:"RateReplyDetails"`
}

// LabelPart is one opaque binary part of a rendered label. The carrier sends
// parts base64-encoded; the transport decodes them.
type LabelPart struct {
	Image []byte
}

// UnmarshalXML decodes the base64 image payload of a label part.
func (p *LabelPart) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var raw struct {
		Image string `xml:"Image"`
	}
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	if raw.Image == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(raw.Image)
	if err != nil {
		return fmt.Errorf("fedex: invalid label image encoding: %w", err)
	}
	p.Image = data
	return nil
}

// ShippingLabel is the rendered label for one package.
type ShippingLabel struct {
	Parts []LabelPart `xml:"Parts"`
}

// CompletedPackageDetail is the per-package outcome of a ship request.
type CompletedPackageDetail struct {
	SequenceNumber int           `xml:"SequenceNumber"`
	TrackingIDs    []TrackingID  `xml:"TrackingIds"`
	Label          ShippingLabel `xml:"Label"`
}

// ShipmentRating carries the shipment-level rating of a ship reply.
type ShipmentRating struct {
	ShipmentRateDetails []ShipmentRateDetail `xml:"ShipmentRateDetails"`
}

// CompletedShipmentDetail is the shipment-level outcome of a ship request.
type CompletedShipmentDetail struct {
	MasterTrackingID        TrackingID               `xml:"MasterTrackingId"`
	CompletedPackageDetails []CompletedPackageDetail `xml:"CompletedPackageDetails"`
	ShipmentRating          ShipmentRating           `xml:"ShipmentRating"`
}

// ProcessShipmentReply is the carrier response to a ProcessShipmentRequest.
type ProcessShipmentReply struct {
	HighestSeverity         string                  `xml:"HighestSeverity"`
	Notifications           []Notification          `xml:"Notifications"`
	CompletedShipmentDetail CompletedShipmentDetail `xml:"CompletedShipmentDetail"`
}
