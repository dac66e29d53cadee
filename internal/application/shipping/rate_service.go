package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/shipping/internal/domain/shipping"
	"github.com/erp/shipping/internal/infrastructure/fedex"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateService quotes shipping cost for a sale order against the FedEx rate
// service. Credentials and default shipment method selections are injected at
// construction; nothing is looked up ambiently.
type RateService struct {
	credentials fedex.Credentials
	transport   fedex.RateTransport
	currencies  shipping.CurrencyLookup
	defaults    shipping.ShippingSettings
	logger      *zap.Logger
}

// NewRateService creates a new RateService.
func NewRateService(
	credentials fedex.Credentials,
	transport fedex.RateTransport,
	currencies shipping.CurrencyLookup,
	defaults shipping.ShippingSettings,
	logger *zap.Logger,
) *RateService {
	return &RateService{
		credentials: credentials,
		transport:   transport,
		currencies:  currencies,
		defaults:    defaults,
		logger:      logger,
	}
}

// Quote requests an account-tier rate for the order and returns the carrier's
// total net charge. The first rated shipment detail of the reply is
// authoritative; no aggregation across rate replies.
func (s *RateService) Quote(ctx context.Context, order *shipping.Order) (*RateQuote, error) {
	if err := s.credentials.Validate(); err != nil {
		return nil, err
	}
	settings := order.Settings.Merge(s.defaults)
	if !settings.Complete() {
		return nil, shipping.ErrShippingSettingsMissing
	}
	if order.WarehouseAddress == nil {
		return nil, shipping.ErrWarehouseAddressMissing
	}

	shipper := fedex.BuildParty(*order.WarehouseAddress)
	shipper.AccountNumber = s.credentials.AccountNumber
	recipient := fedex.BuildParty(order.DeliveryAddress)

	requested := fedex.BuildRequestedShipment(fedex.ShipmentParams{
		Settings:          settings,
		PreferredCurrency: order.CurrencyCode,
		Reference:         order.Reference,
		Shipper:           shipper,
		Recipient:         recipient,
	})
	if order.International {
		customs, err := fedex.BuildCustomsDetail(
			order.Lines, order.WarehouseCountryCode(), order.CurrencyCode, shipper, fedex.TermsOfSaleFOBOrFCA)
		if err != nil {
			return nil, err
		}
		requested.CustomsClearanceDetail = &customs
	}

	// From a sale you cannot define packages per shipment, so a single
	// package covers the whole order weight.
	requested.PackageCount = 1
	requested.RequestedPackageLineItems = []fedex.RequestedPackageLineItem{
		fedex.BuildPackageLineItem(1, order.PackageWeight),
	}

	s.logger.Debug("requesting carrier rate",
		zap.String("order", order.Reference),
		zap.String("service_type", settings.ServiceType))

	reply, err := s.transport.Rate(ctx, &fedex.RateRequest{
		TransactionDetail: fedex.TransactionDetail{CustomerTransactionID: order.Reference},
		RequestedShipment: requested,
	})
	if err != nil {
		return nil, wrapCarrierError(shipping.ErrCarrierRequestFailed, err)
	}

	quote, err := s.quoteFromReply(ctx, reply)
	if err != nil {
		return nil, err
	}

	s.logger.Info("carrier rate received",
		zap.String("order", order.Reference),
		zap.String("amount", quote.Amount.String()),
		zap.String("currency", quote.CurrencyCode))

	return quote, nil
}

// QuoteShipment requests an account-tier rate for a packed shipment. Unlike
// the order quote, the preferred currency is the shipment's cost currency,
// freight is declared shipper load and count, a customs declaration with FOB
// terms is always attached, and every package contributes its own line item.
func (s *RateService) QuoteShipment(ctx context.Context, shipment *shipping.Shipment) (*RateQuote, error) {
	if err := s.credentials.Validate(); err != nil {
		return nil, err
	}
	settings := shipment.Settings.Merge(s.defaults)
	if !settings.Complete() {
		return nil, shipping.ErrShippingSettingsMissing
	}
	if shipment.WarehouseAddress == nil {
		return nil, shipping.ErrWarehouseAddressMissing
	}

	shipper := fedex.BuildParty(*shipment.WarehouseAddress)
	shipper.AccountNumber = s.credentials.AccountNumber
	recipient := fedex.BuildParty(shipment.DeliveryAddress)

	requested := fedex.BuildRequestedShipment(fedex.ShipmentParams{
		Settings:             settings,
		PreferredCurrency:    shipment.QuoteCurrency(),
		Reference:            shipment.Reference,
		Shipper:              shipper,
		Recipient:            recipient,
		ShippersLoadAndCount: 2,
	})
	customs, err := fedex.BuildCustomsDetail(
		shipment.Moves, shipment.WarehouseCountryCode(), shipment.CurrencyCode, shipper, fedex.TermsOfSaleFOB)
	if err != nil {
		return nil, err
	}
	requested.CustomsClearanceDetail = &customs

	if len(shipment.Packages) > 1 {
		requested.TotalWeight = &fedex.Weight{Units: "LB", Value: shipment.TotalWeight.Pounds()}
	}
	requested.PackageCount = len(shipment.Packages)
	items := make([]fedex.RequestedPackageLineItem, 0, len(shipment.Packages))
	for i, pkg := range shipment.Packages {
		items = append(items, fedex.BuildPackageLineItem(i+1, pkg.Weight))
	}
	requested.RequestedPackageLineItems = items

	s.logger.Debug("requesting carrier rate",
		zap.String("shipment", shipment.Reference),
		zap.String("service_type", settings.ServiceType))

	reply, err := s.transport.Rate(ctx, &fedex.RateRequest{
		TransactionDetail: fedex.TransactionDetail{CustomerTransactionID: shipment.ID.String()},
		RequestedShipment: requested,
	})
	if err != nil {
		return nil, wrapCarrierError(shipping.ErrCarrierRequestFailed, err)
	}

	quote, err := s.quoteFromReply(ctx, reply)
	if err != nil {
		return nil, err
	}

	s.logger.Info("carrier rate received",
		zap.String("shipment", shipment.Reference),
		zap.String("amount", quote.Amount.String()),
		zap.String("currency", quote.CurrencyCode))

	return quote, nil
}

// quoteFromReply extracts the authoritative charge from a rate reply: the
// total net charge of the first rated shipment detail.
func (s *RateService) quoteFromReply(ctx context.Context, reply *fedex.RateReply) (*RateQuote, error) {
	if len(reply.RateReplyDetails) == 0 || len(reply.RateReplyDetails[0].RatedShipmentDetails) == 0 {
		return nil, fmt.Errorf("%w: reply contains no rated shipment", shipping.ErrCarrierRequestFailed)
	}
	charge := reply.RateReplyDetails[0].RatedShipmentDetails[0].ShipmentRateDetail.TotalNetCharge

	amount, err := decimal.NewFromString(charge.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid net charge %q", shipping.ErrCarrierRequestFailed, charge.Amount)
	}
	currencyID, err := s.currencies.FindByCode(ctx, charge.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shipping.ErrCurrencyNotFound, charge.Currency)
	}

	return &RateQuote{
		Amount:       amount,
		CurrencyCode: charge.Currency,
		CurrencyID:   currencyID,
	}, nil
}

// wrapCarrierError surfaces a transport failure under the given domain error
// kind, passing the carrier's message through verbatim.
func wrapCarrierError(kind error, err error) error {
	var reqErr *fedex.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w: %s", kind, reqErr.Message)
	}
	return fmt.Errorf("%w: %v", kind, err)
}
