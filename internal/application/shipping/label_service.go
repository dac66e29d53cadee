package shipping

import (
	"context"
	"fmt"

	"github.com/erp/shipping/internal/domain/shared/valueobject"
	"github.com/erp/shipping/internal/domain/shipping"
	"github.com/erp/shipping/internal/infrastructure/fedex"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LabelService generates shipping labels for packed shipments against the
// FedEx ship service. One carrier call is issued per package, strictly in
// package order: every call after the first carries the master tracking
// number returned by the first, linking the packages into one multi-piece
// shipment.
type LabelService struct {
	credentials fedex.Credentials
	transport   fedex.ShipTransport
	currencies  shipping.CurrencyLookup
	attachments shipping.AttachmentStore
	defaults    shipping.ShippingSettings
	logger      *zap.Logger
}

// NewLabelService creates a new LabelService.
func NewLabelService(
	credentials fedex.Credentials,
	transport fedex.ShipTransport,
	currencies shipping.CurrencyLookup,
	attachments shipping.AttachmentStore,
	defaults shipping.ShippingSettings,
	logger *zap.Logger,
) *LabelService {
	return &LabelService{
		credentials: credentials,
		transport:   transport,
		currencies:  currencies,
		attachments: attachments,
		defaults:    defaults,
		logger:      logger,
	}
}

// GenerateLabels issues one ship request per package, assigns the returned
// tracking numbers onto the packages, stores all label images as attachments
// and records the carrier-confirmed cost and master tracking number on the
// shipment. No retries and no rollback: a transport failure aborts the
// operation immediately, and tracking numbers already assigned to earlier
// packages in the same call are kept.
func (s *LabelService) GenerateLabels(ctx context.Context, shipment *shipping.Shipment) (*LabelResult, error) {
	if !shipment.CanGenerateLabels() {
		return nil, shipping.ErrInvalidShipmentState
	}
	if shipment.CarrierMethod != shipping.CostMethodFedex {
		return nil, shipping.ErrWrongCarrier
	}
	if shipment.HasTracking() {
		return nil, shipping.ErrTrackingAlreadyPresent
	}
	if shipment.WarehouseAddress == nil {
		return nil, shipping.ErrWarehouseAddressMissing
	}
	if err := s.credentials.Validate(); err != nil {
		return nil, err
	}
	if len(shipment.Packages) == 0 {
		return nil, fmt.Errorf("%w: shipment has no packages", shipping.ErrLabelGenerationFailed)
	}

	shipper := fedex.BuildParty(*shipment.WarehouseAddress)
	shipper.AccountNumber = s.credentials.AccountNumber
	recipient := fedex.BuildParty(shipment.DeliveryAddress)

	base := fedex.BuildRequestedShipment(fedex.ShipmentParams{
		Settings:             shipment.Settings.Merge(s.defaults),
		PreferredCurrency:    shipment.CurrencyCode,
		Reference:            shipment.Reference,
		Shipper:              shipper,
		Recipient:            recipient,
		ShippersLoadAndCount: 2,
	})
	if shipment.International {
		customs, err := fedex.BuildCustomsDetail(
			shipment.Moves, shipment.WarehouseCountryCode(), shipment.CurrencyCode, shipper, fedex.TermsOfSaleFOB)
		if err != nil {
			return nil, err
		}
		base.CustomsClearanceDetail = &customs
	}
	if len(shipment.Packages) > 1 {
		base.TotalWeight = &fedex.Weight{Units: "LB", Value: shipment.TotalWeight.Pounds()}
	}

	var masterTracking string
	var lastReply *fedex.ProcessShipmentReply

	for i, pkg := range shipment.Packages {
		requested := base
		requested.PackageCount = len(shipment.Packages)
		requested.RequestedPackageLineItems = []fedex.RequestedPackageLineItem{
			fedex.BuildPackageLineItem(i+1, pkg.Weight),
		}
		if masterTracking != "" {
			requested.MasterTrackingID = &fedex.TrackingID{TrackingNumber: masterTracking}
		}

		s.logger.Debug("requesting carrier label",
			zap.String("shipment", shipment.Reference),
			zap.Int("package_sequence", i+1))

		reply, err := s.transport.ProcessShipment(ctx, &fedex.ProcessShipmentRequest{
			TransactionDetail: fedex.TransactionDetail{CustomerTransactionID: shipment.ID.String()},
			RequestedShipment: requested,
		})
		if err != nil {
			return nil, wrapCarrierError(shipping.ErrLabelGenerationFailed, err)
		}

		details := reply.CompletedShipmentDetail.CompletedPackageDetails
		if len(details) == 0 || len(details[0].TrackingIDs) == 0 {
			return nil, fmt.Errorf("%w: reply contains no package tracking", shipping.ErrLabelGenerationFailed)
		}
		tracking := details[0].TrackingIDs[0].TrackingNumber
		if i == 0 {
			masterTracking = tracking
		}
		pkg.AssignTrackingNumber(tracking)

		for part, label := range details[0].Label.Parts {
			err := s.attachments.Create(ctx, shipping.Attachment{
				Name:           fmt.Sprintf("%s_%d_fedex.png", tracking, part),
				Data:           label.Image,
				OwnerReference: shipment.Reference,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to store label image for %s: %w", tracking, err)
			}
		}
		lastReply = reply
	}

	rateDetails := lastReply.CompletedShipmentDetail.ShipmentRating.ShipmentRateDetails
	if len(rateDetails) == 0 {
		return nil, fmt.Errorf("%w: reply contains no shipment rating", shipping.ErrLabelGenerationFailed)
	}
	charge := rateDetails[0].TotalNetCharge

	amount, err := decimal.NewFromString(charge.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid net charge %q", shipping.ErrLabelGenerationFailed, charge.Amount)
	}
	currencyID, err := s.currencies.FindByCode(ctx, charge.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shipping.ErrCurrencyNotFound, charge.Currency)
	}
	cost, err := valueobject.NewMoney(amount, valueobject.Currency(charge.Currency))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shipping.ErrLabelGenerationFailed, err)
	}

	shipment.ApplyShippingCost(cost, currencyID, masterTracking)

	s.logger.Info("carrier labels generated",
		zap.String("shipment", shipment.Reference),
		zap.String("master_tracking", masterTracking),
		zap.Int("packages", len(shipment.Packages)))

	return &LabelResult{
		MasterTrackingNumber: masterTracking,
		Cost:                 amount,
		CurrencyCode:         charge.Currency,
		CurrencyID:           currencyID,
	}, nil
}
