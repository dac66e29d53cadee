package fedex

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/erp/shipping/internal/domain/shared/valueobject"
	"github.com/erp/shipping/internal/domain/shipping"
)

// Fixed request values this integration always sends. The label specification
// is required by the carrier even on pure rate quotes.
const (
	weightUnitsPounds  = "LB"
	quantityUnitsEach  = "EA"
	paymentTypeSender  = "SENDER"
	documentsOnly      = "DOCUMENTS_ONLY"
	rateRequestAccount = "ACCOUNT"
	labelFormatType    = "COMMON2D"
	labelImageType     = "PNG"
	labelStockType     = "PAPER_4X6"
)

// Terms of sale sent on commercial invoices.
const (
	TermsOfSaleFOB      = "FOB"
	TermsOfSaleFOBOrFCA = "FOB_OR_FCA"
)

// BuildParty maps a domain postal address into the carrier's shipper or
// recipient representation. The phone number is filtered to digits only and
// the state code is the last two characters of the subdivision code, which
// strips country-prefixed codes like "US-CA" down to "CA". A missing
// subdivision yields an empty state code, passed through as-is.
func BuildParty(addr shipping.PostalAddress) Party {
	return Party{
		Contact: Contact{
			CompanyName:  addr.CompanyName,
			PersonName:   addr.PersonName,
			PhoneNumber:  digitsOnly(addr.Phone),
			EMailAddress: addr.Email,
		},
		Address: Address{
			StreetLines:         addr.StreetLines(),
			City:                addr.City,
			StateOrProvinceCode: stateCode(addr.SubdivisionCode),
			PostalCode:          addr.PostalCode,
			CountryCode:         addr.CountryCode,
		},
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stateCode(subdivision string) string {
	if len(subdivision) <= 2 {
		return subdivision
	}
	return subdivision[len(subdivision)-2:]
}

// BuildCustomsDetail aggregates order or shipment lines into a customs
// declaration. Service lines carry no customs weight or value and are
// skipped, but NumberOfPieces on every commodity is the count of all lines
// including skipped ones, matching the carrier API usage this integration
// was certified with. Unit prices and per-line customs values are truncated
// to integers; the declared total is summed unrounded and truncated once.
// Fails when the declaration currency is empty.
func BuildCustomsDetail(lines []shipping.OrderLine, originCountry string, currency valueobject.Currency, shipper Party, termsOfSale string) (CustomsClearanceDetail, error) {
	commodities := make([]Commodity, 0, len(lines))
	totalValue := valueobject.Zero(currency)

	for _, line := range lines {
		if line.ProductType == shipping.ProductTypeService {
			continue
		}
		unitPrice, err := valueobject.NewMoney(line.UnitPrice, currency)
		if err != nil {
			return CustomsClearanceDetail{}, fmt.Errorf("fedex: customs declaration: %w", err)
		}
		lineValue := unitPrice.Multiply(line.Quantity)
		commodities = append(commodities, Commodity{
			Name:                 line.ProductName,
			NumberOfPieces:       len(lines),
			Description:          line.CommodityDescription(),
			CountryOfManufacture: originCountry,
			Weight: Weight{
				Units: weightUnitsPounds,
				Value: line.Weight.Pounds(),
			},
			Quantity:      int(line.Quantity.IntPart()),
			QuantityUnits: quantityUnitsEach,
			UnitPrice:     integerAmount(unitPrice),
			CustomsValue:  integerAmount(lineValue),
		})
		if totalValue, err = totalValue.Add(lineValue); err != nil {
			return CustomsClearanceDetail{}, fmt.Errorf("fedex: customs declaration: %w", err)
		}
	}

	return CustomsClearanceDetail{
		DutiesPayment: Payment{
			PaymentType:      paymentTypeSender,
			ResponsibleParty: &shipper,
		},
		DocumentContent:   documentsOnly,
		CustomsValue:      integerAmount(totalValue),
		CommercialInvoice: CommercialInvoice{TermsOfSale: termsOfSale},
		Commodities:       commodities,
	}, nil
}

func integerAmount(amount valueobject.Money) CurrencyAmount {
	return CurrencyAmount{
		Currency: string(amount.Currency()),
		Amount:   strconv.FormatInt(amount.TruncateToInt(), 10),
	}
}

// BuildPackageLineItem converts one package's weight into a carrier package
// line item. Sequence numbers are 1-based in package order.
func BuildPackageLineItem(sequence int, weight valueobject.Weight) RequestedPackageLineItem {
	return RequestedPackageLineItem{
		SequenceNumber:    sequence,
		GroupPackageCount: 1,
		Weight: Weight{
			Units: weightUnitsPounds,
			Value: weight.Pounds(),
		},
	}
}

// ShipmentParams collects the inputs shared by rate and ship requests.
type ShipmentParams struct {
	Settings             shipping.ShippingSettings
	PreferredCurrency    valueobject.Currency
	Reference            string
	Shipper              Party
	Recipient            Party
	ShippersLoadAndCount int
}

// BuildRequestedShipment assembles the shipment description common to rate
// and ship requests: method selections, parties, sender-pays charges with the
// shipper as payor, the freight booking reference, the fixed label
// specification and the account-negotiated rate tier.
func BuildRequestedShipment(p ShipmentParams) RequestedShipment {
	return RequestedShipment{
		DropoffType:       p.Settings.DropOffType,
		ServiceType:       p.Settings.ServiceType,
		PackagingType:     p.Settings.PackagingType,
		PreferredCurrency: string(p.PreferredCurrency),
		Shipper:           p.Shipper,
		Recipient:         p.Recipient,
		ShippingChargesPayment: Payment{
			PaymentType:      paymentTypeSender,
			ResponsibleParty: &p.Shipper,
		},
		ExpressFreightDetail: ExpressFreightDetail{
			PackingListEnclosed:       true,
			ShippersLoadAndCount:      p.ShippersLoadAndCount,
			BookingConfirmationNumber: fmt.Sprintf("Ref-%s", p.Reference),
		},
		LabelSpecification: LabelSpecification{
			LabelFormatType: labelFormatType,
			ImageType:       labelImageType,
			LabelStockType:  labelStockType,
		},
		RateRequestTypes: []string{rateRequestAccount},
	}
}
