package fedex

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/shipping/internal/domain/shared/valueobject"
	"github.com/erp/shipping/internal/domain/shipping"
)

func testAddress() shipping.PostalAddress {
	return shipping.PostalAddress{
		CompanyName:     "Acme Corp",
		PersonName:      "Jane Smith",
		Phone:           "+1 (415) 555-0134",
		Email:           "jane@acme.example",
		Street:          "100 Market St",
		StreetBis:       "Suite 200",
		City:            "San Francisco",
		SubdivisionCode: "US-CA",
		PostalCode:      "94105",
		CountryCode:     "US",
	}
}

func TestBuildParty(t *testing.T) {
	party := BuildParty(testAddress())

	t.Run("filters phone to digits", func(t *testing.T) {
		assert.Equal(t, "14155550134", party.Contact.PhoneNumber)
	})

	t.Run("strips subdivision to two-letter state code", func(t *testing.T) {
		assert.Equal(t, "CA", party.Address.StateOrProvinceCode)
	})

	t.Run("keeps contact and address fields", func(t *testing.T) {
		assert.Equal(t, "Acme Corp", party.Contact.CompanyName)
		assert.Equal(t, "Jane Smith", party.Contact.PersonName)
		assert.Equal(t, "jane@acme.example", party.Contact.EMailAddress)
		assert.Equal(t, []string{"100 Market St", "Suite 200"}, party.Address.StreetLines)
		assert.Equal(t, "94105", party.Address.PostalCode)
		assert.Equal(t, "US", party.Address.CountryCode)
	})

	t.Run("omits blank street lines", func(t *testing.T) {
		addr := testAddress()
		addr.StreetBis = ""
		assert.Equal(t, []string{"100 Market St"}, BuildParty(addr).Address.StreetLines)
	})

	t.Run("passes short subdivision codes through", func(t *testing.T) {
		addr := testAddress()
		addr.SubdivisionCode = "CA"
		assert.Equal(t, "CA", BuildParty(addr).Address.StateOrProvinceCode)

		addr.SubdivisionCode = ""
		assert.Equal(t, "", BuildParty(addr).Address.StateOrProvinceCode)
	})
}

func customsLines() []shipping.OrderLine {
	return []shipping.OrderLine{
		{
			ProductName: "Widget",
			Description: "Steel widget",
			ProductType: shipping.ProductTypeGoods,
			Quantity:    decimal.NewFromInt(3),
			UnitPrice:   decimal.RequireFromString("9.99"),
			Weight:      valueobject.MustNewWeight(decimal.NewFromInt(2), valueobject.Pound),
		},
		{
			ProductName: "Installation",
			ProductType: shipping.ProductTypeService,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(50),
		},
		{
			ProductName: "Gadget",
			ProductType: shipping.ProductTypeGoods,
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.RequireFromString("24.50"),
			Weight:      valueobject.MustNewWeight(decimal.NewFromInt(1), valueobject.Kilogram),
		},
	}
}

func TestBuildCustomsDetail(t *testing.T) {
	shipper := BuildParty(testAddress())
	detail, err := BuildCustomsDetail(customsLines(), "US", valueobject.USD, shipper, TermsOfSaleFOBOrFCA)
	require.NoError(t, err)

	t.Run("skips service lines", func(t *testing.T) {
		require.Len(t, detail.Commodities, 2)
		assert.Equal(t, "Widget", detail.Commodities[0].Name)
		assert.Equal(t, "Gadget", detail.Commodities[1].Name)
	})

	t.Run("counts all lines in NumberOfPieces", func(t *testing.T) {
		for _, c := range detail.Commodities {
			assert.Equal(t, 3, c.NumberOfPieces)
		}
	})

	t.Run("truncates unit price and line value", func(t *testing.T) {
		widget := detail.Commodities[0]
		assert.Equal(t, "9", widget.UnitPrice.Amount)
		// 3 x 9.99 = 29.97, truncated to 29
		assert.Equal(t, "29", widget.CustomsValue.Amount)
		assert.Equal(t, "USD", widget.UnitPrice.Currency)
	})

	t.Run("sums total unrounded before truncating", func(t *testing.T) {
		// 3 x 9.99 + 2 x 24.50 = 29.97 + 49.00 = 78.97, truncated to 78
		assert.Equal(t, "78", detail.CustomsValue.Amount)
	})

	t.Run("declares weights in pounds", func(t *testing.T) {
		widget := detail.Commodities[0]
		assert.Equal(t, "LB", widget.Weight.Units)
		assert.True(t, widget.Weight.Value.Equal(decimal.NewFromInt(2)))

		gadget := detail.Commodities[1]
		assert.True(t, gadget.Weight.Value.Equal(decimal.RequireFromString("2.2046")),
			"got %s", gadget.Weight.Value)
	})

	t.Run("falls back to product name for description", func(t *testing.T) {
		assert.Equal(t, "Steel widget", detail.Commodities[0].Description)
		assert.Equal(t, "Gadget", detail.Commodities[1].Description)
	})

	t.Run("sender pays duties with shipper as payor", func(t *testing.T) {
		assert.Equal(t, "SENDER", detail.DutiesPayment.PaymentType)
		require.NotNil(t, detail.DutiesPayment.ResponsibleParty)
		assert.Equal(t, "Acme Corp", detail.DutiesPayment.ResponsibleParty.Contact.CompanyName)
	})

	t.Run("carries the terms of sale", func(t *testing.T) {
		assert.Equal(t, "FOB_OR_FCA", detail.CommercialInvoice.TermsOfSale)
	})

	t.Run("rejects an empty declaration currency", func(t *testing.T) {
		_, err := BuildCustomsDetail(customsLines(), "US", "", shipper, TermsOfSaleFOBOrFCA)
		assert.Error(t, err)
	})
}

func TestBuildPackageLineItem(t *testing.T) {
	item := BuildPackageLineItem(2, valueobject.MustNewWeight(decimal.NewFromInt(5), valueobject.Kilogram))

	assert.Equal(t, 2, item.SequenceNumber)
	assert.Equal(t, 1, item.GroupPackageCount)
	assert.Equal(t, "LB", item.Weight.Units)
	assert.True(t, item.Weight.Value.Equal(decimal.RequireFromString("11.0231")),
		"got %s", item.Weight.Value)
}

func TestBuildRequestedShipment(t *testing.T) {
	shipper := BuildParty(testAddress())
	recipient := BuildParty(testAddress())

	requested := BuildRequestedShipment(ShipmentParams{
		Settings: shipping.ShippingSettings{
			DropOffType:   "REGULAR_PICKUP",
			PackagingType: "YOUR_PACKAGING",
			ServiceType:   "FEDEX_GROUND",
		},
		PreferredCurrency:    valueobject.USD,
		Reference:            "SO-42",
		Shipper:              shipper,
		Recipient:            recipient,
		ShippersLoadAndCount: 2,
	})

	t.Run("carries the method selections", func(t *testing.T) {
		assert.Equal(t, "REGULAR_PICKUP", requested.DropoffType)
		assert.Equal(t, "YOUR_PACKAGING", requested.PackagingType)
		assert.Equal(t, "FEDEX_GROUND", requested.ServiceType)
	})

	t.Run("sender pays charges with shipper as payor", func(t *testing.T) {
		assert.Equal(t, "SENDER", requested.ShippingChargesPayment.PaymentType)
		require.NotNil(t, requested.ShippingChargesPayment.ResponsibleParty)
	})

	t.Run("prefixes the booking reference", func(t *testing.T) {
		assert.Equal(t, "Ref-SO-42", requested.ExpressFreightDetail.BookingConfirmationNumber)
		assert.True(t, requested.ExpressFreightDetail.PackingListEnclosed)
		assert.Equal(t, 2, requested.ExpressFreightDetail.ShippersLoadAndCount)
	})

	t.Run("requests the fixed label specification", func(t *testing.T) {
		assert.Equal(t, "COMMON2D", requested.LabelSpecification.LabelFormatType)
		assert.Equal(t, "PNG", requested.LabelSpecification.ImageType)
		assert.Equal(t, "PAPER_4X6", requested.LabelSpecification.LabelStockType)
	})

	t.Run("asks for account rates", func(t *testing.T) {
		assert.Equal(t, []string{"ACCOUNT"}, requested.RateRequestTypes)
	})
}
