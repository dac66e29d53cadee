package shipping

import (
	"github.com/erp/shipping/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductType classifies a line's product for customs purposes. Service lines
// are not physical goods and carry no customs weight or value.
type ProductType string

const (
	ProductTypeGoods   ProductType = "goods"
	ProductTypeService ProductType = "service"
	ProductTypeAssets  ProductType = "assets"
)

// OrderLine is one sellable line of an order, or one outgoing move of a
// shipment. Both feed the customs declaration the same way.
type OrderLine struct {
	ProductName string             `json:"productName"`
	Description string             `json:"description"`
	ProductType ProductType        `json:"productType"`
	Quantity    decimal.Decimal    `json:"quantity"`
	UnitPrice   decimal.Decimal    `json:"unitPrice"`
	Weight      valueobject.Weight `json:"weight"`
}

// CommodityDescription returns the customs description for the line,
// falling back to the product name when no description is set.
func (l OrderLine) CommodityDescription() string {
	if l.Description != "" {
		return l.Description
	}
	return l.ProductName
}

// Order is the sale-order projection this module quotes shipping for.
// It is assembled per request by the host ERP; nothing here persists
// independently of the host's sale record.
type Order struct {
	Reference        string               `json:"reference"`
	CurrencyCode     valueobject.Currency `json:"currencyCode"`
	Lines            []OrderLine          `json:"lines"`
	WarehouseAddress *PostalAddress       `json:"warehouseAddress"`
	DeliveryAddress  PostalAddress        `json:"deliveryAddress"`
	Settings         ShippingSettings     `json:"settings"`
	International    bool                 `json:"international"`
	PackageWeight    valueobject.Weight   `json:"packageWeight"`
}

// WarehouseCountryCode returns the ship-from country, or "" when the
// warehouse address is absent.
func (o Order) WarehouseCountryCode() string {
	if o.WarehouseAddress == nil {
		return ""
	}
	return o.WarehouseAddress.CountryCode
}
