package shipping

// CostMethod identifies the carrier cost computation method assigned to an
// order or shipment. Only FedEx is handled by this module; other methods are
// routed elsewhere by the host ERP.
type CostMethod string

const (
	CostMethodFedex CostMethod = "fedex"
)

// MethodType classifies a carrier-defined shipment method value.
type MethodType string

const (
	MethodTypeDropOff   MethodType = "dropoff"
	MethodTypePackaging MethodType = "packaging"
	MethodTypeService   MethodType = "service"
)

// ShipmentMethod is a carrier-defined enumeration value, e.g.
// {Name: "FedEx Priority Overnight", Value: "PRIORITY_OVERNIGHT", Type: service}.
type ShipmentMethod struct {
	Name  string     `json:"name"`
	Value string     `json:"value"`
	Type  MethodType `json:"type"`
}

// ShippingSettings holds the three carrier method selections an order or
// shipment must carry before it can be quoted or shipped.
type ShippingSettings struct {
	DropOffType   string `json:"dropOffType"`
	PackagingType string `json:"packagingType"`
	ServiceType   string `json:"serviceType"`
}

// Complete returns true when all three selections are present.
func (s ShippingSettings) Complete() bool {
	return s.DropOffType != "" && s.PackagingType != "" && s.ServiceType != ""
}

// Select applies a carrier method to the selection slot matching its type
// and returns the result. Methods with an unknown type are ignored.
func (s ShippingSettings) Select(m ShipmentMethod) ShippingSettings {
	switch m.Type {
	case MethodTypeDropOff:
		s.DropOffType = m.Value
	case MethodTypePackaging:
		s.PackagingType = m.Value
	case MethodTypeService:
		s.ServiceType = m.Value
	}
	return s
}

// Merge fills empty selections from defaults and returns the result.
// Explicit selections always win over defaults.
func (s ShippingSettings) Merge(defaults ShippingSettings) ShippingSettings {
	out := s
	if out.DropOffType == "" {
		out.DropOffType = defaults.DropOffType
	}
	if out.PackagingType == "" {
		out.PackagingType = defaults.PackagingType
	}
	if out.ServiceType == "" {
		out.ServiceType = defaults.ServiceType
	}
	return out
}
