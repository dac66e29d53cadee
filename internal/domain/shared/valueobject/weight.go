package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// WeightUnit is a value object representing a unit of mass.
// Each unit carries a conversion rate to the base unit (pound), which is
// the unit the carrier API expects all weights in.
type WeightUnit struct {
	code         string
	poundsPerOne decimal.Decimal
}

// Supported weight units. Pound is the base unit (rate = 1).
var (
	Pound    = WeightUnit{code: "LB", poundsPerOne: decimal.NewFromInt(1)}
	Kilogram = WeightUnit{code: "KG", poundsPerOne: decimal.RequireFromString("2.20462262")}
	Gram     = WeightUnit{code: "G", poundsPerOne: decimal.RequireFromString("0.00220462262")}
	Ounce    = WeightUnit{code: "OZ", poundsPerOne: decimal.RequireFromString("0.0625")}
)

// WeightUnitFromCode resolves a unit code ("lb", "KG", ...) to a WeightUnit.
func WeightUnitFromCode(code string) (WeightUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "LB", "LBS", "POUND":
		return Pound, nil
	case "KG", "KILOGRAM":
		return Kilogram, nil
	case "G", "GRAM":
		return Gram, nil
	case "OZ", "OUNCE":
		return Ounce, nil
	default:
		return WeightUnit{}, fmt.Errorf("unknown weight unit code: %q", code)
	}
}

// Code returns the unit code.
func (u WeightUnit) Code() string {
	return u.code
}

// IsZero returns true for the zero-value unit.
func (u WeightUnit) IsZero() bool {
	return u.code == ""
}

// Weight is an immutable value object pairing a quantity with a WeightUnit.
type Weight struct {
	value decimal.Decimal
	unit  WeightUnit
}

// NewWeight creates a Weight from a decimal value and unit.
func NewWeight(value decimal.Decimal, unit WeightUnit) (Weight, error) {
	if unit.IsZero() {
		return Weight{}, fmt.Errorf("weight unit cannot be empty")
	}
	if value.IsNegative() {
		return Weight{}, fmt.Errorf("weight cannot be negative")
	}
	return Weight{value: value, unit: unit}, nil
}

// NewWeightFromFloat creates a Weight from a float value and unit.
func NewWeightFromFloat(value float64, unit WeightUnit) (Weight, error) {
	return NewWeight(decimal.NewFromFloat(value), unit)
}

// MustNewWeight creates a Weight and panics on error.
func MustNewWeight(value decimal.Decimal, unit WeightUnit) Weight {
	w, err := NewWeight(value, unit)
	if err != nil {
		panic(err)
	}
	return w
}

// ZeroWeight returns a zero weight in pounds.
func ZeroWeight() Weight {
	return Weight{value: decimal.Zero, unit: Pound}
}

// Value returns the quantity in the weight's own unit.
func (w Weight) Value() decimal.Decimal {
	return w.value
}

// Unit returns the weight's unit.
func (w Weight) Unit() WeightUnit {
	return w.unit
}

// IsZero returns true if the weight quantity is zero.
func (w Weight) IsZero() bool {
	return w.value.IsZero()
}

// Pounds returns the quantity converted to pounds, rounded to 4 places.
func (w Weight) Pounds() decimal.Decimal {
	if w.unit.IsZero() {
		return decimal.Zero
	}
	return w.value.Mul(w.unit.poundsPerOne).Round(4)
}

// ConvertTo returns the quantity expressed in the target unit, rounded to 4 places.
func (w Weight) ConvertTo(target WeightUnit) (decimal.Decimal, error) {
	if target.IsZero() {
		return decimal.Zero, fmt.Errorf("target weight unit cannot be empty")
	}
	if w.unit.IsZero() {
		return decimal.Zero, fmt.Errorf("weight has no unit")
	}
	return w.value.Mul(w.unit.poundsPerOne).Div(target.poundsPerOne).Round(4), nil
}

// Add returns the sum of two weights in this weight's unit.
func (w Weight) Add(other Weight) (Weight, error) {
	if w.unit.IsZero() || other.unit.IsZero() {
		return Weight{}, fmt.Errorf("cannot add weights without units")
	}
	converted, err := other.ConvertTo(w.unit)
	if err != nil {
		return Weight{}, err
	}
	return Weight{value: w.value.Add(converted), unit: w.unit}, nil
}

// String returns a string representation like "2.5 KG".
func (w Weight) String() string {
	return fmt.Sprintf("%s %s", w.value.String(), w.unit.code)
}

type weightJSON struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// MarshalJSON implements json.Marshaler
func (w Weight) MarshalJSON() ([]byte, error) {
	return json.Marshal(weightJSON{Value: w.value.String(), Unit: w.unit.code})
}

// UnmarshalJSON implements json.Unmarshaler
func (w *Weight) UnmarshalJSON(data []byte) error {
	var v weightJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	value, err := decimal.NewFromString(v.Value)
	if err != nil {
		return fmt.Errorf("invalid weight value: %w", err)
	}
	unit, err := WeightUnitFromCode(v.Unit)
	if err != nil {
		return err
	}
	weight, err := NewWeight(value, unit)
	if err != nil {
		return err
	}
	*w = weight
	return nil
}
