package entities

import "fmt"

// ProductCode is the stable ERP identifier for a product
type ProductCode string

// Quantity represents an integer count of discrete units
type Quantity int64

// UnitOfMeasure classifies how a product's stock and demand are counted
type UnitOfMeasure int

const (
	Pieces UnitOfMeasure = iota
	Kits
	Meters
	Units
)

// String method for UnitOfMeasure enum
func (u UnitOfMeasure) String() string {
	switch u {
	case Pieces:
		return "PZA"
	case Kits:
		return "KITS"
	case Meters:
		return "MT"
	case Units:
		return "UNI"
	default:
		return "Unknown"
	}
}

// IsMeasure reports whether the unit is length-denominated rather than a count
func (u UnitOfMeasure) IsMeasure() bool {
	return u == Meters
}

// ParseUnitOfMeasure parses the closed ERP unit enumeration
func ParseUnitOfMeasure(s string) (UnitOfMeasure, error) {
	switch s {
	case "PZA":
		return Pieces, nil
	case "KITS":
		return Kits, nil
	case "MT":
		return Meters, nil
	case "UNI":
		return Units, nil
	default:
		return Pieces, fmt.Errorf("invalid unit of measure: %q (expected: PZA, KITS, MT, or UNI)", s)
	}
}

// Product represents a sellable item as extracted from the ERP
type Product struct {
	Code        ProductCode
	Description string
	Unit        UnitOfMeasure
}

// NewProduct creates a validated Product
func NewProduct(code ProductCode, description string, unit UnitOfMeasure) (*Product, error) {
	if string(code) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}

	return &Product{
		Code:        code,
		Description: description,
		Unit:        unit,
	}, nil
}
