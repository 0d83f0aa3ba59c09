package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NoLocation is the display placeholder for cuts whose shelf location was
// never recorded. Locations are normalized to it, never to an empty string.
const NoLocation = "Sin ubicación"

// millimetersPerMeter is the stored scale for meter-denominated measures.
var millimetersPerMeter = decimal.NewFromInt(1000)

// Cut is a remnant inventory piece tracked by lot, box and location.
//
// Measure is stored in millimeters when Units is Meters, and in the native
// unit otherwise. StockPhys and StockTango are independently tracked counters
// (physical count vs. ERP count); divergence between them is a data-quality
// signal and is never reconciled here.
type Cut struct {
	ID            string
	ProductCode   ProductCode
	Lote          string
	Caja          string
	Location      string
	Amount        Quantity
	Measure       int64
	TotalQuantity decimal.Decimal
	Units         UnitOfMeasure
	StockPhys     Quantity
	StockTango    Quantity
}

// NewCut creates a validated Cut, normalizing a blank location to the
// display placeholder.
func NewCut(
	id string,
	productCode ProductCode,
	lote, caja, location string,
	amount Quantity,
	measure int64,
	totalQuantity decimal.Decimal,
	units UnitOfMeasure,
	stockPhys, stockTango Quantity,
) (*Cut, error) {
	if id == "" {
		return nil, fmt.Errorf("cut id cannot be empty")
	}
	if string(productCode) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}
	if amount < 0 {
		return nil, fmt.Errorf("amount cannot be negative, got %d", amount)
	}
	if measure < 0 {
		return nil, fmt.Errorf("measure cannot be negative, got %d", measure)
	}
	if location == "" {
		location = NoLocation
	}

	return &Cut{
		ID:            id,
		ProductCode:   productCode,
		Lote:          lote,
		Caja:          caja,
		Location:      location,
		Amount:        amount,
		Measure:       measure,
		TotalQuantity: totalQuantity,
		Units:         units,
		StockPhys:     stockPhys,
		StockTango:    stockTango,
	}, nil
}

// MeasureMeters returns the measure converted to meters. It is only
// meaningful for meter-denominated cuts; the stored value is millimeters.
func (c *Cut) MeasureMeters() decimal.Decimal {
	return decimal.NewFromInt(c.Measure).Div(millimetersPerMeter)
}

// MetersToMillimeters converts a meter value back to the stored integer
// millimeter representation.
func MetersToMillimeters(meters decimal.Decimal) int64 {
	return meters.Mul(millimetersPerMeter).IntPart()
}
