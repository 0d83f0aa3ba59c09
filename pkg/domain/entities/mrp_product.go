package entities

import "github.com/shopspring/decimal"

// BucketRequirement is one month of a product's requirement timeline.
//
// Demand is the actual ordered quantity for the bucket; ForecastedDemand is
// the projected quantity. Which of the two drove NetRequirement depends on
// whether the bucket falls before or after the snapshot cutoff.
// AvailableStock is the remnant pool remaining for the product's unit family
// entering this bucket, before this bucket's consumption.
type BucketRequirement struct {
	Bucket           Bucket          `json:"bucket"`
	Demand           decimal.Decimal `json:"demand"`
	ForecastedDemand decimal.Decimal `json:"forecastedDemand"`
	AvailableStock   decimal.Decimal `json:"availableStock"`
	NetRequirement   decimal.Decimal `json:"netRequirement"`
}

// MRPProduct is the per-product planning aggregate: product identity, the
// time-ordered requirement timeline, remnant stock totals per unit family,
// and identifier back-references into the run's lookup indices.
type MRPProduct struct {
	Code        ProductCode   `json:"code"`
	Description string        `json:"description"`
	Unit        UnitOfMeasure `json:"unit"`

	// Timeline is in ascending bucket order.
	Timeline []BucketRequirement `json:"timeline"`

	// Remnant stock is reported per unit-of-measure family; the two are
	// never summed together.
	RemnantCount  Quantity        `json:"remnantCount"`
	RemnantMeters decimal.Decimal `json:"remnantMeters"`

	// Contributing records, resolvable via the run's indices.
	OrderNumbers []OrderNumber `json:"orderNumbers"`
	CutIDs       []string      `json:"cutIds"`
}
