package services

import (
	"github.com/shopspring/decimal"

	"github.com/retazo/mrp/pkg/domain/entities"
)

// DemandHistory is per-product actual demand grouped by calendar-month bucket
type DemandHistory map[entities.ProductCode]map[entities.Bucket]entities.Quantity

// ForecastPoint is one projected demand value for a future bucket
type ForecastPoint struct {
	Bucket entities.Bucket
	Value  decimal.Decimal
}

// ForecastService projects per-product demand forward from historical order
// data. It is a pure function of its inputs: the same history and params
// always yield the same projection.
type ForecastService struct{}

// NewForecastService creates a new forecast service
func NewForecastService() *ForecastService {
	return &ForecastService{}
}

// Project produces, for every requested product, one forecast point per
// future bucket: baseline * (1 + incrementFactor)^n for n = 1..horizon,
// starting at the month after from. The baseline is the product's average
// monthly demand over its historical buckets; a product with no history gets
// a zero baseline and therefore an explicit zero forecast.
func (s *ForecastService) Project(
	productCodes []entities.ProductCode,
	history DemandHistory,
	params entities.ForecastParams,
	from entities.Bucket,
) map[entities.ProductCode][]ForecastPoint {
	growth := decimal.NewFromFloat(1 + params.IncrementFactor())

	projection := make(map[entities.ProductCode][]ForecastPoint, len(productCodes))
	for _, code := range productCodes {
		baseline := baselineDemand(history[code])

		points := make([]ForecastPoint, 0, params.Horizon())
		value := baseline
		for n := 1; n <= params.Horizon(); n++ {
			value = value.Mul(growth)
			points = append(points, ForecastPoint{
				Bucket: from.Add(n),
				Value:  value,
			})
		}
		projection[code] = points
	}

	return projection
}

// baselineDemand averages monthly demand over the buckets that have any
// recorded demand
func baselineDemand(buckets map[entities.Bucket]entities.Quantity) decimal.Decimal {
	if len(buckets) == 0 {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, qty := range buckets {
		total = total.Add(decimal.NewFromInt(int64(qty)))
	}

	return total.Div(decimal.NewFromInt(int64(len(buckets))))
}
