package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retazo/mrp/pkg/application/dto"
	"github.com/retazo/mrp/pkg/domain/entities"
)

// MRPService implements the requirements transform: it joins products, sales
// orders, remnant cuts and the demand projection into per-product requirement
// timelines plus the run's lookup indices.
//
// A service instance holds no mutable state across runs; every Plan call
// computes a fresh result from the snapshot it is handed, so concurrent runs
// against independently loaded snapshots are safe.
type MRPService struct {
	forecast *ForecastService
}

// NewMRPService creates a new planning service
func NewMRPService(forecast *ForecastService) *MRPService {
	return &MRPService{forecast: forecast}
}

// remnantPools tracks a product's available remnant stock per unit-of-measure
// family. The two families are never summed together.
type remnantPools struct {
	count  decimal.Decimal
	meters decimal.Decimal
	cutIDs []string
	pieces entities.Quantity
}

// Plan runs the full transform for one snapshot and one set of forecast
// params. The only fatal failure is a structurally malformed snapshot;
// records referencing unknown products are dropped and counted.
func (s *MRPService) Plan(
	ctx context.Context,
	snap *entities.Snapshot,
	params entities.ForecastParams,
) (*dto.PlanResult, error) {
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("malformed snapshot: %w", err)
	}

	productsByCode := make(map[entities.ProductCode]entities.Product, len(snap.Products))
	for _, p := range snap.Products {
		productsByCode[p.Code] = p
	}

	clientsByCode := make(map[entities.ClientCode]entities.Client, len(snap.Clients))
	for _, c := range snap.Clients {
		clientsByCode[c.Code] = c
	}

	ordersByNumber := make(map[entities.OrderNumber]entities.Order, len(snap.Orders))
	for _, o := range snap.Orders {
		ordersByNumber[o.OrderNumber] = o
	}

	var diag dto.Diagnostics

	// Step 1: group order lines by product and calendar month of the owning
	// order. Lines that cannot be joined to a known product or order are
	// dropped and counted, never silently joined to a wrong product.
	demand := make(DemandHistory)
	linesByProduct := make(map[entities.ProductCode][]entities.OrderLine)
	orderNumbersByProduct := make(map[entities.ProductCode]map[entities.OrderNumber]struct{})

	for _, line := range snap.OrderLines {
		if _, known := productsByCode[line.ProductCode]; !known {
			diag.DroppedOrderLines++
			continue
		}
		order, known := ordersByNumber[line.OrderNumber]
		if !known {
			diag.DroppedOrderLines++
			continue
		}

		bucket := entities.BucketOf(order.IssueDate)
		if demand[line.ProductCode] == nil {
			demand[line.ProductCode] = make(map[entities.Bucket]entities.Quantity)
		}
		demand[line.ProductCode][bucket] += line.OrderedQuantity

		linesByProduct[line.ProductCode] = append(linesByProduct[line.ProductCode], line)
		if orderNumbersByProduct[line.ProductCode] == nil {
			orderNumbersByProduct[line.ProductCode] = make(map[entities.OrderNumber]struct{})
		}
		orderNumbersByProduct[line.ProductCode][line.OrderNumber] = struct{}{}
	}

	// Step 2: group cuts by product into per-family pools. Meter-denominated
	// measures are stored in millimeters and aggregated in meters; count
	// units keep their native piece count.
	pools := make(map[entities.ProductCode]*remnantPools)
	for _, cut := range snap.Cuts {
		if _, known := productsByCode[cut.ProductCode]; !known {
			diag.DroppedCuts++
			continue
		}

		pool := pools[cut.ProductCode]
		if pool == nil {
			pool = &remnantPools{count: decimal.Zero, meters: decimal.Zero}
			pools[cut.ProductCode] = pool
		}

		if cut.Units.IsMeasure() {
			pool.meters = pool.meters.Add(cut.MeasureMeters())
		} else {
			pool.count = pool.count.Add(decimal.NewFromInt(int64(cut.Amount)))
			pool.pieces += cut.Amount
		}
		pool.cutIDs = append(pool.cutIDs, cut.ID)
	}

	// A product enters the output only if an order line or a cut touched it.
	seen := make(map[entities.ProductCode]struct{}, len(demand)+len(pools))
	for code := range demand {
		seen[code] = struct{}{}
	}
	for code := range pools {
		seen[code] = struct{}{}
	}
	productCodes := make([]entities.ProductCode, 0, len(seen))
	for code := range seen {
		productCodes = append(productCodes, code)
	}
	sort.Slice(productCodes, func(i, j int) bool { return productCodes[i] < productCodes[j] })

	// Step 3: project future demand per product.
	snapshotBucket := entities.BucketOf(snap.TakenAt)
	projection := s.forecast.Project(productCodes, demand, params, snapshotBucket)

	// Step 4: assemble per-product timelines in ascending bucket order,
	// consuming the remnant pool earliest bucket first.
	mrpProducts := make([]entities.MRPProduct, 0, len(productCodes))
	for _, code := range productCodes {
		mrpProducts = append(mrpProducts, assembleProduct(
			productsByCode[code],
			demand[code],
			projection[code],
			pools[code],
			orderNumbersByProduct[code],
			snapshotBucket,
		))
	}

	return &dto.PlanResult{
		RunID:                   uuid.NewString(),
		GeneratedAt:             time.Now().UTC(),
		SnapshotTakenAt:         snap.TakenAt,
		IncrementFactor:         params.IncrementFactor(),
		Horizon:                 params.Horizon(),
		Products:                mrpProducts,
		ClientsByCode:           clientsByCode,
		OrdersByOrderNumber:     ordersByNumber,
		OrderLinesByProductCode: linesByProduct,
		Diagnostics:             diag,
	}, nil
}

func assembleProduct(
	product entities.Product,
	actual map[entities.Bucket]entities.Quantity,
	forecast []ForecastPoint,
	pool *remnantPools,
	orderNumbers map[entities.OrderNumber]struct{},
	snapshotBucket entities.Bucket,
) entities.MRPProduct {
	forecastByBucket := make(map[entities.Bucket]decimal.Decimal, len(forecast))
	bucketSet := make(map[entities.Bucket]struct{}, len(actual)+len(forecast))
	for b := range actual {
		bucketSet[b] = struct{}{}
	}
	for _, point := range forecast {
		forecastByBucket[point.Bucket] = point.Value
		bucketSet[point.Bucket] = struct{}{}
	}

	buckets := make([]entities.Bucket, 0, len(bucketSet))
	for b := range bucketSet {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i] < buckets[j] })

	remnantCount := entities.Quantity(0)
	remnantMeters := decimal.Zero
	available := decimal.Zero
	var cutIDs []string
	if pool != nil {
		remnantCount = pool.pieces
		remnantMeters = pool.meters
		cutIDs = pool.cutIDs
		if product.Unit.IsMeasure() {
			available = pool.meters
		} else {
			available = pool.count
		}
	}

	timeline := make([]entities.BucketRequirement, 0, len(buckets))
	for _, bucket := range buckets {
		actualDemand := decimal.NewFromInt(int64(actual[bucket]))
		forecastedDemand := forecastByBucket[bucket]

		// Actual demand drives buckets up to the snapshot month; projected
		// demand drives everything after it.
		effective := actualDemand
		if bucket.After(snapshotBucket) {
			effective = forecastedDemand
		}

		// The pool is consumed in bucket order and never replenished within
		// a run: remnants are used up before shortfall appears later.
		consumed := decimal.Min(available, effective)
		net := effective.Sub(consumed)

		timeline = append(timeline, entities.BucketRequirement{
			Bucket:           bucket,
			Demand:           actualDemand,
			ForecastedDemand: forecastedDemand,
			AvailableStock:   available,
			NetRequirement:   net,
		})

		available = available.Sub(consumed)
	}

	numbers := make([]entities.OrderNumber, 0, len(orderNumbers))
	for number := range orderNumbers {
		numbers = append(numbers, number)
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })

	return entities.MRPProduct{
		Code:          product.Code,
		Description:   product.Description,
		Unit:          product.Unit,
		Timeline:      timeline,
		RemnantCount:  remnantCount,
		RemnantMeters: remnantMeters,
		OrderNumbers:  numbers,
		CutIDs:        cutIDs,
	}
}
