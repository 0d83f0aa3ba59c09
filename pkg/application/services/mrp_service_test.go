package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retazo/mrp/pkg/domain/entities"
)

func testSnapshot() *entities.Snapshot {
	return &entities.Snapshot{
		TakenAt: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		Products: []entities.Product{
			{Code: "P1", Description: "Cable 4mm", Unit: entities.Pieces},
			{Code: "P2", Description: "Manguera 12mm", Unit: entities.Meters},
			{Code: "P3", Description: "Kit de empalme", Unit: entities.Kits},
		},
		Clients: []entities.Client{
			{Code: "CL-01", Name: "Acme SA"},
		},
		Orders: []entities.Order{
			{OrderNumber: "SO-1", ClientCode: "CL-01", IssueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
			{OrderNumber: "SO-2", ClientCode: "CL-01", IssueDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		},
		OrderLines: []entities.OrderLine{
			{OrderNumber: "SO-1", ProductCode: "P1", OrderedQuantity: 60},
			{OrderNumber: "SO-2", ProductCode: "P1", OrderedQuantity: 40},
			{OrderNumber: "SO-1", ProductCode: "P2", OrderedQuantity: 10},
		},
		Cuts: []entities.Cut{
			{ID: "cut-1", ProductCode: "P1", Lote: "L1", Caja: "C1", Location: "EST-01",
				Amount: 40, Measure: 0, Units: entities.Pieces, StockPhys: 40, StockTango: 40},
			{ID: "cut-2", ProductCode: "P2", Lote: "L2", Caja: "C2", Location: "EST-02",
				Amount: 2, Measure: 4000, Units: entities.Meters, StockPhys: 2, StockTango: 2},
		},
	}
}

func newTestMRPService() *MRPService {
	return NewMRPService(NewForecastService())
}

func findProduct(t *testing.T, products []entities.MRPProduct, code entities.ProductCode) entities.MRPProduct {
	t.Helper()
	for _, p := range products {
		if p.Code == code {
			return p
		}
	}
	t.Fatalf("product %s not found in result", code)
	return entities.MRPProduct{}
}

func findBucket(t *testing.T, timeline []entities.BucketRequirement, bucket entities.Bucket) entities.BucketRequirement {
	t.Helper()
	for _, req := range timeline {
		if req.Bucket == bucket {
			return req
		}
	}
	t.Fatalf("bucket %s not found in timeline", bucket)
	return entities.BucketRequirement{}
}

func TestMRPService_NetRequirementDrawsDownRemnants(t *testing.T) {
	// P1: 100 units ordered in 2024-01, 40 remnant pieces on hand.
	svc := newTestMRPService()
	params := mustParams(t, 0, 1)

	result, err := svc.Plan(context.Background(), testSnapshot(), params)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	p1 := findProduct(t, result.Products, "P1")
	jan := findBucket(t, p1.Timeline, "2024-01")

	if !jan.Demand.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected demand 100, got %s", jan.Demand)
	}
	if !jan.AvailableStock.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected 40 available entering 2024-01, got %s", jan.AvailableStock)
	}
	if !jan.NetRequirement.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected net requirement 60, got %s", jan.NetRequirement)
	}

	// The pool is exhausted entering every later bucket.
	for _, req := range p1.Timeline {
		if req.Bucket.After("2024-01") && !req.AvailableStock.IsZero() {
			t.Errorf("expected empty pool entering %s, got %s", req.Bucket, req.AvailableStock)
		}
	}
}

func TestMRPService_MonotonicDrawDown(t *testing.T) {
	snap := testSnapshot()
	snap.Orders = []entities.Order{
		{OrderNumber: "SO-1", ClientCode: "CL-01", IssueDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{OrderNumber: "SO-2", ClientCode: "CL-01", IssueDate: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
	}
	snap.OrderLines = []entities.OrderLine{
		{OrderNumber: "SO-1", ProductCode: "P1", OrderedQuantity: 30},
		{OrderNumber: "SO-2", ProductCode: "P1", OrderedQuantity: 30},
	}

	svc := newTestMRPService()
	result, err := svc.Plan(context.Background(), snap, mustParams(t, 0, 0))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	p1 := findProduct(t, result.Products, "P1")
	jan := findBucket(t, p1.Timeline, "2024-01")
	feb := findBucket(t, p1.Timeline, "2024-02")

	if !jan.AvailableStock.Equal(decimal.NewFromInt(40)) || !jan.NetRequirement.IsZero() {
		t.Errorf("2024-01: expected available 40 and net 0, got %s and %s", jan.AvailableStock, jan.NetRequirement)
	}
	if !feb.AvailableStock.Equal(decimal.NewFromInt(10)) {
		t.Errorf("2024-02: expected available 10 after earlier consumption, got %s", feb.AvailableStock)
	}
	if !feb.NetRequirement.Equal(decimal.NewFromInt(20)) {
		t.Errorf("2024-02: expected net 20, got %s", feb.NetRequirement)
	}
}

func TestMRPService_MeterFamilyAggregatesInMeters(t *testing.T) {
	svc := newTestMRPService()

	result, err := svc.Plan(context.Background(), testSnapshot(), mustParams(t, 0, 0))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	// P2 has one meter cut of 4000 mm; pools aggregate in meters, not
	// millimeters, and not in piece counts.
	p2 := findProduct(t, result.Products, "P2")
	if !p2.RemnantMeters.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected 4 remnant meters, got %s", p2.RemnantMeters)
	}
	if p2.RemnantCount != 0 {
		t.Errorf("expected no count-family remnants, got %d", p2.RemnantCount)
	}

	jan := findBucket(t, p2.Timeline, "2024-01")
	if !jan.AvailableStock.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected 4 m available, got %s", jan.AvailableStock)
	}
	if !jan.NetRequirement.Equal(decimal.NewFromInt(6)) {
		t.Errorf("expected net 6 m, got %s", jan.NetRequirement)
	}
}

func TestMRPService_FamiliesAreNeverSummed(t *testing.T) {
	snap := testSnapshot()
	// Mixed-family cuts on a meter product: the piece cut must not inflate
	// the meter pool.
	snap.Cuts = append(snap.Cuts, entities.Cut{
		ID: "cut-3", ProductCode: "P2", Lote: "L3", Caja: "C3", Location: "EST-03",
		Amount: 5, Measure: 0, Units: entities.Pieces, StockPhys: 5, StockTango: 5,
	})

	svc := newTestMRPService()
	result, err := svc.Plan(context.Background(), snap, mustParams(t, 0, 0))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	p2 := findProduct(t, result.Products, "P2")
	if !p2.RemnantMeters.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected meter pool to stay 4, got %s", p2.RemnantMeters)
	}
	if p2.RemnantCount != 5 {
		t.Errorf("expected 5 count-family pieces, got %d", p2.RemnantCount)
	}

	jan := findBucket(t, p2.Timeline, "2024-01")
	if !jan.AvailableStock.Equal(decimal.NewFromInt(4)) {
		t.Errorf("meter demand must draw on the meter pool only, got %s available", jan.AvailableStock)
	}
}

func TestMRPService_ForecastDrivesFutureBuckets(t *testing.T) {
	svc := newTestMRPService()

	// P1 baseline is 100 (single historical bucket); zero growth keeps the
	// forecast at 100 for the one projected month after the snapshot.
	result, err := svc.Plan(context.Background(), testSnapshot(), mustParams(t, 0, 1))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	p1 := findProduct(t, result.Products, "P1")
	mar := findBucket(t, p1.Timeline, "2024-03")

	if !mar.ForecastedDemand.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected forecasted demand 100, got %s", mar.ForecastedDemand)
	}
	if !mar.Demand.IsZero() {
		t.Errorf("expected no actual demand in 2024-03, got %s", mar.Demand)
	}
	if !mar.NetRequirement.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected net 100 with the pool already exhausted, got %s", mar.NetRequirement)
	}
}

func TestMRPService_UnknownReferencesAreDroppedAndCounted(t *testing.T) {
	snap := testSnapshot()
	snap.OrderLines = append(snap.OrderLines,
		entities.OrderLine{OrderNumber: "SO-1", ProductCode: "GHOST", OrderedQuantity: 5},
		entities.OrderLine{OrderNumber: "NO-SUCH-ORDER", ProductCode: "P1", OrderedQuantity: 5},
	)
	snap.Cuts = append(snap.Cuts, entities.Cut{
		ID: "cut-x", ProductCode: "GHOST", Amount: 1, Measure: 100,
		Units: entities.Meters, Location: entities.NoLocation,
	})

	svc := newTestMRPService()
	result, err := svc.Plan(context.Background(), snap, mustParams(t, 0, 0))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if result.Diagnostics.DroppedOrderLines != 2 {
		t.Errorf("expected 2 dropped order lines, got %d", result.Diagnostics.DroppedOrderLines)
	}
	if result.Diagnostics.DroppedCuts != 1 {
		t.Errorf("expected 1 dropped cut, got %d", result.Diagnostics.DroppedCuts)
	}

	for _, p := range result.Products {
		if p.Code == "GHOST" {
			t.Error("unknown product must not appear in the output")
		}
	}

	// The P1 demand total must not include the dropped line.
	p1 := findProduct(t, result.Products, "P1")
	jan := findBucket(t, p1.Timeline, "2024-01")
	if !jan.Demand.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected demand 100 without the dropped line, got %s", jan.Demand)
	}
}

func TestMRPService_UntouchedProductsAreExcluded(t *testing.T) {
	svc := newTestMRPService()

	result, err := svc.Plan(context.Background(), testSnapshot(), mustParams(t, 0, 2))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	// P3 has no order lines and no cuts: it is not a zero row.
	for _, p := range result.Products {
		if p.Code == "P3" {
			t.Error("expected P3 to be excluded from the output")
		}
	}
	if len(result.Products) != 2 {
		t.Errorf("expected 2 products, got %d", len(result.Products))
	}
}

func TestMRPService_Indices(t *testing.T) {
	svc := newTestMRPService()

	result, err := svc.Plan(context.Background(), testSnapshot(), mustParams(t, 0, 0))
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if _, ok := result.ClientsByCode["CL-01"]; !ok {
		t.Error("expected CL-01 in clientsByCode")
	}
	if _, ok := result.OrdersByOrderNumber["SO-1"]; !ok {
		t.Error("expected SO-1 in ordersByOrderNumber")
	}
	if lines := result.OrderLinesByProductCode["P1"]; len(lines) != 2 {
		t.Errorf("expected 2 order lines indexed for P1, got %d", len(lines))
	}

	p1 := findProduct(t, result.Products, "P1")
	if !reflect.DeepEqual(p1.OrderNumbers, []entities.OrderNumber{"SO-1", "SO-2"}) {
		t.Errorf("expected back-references to SO-1 and SO-2, got %v", p1.OrderNumbers)
	}
	if !reflect.DeepEqual(p1.CutIDs, []string{"cut-1"}) {
		t.Errorf("expected back-reference to cut-1, got %v", p1.CutIDs)
	}
}

func TestMRPService_MalformedSnapshotIsFatal(t *testing.T) {
	svc := newTestMRPService()

	snap := testSnapshot()
	snap.Cuts = nil

	if _, err := svc.Plan(context.Background(), snap, mustParams(t, 0, 0)); err == nil {
		t.Error("expected a fatal error for a snapshot with a missing collection")
	}
}

func TestMRPService_Deterministic(t *testing.T) {
	svc := newTestMRPService()
	params := mustParams(t, 0.05, 4)

	first, err := svc.Plan(context.Background(), testSnapshot(), params)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	second, err := svc.Plan(context.Background(), testSnapshot(), params)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	// Identical snapshot and params yield identical output; only the run
	// metadata differs.
	if !reflect.DeepEqual(first.Products, second.Products) {
		t.Error("expected identical product aggregates across runs")
	}
	if !reflect.DeepEqual(first.OrderLinesByProductCode, second.OrderLinesByProductCode) {
		t.Error("expected identical order line indices across runs")
	}
	if first.Diagnostics != second.Diagnostics {
		t.Error("expected identical diagnostics across runs")
	}
}
