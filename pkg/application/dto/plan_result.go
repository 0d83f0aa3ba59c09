package dto

import (
	"time"

	"github.com/retazo/mrp/pkg/domain/entities"
)

// Diagnostics counts records that were excluded from the run because they
// referenced unknown products or orders. These are never fatal; they exist so
// operators can fix the source data.
type Diagnostics struct {
	DroppedOrderLines int `json:"droppedOrderLines"`
	DroppedCuts       int `json:"droppedCuts"`
}

// PlanResult is the complete output of one planning run: the per-product
// requirement aggregates plus the lookup indices consumers use to resolve the
// identifier back-references. The indices are built once per run and handed
// out as read-only views; downstream code must not mutate them.
//
// The record graph is flattened to copies keyed by explicit identifiers;
// reference identity is not preserved across serialization.
type PlanResult struct {
	RunID           string    `json:"runId"`
	GeneratedAt     time.Time `json:"generatedAt"`
	SnapshotTakenAt time.Time `json:"snapshotTakenAt"`
	IncrementFactor float64   `json:"incrementFactor"`
	Horizon         int       `json:"horizon"`

	Products []entities.MRPProduct `json:"products"`

	ClientsByCode           map[entities.ClientCode]entities.Client       `json:"clientsByCode"`
	OrdersByOrderNumber     map[entities.OrderNumber]entities.Order       `json:"ordersByOrderNumber"`
	OrderLinesByProductCode map[entities.ProductCode][]entities.OrderLine `json:"orderLinesByProductCode"`

	Diagnostics Diagnostics `json:"diagnostics"`
}
