package memory

import (
	"context"
	"time"

	"github.com/retazo/mrp/pkg/domain/entities"
	"github.com/retazo/mrp/pkg/domain/repositories"
)

// SnapshotRepository provides an in-memory snapshot source, used by tests
// and fixture-driven runs
type SnapshotRepository struct {
	snapshot entities.Snapshot
}

// NewSnapshotRepository creates an empty in-memory snapshot repository
func NewSnapshotRepository(takenAt time.Time) *SnapshotRepository {
	return &SnapshotRepository{
		snapshot: entities.Snapshot{
			TakenAt:    takenAt,
			Products:   []entities.Product{},
			Clients:    []entities.Client{},
			Orders:     []entities.Order{},
			OrderLines: []entities.OrderLine{},
			Cuts:       []entities.Cut{},
		},
	}
}

// Verify interface compliance
var _ repositories.SnapshotRepository = (*SnapshotRepository)(nil)

// AddProduct adds a product to the snapshot
func (r *SnapshotRepository) AddProduct(product entities.Product) {
	r.snapshot.Products = append(r.snapshot.Products, product)
}

// AddClient adds a client to the snapshot
func (r *SnapshotRepository) AddClient(client entities.Client) {
	r.snapshot.Clients = append(r.snapshot.Clients, client)
}

// AddOrder adds a sales order header to the snapshot
func (r *SnapshotRepository) AddOrder(order entities.Order) {
	r.snapshot.Orders = append(r.snapshot.Orders, order)
}

// AddOrderLine adds a sales order line to the snapshot
func (r *SnapshotRepository) AddOrderLine(line entities.OrderLine) {
	r.snapshot.OrderLines = append(r.snapshot.OrderLines, line)
}

// AddCut adds a remnant cut to the snapshot
func (r *SnapshotRepository) AddCut(cut entities.Cut) {
	r.snapshot.Cuts = append(r.snapshot.Cuts, cut)
}

// LoadSnapshot returns a copy of the accumulated snapshot so callers cannot
// mutate the repository's state through the result
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context) (*entities.Snapshot, error) {
	snap := entities.Snapshot{
		TakenAt:    r.snapshot.TakenAt,
		Products:   append([]entities.Product{}, r.snapshot.Products...),
		Clients:    append([]entities.Client{}, r.snapshot.Clients...),
		Orders:     append([]entities.Order{}, r.snapshot.Orders...),
		OrderLines: append([]entities.OrderLine{}, r.snapshot.OrderLines...),
		Cuts:       append([]entities.Cut{}, r.snapshot.Cuts...),
	}
	return &snap, nil
}
