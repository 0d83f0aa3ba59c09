package repositories

import (
	"context"

	"github.com/retazo/mrp/pkg/domain/entities"
)

// SnapshotRepository supplies one point-in-time extract of the ERP dataset.
// Implementations are the only blocking collaborators of a planning run; the
// engine itself never performs I/O.
type SnapshotRepository interface {
	LoadSnapshot(ctx context.Context) (*entities.Snapshot, error)
}
