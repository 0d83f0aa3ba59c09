package entities

import (
	"fmt"
	"time"
)

// Snapshot is one point-in-time extract of the ERP dataset. All collections
// are immutable for the duration of a planning run.
type Snapshot struct {
	TakenAt    time.Time
	Products   []Product
	Clients    []Client
	Orders     []Order
	OrderLines []OrderLine
	Cuts       []Cut
}

// Validate checks the snapshot for structural problems. A missing top-level
// collection is a fatal batch error; empty collections are legal.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}
	if s.TakenAt.IsZero() {
		return fmt.Errorf("snapshot timestamp is missing")
	}
	if s.Products == nil {
		return fmt.Errorf("snapshot is missing the products collection")
	}
	if s.Clients == nil {
		return fmt.Errorf("snapshot is missing the clients collection")
	}
	if s.Orders == nil {
		return fmt.Errorf("snapshot is missing the orders collection")
	}
	if s.OrderLines == nil {
		return fmt.Errorf("snapshot is missing the order lines collection")
	}
	if s.Cuts == nil {
		return fmt.Errorf("snapshot is missing the cuts collection")
	}
	return nil
}
