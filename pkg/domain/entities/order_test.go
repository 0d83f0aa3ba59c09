package entities

import (
	"testing"
	"time"
)

func TestOrder_Validation(t *testing.T) {
	issueDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	validOrder, err := NewOrder("SO-1001", "CL-01", issueDate)
	if err != nil {
		t.Fatalf("Expected valid order creation to succeed: %v", err)
	}
	if validOrder.OrderNumber != "SO-1001" {
		t.Errorf("Expected order number SO-1001, got %s", validOrder.OrderNumber)
	}

	testCases := []struct {
		name        string
		orderNumber OrderNumber
		clientCode  ClientCode
		issueDate   time.Time
	}{
		{"empty order number", "", "CL-01", issueDate},
		{"empty client code", "SO-1001", "", issueDate},
		{"zero issue date", "SO-1001", "CL-01", time.Time{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewOrder(tc.orderNumber, tc.clientCode, tc.issueDate); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestOrderLine_Validation(t *testing.T) {
	line, err := NewOrderLine("SO-1001", "A1", 10)
	if err != nil {
		t.Fatalf("Expected valid order line creation to succeed: %v", err)
	}
	if line.OrderedQuantity != 10 {
		t.Errorf("Expected quantity 10, got %d", line.OrderedQuantity)
	}

	if _, err := NewOrderLine("", "A1", 10); err == nil {
		t.Error("expected error for empty order number")
	}
	if _, err := NewOrderLine("SO-1001", "", 10); err == nil {
		t.Error("expected error for empty product code")
	}
	if _, err := NewOrderLine("SO-1001", "A1", -1); err == nil {
		t.Error("expected error for negative quantity")
	}
}

func TestSnapshot_Validate(t *testing.T) {
	valid := &Snapshot{
		TakenAt:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Products:   []Product{},
		Clients:    []Client{},
		Orders:     []Order{},
		OrderLines: []OrderLine{},
		Cuts:       []Cut{},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error for valid snapshot: %v", err)
	}

	missing := &Snapshot{
		TakenAt:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Products: []Product{},
	}
	if err := missing.Validate(); err == nil {
		t.Error("expected error for snapshot with missing collections")
	}
}

func TestParseUnitOfMeasure(t *testing.T) {
	for _, s := range []string{"PZA", "KITS", "MT", "UNI"} {
		u, err := ParseUnitOfMeasure(s)
		if err != nil {
			t.Errorf("unexpected error for %s: %v", s, err)
		}
		if u.String() != s {
			t.Errorf("expected %s to round-trip, got %s", s, u)
		}
	}

	if _, err := ParseUnitOfMeasure("METROS"); err == nil {
		t.Error("expected error for value outside the closed enumeration")
	}
}
