package entities

import (
	"fmt"
	"time"
)

// OrderNumber is the unique ERP identifier for a sales order
type OrderNumber string

// Order represents a sales order header as extracted from the ERP
type Order struct {
	OrderNumber OrderNumber
	ClientCode  ClientCode
	IssueDate   time.Time
}

// NewOrder creates a validated Order
func NewOrder(orderNumber OrderNumber, clientCode ClientCode, issueDate time.Time) (*Order, error) {
	if string(orderNumber) == "" {
		return nil, fmt.Errorf("order number cannot be empty")
	}
	if string(clientCode) == "" {
		return nil, fmt.Errorf("client code cannot be empty")
	}
	if issueDate.IsZero() {
		return nil, fmt.Errorf("issue date cannot be zero")
	}

	return &Order{
		OrderNumber: orderNumber,
		ClientCode:  clientCode,
		IssueDate:   issueDate,
	}, nil
}

// OrderLine represents one product line on a sales order
type OrderLine struct {
	OrderNumber     OrderNumber
	ProductCode     ProductCode
	OrderedQuantity Quantity
}

// NewOrderLine creates a validated OrderLine
func NewOrderLine(orderNumber OrderNumber, productCode ProductCode, orderedQuantity Quantity) (*OrderLine, error) {
	if string(orderNumber) == "" {
		return nil, fmt.Errorf("order number cannot be empty")
	}
	if string(productCode) == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}
	if orderedQuantity < 0 {
		return nil, fmt.Errorf("ordered quantity cannot be negative, got %d", orderedQuantity)
	}

	return &OrderLine{
		OrderNumber:     orderNumber,
		ProductCode:     productCode,
		OrderedQuantity: orderedQuantity,
	}, nil
}
