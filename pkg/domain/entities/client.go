package entities

import "fmt"

// ClientCode is the unique ERP identifier for a client
type ClientCode string

// Client represents a customer as extracted from the ERP
type Client struct {
	Code ClientCode
	Name string
}

// NewClient creates a validated Client
func NewClient(code ClientCode, name string) (*Client, error) {
	if string(code) == "" {
		return nil, fmt.Errorf("client code cannot be empty")
	}

	return &Client{
		Code: code,
		Name: name,
	}, nil
}
