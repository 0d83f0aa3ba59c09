package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retazo/mrp/pkg/domain/entities"
	"github.com/retazo/mrp/pkg/domain/repositories"
)

// Loader handles loading ERP snapshot extracts from CSV files. Extracts are
// machine-generated, so a malformed row here is a fatal error rather than a
// collected one; tolerant parsing of operator uploads lives elsewhere.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadProducts loads products from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readAll(filename, []string{"code", "description", "unit"})
	if err != nil {
		return nil, fmt.Errorf("products CSV: %w", err)
	}

	var products []*entities.Product
	for i, record := range records {
		unit, err := entities.ParseUnitOfMeasure(record[2])
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}

		product, err := entities.NewProduct(entities.ProductCode(record[0]), record[1], unit)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// LoadClients loads clients from a CSV file
func (l *Loader) LoadClients(filename string) ([]*entities.Client, error) {
	records, err := readAll(filename, []string{"code", "name"})
	if err != nil {
		return nil, fmt.Errorf("clients CSV: %w", err)
	}

	var clients []*entities.Client
	for i, record := range records {
		client, err := entities.NewClient(entities.ClientCode(record[0]), record[1])
		if err != nil {
			return nil, fmt.Errorf("clients CSV row %d: %w", i+2, err)
		}
		clients = append(clients, client)
	}

	return clients, nil
}

// LoadOrders loads sales order headers from a CSV file
func (l *Loader) LoadOrders(filename string) ([]*entities.Order, error) {
	records, err := readAll(filename, []string{"order_number", "client_code", "issue_date"})
	if err != nil {
		return nil, fmt.Errorf("orders CSV: %w", err)
	}

	var orders []*entities.Order
	for i, record := range records {
		issueDate, err := time.Parse("2006-01-02", record[2])
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: invalid issue_date %q (expected YYYY-MM-DD)", i+2, record[2])
		}

		order, err := entities.NewOrder(entities.OrderNumber(record[0]), entities.ClientCode(record[1]), issueDate)
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: %w", i+2, err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// LoadOrderLines loads sales order lines from a CSV file
func (l *Loader) LoadOrderLines(filename string) ([]*entities.OrderLine, error) {
	records, err := readAll(filename, []string{"order_number", "product_code", "ordered_quantity"})
	if err != nil {
		return nil, fmt.Errorf("order lines CSV: %w", err)
	}

	var lines []*entities.OrderLine
	for i, record := range records {
		quantity, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("order lines CSV row %d: invalid ordered_quantity %q", i+2, record[2])
		}

		line, err := entities.NewOrderLine(
			entities.OrderNumber(record[0]),
			entities.ProductCode(record[1]),
			entities.Quantity(quantity),
		)
		if err != nil {
			return nil, fmt.Errorf("order lines CSV row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// LoadCuts loads remnant cuts from a CSV file
func (l *Loader) LoadCuts(filename string) ([]*entities.Cut, error) {
	expectedHeader := []string{
		"id", "product_code", "lote", "caja", "location",
		"amount", "measure", "total_quantity", "units", "stock_phys", "stock_tango",
	}
	records, err := readAll(filename, expectedHeader)
	if err != nil {
		return nil, fmt.Errorf("cuts CSV: %w", err)
	}

	var cuts []*entities.Cut
	for i, record := range records {
		amount, err := strconv.ParseInt(record[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cuts CSV row %d: invalid amount %q", i+2, record[5])
		}
		measure, err := strconv.ParseInt(record[6], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cuts CSV row %d: invalid measure %q", i+2, record[6])
		}
		total, err := decimal.NewFromString(record[7])
		if err != nil {
			return nil, fmt.Errorf("cuts CSV row %d: invalid total_quantity %q", i+2, record[7])
		}
		units, err := entities.ParseUnitOfMeasure(record[8])
		if err != nil {
			return nil, fmt.Errorf("cuts CSV row %d: %w", i+2, err)
		}
		stockPhys, err := strconv.ParseInt(record[9], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cuts CSV row %d: invalid stock_phys %q", i+2, record[9])
		}
		stockTango, err := strconv.ParseInt(record[10], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cuts CSV row %d: invalid stock_tango %q", i+2, record[10])
		}

		cut, err := entities.NewCut(
			record[0],
			entities.ProductCode(record[1]),
			record[2], record[3], record[4],
			entities.Quantity(amount),
			measure,
			total,
			units,
			entities.Quantity(stockPhys),
			entities.Quantity(stockTango),
		)
		if err != nil {
			return nil, fmt.Errorf("cuts CSV row %d: %w", i+2, err)
		}
		cuts = append(cuts, cut)
	}

	return cuts, nil
}

// DirRepository loads a full snapshot from a directory of extract files
// (products.csv, clients.csv, orders.csv, order_lines.csv, cuts.csv).
type DirRepository struct {
	dir     string
	takenAt time.Time
	loader  *Loader
}

// NewDirRepository creates a snapshot repository over an extract directory
func NewDirRepository(dir string, takenAt time.Time) *DirRepository {
	return &DirRepository{
		dir:     dir,
		takenAt: takenAt,
		loader:  NewLoader(),
	}
}

// Verify interface compliance
var _ repositories.SnapshotRepository = (*DirRepository)(nil)

// LoadSnapshot loads every extract in the directory into one snapshot
func (r *DirRepository) LoadSnapshot(ctx context.Context) (*entities.Snapshot, error) {
	products, err := r.loader.LoadProducts(filepath.Join(r.dir, "products.csv"))
	if err != nil {
		return nil, err
	}
	clients, err := r.loader.LoadClients(filepath.Join(r.dir, "clients.csv"))
	if err != nil {
		return nil, err
	}
	orders, err := r.loader.LoadOrders(filepath.Join(r.dir, "orders.csv"))
	if err != nil {
		return nil, err
	}
	lines, err := r.loader.LoadOrderLines(filepath.Join(r.dir, "order_lines.csv"))
	if err != nil {
		return nil, err
	}
	cuts, err := r.loader.LoadCuts(filepath.Join(r.dir, "cuts.csv"))
	if err != nil {
		return nil, err
	}

	snap := &entities.Snapshot{
		TakenAt:    r.takenAt,
		Products:   deref(products),
		Clients:    deref(clients),
		Orders:     deref(orders),
		OrderLines: deref(lines),
		Cuts:       deref(cuts),
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	return snap, nil
}

func deref[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, *item)
	}
	return out
}

// readAll opens a CSV extract, validates its header and returns the data rows
func readAll(filename string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s must have a header row", filename)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s header mismatch. Expected: %v, Got: %v", filename, expectedHeader, records[0])
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", filename, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}
