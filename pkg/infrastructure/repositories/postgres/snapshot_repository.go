package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/retazo/mrp/pkg/domain/entities"
	"github.com/retazo/mrp/pkg/domain/repositories"
)

// SnapshotRepository loads snapshots from the ERP mirror database
type SnapshotRepository struct {
	db *sql.DB
}

// Open connects to the mirror database and tunes the pool for the short
// bursty reads a snapshot load performs
func Open(connStr string) (*SnapshotRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return &SnapshotRepository{db: db}, nil
}

// Verify interface compliance
var _ repositories.SnapshotRepository = (*SnapshotRepository)(nil)

// Close releases the underlying connection pool
func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}

// LoadSnapshot reads all five collections and stamps the snapshot with the
// load time
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context) (*entities.Snapshot, error) {
	products, err := r.loadProducts(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := r.loadClients(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := r.loadOrders(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := r.loadOrderLines(ctx)
	if err != nil {
		return nil, err
	}
	cuts, err := r.loadCuts(ctx)
	if err != nil {
		return nil, err
	}

	snap := &entities.Snapshot{
		TakenAt:    time.Now().UTC(),
		Products:   products,
		Clients:    clients,
		Orders:     orders,
		OrderLines: lines,
		Cuts:       cuts,
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	return snap, nil
}

func (r *SnapshotRepository) loadProducts(ctx context.Context) ([]entities.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT code, description, unit
		FROM products
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []entities.Product{}
	for rows.Next() {
		var code, description, unit string
		if err := rows.Scan(&code, &description, &unit); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		parsed, err := entities.ParseUnitOfMeasure(unit)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", code, err)
		}
		products = append(products, entities.Product{
			Code:        entities.ProductCode(code),
			Description: description,
			Unit:        parsed,
		})
	}

	return products, rows.Err()
}

func (r *SnapshotRepository) loadClients(ctx context.Context) ([]entities.Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT code, name
		FROM clients
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	clients := []entities.Client{}
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, entities.Client{
			Code: entities.ClientCode(code),
			Name: name,
		})
	}

	return clients, rows.Err()
}

func (r *SnapshotRepository) loadOrders(ctx context.Context) ([]entities.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_number, client_code, issue_date
		FROM orders
		ORDER BY order_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []entities.Order{}
	for rows.Next() {
		var orderNumber, clientCode string
		var issueDate time.Time
		if err := rows.Scan(&orderNumber, &clientCode, &issueDate); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, entities.Order{
			OrderNumber: entities.OrderNumber(orderNumber),
			ClientCode:  entities.ClientCode(clientCode),
			IssueDate:   issueDate,
		})
	}

	return orders, rows.Err()
}

func (r *SnapshotRepository) loadOrderLines(ctx context.Context) ([]entities.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_number, product_code, ordered_quantity
		FROM order_lines
		ORDER BY order_number, product_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	lines := []entities.OrderLine{}
	for rows.Next() {
		var orderNumber, productCode string
		var quantity int64
		if err := rows.Scan(&orderNumber, &productCode, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, entities.OrderLine{
			OrderNumber:     entities.OrderNumber(orderNumber),
			ProductCode:     entities.ProductCode(productCode),
			OrderedQuantity: entities.Quantity(quantity),
		})
	}

	return lines, rows.Err()
}

func (r *SnapshotRepository) loadCuts(ctx context.Context) ([]entities.Cut, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_code, lote, caja, COALESCE(location, ''),
		       amount, measure, total_quantity, units, stock_phys, stock_tango
		FROM cuts
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cuts: %w", err)
	}
	defer rows.Close()

	cuts := []entities.Cut{}
	for rows.Next() {
		var id, productCode, lote, caja, location, units, total string
		var amount, measure, stockPhys, stockTango int64
		if err := rows.Scan(&id, &productCode, &lote, &caja, &location,
			&amount, &measure, &total, &units, &stockPhys, &stockTango); err != nil {
			return nil, fmt.Errorf("failed to scan cut: %w", err)
		}

		unit, err := entities.ParseUnitOfMeasure(units)
		if err != nil {
			return nil, fmt.Errorf("cut %s: %w", id, err)
		}
		totalQty, err := decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("cut %s: invalid total_quantity %q", id, total)
		}

		cut, err := entities.NewCut(
			id,
			entities.ProductCode(productCode),
			lote, caja, location,
			entities.Quantity(amount),
			measure,
			totalQty,
			unit,
			entities.Quantity(stockPhys),
			entities.Quantity(stockTango),
		)
		if err != nil {
			return nil, fmt.Errorf("cut %s: %w", id, err)
		}
		cuts = append(cuts, *cut)
	}

	return cuts, rows.Err()
}
