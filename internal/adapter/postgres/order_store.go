package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chanuu/kds-poc/internal/domain"
	"github.com/chanuu/kds-poc/internal/interfaces"
)

// orderStore reads and patches the shared kds_orders collection. Items are
// kept as a jsonb document on the order row so a patch is one atomic
// UPDATE; the row is the unit of last-write-wins.
type orderStore struct {
	db DB
}

func NewOrderStore(db DB) interfaces.OrderStore {
	return &orderStore{db: db}
}

const orderColumns = `id, station_id, table_number, customer_name, overall_status, items, created_at, updated_at`

func (s *orderStore) FetchAll(ctx context.Context) ([]domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM kds_orders
		ORDER BY created_at ASC
	`, orderColumns)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	return orders, nil
}

func (s *orderStore) FetchOne(ctx context.Context, orderID string) (*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM kds_orders
		WHERE id = $1
	`, orderColumns)

	order, err := scanOrder(s.db.QueryRow(ctx, query, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

// Patch merges the given fields into the stored order and stamps
// updated_at. Fields left nil in the patch are not touched.
func (s *orderStore) Patch(ctx context.Context, orderID string, patch interfaces.OrderPatch) error {
	set := "updated_at = $1"
	args := []any{time.Now().UTC()}

	if patch.Items != nil {
		itemsJSON, err := json.Marshal(patch.Items)
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		args = append(args, itemsJSON)
		set += fmt.Sprintf(", items = $%d", len(args))
	}
	if patch.OverallStatus != nil {
		args = append(args, *patch.OverallStatus)
		set += fmt.Sprintf(", overall_status = $%d", len(args))
	}

	args = append(args, orderID)
	query := fmt.Sprintf("UPDATE kds_orders SET %s WHERE id = $%d", set, len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrWriteFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

// InsertAll writes the given orders in one transaction. Used by the demo
// seeder; the display stations never create orders.
func (s *orderStore) InsertAll(ctx context.Context, orders []domain.Order) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO kds_orders (id, station_id, table_number, customer_name, overall_status, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, order := range orders {
		if err := order.Validate(); err != nil {
			return fmt.Errorf("invalid order %s: %w", order.ID, err)
		}
		itemsJSON, err := json.Marshal(order.Items)
		if err != nil {
			return fmt.Errorf("failed to marshal items: %w", err)
		}
		_, err = tx.Exec(ctx, query,
			order.ID, order.StationID, order.TableNumber, order.CustomerName,
			order.OverallStatus, itemsJSON, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order %s: %w", order.ID, err)
		}
	}

	return tx.Commit(ctx)
}

// EnsureSchema creates the kds_orders table when it does not exist yet.
func EnsureSchema(ctx context.Context, db DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS kds_orders (
			id             text PRIMARY KEY,
			station_id     text NOT NULL,
			table_number   int NOT NULL,
			customer_name  text NOT NULL,
			overall_status text NOT NULL,
			items          jsonb NOT NULL,
			created_at     timestamptz NOT NULL,
			updated_at     timestamptz NOT NULL
		)
	`
	if _, err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanOrder(row scannable) (*domain.Order, error) {
	var order domain.Order
	var itemsJSON []byte

	err := row.Scan(
		&order.ID, &order.StationID, &order.TableNumber, &order.CustomerName,
		&order.OverallStatus, &itemsJSON, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}

	return &order, nil
}
