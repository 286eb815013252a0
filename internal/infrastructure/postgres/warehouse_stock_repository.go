package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
	"github.com/shopspring/decimal"
)

var _ repository.WarehouseStockRepository = (*WarehouseStockRepo)(nil)

// WarehouseStockRepo pool de bodega sobre PostgreSQL (usable con pool o tx).
type WarehouseStockRepo struct {
	q Querier
}

// NewWarehouseStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseStockRepository(q Querier) *WarehouseStockRepo {
	return &WarehouseStockRepo{q: q}
}

const warehouseStockColumns = `id, item_id, item_code, batch_id, location, quantity, reserved_quantity, expiry_date, received_at, updated_at, updated_by`

// FindAvailableByItemCode registros con cantidad positiva del artículo, en
// orden de llegada.
func (r *WarehouseStockRepo) FindAvailableByItemCode(itemCode string) ([]*entity.WarehouseStock, error) {
	query := `
		SELECT ` + warehouseStockColumns + `
		FROM warehouse_stock
		WHERE item_code = $1 AND quantity > 0
		ORDER BY received_at, batch_id`
	return r.query(query, itemCode)
}

// FindAvailableByItemCodeForUpdate igual que FindAvailableByItemCode pero
// bloqueando las filas (SELECT FOR UPDATE) para la secuencia asignar-y-aplicar.
func (r *WarehouseStockRepo) FindAvailableByItemCodeForUpdate(itemCode string) ([]*entity.WarehouseStock, error) {
	query := `
		SELECT ` + warehouseStockColumns + `
		FROM warehouse_stock
		WHERE item_code = $1 AND quantity > 0
		ORDER BY received_at, batch_id
		FOR UPDATE`
	return r.query(query, itemCode)
}

// GetByID obtiene un registro por id.
func (r *WarehouseStockRepo) GetByID(id string) (*entity.WarehouseStock, error) {
	query := `SELECT ` + warehouseStockColumns + ` FROM warehouse_stock WHERE id = $1`
	return r.queryOne(query, id)
}

// GetByIDForUpdate obtiene y bloquea un registro por id.
func (r *WarehouseStockRepo) GetByIDForUpdate(id string) (*entity.WarehouseStock, error) {
	query := `SELECT ` + warehouseStockColumns + ` FROM warehouse_stock WHERE id = $1 FOR UPDATE`
	return r.queryOne(query, id)
}

// Create inserta un registro nuevo (recepción de un lote).
func (r *WarehouseStockRepo) Create(s *entity.WarehouseStock) error {
	query := `
		INSERT INTO warehouse_stock (` + warehouseStockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.ItemID, s.ItemCode, s.BatchID, s.Location,
		s.Quantity.Decimal(), s.ReservedQuantity.Decimal(),
		s.ExpiryDate, s.ReceivedAt, s.UpdatedAt, s.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("create warehouse stock: %w", err)
	}
	return nil
}

// Save escribe un snapshot mutado (las cantidades y la auditoría cambian; la
// identidad no).
func (r *WarehouseStockRepo) Save(s *entity.WarehouseStock) error {
	query := `
		UPDATE warehouse_stock
		SET quantity = $2, reserved_quantity = $3, updated_at = $4, updated_by = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Quantity.Decimal(), s.ReservedQuantity.Decimal(), s.UpdatedAt, s.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("save warehouse stock: %w", err)
	}
	return nil
}

func (r *WarehouseStockRepo) query(query string, args ...any) ([]*entity.WarehouseStock, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query warehouse stock: %w", err)
	}
	defer rows.Close()

	var out []*entity.WarehouseStock
	for rows.Next() {
		s, err := scanWarehouseStock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *WarehouseStockRepo) queryOne(query string, args ...any) (*entity.WarehouseStock, error) {
	row := r.q.QueryRow(context.Background(), query, args...)
	s, err := scanWarehouseStock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func scanWarehouseStock(row pgx.Row) (*entity.WarehouseStock, error) {
	var s entity.WarehouseStock
	var qty, reserved decimal.Decimal
	err := row.Scan(
		&s.ID, &s.ItemID, &s.ItemCode, &s.BatchID, &s.Location,
		&qty, &reserved, &s.ExpiryDate, &s.ReceivedAt, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if s.Quantity, err = valueobject.NewQuantity(qty); err != nil {
		return nil, fmt.Errorf("warehouse stock %s: cantidad inválida: %w", s.ID, err)
	}
	if s.ReservedQuantity, err = valueobject.NewQuantity(reserved); err != nil {
		return nil, fmt.Errorf("warehouse stock %s: reserva inválida: %w", s.ID, err)
	}
	return &s, nil
}
