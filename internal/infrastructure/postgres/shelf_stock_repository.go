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

var _ repository.ShelfStockRepository = (*ShelfStockRepo)(nil)

// ShelfStockRepo pool de góndola sobre PostgreSQL (usable con pool o tx).
type ShelfStockRepo struct {
	q Querier
}

// NewShelfStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShelfStockRepository(q Querier) *ShelfStockRepo {
	return &ShelfStockRepo{q: q}
}

const shelfStockColumns = `id, item_id, item_code, batch_id, shelf_code, quantity, unit_price, displayed, min_threshold, max_threshold, expiry_date, placed_at, updated_at, updated_by`

// FindAvailableByItemCode registros con cantidad positiva del artículo.
func (r *ShelfStockRepo) FindAvailableByItemCode(itemCode string) ([]*entity.ShelfStock, error) {
	query := `
		SELECT ` + shelfStockColumns + `
		FROM shelf_stock
		WHERE item_code = $1 AND quantity > 0
		ORDER BY placed_at, batch_id`
	return r.query(query, itemCode)
}

// FindAvailableByItemCodeForUpdate igual pero con bloqueo de filas.
func (r *ShelfStockRepo) FindAvailableByItemCodeForUpdate(itemCode string) ([]*entity.ShelfStock, error) {
	query := `
		SELECT ` + shelfStockColumns + `
		FROM shelf_stock
		WHERE item_code = $1 AND quantity > 0
		ORDER BY placed_at, batch_id
		FOR UPDATE`
	return r.query(query, itemCode)
}

// GetByBatchAndShelf registro de un lote en una góndola concreta (para
// decidir crear vs incrementar durante un traslado).
func (r *ShelfStockRepo) GetByBatchAndShelf(batchID, shelfCode string) (*entity.ShelfStock, error) {
	query := `SELECT ` + shelfStockColumns + ` FROM shelf_stock WHERE batch_id = $1 AND shelf_code = $2`
	row := r.q.QueryRow(context.Background(), query, batchID, shelfCode)
	s, err := scanShelfStock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Create inserta un registro nuevo (primer traslado del lote a la góndola).
func (r *ShelfStockRepo) Create(s *entity.ShelfStock) error {
	query := `
		INSERT INTO shelf_stock (` + shelfStockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	var maxThreshold *decimal.Decimal
	if s.MaxThreshold != nil {
		d := s.MaxThreshold.Decimal()
		maxThreshold = &d
	}
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.ItemID, s.ItemCode, s.BatchID, s.ShelfCode,
		s.Quantity.Decimal(), s.UnitPrice.Decimal(), s.Displayed,
		s.MinThreshold.Decimal(), maxThreshold,
		s.ExpiryDate, s.PlacedAt, s.UpdatedAt, s.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("create shelf stock: %w", err)
	}
	return nil
}

// Save escribe un snapshot mutado.
func (r *ShelfStockRepo) Save(s *entity.ShelfStock) error {
	query := `
		UPDATE shelf_stock
		SET quantity = $2, displayed = $3, updated_at = $4, updated_by = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Quantity.Decimal(), s.Displayed, s.UpdatedAt, s.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("save shelf stock: %w", err)
	}
	return nil
}

func (r *ShelfStockRepo) query(query string, args ...any) ([]*entity.ShelfStock, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query shelf stock: %w", err)
	}
	defer rows.Close()

	var out []*entity.ShelfStock
	for rows.Next() {
		s, err := scanShelfStock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanShelfStock(row pgx.Row) (*entity.ShelfStock, error) {
	var s entity.ShelfStock
	var qty, price, minThreshold decimal.Decimal
	var maxThreshold *decimal.Decimal
	err := row.Scan(
		&s.ID, &s.ItemID, &s.ItemCode, &s.BatchID, &s.ShelfCode,
		&qty, &price, &s.Displayed, &minThreshold, &maxThreshold,
		&s.ExpiryDate, &s.PlacedAt, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if s.Quantity, err = valueobject.NewQuantity(qty); err != nil {
		return nil, fmt.Errorf("shelf stock %s: cantidad inválida: %w", s.ID, err)
	}
	if s.UnitPrice, err = valueobject.NewPrice(price); err != nil {
		return nil, fmt.Errorf("shelf stock %s: precio inválido: %w", s.ID, err)
	}
	if s.MinThreshold, err = valueobject.NewQuantity(minThreshold); err != nil {
		return nil, fmt.Errorf("shelf stock %s: umbral mínimo inválido: %w", s.ID, err)
	}
	if maxThreshold != nil {
		mt, err := valueobject.NewQuantity(*maxThreshold)
		if err != nil {
			return nil, fmt.Errorf("shelf stock %s: umbral máximo inválido: %w", s.ID, err)
		}
		s.MaxThreshold = &mt
	}
	return &s, nil
}
