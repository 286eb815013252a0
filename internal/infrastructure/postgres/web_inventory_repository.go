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

var _ repository.WebInventoryRepository = (*WebInventoryRepo)(nil)

// WebInventoryRepo pool web sobre PostgreSQL (usable con pool o tx).
type WebInventoryRepo struct {
	q Querier
}

// NewWebInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWebInventoryRepository(q Querier) *WebInventoryRepo {
	return &WebInventoryRepo{q: q}
}

const webInventoryColumns = `id, item_id, item_code, batch_id, quantity, base_quantity, web_price, published, featured, stock_level, expiry_date, placed_at, updated_at, updated_by`

// FindAvailableByItemCode registros con cantidad positiva del artículo.
func (r *WebInventoryRepo) FindAvailableByItemCode(itemCode string) ([]*entity.WebInventory, error) {
	query := `
		SELECT ` + webInventoryColumns + `
		FROM web_inventory
		WHERE item_code = $1 AND quantity > 0
		ORDER BY placed_at, batch_id`
	return r.query(query, itemCode)
}

// FindAvailableByItemCodeForUpdate igual pero con bloqueo de filas.
func (r *WebInventoryRepo) FindAvailableByItemCodeForUpdate(itemCode string) ([]*entity.WebInventory, error) {
	query := `
		SELECT ` + webInventoryColumns + `
		FROM web_inventory
		WHERE item_code = $1 AND quantity > 0
		ORDER BY placed_at, batch_id
		FOR UPDATE`
	return r.query(query, itemCode)
}

// GetByBatch registro del lote en el pool web (un lote tiene a lo sumo un
// registro web).
func (r *WebInventoryRepo) GetByBatch(batchID string) (*entity.WebInventory, error) {
	query := `SELECT ` + webInventoryColumns + ` FROM web_inventory WHERE batch_id = $1`
	row := r.q.QueryRow(context.Background(), query, batchID)
	w, err := scanWebInventory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}

// Create inserta un registro nuevo (primer traslado del lote a web).
func (r *WebInventoryRepo) Create(w *entity.WebInventory) error {
	query := `
		INSERT INTO web_inventory (` + webInventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		w.ID, w.ItemID, w.ItemCode, w.BatchID,
		w.Quantity.Decimal(), w.BaseQuantity.Decimal(), w.WebPrice.Decimal(),
		w.Published, w.Featured, w.StockLevel,
		w.ExpiryDate, w.PlacedAt, w.UpdatedAt, w.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("create web inventory: %w", err)
	}
	return nil
}

// Save escribe un snapshot mutado.
func (r *WebInventoryRepo) Save(w *entity.WebInventory) error {
	query := `
		UPDATE web_inventory
		SET quantity = $2, base_quantity = $3, published = $4, featured = $5, stock_level = $6, updated_at = $7, updated_by = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		w.ID, w.Quantity.Decimal(), w.BaseQuantity.Decimal(),
		w.Published, w.Featured, w.StockLevel, w.UpdatedAt, w.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("save web inventory: %w", err)
	}
	return nil
}

func (r *WebInventoryRepo) query(query string, args ...any) ([]*entity.WebInventory, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query web inventory: %w", err)
	}
	defer rows.Close()

	var out []*entity.WebInventory
	for rows.Next() {
		w, err := scanWebInventory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanWebInventory(row pgx.Row) (*entity.WebInventory, error) {
	var w entity.WebInventory
	var qty, base, price decimal.Decimal
	err := row.Scan(
		&w.ID, &w.ItemID, &w.ItemCode, &w.BatchID,
		&qty, &base, &price, &w.Published, &w.Featured, &w.StockLevel,
		&w.ExpiryDate, &w.PlacedAt, &w.UpdatedAt, &w.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if w.Quantity, err = valueobject.NewQuantity(qty); err != nil {
		return nil, fmt.Errorf("web inventory %s: cantidad inválida: %w", w.ID, err)
	}
	if w.BaseQuantity, err = valueobject.NewQuantity(base); err != nil {
		return nil, fmt.Errorf("web inventory %s: base inválida: %w", w.ID, err)
	}
	if w.WebPrice, err = valueobject.NewPrice(price); err != nil {
		return nil, fmt.Errorf("web inventory %s: precio inválido: %w", w.ID, err)
	}
	return &w, nil
}
