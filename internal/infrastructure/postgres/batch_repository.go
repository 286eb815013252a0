package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
	"github.com/shopspring/decimal"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo persistencia de lotes sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote recién recibido.
func (r *BatchRepo) Create(b *entity.Batch) error {
	query := `
		INSERT INTO batches (id, item_id, code, quantity_received, quantity_available, manufacture_date, expiry_date, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.ItemID, b.Code,
		b.QuantityReceived.Decimal(), b.QuantityAvailable.Decimal(),
		b.ManufactureDate, b.ExpiryDate, b.ReceivedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por id.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate obtiene un lote por id bloqueando la fila.
func (r *BatchRepo) GetByIDForUpdate(id string) (*entity.Batch, error) {
	return r.getByID(id, true)
}

func (r *BatchRepo) getByID(id string, forUpdate bool) (*entity.Batch, error) {
	query := `
		SELECT id, item_id, code, quantity_received, quantity_available, manufacture_date, expiry_date, received_at
		FROM batches WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var b entity.Batch
	var received, available decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.ItemID, &b.Code, &received, &available,
		&b.ManufactureDate, &b.ExpiryDate, &b.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	if b.QuantityReceived, err = valueobject.NewQuantity(received); err != nil {
		return nil, fmt.Errorf("batch %s: cantidad recibida inválida: %w", id, err)
	}
	if b.QuantityAvailable, err = valueobject.NewQuantity(available); err != nil {
		return nil, fmt.Errorf("batch %s: cantidad disponible inválida: %w", id, err)
	}
	return &b, nil
}

// Save actualiza la cantidad disponible del lote (lo único que muta).
func (r *BatchRepo) Save(b *entity.Batch) error {
	query := `UPDATE batches SET quantity_available = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, b.ID, b.QuantityAvailable.Decimal())
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	return nil
}
