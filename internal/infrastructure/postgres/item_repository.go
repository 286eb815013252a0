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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo lectura del catálogo de artículos sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// FindByCode busca un artículo por su código.
func (r *ItemRepo) FindByCode(code string) (*entity.Item, error) {
	return r.find(`SELECT id, code, name, selling_price, created_at FROM items WHERE code = $1`, code)
}

// FindByID busca un artículo por su id.
func (r *ItemRepo) FindByID(id string) (*entity.Item, error) {
	return r.find(`SELECT id, code, name, selling_price, created_at FROM items WHERE id = $1`, id)
}

func (r *ItemRepo) find(query, arg string) (*entity.Item, error) {
	var it entity.Item
	var price decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&it.ID, &it.Code, &it.Name, &price, &it.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	it.SellingPrice, err = valueobject.NewPrice(price)
	if err != nil {
		return nil, fmt.Errorf("item %s: precio inválido en catálogo: %w", it.Code, err)
	}
	return &it, nil
}
