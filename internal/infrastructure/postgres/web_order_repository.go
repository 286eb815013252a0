package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
	"github.com/shopspring/decimal"
)

var _ repository.WebOrderRepository = (*WebOrderRepo)(nil)

// WebOrderRepo historial de pedidos online sobre PostgreSQL.
type WebOrderRepo struct {
	q Querier
}

// NewWebOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWebOrderRepository(q Querier) *WebOrderRepo {
	return &WebOrderRepo{q: q}
}

// Append agrega un pedido confirmado al historial (cabecera + líneas).
func (r *WebOrderRepo) Append(o *entity.WebOrder) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO web_orders (id, order_number, user_id, total, card_last4, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.OrderNumber, o.UserID, o.Total.Decimal(), o.CardLast4, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de pedido duplicado: %w", err)
		}
		return fmt.Errorf("guardar pedido: %w", err)
	}
	for _, l := range o.Lines {
		_, err = r.q.Exec(ctx, `
			INSERT INTO web_order_lines (id, order_id, item_id, item_code, item_name, batch_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, o.ID, l.ItemID, l.ItemCode, l.ItemName, l.BatchID,
			l.Quantity.Decimal(), l.UnitPrice.Decimal(), l.Subtotal.Decimal(),
		)
		if err != nil {
			return fmt.Errorf("guardar línea de pedido: %w", err)
		}
	}
	return nil
}

// ListByUser pedidos del usuario, más recientes primero.
func (r *WebOrderRepo) ListByUser(userID string) ([]*entity.WebOrder, error) {
	ctx := context.Background()
	rows, err := r.q.Query(ctx, `
		SELECT id, order_number, user_id, total, card_last4, created_at
		FROM web_orders WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}
	defer rows.Close()

	var orders []*entity.WebOrder
	for rows.Next() {
		var o entity.WebOrder
		var total decimal.Decimal
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &total, &o.CardLast4, &o.CreatedAt); err != nil {
			return nil, err
		}
		if o.Total, err = valueobject.NewMoney(total); err != nil {
			return nil, fmt.Errorf("pedido %s: total inválido: %w", o.ID, err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		lines, err := r.linesByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
	}
	return orders, nil
}

func (r *WebOrderRepo) linesByOrder(ctx context.Context, orderID string) ([]entity.WebOrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, item_code, item_name, batch_id, quantity, unit_price, subtotal
		FROM web_order_lines WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, fmt.Errorf("listar líneas de pedido: %w", err)
	}
	defer rows.Close()

	var lines []entity.WebOrderLine
	for rows.Next() {
		var l entity.WebOrderLine
		var qty, price, subtotal decimal.Decimal
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.ItemCode, &l.ItemName, &l.BatchID, &qty, &price, &subtotal); err != nil {
			return nil, err
		}
		if l.Quantity, err = valueobject.NewQuantity(qty); err != nil {
			return nil, err
		}
		if l.UnitPrice, err = valueobject.NewPrice(price); err != nil {
			return nil, err
		}
		if l.Subtotal, err = valueobject.NewMoney(subtotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
