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

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo registro auditable de ventas sobre PostgreSQL. El número de
// recibo sale de una secuencia de BD, así que dos cajas nunca chocan.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// SavePOSCheckout escribe cabecera y líneas en la transacción del caller y
// retorna el número de recibo asignado. Se invoca dentro del mismo tx que
// descuenta la góndola: descuento y registro son una sola unidad atómica.
func (r *TransactionRepo) SavePOSCheckout(trx *entity.SaleTransaction, lines []*entity.SaleTransactionLine) (string, error) {
	ctx := context.Background()

	var billNumber string
	err := r.q.QueryRow(ctx, `SELECT 'POS-' || lpad(nextval('bill_number_seq')::text, 8, '0')`).Scan(&billNumber)
	if err != nil {
		return "", fmt.Errorf("asignar número de recibo: %w", err)
	}

	var cash, change *decimal.Decimal
	if trx.CashTendered != nil {
		d := trx.CashTendered.Decimal()
		cash = &d
	}
	if trx.Change != nil {
		d := trx.Change.Decimal()
		change = &d
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO sale_transactions (id, bill_number, channel, gross_total, discount_total, net_total, payment_method, cash_tendered, change, card_last4, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		trx.ID, billNumber, trx.Channel,
		trx.GrossTotal.Decimal(), trx.DiscountTotal.Decimal(), trx.NetTotal.Decimal(),
		trx.PaymentMethod, cash, change, trx.CardLast4, trx.CreatedAt, trx.CreatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("guardar venta: %w", err)
	}

	for _, l := range lines {
		_, err = r.q.Exec(ctx, `
			INSERT INTO sale_transaction_lines (id, transaction_id, item_id, item_code, batch_id, quantity, unit_price, discount, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			l.ID, trx.ID, l.ItemID, l.ItemCode, l.BatchID,
			l.Quantity.Decimal(), l.UnitPrice.Decimal(), l.Discount.Decimal(), l.Subtotal.Decimal(),
		)
		if err != nil {
			return "", fmt.Errorf("guardar línea de venta: %w", err)
		}
	}
	return billNumber, nil
}

// GetByBillNumber obtiene la venta y sus líneas por número de recibo.
func (r *TransactionRepo) GetByBillNumber(billNumber string) (*entity.SaleTransaction, []*entity.SaleTransactionLine, error) {
	ctx := context.Background()

	var trx entity.SaleTransaction
	var gross, discount, net decimal.Decimal
	var cash, change *decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT id, bill_number, channel, gross_total, discount_total, net_total, payment_method, cash_tendered, change, card_last4, created_at, created_by
		FROM sale_transactions WHERE bill_number = $1`, billNumber,
	).Scan(
		&trx.ID, &trx.BillNumber, &trx.Channel, &gross, &discount, &net,
		&trx.PaymentMethod, &cash, &change, &trx.CardLast4, &trx.CreatedAt, &trx.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get venta: %w", err)
	}
	if trx.GrossTotal, err = valueobject.NewMoney(gross); err != nil {
		return nil, nil, err
	}
	if trx.DiscountTotal, err = valueobject.NewMoney(discount); err != nil {
		return nil, nil, err
	}
	if trx.NetTotal, err = valueobject.NewMoney(net); err != nil {
		return nil, nil, err
	}
	if cash != nil {
		m, err := valueobject.NewMoney(*cash)
		if err != nil {
			return nil, nil, err
		}
		trx.CashTendered = &m
	}
	if change != nil {
		m, err := valueobject.NewMoney(*change)
		if err != nil {
			return nil, nil, err
		}
		trx.Change = &m
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, transaction_id, item_id, item_code, batch_id, quantity, unit_price, discount, subtotal
		FROM sale_transaction_lines WHERE transaction_id = $1`, trx.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("get líneas de venta: %w", err)
	}
	defer rows.Close()

	var lines []*entity.SaleTransactionLine
	for rows.Next() {
		var l entity.SaleTransactionLine
		var qty, price, disc, subtotal decimal.Decimal
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.ItemID, &l.ItemCode, &l.BatchID, &qty, &price, &disc, &subtotal); err != nil {
			return nil, nil, err
		}
		if l.Quantity, err = valueobject.NewQuantity(qty); err != nil {
			return nil, nil, err
		}
		if l.UnitPrice, err = valueobject.NewPrice(price); err != nil {
			return nil, nil, err
		}
		if l.Discount, err = valueobject.NewMoney(disc); err != nil {
			return nil, nil, err
		}
		if l.Subtotal, err = valueobject.NewMoney(subtotal); err != nil {
			return nil, nil, err
		}
		lines = append(lines, &l)
	}
	return &trx, lines, rows.Err()
}
