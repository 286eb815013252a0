package repository

import "github.com/jhoicas/PuntoVenta-api/internal/domain/entity"

// TransactionRepository puerto de persistencia del registro auditable de
// ventas. SavePOSCheckout escribe cabecera y líneas en una sola llamada y
// retorna el número de recibo asignado.
type TransactionRepository interface {
	SavePOSCheckout(trx *entity.SaleTransaction, lines []*entity.SaleTransactionLine) (billNumber string, err error)
	GetByBillNumber(billNumber string) (*entity.SaleTransaction, []*entity.SaleTransactionLine, error)
}

// WebOrderRepository puerto del historial de pedidos online.
type WebOrderRepository interface {
	Append(order *entity.WebOrder) error
	ListByUser(userID string) ([]*entity.WebOrder, error)
}
