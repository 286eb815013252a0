package checkout

import (
	"context"

	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// DiscountService colaborador externo de descuentos. Se llama una vez por
// par (artículo, lote) asignado; su fallo se propaga como fallo del checkout.
type DiscountService interface {
	CalculateBatchDiscount(ctx context.Context, itemID, batchID string, unitPrice valueobject.Money, quantity valueobject.Quantity) (valueobject.Money, error)
}

// POSTxRunner ejecuta el tramo asignar-vender-persistir de una venta de caja
// dentro de una transacción de BD. El descuento de stock y el guardado del
// recibo son una sola unidad atómica.
type POSTxRunner interface {
	RunPOS(ctx context.Context, fn func(
		shelfRepo repository.ShelfStockRepository,
		trxRepo repository.TransactionRepository,
	) error) error
}

// WebTxRunner ejecuta el tramo asignar-vender-registrar de un checkout web
// dentro de una transacción de BD.
type WebTxRunner interface {
	RunWeb(ctx context.Context, fn func(
		webRepo repository.WebInventoryRepository,
		orderRepo repository.WebOrderRepository,
	) error) error
}

// CartStore almacén explícito de carritos por usuario, con ciclo de vida de
// sesión (se crea al empezar, se borra al confirmar o cerrar sesión).
type CartStore interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, userID string) error
}

// SessionStore almacén de sesiones POS activas (una caja, un actor). Es
// estado en memoria del proceso, acorde al modelo de una sesión síncrona.
type SessionStore interface {
	Get(id string) (*POSSession, error)
	Save(session *POSSession) error
	Delete(id string)
}

// ReceiptGenerator render del recibo de una venta persistida (PDF). Su fallo
// nunca revierte la venta.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, trx *entity.SaleTransaction, lines []*entity.SaleTransactionLine) ([]byte, error)
}
