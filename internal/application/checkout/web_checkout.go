package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/allocation"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// WebCheckout orquesta la venta online: carrito por usuario con validación
// contra el inventario web publicado, pago con tarjeta (validación sintáctica
// de 16 dígitos) y aplicación atómica asignar-vender-registrar pedido.
type WebCheckout struct {
	txRunner  WebTxRunner
	itemRepo  repository.ItemRepository
	webRepo   repository.WebInventoryRepository
	orderRepo repository.WebOrderRepository
	carts     CartStore
	now       func() time.Time
}

// NewWebCheckout construye el caso de uso.
func NewWebCheckout(
	txRunner WebTxRunner,
	itemRepo repository.ItemRepository,
	webRepo repository.WebInventoryRepository,
	orderRepo repository.WebOrderRepository,
	carts CartStore,
) *WebCheckout {
	return &WebCheckout{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		webRepo:   webRepo,
		orderRepo: orderRepo,
		carts:     carts,
		now:       time.Now,
	}
}

// WithClock fija la fuente de tiempo (pruebas).
func (uc *WebCheckout) WithClock(now func() time.Time) *WebCheckout {
	uc.now = now
	return uc
}

// WebOrderResult desenlace de un checkout web confirmado.
type WebOrderResult struct {
	OrderNumber string
	Total       valueobject.Money
	Order       *entity.WebOrder
}

// GetCart retorna el carrito del usuario (vacío si no existe).
func (uc *WebCheckout) GetCart(ctx context.Context, userID string) (*Cart, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	cart, err := uc.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &Cart{UserID: userID}
	}
	return cart, nil
}

// AddToCart agrega (acumulando) un artículo al carrito, validando contra la
// disponibilidad web viva: la suma de registros publicados y sin vencer del
// artículo debe cubrir la cantidad resultante.
func (uc *WebCheckout) AddToCart(ctx context.Context, userID, itemCode string, qty valueobject.Quantity) (*Cart, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	cart, err := uc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := qty
	if i := cart.find(itemCode); i >= 0 {
		total = cart.Lines[i].Quantity.Add(qty)
	}
	return uc.putLine(ctx, cart, itemCode, total)
}

// UpdateCartLine fija la cantidad de una línea del carrito (misma validación
// de disponibilidad que al agregar).
func (uc *WebCheckout) UpdateCartLine(ctx context.Context, userID, itemCode string, qty valueobject.Quantity) (*Cart, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	cart, err := uc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.find(itemCode) < 0 {
		return nil, domain.ErrNotFound
	}
	return uc.putLine(ctx, cart, itemCode, qty)
}

// RemoveFromCart quita una línea del carrito.
func (uc *WebCheckout) RemoveFromCart(ctx context.Context, userID, itemCode string) (*Cart, error) {
	cart, err := uc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cart.removeLine(itemCode, uc.now()) {
		return nil, domain.ErrNotFound
	}
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Checkout valida la tarjeta, asigna y vende cada línea contra el inventario
// web bajo bloqueo de fila, registra el pedido en el historial y vacía el
// carrito — el descuento de stock y el registro del pedido son una sola
// transacción.
func (uc *WebCheckout) Checkout(ctx context.Context, userID, cardNumber string) (*WebOrderResult, error) {
	cart, err := uc.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.Empty() {
		return nil, domain.ErrCartEmpty
	}
	if err := validateCardNumber(cardNumber); err != nil {
		return nil, err
	}
	now := uc.now()

	order := &entity.WebOrder{
		ID:          uuid.New().String(),
		OrderNumber: fmt.Sprintf("WEB-%d", now.UnixNano()),
		UserID:      userID,
		Total:       cart.Total(),
		CardLast4:   cardNumber[len(cardNumber)-4:],
		CreatedAt:   now,
	}

	err = uc.txRunner.RunWeb(ctx, func(
		webRepo repository.WebInventoryRepository,
		orderRepo repository.WebOrderRepository,
	) error {
		order.Lines = order.Lines[:0]
		for _, l := range cart.Lines {
			records, err := webRepo.FindAvailableByItemCodeForUpdate(l.ItemCode)
			if err != nil {
				return err
			}
			byID := make(map[string]*entity.WebInventory, len(records))
			for _, r := range records {
				byID[r.ID] = r
			}
			candidates := allocation.FromWeb(records, now)
			plan, shortfall, err := allocation.Allocate(l.Quantity, candidates)
			if err != nil {
				return err
			}
			if shortfall.IsPositive() {
				return &domain.InsufficientStockError{
					ItemCode:  l.ItemCode,
					Requested: l.Quantity.Decimal(),
					Available: plan.Total().Decimal(),
					Deficit:   shortfall.Decimal(),
				}
			}
			for _, e := range plan {
				record, ok := byID[e.Candidate.RecordID]
				if !ok {
					return domain.ErrStockConflict
				}
				sold, err := record.Sell(e.Take, userID, now)
				if err != nil {
					return err
				}
				if err := webRepo.Save(sold); err != nil {
					return err
				}
				order.Lines = append(order.Lines, entity.WebOrderLine{
					ID:        uuid.New().String(),
					OrderID:   order.ID,
					ItemID:    l.ItemID,
					ItemCode:  l.ItemCode,
					ItemName:  l.ItemName,
					BatchID:   e.Candidate.BatchID,
					Quantity:  e.Take,
					UnitPrice: l.UnitPrice,
					Subtotal:  l.UnitPrice.MulQuantity(e.Take),
				})
			}
		}
		return orderRepo.Append(order)
	})
	if err != nil {
		return nil, err
	}

	// El carrito se limpia solo después de confirmar la transacción.
	if err := uc.carts.Delete(ctx, userID); err != nil {
		return nil, err
	}
	return &WebOrderResult{OrderNumber: order.OrderNumber, Total: order.Total, Order: order}, nil
}

// ListOrders historial de pedidos del usuario.
func (uc *WebCheckout) ListOrders(ctx context.Context, userID string) ([]*entity.WebOrder, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.orderRepo.ListByUser(userID)
}

// putLine valida disponibilidad y escribe la línea con el precio de catálogo.
func (uc *WebCheckout) putLine(ctx context.Context, cart *Cart, itemCode string, qty valueobject.Quantity) (*Cart, error) {
	item, err := uc.itemRepo.FindByCode(itemCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	if err := uc.checkWebAvailability(itemCode, qty); err != nil {
		return nil, err
	}
	cart.upsertLine(CartLine{
		ItemID:    item.ID,
		ItemCode:  item.Code,
		ItemName:  item.Name,
		Quantity:  qty,
		UnitPrice: item.SellingPrice,
	}, uc.now())
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// checkWebAvailability la suma de registros publicados y sin vencer debe
// cubrir la cantidad pedida. Chequeo consultivo; el autoritativo ocurre en
// Checkout bajo bloqueo.
func (uc *WebCheckout) checkWebAvailability(itemCode string, qty valueobject.Quantity) error {
	records, err := uc.webRepo.FindAvailableByItemCode(itemCode)
	if err != nil {
		return err
	}
	available := valueobject.ZeroQuantity()
	for _, c := range allocation.FromWeb(records, uc.now()) {
		available = available.Add(c.Available)
	}
	if available.LessThan(qty) {
		return &domain.InsufficientStockError{
			ItemCode:  itemCode,
			Requested: qty.Decimal(),
			Available: available.Decimal(),
			Deficit:   qty.Decimal().Sub(available.Decimal()),
		}
	}
	return nil
}
