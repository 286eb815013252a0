package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/allocation"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

// POSState estado de una sesión de venta de caja. Totaling y Allocating son
// tramos internos de Total y Pay; los estados persistidos entre llamadas son
// estos cuatro.
type POSState string

const (
	StateBuildingCart    POSState = "BUILDING_CART"
	StateAwaitingPayment POSState = "AWAITING_PAYMENT"
	StatePersisted       POSState = "PERSISTED"
	StateCancelled       POSState = "CANCELLED"
)

// PlannedTake asignación planificada durante el totalizado: de qué registro
// de góndola tomar cuánto y con qué descuento por lote.
type PlannedTake struct {
	RecordID string
	BatchID  string
	Take     valueobject.Quantity
	Discount valueobject.Money
}

// POSLine línea de la venta en construcción.
type POSLine struct {
	ItemID    string
	ItemCode  string
	ItemName  string
	Quantity  valueobject.Quantity
	UnitPrice valueobject.Money
	Discount  valueobject.Money
	Planned   []PlannedTake
}

// POSSession sesión de venta de una caja: carrito, modo compra personal,
// totales y plan de asignación comprometido. Una sesión la opera un solo
// actor; la concurrencia entre cajas se resuelve con bloqueo de filas al
// aplicar la venta.
type POSSession struct {
	ID               string
	CashierID        string
	State            POSState
	PersonalPurchase bool
	Lines            []POSLine
	GrossTotal       valueobject.Money
	DiscountTotal    valueobject.Money
	NetTotal         valueobject.Money
	CreatedAt        time.Time
}

// POSResult desenlace de una venta persistida.
type POSResult struct {
	BillNumber   string
	NetTotal     valueobject.Money
	CashTendered valueobject.Money
	Change       valueobject.Money
	Transaction  *entity.SaleTransaction
	Lines        []*entity.SaleTransactionLine
}

// POSCheckout orquesta la venta de caja: construcción de carrito con chequeo
// consultivo de góndola, totalizado con descuentos por lote, cobro en
// efectivo y aplicación atómica asignar-vender-persistir.
type POSCheckout struct {
	txRunner  POSTxRunner
	itemRepo  repository.ItemRepository
	shelfRepo repository.ShelfStockRepository
	discounts DiscountService
	sessions  SessionStore
	ceiling   valueobject.Money // tope de compra personal
	now       func() time.Time
}

// NewPOSCheckout construye el caso de uso.
func NewPOSCheckout(
	txRunner POSTxRunner,
	itemRepo repository.ItemRepository,
	shelfRepo repository.ShelfStockRepository,
	discounts DiscountService,
	sessions SessionStore,
	ceiling valueobject.Money,
) *POSCheckout {
	return &POSCheckout{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		shelfRepo: shelfRepo,
		discounts: discounts,
		sessions:  sessions,
		ceiling:   ceiling,
		now:       time.Now,
	}
}

// WithClock fija la fuente de tiempo (pruebas).
func (uc *POSCheckout) WithClock(now func() time.Time) *POSCheckout {
	uc.now = now
	return uc
}

// StartSession abre una sesión de venta para un cajero.
func (uc *POSCheckout) StartSession(cashierID string) (*POSSession, error) {
	if cashierID == "" {
		return nil, domain.ErrInvalidInput
	}
	s := &POSSession{
		ID:        uuid.New().String(),
		CashierID: cashierID,
		State:     StateBuildingCart,
		CreatedAt: uc.now(),
	}
	if err := uc.sessions.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddLine agrega (o acumula) una línea validando la disponibilidad actual de
// góndola. El chequeo aquí es consultivo: el autoritativo se repite bajo
// bloqueo de fila justo antes de vender.
func (uc *POSCheckout) AddLine(ctx context.Context, sessionID, itemCode string, qty valueobject.Quantity) (*POSSession, error) {
	s, err := uc.session(sessionID, StateBuildingCart)
	if err != nil {
		return nil, err
	}
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.FindByCode(itemCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	// Cantidad total de la línea si el artículo ya estaba en el carrito.
	total := qty
	existing := -1
	for i, l := range s.Lines {
		if l.ItemCode == itemCode {
			total = l.Quantity.Add(qty)
			existing = i
			break
		}
	}

	if err := uc.checkShelfAvailability(itemCode, total); err != nil {
		return nil, err
	}

	line := POSLine{
		ItemID:    item.ID,
		ItemCode:  item.Code,
		ItemName:  item.Name,
		Quantity:  total,
		UnitPrice: item.SellingPrice,
		Discount:  valueobject.ZeroMoney(),
	}
	if existing >= 0 {
		s.Lines[existing] = line
	} else {
		s.Lines = append(s.Lines, line)
	}
	if err := uc.sessions.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// SetPersonalPurchase activa o desactiva el modo compra personal mientras se
// construye el carrito.
func (uc *POSCheckout) SetPersonalPurchase(sessionID string, enabled bool) (*POSSession, error) {
	s, err := uc.session(sessionID, StateBuildingCart)
	if err != nil {
		return nil, err
	}
	s.PersonalPurchase = enabled
	if err := uc.sessions.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Total totaliza la venta: bruto = precio catálogo × cantidad por línea. En
// modo normal calcula descuentos por lote re-ejecutando el asignador con
// intención comprometida; en compra personal los descuentos se fuerzan a
// cero y un neto por encima del tope rechaza el checkout completo antes de
// pedir el pago (la sesión vuelve a construcción). Transiciona a
// AwaitingPayment.
func (uc *POSCheckout) Total(ctx context.Context, sessionID string) (*POSSession, error) {
	s, err := uc.session(sessionID, StateBuildingCart)
	if err != nil {
		return nil, err
	}
	if len(s.Lines) == 0 {
		return nil, domain.ErrCartEmpty
	}
	now := uc.now()

	gross := valueobject.ZeroMoney()
	for _, l := range s.Lines {
		gross = gross.Add(l.UnitPrice.MulQuantity(l.Quantity))
	}

	discountTotal := valueobject.ZeroMoney()
	if s.PersonalPurchase {
		// Descuentos forzados a cero y tope duro sobre el neto.
		if gross.GreaterThan(uc.ceiling) {
			return nil, &domain.LimitExceededError{Limit: uc.ceiling.Decimal(), Total: gross.Decimal()}
		}
		for i := range s.Lines {
			s.Lines[i].Discount = valueobject.ZeroMoney()
			s.Lines[i].Planned = nil
		}
	} else {
		for i := range s.Lines {
			planned, lineDiscount, err := uc.planLine(ctx, &s.Lines[i], now)
			if err != nil {
				return nil, err
			}
			s.Lines[i].Planned = planned
			s.Lines[i].Discount = lineDiscount
			discountTotal = discountTotal.Add(lineDiscount)
		}
	}

	net, err := gross.Sub(discountTotal)
	if err != nil {
		return nil, err
	}
	s.GrossTotal = gross
	s.DiscountTotal = discountTotal
	s.NetTotal = net
	s.State = StateAwaitingPayment
	if err := uc.sessions.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Pay recibe el efectivo y cierra la venta. Efectivo menor al neto rechaza y
// deja la sesión esperando pago (re-prompt). Con efectivo suficiente ejecuta
// el tramo atómico: re-asignar bajo bloqueo, verificar que el plan coincida
// con el del totalizado, vender por lote y persistir cabecera + líneas en
// una sola transacción. Si el stock cambió y el plan ya no se cumple, aborta
// la venta completa sin vender parcialmente.
func (uc *POSCheckout) Pay(ctx context.Context, sessionID string, cash valueobject.Money) (*POSResult, error) {
	s, err := uc.session(sessionID, StateAwaitingPayment)
	if err != nil {
		return nil, err
	}
	if cash.LessThan(s.NetTotal) {
		return nil, domain.ErrInsufficientCash
	}
	now := uc.now()
	change, err := cash.Sub(s.NetTotal)
	if err != nil {
		return nil, err
	}

	trx := &entity.SaleTransaction{
		ID:            uuid.New().String(),
		Channel:       entity.ChannelPOS,
		GrossTotal:    s.GrossTotal,
		DiscountTotal: s.DiscountTotal,
		NetTotal:      s.NetTotal,
		PaymentMethod: entity.PaymentCash,
		CashTendered:  &cash,
		Change:        &change,
		CreatedAt:     now,
		CreatedBy:     s.CashierID,
	}

	var lines []*entity.SaleTransactionLine
	var billNumber string
	err = uc.txRunner.RunPOS(ctx, func(
		shelfRepo repository.ShelfStockRepository,
		trxRepo repository.TransactionRepository,
	) error {
		lines = lines[:0]
		for _, l := range s.Lines {
			applied, err := uc.applyLine(ctx, shelfRepo, l, s, now)
			if err != nil {
				return err
			}
			for i := range applied {
				applied[i].TransactionID = trx.ID
			}
			lines = append(lines, applied...)
		}
		bn, err := trxRepo.SavePOSCheckout(trx, lines)
		if err != nil {
			return err
		}
		billNumber = bn
		return nil
	})
	if err != nil {
		// Cualquier fallo dentro del tramo atómico aborta la venta completa.
		s.State = StateCancelled
		_ = uc.sessions.Save(s)
		return nil, err
	}

	trx.BillNumber = billNumber
	s.State = StatePersisted
	if err := uc.sessions.Save(s); err != nil {
		return nil, err
	}
	return &POSResult{
		BillNumber:   billNumber,
		NetTotal:     s.NetTotal,
		CashTendered: cash,
		Change:       change,
		Transaction:  trx,
		Lines:        lines,
	}, nil
}

// Cancel aborta la sesión desde cualquier estado previo a Persisted.
func (uc *POSCheckout) Cancel(sessionID string) error {
	s, err := uc.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if s.State == StatePersisted {
		return domain.ErrCheckoutState
	}
	s.State = StateCancelled
	return uc.sessions.Save(s)
}

// Session retorna la sesión por id.
func (uc *POSCheckout) Session(sessionID string) (*POSSession, error) {
	return uc.sessions.Get(sessionID)
}

// session carga la sesión y valida el estado esperado.
func (uc *POSCheckout) session(sessionID string, expected POSState) (*POSSession, error) {
	s, err := uc.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if s.State != expected {
		return nil, domain.ErrCheckoutState
	}
	return s, nil
}

// checkShelfAvailability chequeo consultivo: la góndola exhibida y sin
// vencer debe cubrir la cantidad de la línea.
func (uc *POSCheckout) checkShelfAvailability(itemCode string, qty valueobject.Quantity) error {
	records, err := uc.shelfRepo.FindAvailableByItemCode(itemCode)
	if err != nil {
		return err
	}
	candidates := allocation.FromShelf(records, uc.now())
	plan, shortfall, err := allocation.Allocate(qty, candidates)
	if err != nil {
		return err
	}
	if shortfall.IsPositive() {
		return &domain.InsufficientStockError{
			ItemCode:  itemCode,
			Requested: qty.Decimal(),
			Available: plan.Total().Decimal(),
			Deficit:   shortfall.Decimal(),
		}
	}
	return nil
}

// planLine re-ejecuta el asignador para una línea con intención comprometida
// y consulta el descuento por cada (artículo, lote, cantidad asignada).
func (uc *POSCheckout) planLine(ctx context.Context, l *POSLine, now time.Time) ([]PlannedTake, valueobject.Money, error) {
	records, err := uc.shelfRepo.FindAvailableByItemCode(l.ItemCode)
	if err != nil {
		return nil, valueobject.ZeroMoney(), err
	}
	candidates := allocation.FromShelf(records, now)
	plan, shortfall, err := allocation.Allocate(l.Quantity, candidates)
	if err != nil {
		return nil, valueobject.ZeroMoney(), err
	}
	if shortfall.IsPositive() {
		return nil, valueobject.ZeroMoney(), &domain.InsufficientStockError{
			ItemCode:  l.ItemCode,
			Requested: l.Quantity.Decimal(),
			Available: plan.Total().Decimal(),
			Deficit:   shortfall.Decimal(),
		}
	}

	planned := make([]PlannedTake, 0, len(plan))
	lineDiscount := valueobject.ZeroMoney()
	for _, e := range plan {
		d, err := uc.discounts.CalculateBatchDiscount(ctx, l.ItemID, e.Candidate.BatchID, l.UnitPrice, e.Take)
		if err != nil {
			return nil, valueobject.ZeroMoney(), err
		}
		planned = append(planned, PlannedTake{
			RecordID: e.Candidate.RecordID,
			BatchID:  e.Candidate.BatchID,
			Take:     e.Take,
			Discount: d,
		})
		lineDiscount = lineDiscount.Add(d)
	}
	return planned, lineDiscount, nil
}

// applyLine re-asigna la línea contra la góndola viva (filas bloqueadas),
// exige que el plan coincida con el usado para los descuentos y aplica la
// venta lote por lote.
func (uc *POSCheckout) applyLine(
	_ context.Context,
	shelfRepo repository.ShelfStockRepository,
	l POSLine,
	s *POSSession,
	now time.Time,
) ([]*entity.SaleTransactionLine, error) {
	records, err := shelfRepo.FindAvailableByItemCodeForUpdate(l.ItemCode)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.ShelfStock, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	candidates := allocation.FromShelf(records, now)
	plan, shortfall, err := allocation.Allocate(l.Quantity, candidates)
	if err != nil {
		return nil, err
	}
	if shortfall.IsPositive() {
		return nil, &domain.InsufficientStockError{
			ItemCode:  l.ItemCode,
			Requested: l.Quantity.Decimal(),
			Available: plan.Total().Decimal(),
			Deficit:   shortfall.Decimal(),
		}
	}

	// En modo normal el plan vivo debe coincidir con el plan del totalizado:
	// si el stock cambió entre medias, el descuento calculado ya no
	// corresponde y la venta se aborta completa.
	if !s.PersonalPurchase {
		if len(plan) != len(l.Planned) {
			return nil, domain.ErrStockConflict
		}
		for i, e := range plan {
			p := l.Planned[i]
			if e.Candidate.RecordID != p.RecordID || !e.Take.Equal(p.Take) {
				return nil, domain.ErrStockConflict
			}
		}
	}

	lines := make([]*entity.SaleTransactionLine, 0, len(plan))
	for i, e := range plan {
		record, ok := byID[e.Candidate.RecordID]
		if !ok {
			return nil, domain.ErrStockConflict
		}
		sold, err := record.Sell(e.Take, s.CashierID, now)
		if err != nil {
			return nil, err
		}
		if err := shelfRepo.Save(sold); err != nil {
			return nil, err
		}

		discount := valueobject.ZeroMoney()
		if !s.PersonalPurchase {
			discount = l.Planned[i].Discount
		}
		subtotal, err := l.UnitPrice.MulQuantity(e.Take).Sub(discount)
		if err != nil {
			return nil, err
		}
		lines = append(lines, &entity.SaleTransactionLine{
			ID:        uuid.New().String(),
			ItemID:    l.ItemID,
			ItemCode:  l.ItemCode,
			BatchID:   e.Candidate.BatchID,
			Quantity:  e.Take,
			UnitPrice: l.UnitPrice,
			Discount:  discount,
			Subtotal:  subtotal,
		})
	}
	return lines, nil
}
