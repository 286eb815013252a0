package checkout_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

func qty(t *testing.T, n int64) valueobject.Quantity {
	t.Helper()
	q, err := valueobject.QuantityFromInt(n)
	require.NoError(t, err)
	return q
}

func price(t *testing.T, n int64) valueobject.Money {
	t.Helper()
	p, err := valueobject.NewPrice(decimal.NewFromInt(n))
	require.NoError(t, err)
	return p
}

func money(t *testing.T, n int64) valueobject.Money {
	t.Helper()
	m, err := valueobject.MoneyFromInt(n)
	require.NoError(t, err)
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes compartidos por los tests de caja y web
// ──────────────────────────────────────────────────────────────────────────────

type fakeItemRepo struct {
	items map[string]*entity.Item
	err   error // si está seteado, toda consulta falla
}

func (f *fakeItemRepo) FindByCode(code string) (*entity.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items[code], nil
}
func (f *fakeItemRepo) FindByID(id string) (*entity.Item, error) {
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, nil
}

type fakeSessionStore struct {
	sessions map[string]*checkout.POSSession
}

func (f *fakeSessionStore) Get(id string) (*checkout.POSSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionStore) Save(s *checkout.POSSession) error {
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeSessionStore) Delete(id string) { delete(f.sessions, id) }

type fakeShelfRepo struct {
	records map[string]*entity.ShelfStock
}

func (f *fakeShelfRepo) FindAvailableByItemCode(code string) ([]*entity.ShelfStock, error) {
	var out []*entity.ShelfStock
	for _, r := range f.records {
		if r.ItemCode == code && r.Displayed && r.Quantity.IsPositive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeShelfRepo) FindAvailableByItemCodeForUpdate(code string) ([]*entity.ShelfStock, error) {
	return f.FindAvailableByItemCode(code)
}

func (f *fakeShelfRepo) GetByBatchAndShelf(batchID, shelfCode string) (*entity.ShelfStock, error) {
	for _, r := range f.records {
		if r.BatchID == batchID && r.ShelfCode == shelfCode {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeShelfRepo) Create(s *entity.ShelfStock) error { f.records[s.ID] = s; return nil }
func (f *fakeShelfRepo) Save(s *entity.ShelfStock) error   { f.records[s.ID] = s; return nil }

func (f *fakeShelfRepo) total(itemCode string) decimal.Decimal {
	total := decimal.Zero
	for _, r := range f.records {
		if r.ItemCode == itemCode {
			total = total.Add(r.Quantity.Decimal())
		}
	}
	return total
}

// fakeDiscounts descuento fijo por lote (cero si el lote no está en la tabla).
type fakeDiscounts struct {
	byBatch map[string]int64
}

func (f *fakeDiscounts) CalculateBatchDiscount(_ context.Context, _, batchID string, _ valueobject.Money, _ valueobject.Quantity) (valueobject.Money, error) {
	n, ok := f.byBatch[batchID]
	if !ok {
		return valueobject.ZeroMoney(), nil
	}
	return valueobject.MoneyFromInt(n)
}

type fakeTrxRepo struct {
	saved      []*entity.SaleTransaction
	savedLines map[string][]*entity.SaleTransactionLine
	seq        int
}

func (f *fakeTrxRepo) SavePOSCheckout(trx *entity.SaleTransaction, lines []*entity.SaleTransactionLine) (string, error) {
	f.seq++
	bill := fmt.Sprintf("POS-%06d", f.seq)
	copia := *trx
	copia.BillNumber = bill
	f.saved = append(f.saved, &copia)
	if f.savedLines == nil {
		f.savedLines = map[string][]*entity.SaleTransactionLine{}
	}
	f.savedLines[bill] = lines
	return bill, nil
}

func (f *fakeTrxRepo) GetByBillNumber(bill string) (*entity.SaleTransaction, []*entity.SaleTransactionLine, error) {
	for _, trx := range f.saved {
		if trx.BillNumber == bill {
			return trx, f.savedLines[bill], nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

// fakePOSRunner simula el rollback restaurando la góndola cuando fn falla.
type fakePOSRunner struct {
	shelf *fakeShelfRepo
	trx   *fakeTrxRepo
}

func (f *fakePOSRunner) RunPOS(_ context.Context, fn func(
	repository.ShelfStockRepository,
	repository.TransactionRepository,
) error) error {
	backup := make(map[string]*entity.ShelfStock, len(f.shelf.records))
	for k, v := range f.shelf.records {
		copia := *v
		backup[k] = &copia
	}
	trxBackup := len(f.trx.saved)
	if err := fn(f.shelf, f.trx); err != nil {
		f.shelf.records = backup
		f.trx.saved = f.trx.saved[:trxBackup]
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture POS
// ──────────────────────────────────────────────────────────────────────────────

type posFixture struct {
	uc    *checkout.POSCheckout
	items *fakeItemRepo
	shelf *fakeShelfRepo
	trx   *fakeTrxRepo
	store *fakeSessionStore
}

func newPOSFixture(t *testing.T, discounts map[string]int64) *posFixture {
	t.Helper()
	items := &fakeItemRepo{items: map[string]*entity.Item{
		"ARROZ": {ID: "i1", Code: "ARROZ", Name: "Arroz blanco 1kg", SellingPrice: price(t, 2500)},
		"CAFE":  {ID: "i2", Code: "CAFE", Name: "Café molido 500g", SellingPrice: price(t, 12000)},
	}}
	shelf := &fakeShelfRepo{records: map[string]*entity.ShelfStock{}}
	trx := &fakeTrxRepo{}
	store := &fakeSessionStore{sessions: map[string]*checkout.POSSession{}}
	runner := &fakePOSRunner{shelf: shelf, trx: trx}
	uc := checkout.NewPOSCheckout(runner, items, shelf, &fakeDiscounts{byBatch: discounts}, store, money(t, 10000)).
		WithClock(func() time.Time { return base })
	return &posFixture{uc: uc, items: items, shelf: shelf, trx: trx, store: store}
}

func (fx *posFixture) addShelf(t *testing.T, id, itemID, itemCode, batchID string, quantity int64, placed time.Time) {
	t.Helper()
	fx.shelf.records[id] = &entity.ShelfStock{
		ID:        id,
		ItemID:    itemID,
		ItemCode:  itemCode,
		BatchID:   batchID,
		ShelfCode: "G-01",
		Quantity:  qty(t, quantity),
		UnitPrice: price(t, 2500),
		Displayed: true,
		PlacedAt:  placed,
	}
}

func (fx *posFixture) startSession(t *testing.T) *checkout.POSSession {
	t.Helper()
	s, err := fx.uc.StartSession("cajero1")
	require.NoError(t, err)
	return s
}

var base = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de venta
// ──────────────────────────────────────────────────────────────────────────────

func TestPOS_VentaCompletaEnEfectivo(t *testing.T) {
	fx := newPOSFixture(t, map[string]int64{"b1": 500})
	fx.addShelf(t, "s1", "i1", "ARROZ", "b1", 20, base)
	ctx := context.Background()

	s := fx.startSession(t)
	assert.Equal(t, checkout.StateBuildingCart, s.State)

	_, err := fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 4))
	require.NoError(t, err)

	s, err = fx.uc.Total(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateAwaitingPayment, s.State)
	assert.Equal(t, "10000", s.GrossTotal.String(), "bruto = 2500 × 4")
	assert.Equal(t, "500", s.DiscountTotal.String(), "descuento del lote b1")
	assert.Equal(t, "9500", s.NetTotal.String())

	result, err := fx.uc.Pay(ctx, s.ID, money(t, 10000))
	require.NoError(t, err)
	assert.Equal(t, "POS-000001", result.BillNumber)
	assert.Equal(t, "500", result.Change.String(), "vuelto = 10000 − 9500")

	// La venta descuenta la góndola y deja el registro auditable.
	assert.True(t, fx.shelf.total("ARROZ").Equal(decimal.NewFromInt(16)))
	require.Len(t, fx.trx.saved, 1)
	assert.Equal(t, entity.ChannelPOS, fx.trx.saved[0].Channel)
	assert.Equal(t, entity.PaymentCash, fx.trx.saved[0].PaymentMethod)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, "b1", result.Lines[0].BatchID)
	assert.Equal(t, "9500", result.Lines[0].Subtotal.String())

	final, err := fx.uc.Session(s.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StatePersisted, final.State)
}

func TestPOS_AddLineAcumulaYValidaGondola(t *testing.T) {
	fx := newPOSFixture(t, nil)
	fx.addShelf(t, "s1", "i1", "ARROZ", "b1", 5, base)
	ctx := context.Background()
	s := fx.startSession(t)

	_, err := fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 3))
	require.NoError(t, err)
	s2, err := fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 2))
	require.NoError(t, err)
	require.Len(t, s2.Lines, 1, "mismo artículo acumula en una línea")
	assert.True(t, s2.Lines[0].Quantity.Equal(qty(t, 5)))

	// La sexta unidad excede lo exhibido: chequeo consultivo al agregar.
	_, err = fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 1))
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Deficit.Equal(decimal.NewFromInt(1)))
}

func TestPOS_AddLineArticuloInexistente(t *testing.T) {
	fx := newPOSFixture(t, nil)
	ctx := context.Background()
	s := fx.startSession(t)

	_, err := fx.uc.AddLine(ctx, s.ID, "NO-EXISTE", qty(t, 1))
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

// Un fallo de infraestructura del catálogo sube tal cual; no se disfraza de
// artículo inexistente.
func TestPOS_AddLinePropagaFalloDelCatalogo(t *testing.T) {
	fx := newPOSFixture(t, nil)
	ctx := context.Background()
	s := fx.startSession(t)

	fallo := errors.New("conexión perdida")
	fx.items.err = fallo

	_, err := fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 1))
	assert.ErrorIs(t, err, fallo)
	assert.NotErrorIs(t, err, domain.ErrItemNotFound)
}

func TestPOS_TotalConCarritoVacio(t *testing.T) {
	fx := newPOSFixture(t, nil)
	s := fx.startSession(t)

	_, err := fx.uc.Total(context.Background(), s.ID)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
}

func TestPOS_SesionInexistente(t *testing.T) {
	fx := newPOSFixture(t, nil)

	_, err := fx.uc.AddLine(context.Background(), "no-existe", "ARROZ", qty(t, 1))
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Compra personal
// ──────────────────────────────────────────────────────────────────────────────

func TestPOS_CompraPersonalSobreElTopeRechazaElCheckout(t *testing.T) {
	fx := newPOSFixture(t, map[string]int64{"b1": 500})
	fx.addShelf(t, "s1", "i2", "CAFE", "b1", 10, base)
	ctx := context.Background()
	s := fx.startSession(t)

	// 12000 bruto contra tope de 10000.
	_, err := fx.uc.AddLine(ctx, s.ID, "CAFE", qty(t, 1))
	require.NoError(t, err)
	_, err = fx.uc.SetPersonalPurchase(s.ID, true)
	require.NoError(t, err)

	_, err = fx.uc.Total(ctx, s.ID)
	var limit *domain.LimitExceededError
	require.ErrorAs(t, err, &limit)
	assert.True(t, limit.Limit.Equal(decimal.NewFromInt(10000)))
	assert.True(t, limit.Total.Equal(decimal.NewFromInt(12000)))

	// El rechazo devuelve la sesión a construcción: se puede ajustar y seguir.
	current, err := fx.uc.Session(s.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateBuildingCart, current.State)
}

func TestPOS_CompraPersonalBajoElTopeFuerzaDescuentosACero(t *testing.T) {
	fx := newPOSFixture(t, map[string]int64{"b1": 500})
	fx.addShelf(t, "s1", "i1", "ARROZ", "b1", 10, base)
	ctx := context.Background()
	s := fx.startSession(t)

	_, err := fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 2))
	require.NoError(t, err)
	_, err = fx.uc.SetPersonalPurchase(s.ID, true)
	require.NoError(t, err)

	s, err = fx.uc.Total(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "5000", s.GrossTotal.String())
	assert.True(t, s.DiscountTotal.IsZero(), "compra personal nunca lleva descuento")
	assert.Equal(t, "5000", s.NetTotal.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Cobro
// ──────────────────────────────────────────────────────────────────────────────

func TestPOS_EfectivoInsuficientePermiteReintentar(t *testing.T) {
	fx := newPOSFixture(t, nil)
	fx.addShelf(t, "s1", "i1", "ARROZ", "b1", 10, base)
	ctx := context.Background()
	s := fx.startSession(t)

	_, err := fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 2))
	require.NoError(t, err)
	_, err = fx.uc.Total(ctx, s.ID)
	require.NoError(t, err)

	_, err = fx.uc.Pay(ctx, s.ID, money(t, 3000))
	assert.ErrorIs(t, err, domain.ErrInsufficientCash)

	// El rechazo no consume la sesión ni la góndola: re-prompt del cobro.
	current, err := fx.uc.Session(s.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateAwaitingPayment, current.State)
	assert.True(t, fx.shelf.total("ARROZ").Equal(decimal.NewFromInt(10)))

	result, err := fx.uc.Pay(ctx, s.ID, money(t, 5000))
	require.NoError(t, err)
	assert.True(t, result.Change.IsZero())
}

func TestPOS_StockCambiadoEntreTotalYPagoAbortaCompleto(t *testing.T) {
	fx := newPOSFixture(t, nil)
	fx.addShelf(t, "s1", "i1", "ARROZ", "b1", 10, base)
	ctx := context.Background()
	s := fx.startSession(t)

	_, err := fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 8))
	require.NoError(t, err)
	_, err = fx.uc.Total(ctx, s.ID)
	require.NoError(t, err)

	// Otra caja vació la góndola entre el totalizado y el cobro.
	fx.shelf.records["s1"].Quantity = qty(t, 3)

	_, err = fx.uc.Pay(ctx, s.ID, money(t, 20000))
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	// Ni venta parcial ni registro auditable; la sesión queda cancelada.
	assert.True(t, fx.shelf.total("ARROZ").Equal(decimal.NewFromInt(3)))
	assert.Empty(t, fx.trx.saved)
	current, err := fx.uc.Session(s.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateCancelled, current.State)
}

func TestPOS_PagoSinTotalizarEsErrorDeEstado(t *testing.T) {
	fx := newPOSFixture(t, nil)
	fx.addShelf(t, "s1", "i1", "ARROZ", "b1", 10, base)
	ctx := context.Background()
	s := fx.startSession(t)

	_, err := fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 1))
	require.NoError(t, err)

	_, err = fx.uc.Pay(ctx, s.ID, money(t, 5000))
	assert.ErrorIs(t, err, domain.ErrCheckoutState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestPOS_CancelarAntesDePersistir(t *testing.T) {
	fx := newPOSFixture(t, nil)
	s := fx.startSession(t)

	require.NoError(t, fx.uc.Cancel(s.ID))
	current, err := fx.uc.Session(s.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StateCancelled, current.State)
}

func TestPOS_CancelarVentaPersistidaEsErrorDeEstado(t *testing.T) {
	fx := newPOSFixture(t, nil)
	fx.addShelf(t, "s1", "i1", "ARROZ", "b1", 10, base)
	ctx := context.Background()
	s := fx.startSession(t)

	_, err := fx.uc.AddLine(ctx, s.ID, "ARROZ", qty(t, 1))
	require.NoError(t, err)
	_, err = fx.uc.Total(ctx, s.ID)
	require.NoError(t, err)
	_, err = fx.uc.Pay(ctx, s.ID, money(t, 2500))
	require.NoError(t, err)

	assert.ErrorIs(t, fx.uc.Cancel(s.ID), domain.ErrCheckoutState)
}
