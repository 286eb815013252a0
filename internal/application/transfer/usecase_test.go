package transfer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PuntoVenta-api/internal/application/transfer"
	"github.com/jhoicas/PuntoVenta-api/internal/domain"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/entity"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/valueobject"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

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

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El runner de transacciones simula el rollback restaurando
// el estado previo cuando fn falla, igual que haría la transacción real.
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

type fakeBatchRepo struct {
	batches map[string]*entity.Batch
}

func (f *fakeBatchRepo) Create(b *entity.Batch) error { f.batches[b.ID] = b; return nil }
func (f *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	return f.batches[id], nil
}
func (f *fakeBatchRepo) GetByIDForUpdate(id string) (*entity.Batch, error) {
	return f.batches[id], nil
}
func (f *fakeBatchRepo) Save(b *entity.Batch) error { f.batches[b.ID] = b; return nil }

type fakeWarehouseRepo struct {
	records map[string]*entity.WarehouseStock
}

func (f *fakeWarehouseRepo) FindAvailableByItemCode(code string) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for _, r := range f.records {
		if r.ItemCode == code && r.Available().IsPositive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeWarehouseRepo) FindAvailableByItemCodeForUpdate(code string) ([]*entity.WarehouseStock, error) {
	return f.FindAvailableByItemCode(code)
}

func (f *fakeWarehouseRepo) GetByID(id string) (*entity.WarehouseStock, error) {
	return f.records[id], nil
}

func (f *fakeWarehouseRepo) GetByIDForUpdate(id string) (*entity.WarehouseStock, error) {
	return f.records[id], nil
}

func (f *fakeWarehouseRepo) Create(s *entity.WarehouseStock) error { f.records[s.ID] = s; return nil }
func (f *fakeWarehouseRepo) Save(s *entity.WarehouseStock) error   { f.records[s.ID] = s; return nil }

type fakeShelfRepo struct {
	records map[string]*entity.ShelfStock
}

func (f *fakeShelfRepo) FindAvailableByItemCode(code string) ([]*entity.ShelfStock, error) {
	var out []*entity.ShelfStock
	for _, r := range f.records {
		if r.ItemCode == code && r.Quantity.IsPositive() {
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

type fakeWebRepo struct {
	records map[string]*entity.WebInventory
}

func (f *fakeWebRepo) FindAvailableByItemCode(code string) ([]*entity.WebInventory, error) {
	var out []*entity.WebInventory
	for _, r := range f.records {
		if r.ItemCode == code && r.Quantity.IsPositive() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeWebRepo) FindAvailableByItemCodeForUpdate(code string) ([]*entity.WebInventory, error) {
	return f.FindAvailableByItemCode(code)
}

func (f *fakeWebRepo) GetByBatch(batchID string) (*entity.WebInventory, error) {
	for _, r := range f.records {
		if r.BatchID == batchID {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeWebRepo) Create(w *entity.WebInventory) error { f.records[w.ID] = w; return nil }
func (f *fakeWebRepo) Save(w *entity.WebInventory) error   { f.records[w.ID] = w; return nil }

type fakeTxRunner struct {
	batches *fakeBatchRepo
	wh      *fakeWarehouseRepo
	shelf   *fakeShelfRepo
	web     *fakeWebRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	repository.BatchRepository,
	repository.WarehouseStockRepository,
	repository.ShelfStockRepository,
	repository.WebInventoryRepository,
) error) error {
	batchBackup := snapshot(f.batches.batches)
	whBackup := snapshot(f.wh.records)
	shelfBackup := snapshot(f.shelf.records)
	webBackup := snapshot(f.web.records)

	if err := fn(f.batches, f.wh, f.shelf, f.web); err != nil {
		f.batches.batches = batchBackup
		f.wh.records = whBackup
		f.shelf.records = shelfBackup
		f.web.records = webBackup
		return err
	}
	return nil
}

func snapshot[V any](m map[string]*V) map[string]*V {
	out := make(map[string]*V, len(m))
	for k, v := range m {
		copia := *v
		out[k] = &copia
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	uc      *transfer.Coordinator
	items   *fakeItemRepo
	batches *fakeBatchRepo
	wh      *fakeWarehouseRepo
	shelf   *fakeShelfRepo
	web     *fakeWebRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	items := &fakeItemRepo{items: map[string]*entity.Item{
		"ARROZ": {ID: "i1", Code: "ARROZ", Name: "Arroz blanco 1kg", SellingPrice: price(t, 2500)},
	}}
	batches := &fakeBatchRepo{batches: map[string]*entity.Batch{}}
	wh := &fakeWarehouseRepo{records: map[string]*entity.WarehouseStock{}}
	shelf := &fakeShelfRepo{records: map[string]*entity.ShelfStock{}}
	web := &fakeWebRepo{records: map[string]*entity.WebInventory{}}
	runner := &fakeTxRunner{batches: batches, wh: wh, shelf: shelf, web: web}
	uc := transfer.NewCoordinator(runner, items).
		WithClock(func() time.Time { return t0 })
	return &fixture{
		uc:      uc,
		items:   items,
		batches: batches,
		wh:      wh,
		shelf:   shelf,
		web:     web,
	}
}

// addWarehouse alta de un registro de bodega con su lote en el libro.
func (fx *fixture) addWarehouse(t *testing.T, id, batchID string, quantity int64, expiry *time.Time, received time.Time) {
	t.Helper()
	q := qty(t, quantity)
	fx.batches.batches[batchID] = &entity.Batch{
		ID:                batchID,
		ItemID:            "i1",
		Code:              batchID,
		QuantityReceived:  q,
		QuantityAvailable: q,
		ExpiryDate:        expiry,
		ReceivedAt:        received,
	}
	fx.wh.records[id] = &entity.WarehouseStock{
		ID:         id,
		ItemID:     "i1",
		ItemCode:   "ARROZ",
		BatchID:    batchID,
		Location:   "A-01",
		Quantity:   q,
		ExpiryDate: expiry,
		ReceivedAt: received,
	}
}

func (fx *fixture) warehouseTotal(t *testing.T) valueobject.Quantity {
	t.Helper()
	total := valueobject.ZeroQuantity()
	for _, r := range fx.wh.records {
		total = total.Add(r.Quantity)
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// ToShelf
// ──────────────────────────────────────────────────────────────────────────────

func TestToShelf_CreaRegistroYDescuentaBodega(t *testing.T) {
	fx := newFixture(t)
	fx.addWarehouse(t, "w1", "b1", 100, nil, t0)

	result, err := fx.uc.ToShelf(context.Background(), transfer.ToShelfInput{
		ItemCode:     "ARROZ",
		ShelfCode:    "G-12",
		Quantity:     qty(t, 30),
		MinThreshold: qty(t, 5),
		UserID:       "bodeguero1",
	})
	require.NoError(t, err)

	assert.True(t, result.Total.Equal(qty(t, 30)))
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "b1", result.Entries[0].BatchID)

	assert.True(t, fx.wh.records["w1"].Quantity.Equal(qty(t, 70)),
		"la bodega debe quedar descontada")
	assert.True(t, fx.batches.batches["b1"].QuantityAvailable.Equal(qty(t, 70)),
		"lo que sale de bodega deja de estar disponible en el lote")

	created, err := fx.shelf.GetByBatchAndShelf("b1", "G-12")
	require.NoError(t, err)
	require.NotNil(t, created, "el primer traslado crea el registro de góndola")
	assert.True(t, created.Quantity.Equal(qty(t, 30)))
	assert.True(t, created.Displayed)
	assert.Equal(t, "2500", created.UnitPrice.String(),
		"el precio de góndola sale del catálogo del artículo")
}

func TestToShelf_SegundoTrasladoIncrementaElRegistro(t *testing.T) {
	fx := newFixture(t)
	fx.addWarehouse(t, "w1", "b1", 100, nil, t0)

	in := transfer.ToShelfInput{
		ItemCode:     "ARROZ",
		ShelfCode:    "G-12",
		Quantity:     qty(t, 20),
		MinThreshold: qty(t, 5),
		UserID:       "bodeguero1",
	}
	_, err := fx.uc.ToShelf(context.Background(), in)
	require.NoError(t, err)
	_, err = fx.uc.ToShelf(context.Background(), in)
	require.NoError(t, err)

	record, _ := fx.shelf.GetByBatchAndShelf("b1", "G-12")
	require.NotNil(t, record)
	assert.True(t, record.Quantity.Equal(qty(t, 40)))
	assert.Len(t, fx.shelf.records, 1, "mismo lote y góndola: un solo registro")
}

func TestToShelf_InsuficienciaNoAplicaNada(t *testing.T) {
	fx := newFixture(t)
	fx.addWarehouse(t, "w1", "b1", 100, nil, t0)

	_, err := fx.uc.ToShelf(context.Background(), transfer.ToShelfInput{
		ItemCode:     "ARROZ",
		ShelfCode:    "G-12",
		Quantity:     qty(t, 150),
		MinThreshold: qty(t, 5),
		UserID:       "bodeguero1",
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Deficit.Equal(decimal.NewFromInt(50)),
		"pedir 150 con 100 disponibles reporta déficit 50")

	assert.True(t, fx.warehouseTotal(t).Equal(qty(t, 100)),
		"ante el fallo la bodega queda intacta: nunca traslado parcial")
	assert.True(t, fx.batches.batches["b1"].QuantityAvailable.Equal(qty(t, 100)),
		"el libro de lotes tampoco se toca")
	assert.Empty(t, fx.shelf.records)
}

func TestToShelf_SinStockEnBodega(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.ToShelf(context.Background(), transfer.ToShelfInput{
		ItemCode:     "ARROZ",
		ShelfCode:    "G-12",
		Quantity:     qty(t, 1),
		MinThreshold: qty(t, 0),
		UserID:       "bodeguero1",
	})
	assert.ErrorIs(t, err, domain.ErrNoWarehouseStock)
}

func TestToShelf_UmbralMaximoBloqueaElTraslado(t *testing.T) {
	fx := newFixture(t)
	fx.addWarehouse(t, "w1", "b1", 100, nil, t0)
	max := qty(t, 10)

	_, err := fx.uc.ToShelf(context.Background(), transfer.ToShelfInput{
		ItemCode:     "ARROZ",
		ShelfCode:    "G-12",
		Quantity:     qty(t, 25),
		MinThreshold: qty(t, 2),
		MaxThreshold: &max,
		UserID:       "bodeguero1",
	})
	assert.ErrorIs(t, err, domain.ErrShelfCapacity)
	assert.True(t, fx.warehouseTotal(t).Equal(qty(t, 100)), "rollback completo")
}

func TestToShelf_RepartePorVencimientoPrimero(t *testing.T) {
	fx := newFixture(t)
	venceProximo := t0.Add(10 * 24 * time.Hour)
	venceLejano := t0.Add(90 * 24 * time.Hour)
	// b1 llegó primero pero vence después; b2 debe salir primero.
	fx.addWarehouse(t, "w1", "b1", 50, &venceLejano, t0)
	fx.addWarehouse(t, "w2", "b2", 20, &venceProximo, t0.Add(time.Hour))

	result, err := fx.uc.ToShelf(context.Background(), transfer.ToShelfInput{
		ItemCode:     "ARROZ",
		ShelfCode:    "G-12",
		Quantity:     qty(t, 30),
		MinThreshold: qty(t, 2),
		UserID:       "bodeguero1",
	})
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, "b2", result.Entries[0].BatchID, "vence antes, sale antes")
	assert.True(t, result.Entries[0].Quantity.Equal(qty(t, 20)))
	assert.Equal(t, "b1", result.Entries[1].BatchID)
	assert.True(t, result.Entries[1].Quantity.Equal(qty(t, 10)))
}

func TestToShelf_ItemInexistente(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.uc.ToShelf(context.Background(), transfer.ToShelfInput{
		ItemCode:     "NO-EXISTE",
		ShelfCode:    "G-12",
		Quantity:     qty(t, 1),
		MinThreshold: qty(t, 0),
		UserID:       "bodeguero1",
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

// Un fallo de infraestructura del catálogo sube tal cual; no se disfraza de
// artículo inexistente.
func TestToShelf_PropagaFalloDelCatalogo(t *testing.T) {
	fx := newFixture(t)
	fx.addWarehouse(t, "w1", "b1", 100, nil, t0)

	fallo := errors.New("conexión perdida")
	fx.items.err = fallo

	_, err := fx.uc.ToShelf(context.Background(), transfer.ToShelfInput{
		ItemCode:     "ARROZ",
		ShelfCode:    "G-12",
		Quantity:     qty(t, 1),
		MinThreshold: qty(t, 0),
		UserID:       "bodeguero1",
	})
	assert.ErrorIs(t, err, fallo)
	assert.NotErrorIs(t, err, domain.ErrItemNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ToWeb
// ──────────────────────────────────────────────────────────────────────────────

func TestToWeb_CreaRegistroConNivelCien(t *testing.T) {
	fx := newFixture(t)
	fx.addWarehouse(t, "w1", "b1", 100, nil, t0)

	result, err := fx.uc.ToWeb(context.Background(), transfer.ToWebInput{
		ItemCode: "ARROZ",
		Quantity: qty(t, 40),
		UserID:   "bodeguero1",
	})
	require.NoError(t, err)
	assert.True(t, result.Total.Equal(qty(t, 40)))

	record, _ := fx.web.GetByBatch("b1")
	require.NotNil(t, record)
	assert.True(t, record.Published)
	assert.Equal(t, 100, record.StockLevel, "un registro recién creado arranca lleno")
	assert.True(t, record.BaseQuantity.Equal(qty(t, 40)))
}

func TestToWeb_IncrementaYSubeMarcaDeAgua(t *testing.T) {
	fx := newFixture(t)
	fx.addWarehouse(t, "w1", "b1", 100, nil, t0)

	_, err := fx.uc.ToWeb(context.Background(), transfer.ToWebInput{
		ItemCode: "ARROZ", Quantity: qty(t, 40), UserID: "bodeguero1",
	})
	require.NoError(t, err)
	_, err = fx.uc.ToWeb(context.Background(), transfer.ToWebInput{
		ItemCode: "ARROZ", Quantity: qty(t, 20), UserID: "bodeguero1",
	})
	require.NoError(t, err)

	record, _ := fx.web.GetByBatch("b1")
	require.NotNil(t, record)
	assert.True(t, record.Quantity.Equal(qty(t, 60)))
	assert.True(t, record.BaseQuantity.Equal(qty(t, 60)))
	assert.Equal(t, 100, record.StockLevel)
}

func TestToWeb_IgnoraLotesVencidosEnBodega(t *testing.T) {
	fx := newFixture(t)
	ayer := t0.Add(-24 * time.Hour)
	fx.addWarehouse(t, "w1", "b1", 100, &ayer, t0.Add(-48*time.Hour))
	fx.addWarehouse(t, "w2", "b2", 10, nil, t0)

	// El asignador salta el lote vencido: solo hay 10 útiles.
	_, err := fx.uc.ToWeb(context.Background(), transfer.ToWebInput{
		ItemCode: "ARROZ", Quantity: qty(t, 50), UserID: "bodeguero1",
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Deficit.Equal(decimal.NewFromInt(40)))
}
