package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PuntoVenta-api/internal/application/checkout"
	"github.com/jhoicas/PuntoVenta-api/internal/application/stockview"
	"github.com/jhoicas/PuntoVenta-api/internal/application/transfer"
	"github.com/jhoicas/PuntoVenta-api/internal/application/warehouse"
	"github.com/jhoicas/PuntoVenta-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *warehouse.UseCase
	TransferUC  *transfer.Coordinator
	POSUC       *checkout.POSCheckout
	WebUC       *checkout.WebCheckout
	StockViewUC *stockview.UseCase
	TrxRepo     repository.TransactionRepository
	Receipts    checkout.ReceiptGenerator
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Bodega: recepciones y reservas (admin o bodeguero)
	wh := protected.Group("/warehouse", RequireRole("admin", "bodeguero"))
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	wh.Post("/receipts", warehouseHandler.Receive)
	wh.Post("/stocks/:id/reservations", warehouseHandler.Reserve)
	wh.Delete("/stocks/:id/reservations", warehouseHandler.CancelReservation)

	// Traslados bodega → góndola / web (admin o bodeguero)
	transfers := protected.Group("/transfers", RequireRole("admin", "bodeguero"))
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/shelf", transferHandler.ToShelf)
	transfers.Post("/web", transferHandler.ToWeb)

	// Caja registradora (admin o cajero)
	pos := protected.Group("/pos", RequireRole("admin", "cajero"))
	posHandler := NewPOSHandler(deps.POSUC, deps.TrxRepo, deps.Receipts)
	pos.Post("/sessions", posHandler.StartSession)
	pos.Get("/sessions/:id", posHandler.GetSession)
	pos.Post("/sessions/:id/lines", posHandler.AddLine)
	pos.Put("/sessions/:id/personal", posHandler.SetPersonalPurchase)
	pos.Post("/sessions/:id/total", posHandler.Total)
	pos.Post("/sessions/:id/payment", posHandler.Pay)
	pos.Delete("/sessions/:id", posHandler.Cancel)
	pos.Get("/receipts/:billNumber", posHandler.Receipt)

	// Tienda online: carrito, checkout e historial (cualquier usuario autenticado)
	web := protected.Group("/web")
	webHandler := NewWebHandler(deps.WebUC)
	web.Get("/cart", webHandler.GetCart)
	web.Post("/cart/lines", webHandler.AddToCart)
	web.Put("/cart/lines/:itemCode", webHandler.UpdateCartLine)
	web.Delete("/cart/lines/:itemCode", webHandler.RemoveFromCart)
	web.Post("/checkout", webHandler.Checkout)
	web.Get("/orders", webHandler.ListOrders)

	// Vistas de stock (cualquier usuario autenticado)
	stocks := protected.Group("/stocks")
	stockHandler := NewStockHandler(deps.StockViewUC)
	stocks.Get("/:itemCode/warehouse", stockHandler.Warehouse)
	stocks.Get("/:itemCode/shelf", stockHandler.Shelf)
	stocks.Get("/:itemCode/web", stockHandler.Web)
}
