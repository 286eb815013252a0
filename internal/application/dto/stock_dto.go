package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockRequest cuerpo de una recepción de mercancía en bodega.
type ReceiveStockRequest struct {
	ItemCode        string          `json:"item_code"`
	BatchCode       string          `json:"batch_code"`
	Quantity        decimal.Decimal `json:"quantity"`
	Location        string          `json:"location"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
}

// ReceiveStockResponse ids creados por la recepción.
type ReceiveStockResponse struct {
	BatchID string `json:"batch_id"`
	StockID string `json:"stock_id"`
}

// ReservationRequest cuerpo de reserva / liberación de reserva en bodega.
type ReservationRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// StockRecordResponse vista de un registro de pool (cualquiera de los tres).
type StockRecordResponse struct {
	ID         string          `json:"id"`
	ItemCode   string          `json:"item_code"`
	BatchID    string          `json:"batch_id"`
	Location   string          `json:"location,omitempty"`
	ShelfCode  string          `json:"shelf_code,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reserved   decimal.Decimal `json:"reserved,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price,omitempty"`
	StockLevel int             `json:"stock_level,omitempty"`
	Displayed  bool            `json:"displayed,omitempty"`
	BelowMin   bool            `json:"below_min,omitempty"`
	Published  bool            `json:"published,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}
