package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PagoRequest is one tender line of a mixed-payment sale.
type PagoRequest struct {
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo tarjeta yape yape_qr"`
	Monto  decimal.Decimal `json:"monto"  validate:"gt=0"`
}

// RegistrarVentaRequest registers a POS sale against the site's open
// register. Pagos is required only when MetodoPago is "mixto".
type RegistrarVentaRequest struct {
	Total         decimal.Decimal `json:"total"          validate:"gt=0"`
	MetodoPago    string          `json:"metodo_pago"    validate:"required,oneof=efectivo tarjeta yape yape_qr credito mixto"`
	Pagos         []PagoRequest   `json:"pagos"          validate:"omitempty,dive"`
	ClienteNombre *string         `json:"cliente_nombre" validate:"omitempty,max=150"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	ID            string          `json:"id"`
	SesionID      string          `json:"sesion_id"`
	Total         decimal.Decimal `json:"total"`
	MetodoPago    string          `json:"metodo_pago"`
	Pagos         []PagoRequest   `json:"pagos"`
	Estado        string          `json:"estado"`
	ClienteNombre *string         `json:"cliente_nombre"`
	CreatedAt     string          `json:"created_at"`
}
