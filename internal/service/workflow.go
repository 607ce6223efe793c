package service

import "github.com/shopspring/decimal"

// Flujo is the screen the kiosk shows before letting the user into the POS.
type Flujo string

const (
	FlujoAdvertencia Flujo = "unclosed_warning"
	FlujoDeclaracion Flujo = "declaration"
	FlujoAbierta     Flujo = "open"
	FlujoNoAplica    Flujo = "not_applicable"
)

// EstadoFlujo maps a guard outcome to the workflow entry state.
func EstadoFlujo(r Resultado) Flujo {
	switch r {
	case ResultadoSinCerrar:
		return FlujoAdvertencia
	case ResultadoAbiertaHoy:
		return FlujoAbierta
	case ResultadoRequiereDeclaracion:
		return FlujoDeclaracion
	default:
		return FlujoNoAplica
	}
}

// ValidarDeclaracion checks an opening declaration before any write. A nil
// amount was never declared.
func ValidarDeclaracion(monto *decimal.Decimal, confirmado bool) error {
	if monto == nil {
		return validation("ingrese el monto inicial contado")
	}
	if monto.IsNegative() {
		return validation("el monto inicial no puede ser negativo")
	}
	if !confirmado {
		return validation("confirme el monto inicial antes de abrir la caja")
	}
	return nil
}
