package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PoliticaAjuste says how "ajuste" movements enter the expected cash.
type PoliticaAjuste string

const (
	AjusteExcluir PoliticaAjuste = "excluir"
	AjusteIngreso PoliticaAjuste = "ingreso"
	AjusteEgreso  PoliticaAjuste = "egreso"
)

// ParsePoliticaAjuste accepts the CAJA_AJUSTE_POLITICA values; empty means excluir.
func ParsePoliticaAjuste(s string) (PoliticaAjuste, error) {
	switch p := PoliticaAjuste(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return AjusteExcluir, nil
	case AjusteExcluir, AjusteIngreso, AjusteEgreso:
		return p, nil
	default:
		return "", fmt.Errorf("política de ajuste desconocida %q", s)
	}
}

// NotaCierreForzado is written on every closure synthesized for a stale session.
const NotaCierreForzado = "Cierre forzado: caja de un día anterior sin cerrar. No se contó el efectivo."

type DesglosePos struct {
	Efectivo decimal.Decimal
	Tarjeta  decimal.Decimal
	Yape     decimal.Decimal
	YapeQR   decimal.Decimal
	Credito  decimal.Decimal
	// Splits of mixed-payment sales; yape_qr splits are folded into MixtoYape.
	MixtoEfectivo decimal.Decimal
	MixtoTarjeta  decimal.Decimal
	MixtoYape     decimal.Decimal
	Total         decimal.Decimal
}

type DesgloseAlmuerzo struct {
	Efectivo, Credito, Tarjeta, Yape, Total decimal.Decimal
}

// Conciliacion is the expected-cash computation for one session over
// [Desde, Hasta).
type Conciliacion struct {
	SesionID uuid.UUID
	Desde    time.Time
	Hasta    time.Time

	Pos      DesglosePos
	Almuerzo DesgloseAlmuerzo

	TotalEfectivo decimal.Decimal
	TotalTarjeta  decimal.Decimal
	TotalYape     decimal.Decimal
	TotalYapeQR   decimal.Decimal
	TotalCredito  decimal.Decimal
	TotalVentas   decimal.Decimal

	TotalIngresos decimal.Decimal
	TotalEgresos  decimal.Decimal
	// TotalAjustes is reported even when the policy excludes it.
	TotalAjustes   decimal.Decimal
	PoliticaAjuste PoliticaAjuste

	MontoInicial  decimal.Decimal
	EsperadoFinal decimal.Decimal
}

// Diferencia is declared minus expected: negative means missing cash.
func (c *Conciliacion) Diferencia(declarado decimal.Decimal) decimal.Decimal {
	return declarado.Sub(c.EsperadoFinal)
}

// Cierre builds the closure row for a declared amount.
func (c *Conciliacion) Cierre(s *model.SesionCaja, declarado decimal.Decimal, cerradoPor uuid.UUID, fecha time.Time) *model.CierreCaja {
	return &model.CierreCaja{
		SesionID:    s.ID,
		SedeID:      s.SedeID,
		FechaCierre: fecha,

		PosEfectivo:      c.Pos.Efectivo,
		PosTarjeta:       c.Pos.Tarjeta,
		PosYape:          c.Pos.Yape,
		PosYapeQR:        c.Pos.YapeQR,
		PosCredito:       c.Pos.Credito,
		PosMixtoEfectivo: c.Pos.MixtoEfectivo,
		PosMixtoTarjeta:  c.Pos.MixtoTarjeta,
		PosMixtoYape:     c.Pos.MixtoYape,
		PosTotal:         c.Pos.Total,

		AlmuerzoEfectivo: c.Almuerzo.Efectivo,
		AlmuerzoCredito:  c.Almuerzo.Credito,
		AlmuerzoTarjeta:  c.Almuerzo.Tarjeta,
		AlmuerzoYape:     c.Almuerzo.Yape,
		AlmuerzoTotal:    c.Almuerzo.Total,

		TotalEfectivo: c.TotalEfectivo,
		TotalTarjeta:  c.TotalTarjeta,
		TotalYape:     c.TotalYape,
		TotalYapeQR:   c.TotalYapeQR,
		TotalCredito:  c.TotalCredito,
		TotalVentas:   c.TotalVentas,

		TotalIngresos: c.TotalIngresos,
		TotalEgresos:  c.TotalEgresos,
		MontoInicial:  c.MontoInicial,
		EsperadoFinal: c.EsperadoFinal,
		RealFinal:     declarado,
		Diferencia:    c.Diferencia(declarado),
		CerradoPor:    cerradoPor,
	}
}

// CierreForzado is the zeroed closure of a stale session: nothing was
// counted, so the whole opening float shows as missing.
func CierreForzado(s *model.SesionCaja, cerradoPor uuid.UUID, fecha time.Time) *model.CierreCaja {
	nota := NotaCierreForzado
	return &model.CierreCaja{
		SesionID:      s.ID,
		SedeID:        s.SedeID,
		FechaCierre:   fecha,
		MontoInicial:  s.MontoInicial,
		EsperadoFinal: s.MontoInicial,
		RealFinal:     decimal.Zero,
		Diferencia:    s.MontoInicial.Neg(),
		CerradoPor:    cerradoPor,
		Forzado:       true,
		Notas:         &nota,
	}
}

// Motor computes reconciliations. It only reads.
type Motor struct {
	caja    repository.CajaRepository
	ventas  repository.VentaRepository
	pedidos repository.PedidoRepository
	ajuste  PoliticaAjuste
}

func NewMotor(caja repository.CajaRepository, ventas repository.VentaRepository, pedidos repository.PedidoRepository, ajuste PoliticaAjuste) *Motor {
	if ajuste == "" {
		ajuste = AjusteExcluir
	}
	return &Motor{caja: caja, ventas: ventas, pedidos: pedidos, ajuste: ajuste}
}

// Calcular reconciles s over [s.OpenedAt, hasta). Sales and lunch orders are
// scoped to the session's site. Calling it twice with the same data gives the
// same result.
//
//	esperado = inicial + ingresos - egresos + efectivo (POS + mixto en efectivo + almuerzos)
func (m *Motor) Calcular(ctx context.Context, s *model.SesionCaja, hasta time.Time) (*Conciliacion, error) {
	if hasta.Before(s.OpenedAt) {
		hasta = s.OpenedAt
	}
	pos, err := m.ventas.SumPorMetodo(ctx, s.SedeID, s.OpenedAt, hasta)
	if err != nil {
		return nil, storeErr("sumar ventas", err, "")
	}
	mixtos, err := m.ventas.SumPagosMixtos(ctx, s.SedeID, s.OpenedAt, hasta)
	if err != nil {
		return nil, storeErr("sumar pagos mixtos", err, "")
	}
	almuerzos, err := m.pedidos.SumPorMetodo(ctx, s.SedeID, s.OpenedAt, hasta)
	if err != nil {
		return nil, storeErr("sumar almuerzos", err, "")
	}
	movs, err := m.caja.SumMovimientosPorTipo(ctx, s.ID)
	if err != nil {
		return nil, storeErr("sumar movimientos", err, "")
	}

	c := &Conciliacion{
		SesionID:       s.ID,
		Desde:          s.OpenedAt,
		Hasta:          hasta,
		MontoInicial:   s.MontoInicial,
		PoliticaAjuste: m.ajuste,
	}

	c.Pos = DesglosePos{
		Efectivo:      pos[model.MetodoEfectivo],
		Tarjeta:       pos[model.MetodoTarjeta],
		Yape:          pos[model.MetodoYape],
		YapeQR:        pos[model.MetodoYapeQR],
		Credito:       pos[model.MetodoCredito],
		MixtoEfectivo: mixtos[model.MetodoEfectivo],
		MixtoTarjeta:  mixtos[model.MetodoTarjeta],
		MixtoYape:     mixtos[model.MetodoYape].Add(mixtos[model.MetodoYapeQR]),
	}
	c.Pos.Total = sumar(c.Pos.Efectivo, c.Pos.Tarjeta, c.Pos.Yape, c.Pos.YapeQR, c.Pos.Credito, pos[model.MetodoMixto])

	c.Almuerzo = DesgloseAlmuerzo{
		Efectivo: almuerzos[model.MetodoEfectivo],
		Credito:  almuerzos[model.MetodoCredito],
		Tarjeta:  almuerzos[model.MetodoTarjeta],
		Yape:     almuerzos[model.MetodoYape],
	}
	c.Almuerzo.Total = sumar(c.Almuerzo.Efectivo, c.Almuerzo.Credito, c.Almuerzo.Tarjeta, c.Almuerzo.Yape)

	c.TotalEfectivo = sumar(c.Pos.Efectivo, c.Pos.MixtoEfectivo, c.Almuerzo.Efectivo)
	c.TotalTarjeta = sumar(c.Pos.Tarjeta, c.Pos.MixtoTarjeta, c.Almuerzo.Tarjeta)
	c.TotalYape = sumar(c.Pos.Yape, c.Pos.MixtoYape, c.Almuerzo.Yape)
	c.TotalYapeQR = c.Pos.YapeQR
	c.TotalCredito = sumar(c.Pos.Credito, c.Almuerzo.Credito)
	c.TotalVentas = sumar(c.Pos.Total, c.Almuerzo.Total)

	c.TotalIngresos = movs[model.MovimientoIngreso]
	c.TotalEgresos = movs[model.MovimientoEgreso]
	c.TotalAjustes = movs[model.MovimientoAjuste]
	switch m.ajuste {
	case AjusteIngreso:
		c.TotalIngresos = c.TotalIngresos.Add(c.TotalAjustes)
	case AjusteEgreso:
		c.TotalEgresos = c.TotalEgresos.Add(c.TotalAjustes)
	}

	c.EsperadoFinal = c.MontoInicial.Add(c.TotalIngresos).Sub(c.TotalEgresos).Add(c.TotalEfectivo)
	return c, nil
}

func sumar(vs ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, vs...)
}
