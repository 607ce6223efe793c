package service

import (
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/dto"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"github.com/google/uuid"
)

func (s *cajaService) sesionResponse(sesion *model.SesionCaja) dto.SesionResponse {
	loc := s.guard.loc
	resp := dto.SesionResponse{
		ID:            sesion.ID.String(),
		SedeID:        sesion.SedeID.String(),
		AbiertaPor:    sesion.AbiertaPor.String(),
		MontoInicial:  sesion.MontoInicial,
		MontoEsperado: sesion.MontoEsperado,
		MontoReal:     sesion.MontoReal,
		Diferencia:    sesion.Diferencia,
		Estado:        sesion.Estado,
		CerradaPor:    uuidPtrString(sesion.CerradaPor),
		Notas:         sesion.Notas,
		OpenedAt:      sesion.OpenedAt.In(loc).Format(time.RFC3339),
	}
	if sesion.ClosedAt != nil {
		closed := sesion.ClosedAt.In(loc).Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	return resp
}

func (s *cajaService) resumenResponse(c *Conciliacion) dto.ResumenResponse {
	loc := s.guard.loc
	return dto.ResumenResponse{
		SesionID: c.SesionID.String(),
		Desde:    c.Desde.In(loc).Format(time.RFC3339),
		Hasta:    c.Hasta.In(loc).Format(time.RFC3339),
		Pos: dto.DesglosePos{
			Efectivo:      c.Pos.Efectivo,
			Tarjeta:       c.Pos.Tarjeta,
			Yape:          c.Pos.Yape,
			YapeQR:        c.Pos.YapeQR,
			Credito:       c.Pos.Credito,
			MixtoEfectivo: c.Pos.MixtoEfectivo,
			MixtoTarjeta:  c.Pos.MixtoTarjeta,
			MixtoYape:     c.Pos.MixtoYape,
			Total:         c.Pos.Total,
		},
		Almuerzo: dto.DesgloseAlmuerzo{
			Efectivo: c.Almuerzo.Efectivo,
			Credito:  c.Almuerzo.Credito,
			Tarjeta:  c.Almuerzo.Tarjeta,
			Yape:     c.Almuerzo.Yape,
			Total:    c.Almuerzo.Total,
		},
		Totales: dto.TotalesCaja{
			Efectivo: c.TotalEfectivo,
			Tarjeta:  c.TotalTarjeta,
			Yape:     c.TotalYape,
			YapeQR:   c.TotalYapeQR,
			Credito:  c.TotalCredito,
			Ventas:   c.TotalVentas,
		},
		MontoInicial:     c.MontoInicial,
		TotalIngresos:    c.TotalIngresos,
		TotalEgresos:     c.TotalEgresos,
		TotalAjustes:     c.TotalAjustes,
		PoliticaAjuste:   string(c.PoliticaAjuste),
		EsperadoFinal:    c.EsperadoFinal,
		UmbralValidacion: s.cfg.UmbralValidacion,
	}
}

func movimientoResponse(m *model.MovimientoCaja, loc *time.Location) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:                m.ID.String(),
		SesionID:          m.SesionID.String(),
		Tipo:              m.Tipo,
		Monto:             m.Monto,
		Motivo:            m.Motivo,
		ResponsableNombre: m.ResponsableNombre,
		ResponsableID:     uuidPtrString(m.ResponsableID),
		CreadoPor:         m.CreadoPor.String(),
		FirmaRequerida:    m.FirmaRequerida,
		FirmaValidada:     m.FirmaValidada,
		VoucherImpreso:    m.VoucherImpreso,
		CreatedAt:         m.CreatedAt.In(loc).Format(time.RFC3339),
	}
}

func cierreResponse(c *model.CierreCaja, loc *time.Location) dto.CierreResponse {
	return dto.CierreResponse{
		ID:          c.ID.String(),
		SesionID:    c.SesionID.String(),
		SedeID:      c.SedeID.String(),
		FechaCierre: c.FechaCierre.Format(time.DateOnly),
		Pos: dto.DesglosePos{
			Efectivo:      c.PosEfectivo,
			Tarjeta:       c.PosTarjeta,
			Yape:          c.PosYape,
			YapeQR:        c.PosYapeQR,
			Credito:       c.PosCredito,
			MixtoEfectivo: c.PosMixtoEfectivo,
			MixtoTarjeta:  c.PosMixtoTarjeta,
			MixtoYape:     c.PosMixtoYape,
			Total:         c.PosTotal,
		},
		Almuerzo: dto.DesgloseAlmuerzo{
			Efectivo: c.AlmuerzoEfectivo,
			Credito:  c.AlmuerzoCredito,
			Tarjeta:  c.AlmuerzoTarjeta,
			Yape:     c.AlmuerzoYape,
			Total:    c.AlmuerzoTotal,
		},
		Totales: dto.TotalesCaja{
			Efectivo: c.TotalEfectivo,
			Tarjeta:  c.TotalTarjeta,
			Yape:     c.TotalYape,
			YapeQR:   c.TotalYapeQR,
			Credito:  c.TotalCredito,
			Ventas:   c.TotalVentas,
		},
		TotalIngresos:   c.TotalIngresos,
		TotalEgresos:    c.TotalEgresos,
		MontoInicial:    c.MontoInicial,
		EsperadoFinal:   c.EsperadoFinal,
		RealFinal:       c.RealFinal,
		Diferencia:      c.Diferencia,
		CerradoPor:      c.CerradoPor.String(),
		ValidadoPor:     uuidPtrString(c.ValidadoPor),
		Exportado:       c.Exportado,
		Impreso:         c.Impreso,
		EnviadoWhatsApp: c.EnviadoWhatsApp,
		Forzado:         c.Forzado,
		Notas:           c.Notas,
		CreatedAt:       c.CreatedAt.In(loc).Format(time.RFC3339),
	}
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
