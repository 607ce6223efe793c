package service

import (
	"context"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/dto"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type VentaService interface {
	Registrar(ctx context.Context, actor Actor, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
}

type ventaService struct {
	repo   repository.VentaRepository
	guard  *Guard
	locker Locker
}

func NewVentaService(repo repository.VentaRepository, guard *Guard, locker Locker) VentaService {
	if locker == nil {
		locker = noopLocker{}
	}
	return &ventaService{repo: repo, guard: guard, locker: locker}
}

// ── Registrar ────────────────────────────────────────────────────────────────
// A sale is accepted only while the site's register is open today. Mixed
// payments must carry at least two tender lines adding up to the total.
// The site lock is held from the second guard check to the insert, so a
// concurrent closing either counts the sale or rejects it.

func (s *ventaService) Registrar(ctx context.Context, actor Actor, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	total := req.Total.Round(2)
	if !total.IsPositive() {
		return nil, validation("el total de la venta debe ser mayor a cero")
	}
	pagos, err := validarPagos(req.MetodoPago, total, req.Pagos)
	if err != nil {
		return nil, err
	}

	sesion, err := s.guard.PuedeOperar(ctx, actor)
	if err != nil {
		return nil, err
	}
	release, err := lockSede(ctx, s.locker, sesion.SedeID, "venta")
	if err != nil {
		return nil, err
	}
	defer release()
	// Re-checked under the lock: a closing may have finished in between.
	if sesion, err = s.guard.PuedeOperar(ctx, actor); err != nil {
		return nil, err
	}

	ahora, _ := s.guard.Hoy()
	venta := &model.Venta{
		SedeID:        sesion.SedeID,
		SesionID:      sesion.ID,
		UsuarioID:     actor.UsuarioID,
		Total:         total,
		MetodoPago:    req.MetodoPago,
		Estado:        model.EstadoVentaCompletada,
		ClienteNombre: req.ClienteNombre,
		CreatedAt:     ahora,
		Pagos:         pagos,
	}
	if err := s.repo.Create(ctx, venta); err != nil {
		return nil, storeErr("registrar venta", err, "")
	}

	log.Info().
		Str("sede_id", venta.SedeID.String()).
		Str("venta_id", venta.ID.String()).
		Str("metodo", venta.MetodoPago).
		Str("total", venta.Total.StringFixed(2)).
		Msg("venta registrada")

	resp := &dto.VentaResponse{
		ID:            venta.ID.String(),
		SesionID:      venta.SesionID.String(),
		Total:         venta.Total,
		MetodoPago:    venta.MetodoPago,
		Estado:        venta.Estado,
		ClienteNombre: venta.ClienteNombre,
		CreatedAt:     venta.CreatedAt.In(s.guard.loc).Format(time.RFC3339),
	}
	for _, p := range venta.Pagos {
		resp.Pagos = append(resp.Pagos, dto.PagoRequest{Metodo: p.Metodo, Monto: p.Monto})
	}
	return resp, nil
}

func validarPagos(metodo string, total decimal.Decimal, pagos []dto.PagoRequest) ([]model.VentaPago, error) {
	switch metodo {
	case model.MetodoEfectivo, model.MetodoTarjeta, model.MetodoYape, model.MetodoYapeQR, model.MetodoCredito:
		if len(pagos) > 0 {
			return nil, validation("solo las ventas mixtas llevan detalle de pagos")
		}
		return nil, nil
	case model.MetodoMixto:
	default:
		return nil, validation("método de pago inválido: %q", metodo)
	}

	if len(pagos) < 2 {
		return nil, validation("una venta mixta necesita al menos dos pagos")
	}
	suma := decimal.Zero
	out := make([]model.VentaPago, 0, len(pagos))
	for _, p := range pagos {
		switch p.Metodo {
		case model.MetodoEfectivo, model.MetodoTarjeta, model.MetodoYape, model.MetodoYapeQR:
		default:
			return nil, validation("método %q no admitido en un pago mixto", p.Metodo)
		}
		if !p.Monto.IsPositive() {
			return nil, validation("cada pago debe ser mayor a cero")
		}
		monto := p.Monto.Round(2)
		suma = suma.Add(monto)
		out = append(out, model.VentaPago{Metodo: p.Metodo, Monto: monto})
	}
	if !suma.Equal(total) {
		return nil, validation("los pagos suman S/ %s y la venta S/ %s", suma.StringFixed(2), total.StringFixed(2))
	}
	return out, nil
}
