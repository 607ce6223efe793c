package service

import (
	"context"
	"errors"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/dto"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/infra"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/metrics"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CajaService interface {
	Estado(ctx context.Context, actor Actor) (*dto.EstadoCajaResponse, error)
	Abrir(ctx context.Context, actor Actor, req dto.AbrirCajaRequest, idempotencyKey string) (*dto.SesionResponse, error)
	RegistrarMovimiento(ctx context.Context, actor Actor, req dto.MovimientoRequest) (*dto.MovimientoResponse, error)
	ListarMovimientos(ctx context.Context, actor Actor, sesionID uuid.UUID) ([]dto.MovimientoResponse, error)
	Resumen(ctx context.Context, actor Actor, sesionID uuid.UUID) (*dto.ResumenResponse, error)
	Cerrar(ctx context.Context, actor Actor, sesionID uuid.UUID, req dto.CerrarCajaRequest, idempotencyKey string) (*dto.CierreResponse, error)
	ForzarCierre(ctx context.Context, actor Actor, sesionID uuid.UUID, idempotencyKey string) (*dto.CierreResponse, error)
	Reporte(ctx context.Context, actor Actor, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error)
	Historial(ctx context.Context, actor Actor, page, limit int) (*dto.HistorialCierresResponse, error)

	// SesionAbierta returns the site's open session, if any.
	SesionAbierta(ctx context.Context, sedeID uuid.UUID) (*model.SesionCaja, error)
	// SesionVencida returns the site's open session opened before the day of asOf.
	SesionVencida(ctx context.Context, sedeID uuid.UUID, asOf time.Time) (*model.SesionCaja, error)
}

// Locker serializes mutating register operations per site.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// AdminVerifier checks an administrator's credentials for closings whose
// difference exceeds the validation threshold.
type AdminVerifier interface {
	VerificarAdmin(ctx context.Context, username, password string) (*model.Usuario, error)
}

type CajaConfig struct {
	UmbralValidacion decimal.Decimal
	UmbralFirma      decimal.Decimal
}

type cajaService struct {
	repo   repository.CajaRepository
	guard  *Guard
	motor  *Motor
	locker Locker
	admins AdminVerifier
	events EventPublisher
	cfg    CajaConfig
}

func NewCajaService(
	repo repository.CajaRepository,
	guard *Guard,
	motor *Motor,
	locker Locker,
	admins AdminVerifier,
	events EventPublisher,
	cfg CajaConfig,
) CajaService {
	if locker == nil {
		locker = noopLocker{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &cajaService{
		repo:   repo,
		guard:  guard,
		motor:  motor,
		locker: locker,
		admins: admins,
		events: events,
		cfg:    cfg,
	}
}

// ── Estado ───────────────────────────────────────────────────────────────────

func (s *cajaService) Estado(ctx context.Context, actor Actor) (*dto.EstadoCajaResponse, error) {
	estado, err := s.guard.Resolver(ctx, actor)
	if err != nil {
		return nil, err
	}
	ahora, _ := s.guard.Hoy()
	resp := &dto.EstadoCajaResponse{
		Resultado: string(estado.Resultado),
		Flujo:     string(EstadoFlujo(estado.Resultado)),
		Fecha:     ahora.In(s.guard.loc).Format(time.DateOnly),
	}
	if estado.Sesion != nil {
		sr := s.sesionResponse(estado.Sesion)
		resp.Sesion = &sr
	}
	return resp, nil
}

// ── Abrir ────────────────────────────────────────────────────────────────────
// Declaration: validate, resolve the guard under the site lock, insert. The
// partial unique index on open sessions is the last line against a race the
// lock did not catch (Redis restart, expired TTL).

func (s *cajaService) Abrir(ctx context.Context, actor Actor, req dto.AbrirCajaRequest, idempotencyKey string) (*dto.SesionResponse, error) {
	sedeID, err := sedeDe(actor)
	if err != nil {
		return nil, err
	}
	if err := ValidarDeclaracion(req.MontoInicial, req.Confirmado); err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		if prev, err := s.sesionPorClave(ctx, sedeID, idempotencyKey); err != nil || prev != nil {
			return prev, err
		}
	}

	release, err := s.lock(ctx, sedeID, "abrir")
	if err != nil {
		return nil, err
	}
	defer release()

	estado, err := s.guard.Resolver(ctx, actor)
	if err != nil {
		return nil, err
	}
	switch estado.Resultado {
	case ResultadoAbiertaHoy:
		metrics.Conflictos.WithLabelValues("abrir").Inc()
		return nil, conflict("ya existe una caja abierta hoy en esta sede")
	case ResultadoSinCerrar:
		metrics.Conflictos.WithLabelValues("abrir").Inc()
		return nil, conflict("hay una caja de un día anterior sin cerrar: ciérrela o fuerce su cierre antes de abrir")
	}

	ahora, _ := s.guard.Hoy()
	sesion := &model.SesionCaja{
		SedeID:       sedeID,
		AbiertaPor:   actor.UsuarioID,
		MontoInicial: req.MontoInicial.Round(2),
		Estado:       model.EstadoCajaAbierta,
		Notas:        req.Notas,
		OpenedAt:     ahora,
	}
	if idempotencyKey != "" {
		sesion.IdempotencyKey = &idempotencyKey
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		if errors.Is(err, repository.ErrDuplicado) && idempotencyKey != "" {
			if prev, perr := s.sesionPorClave(ctx, sedeID, idempotencyKey); perr != nil || prev != nil {
				return prev, perr
			}
		}
		if errors.Is(err, repository.ErrDuplicado) {
			metrics.Conflictos.WithLabelValues("abrir").Inc()
			return nil, conflict("ya existe una caja abierta en esta sede")
		}
		return nil, storeErr("crear sesión", err, "")
	}

	metrics.CajasAbiertas.WithLabelValues(sedeID.String()).Inc()
	log.Info().
		Str("sede_id", sedeID.String()).
		Str("sesion_id", sesion.ID.String()).
		Str("usuario_id", actor.UsuarioID.String()).
		Str("monto_inicial", sesion.MontoInicial.StringFixed(2)).
		Msg("caja abierta")
	s.publicar(ctx, CajaEvento{
		Tipo: EventoCajaAbierta, SesionID: sesion.ID, SedeID: sedeID,
		UsuarioID: actor.UsuarioID, At: sesion.OpenedAt,
	})

	resp := s.sesionResponse(sesion)
	return &resp, nil
}

// sesionPorClave returns the session created earlier with the same key, nil
// when the key is unused.
func (s *cajaService) sesionPorClave(ctx context.Context, sedeID uuid.UUID, key string) (*dto.SesionResponse, error) {
	prev, err := s.repo.FindSesionByIdempotencyKey(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("buscar sesión por clave", err, "")
	}
	if prev.SedeID != sedeID {
		return nil, conflict("la clave de idempotencia ya fue usada en otra sede")
	}
	resp := s.sesionResponse(prev)
	return &resp, nil
}

// ── RegistrarMovimiento ──────────────────────────────────────────────────────
// Movements are append-only and only accepted while the session is open.

func (s *cajaService) RegistrarMovimiento(ctx context.Context, actor Actor, req dto.MovimientoRequest) (*dto.MovimientoResponse, error) {
	sesionID, err := uuid.Parse(req.SesionID)
	if err != nil {
		return nil, validation("sesion_id inválido")
	}
	switch req.Tipo {
	case model.MovimientoIngreso, model.MovimientoEgreso, model.MovimientoAjuste:
	default:
		return nil, validation("tipo de movimiento inválido: %q", req.Tipo)
	}
	if !req.Monto.IsPositive() {
		return nil, validation("el monto del movimiento debe ser mayor a cero")
	}
	if req.Motivo == "" || req.ResponsableNombre == "" {
		return nil, validation("motivo y responsable son obligatorios")
	}
	var responsableID *uuid.UUID
	if req.ResponsableID != nil {
		id, err := uuid.Parse(*req.ResponsableID)
		if err != nil {
			return nil, validation("responsable_id inválido")
		}
		responsableID = &id
	}

	sesion, err := s.sesionDeSede(ctx, actor, sesionID)
	if err != nil {
		return nil, err
	}
	if !sesion.Abierta() {
		metrics.Conflictos.WithLabelValues("movimiento").Inc()
		return nil, conflict("la sesión de caja ya está cerrada")
	}

	monto := req.Monto.Round(2)
	mov := &model.MovimientoCaja{
		SesionID:          sesion.ID,
		SedeID:            sesion.SedeID,
		Tipo:              req.Tipo,
		Monto:             monto,
		Motivo:            req.Motivo,
		ResponsableNombre: req.ResponsableNombre,
		ResponsableID:     responsableID,
		CreadoPor:         actor.UsuarioID,
		FirmaRequerida:    monto.GreaterThanOrEqual(s.cfg.UmbralFirma),
		FirmaValidada:     req.FirmaValidada,
		VoucherImpreso:    req.VoucherImpreso,
	}
	if err := s.repo.CreateMovimiento(ctx, mov); err != nil {
		if errors.Is(err, repository.ErrSesionNoAbierta) {
			metrics.Conflictos.WithLabelValues("movimiento").Inc()
		}
		return nil, storeErr("registrar movimiento", err, "sesión de caja no encontrada")
	}

	metrics.Movimientos.WithLabelValues(mov.Tipo).Inc()
	log.Info().
		Str("sesion_id", sesion.ID.String()).
		Str("tipo", mov.Tipo).
		Str("monto", mov.Monto.StringFixed(2)).
		Bool("firma_requerida", mov.FirmaRequerida).
		Msg("movimiento de caja registrado")

	resp := movimientoResponse(mov, s.guard.loc)
	return &resp, nil
}

func (s *cajaService) ListarMovimientos(ctx context.Context, actor Actor, sesionID uuid.UUID) ([]dto.MovimientoResponse, error) {
	if _, err := s.sesionDeSede(ctx, actor, sesionID); err != nil {
		return nil, err
	}
	movs, err := s.repo.ListMovimientos(ctx, sesionID)
	if err != nil {
		return nil, storeErr("listar movimientos", err, "")
	}
	resp := make([]dto.MovimientoResponse, len(movs))
	for i := range movs {
		resp[i] = movimientoResponse(&movs[i], s.guard.loc)
	}
	return resp, nil
}

// ── Resumen ──────────────────────────────────────────────────────────────────

func (s *cajaService) Resumen(ctx context.Context, actor Actor, sesionID uuid.UUID) (*dto.ResumenResponse, error) {
	sesion, err := s.sesionDeSede(ctx, actor, sesionID)
	if err != nil {
		return nil, err
	}
	c, err := s.motor.Calcular(ctx, sesion, s.hasta(sesion))
	if err != nil {
		return nil, err
	}
	resp := s.resumenResponse(c)
	return &resp, nil
}

func (s *cajaService) hasta(sesion *model.SesionCaja) time.Time {
	if sesion.ClosedAt != nil {
		return *sesion.ClosedAt
	}
	ahora, _ := s.guard.Hoy()
	return ahora
}

// ── Cerrar ───────────────────────────────────────────────────────────────────
// The closure insert and the estado flip run in one transaction guarded by
// WHERE estado = 'abierta', so a session is never closed twice.

func (s *cajaService) Cerrar(ctx context.Context, actor Actor, sesionID uuid.UUID, req dto.CerrarCajaRequest, idempotencyKey string) (*dto.CierreResponse, error) {
	sedeID, err := sedeDe(actor)
	if err != nil {
		return nil, err
	}
	if req.MontoReal == nil {
		return nil, validation("ingrese el monto contado en caja")
	}
	if req.MontoReal.IsNegative() {
		return nil, validation("el monto contado no puede ser negativo")
	}
	if idempotencyKey != "" {
		if prev, err := s.cierrePorClave(ctx, sedeID, sesionID, idempotencyKey); err != nil || prev != nil {
			return prev, err
		}
	}

	release, err := s.lock(ctx, sedeID, "cerrar")
	if err != nil {
		return nil, err
	}
	defer release()

	sesion, err := s.sesionDeSede(ctx, actor, sesionID)
	if err != nil {
		return nil, err
	}
	if !sesion.Abierta() {
		metrics.Conflictos.WithLabelValues("cerrar").Inc()
		return nil, conflict("la sesión de caja ya está cerrada")
	}

	ahora, _ := s.guard.Hoy()
	c, err := s.motor.Calcular(ctx, sesion, ahora)
	if err != nil {
		return nil, err
	}
	declarado := req.MontoReal.Round(2)
	diferencia := c.Diferencia(declarado)

	var validadoPor *uuid.UUID
	if diferencia.Abs().GreaterThan(s.cfg.UmbralValidacion) {
		admin, err := s.validarAdmin(ctx, req, diferencia)
		if err != nil {
			return nil, err
		}
		validadoPor = &admin.ID
	}

	cierre := c.Cierre(sesion, declarado, actor.UsuarioID, s.guard.InicioDelDia(ahora))
	cierre.ValidadoPor = validadoPor
	cierre.Notas = req.Notas
	cierre.Exportado = req.Exportado
	cierre.Impreso = req.Impreso
	cierre.EnviadoWhatsApp = req.EnviadoWhatsApp
	if idempotencyKey != "" {
		cierre.IdempotencyKey = &idempotencyKey
	}

	if err := s.cerrarSesion(ctx, sesion, cierre, actor, ahora, "cerrar"); err != nil {
		return nil, err
	}

	metrics.Cierres.WithLabelValues("normal").Inc()
	metrics.ObservarDiferencia(cierre.Diferencia)
	log.Info().
		Str("sede_id", sesion.SedeID.String()).
		Str("sesion_id", sesion.ID.String()).
		Str("esperado", cierre.EsperadoFinal.StringFixed(2)).
		Str("real", cierre.RealFinal.StringFixed(2)).
		Str("diferencia", cierre.Diferencia.StringFixed(2)).
		Bool("validado", validadoPor != nil).
		Msg("caja cerrada")
	s.publicar(ctx, CajaEvento{
		Tipo: EventoCajaCerrada, SesionID: sesion.ID, SedeID: sesion.SedeID,
		UsuarioID: actor.UsuarioID, At: ahora,
	})

	resp := cierreResponse(cierre, s.guard.loc)
	return &resp, nil
}

func (s *cajaService) validarAdmin(ctx context.Context, req dto.CerrarCajaRequest, diferencia decimal.Decimal) (*model.Usuario, error) {
	if req.AdminUsername == "" || req.AdminPassword == "" {
		return nil, validation("la diferencia de S/ %s supera S/ %s: se requiere la contraseña de un administrador",
			diferencia.StringFixed(2), s.cfg.UmbralValidacion.StringFixed(2))
	}
	if s.admins == nil {
		return nil, validation("no hay validación de administrador configurada")
	}
	admin, err := s.admins.VerificarAdmin(ctx, req.AdminUsername, req.AdminPassword)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// cerrarSesion stamps the session and writes it with its closure.
func (s *cajaService) cerrarSesion(ctx context.Context, sesion *model.SesionCaja, cierre *model.CierreCaja, actor Actor, ahora time.Time, op string) error {
	esperado, declarado, dif := cierre.EsperadoFinal, cierre.RealFinal, cierre.Diferencia
	cerradaPor := actor.UsuarioID
	sesion.MontoEsperado = &esperado
	sesion.MontoReal = &declarado
	sesion.Diferencia = &dif
	sesion.CerradaPor = &cerradaPor
	sesion.ClosedAt = &ahora
	if cierre.Notas != nil {
		sesion.Notas = cierre.Notas
	}

	err := s.repo.CerrarSesion(ctx, sesion, cierre)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrSesionNoAbierta) || errors.Is(err, repository.ErrDuplicado) {
		metrics.Conflictos.WithLabelValues(op).Inc()
		return conflict("la sesión de caja ya está cerrada")
	}
	return storeErr("cerrar sesión", err, "sesión de caja no encontrada")
}

func (s *cajaService) cierrePorClave(ctx context.Context, sedeID, sesionID uuid.UUID, key string) (*dto.CierreResponse, error) {
	prev, err := s.repo.FindCierreByIdempotencyKey(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("buscar cierre por clave", err, "")
	}
	// Another site's closure is reported like any other foreign session.
	if prev.SedeID != sedeID {
		return nil, notFound("sesión de caja no encontrada")
	}
	if prev.SesionID != sesionID {
		return nil, conflict("la clave de idempotencia ya fue usada en otra sesión")
	}
	resp := cierreResponse(prev, s.guard.loc)
	return &resp, nil
}

// ── ForzarCierre ─────────────────────────────────────────────────────────────
// Only a session from a previous day can be force-closed. The zeroed closure
// and the estado flip share one transaction.

func (s *cajaService) ForzarCierre(ctx context.Context, actor Actor, sesionID uuid.UUID, idempotencyKey string) (*dto.CierreResponse, error) {
	sedeID, err := sedeDe(actor)
	if err != nil {
		return nil, err
	}
	if idempotencyKey != "" {
		if prev, err := s.cierrePorClave(ctx, sedeID, sesionID, idempotencyKey); err != nil || prev != nil {
			return prev, err
		}
	}

	release, err := s.lock(ctx, sedeID, "forzar_cierre")
	if err != nil {
		return nil, err
	}
	defer release()

	sesion, err := s.sesionDeSede(ctx, actor, sesionID)
	if err != nil {
		return nil, err
	}
	if !sesion.Abierta() {
		metrics.Conflictos.WithLabelValues("forzar_cierre").Inc()
		return nil, conflict("la sesión de caja ya está cerrada")
	}
	ahora, inicio := s.guard.Hoy()
	if !sesion.OpenedAt.Before(inicio) {
		metrics.Conflictos.WithLabelValues("forzar_cierre").Inc()
		return nil, conflict("solo se puede forzar el cierre de una caja de un día anterior")
	}

	cierre := CierreForzado(sesion, actor.UsuarioID, s.guard.InicioDelDia(ahora))
	if idempotencyKey != "" {
		cierre.IdempotencyKey = &idempotencyKey
	}
	if err := s.cerrarSesion(ctx, sesion, cierre, actor, ahora, "forzar_cierre"); err != nil {
		return nil, err
	}

	metrics.Cierres.WithLabelValues("forzado").Inc()
	log.Warn().
		Str("sede_id", sesion.SedeID.String()).
		Str("sesion_id", sesion.ID.String()).
		Str("usuario_id", actor.UsuarioID.String()).
		Time("opened_at", sesion.OpenedAt).
		Msg("cierre forzado")
	s.publicar(ctx, CajaEvento{
		Tipo: EventoCajaCerrada, SesionID: sesion.ID, SedeID: sesion.SedeID,
		UsuarioID: actor.UsuarioID, Forzado: true, At: ahora,
	})

	resp := cierreResponse(cierre, s.guard.loc)
	return &resp, nil
}

// ── Reporte / Historial ──────────────────────────────────────────────────────

func (s *cajaService) Reporte(ctx context.Context, actor Actor, sesionID uuid.UUID) (*dto.ReporteCajaResponse, error) {
	sesion, err := s.sesionDeSede(ctx, actor, sesionID)
	if err != nil {
		return nil, err
	}
	movs, err := s.ListarMovimientos(ctx, actor, sesionID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ReporteCajaResponse{Sesion: s.sesionResponse(sesion), Movimientos: movs}

	if !sesion.Abierta() {
		cierre, err := s.repo.FindCierreBySesion(ctx, sesion.ID)
		switch {
		case err == nil:
			cr := cierreResponse(cierre, s.guard.loc)
			resp.Cierre = &cr
			return resp, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, storeErr("buscar cierre", err, "")
		}
	}
	c, err := s.motor.Calcular(ctx, sesion, s.hasta(sesion))
	if err != nil {
		return nil, err
	}
	rr := s.resumenResponse(c)
	resp.Resumen = &rr
	return resp, nil
}

// MaxPaginaHistorial bounds the closure history page so the offset stays small.
const MaxPaginaHistorial = 10000

func (s *cajaService) Historial(ctx context.Context, actor Actor, page, limit int) (*dto.HistorialCierresResponse, error) {
	sedeID, err := sedeDe(actor)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPaginaHistorial {
		page = MaxPaginaHistorial
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	cierres, total, err := s.repo.ListCierres(ctx, sedeID, page, limit)
	if err != nil {
		return nil, storeErr("listar cierres", err, "")
	}
	data := make([]dto.CierreResponse, len(cierres))
	for i := range cierres {
		data[i] = cierreResponse(&cierres[i], s.guard.loc)
	}
	return &dto.HistorialCierresResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

// ── Store queries ────────────────────────────────────────────────────────────

func (s *cajaService) SesionAbierta(ctx context.Context, sedeID uuid.UUID) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx, sedeID)
	if err != nil {
		return nil, storeErr("buscar sesión abierta", err, "no hay caja abierta en la sede")
	}
	return sesion, nil
}

func (s *cajaService) SesionVencida(ctx context.Context, sedeID uuid.UUID, asOf time.Time) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionVencida(ctx, sedeID, s.guard.InicioDelDia(asOf))
	if err != nil {
		return nil, storeErr("buscar sesión vencida", err, "no hay caja vencida en la sede")
	}
	return sesion, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func sedeDe(actor Actor) (uuid.UUID, error) {
	if actor.SedeID == nil {
		return uuid.Nil, validation("el usuario no tiene una sede asignada")
	}
	return *actor.SedeID, nil
}

// sesionDeSede loads a session of the actor's own site. Sessions of other
// sites are reported as not found.
func (s *cajaService) sesionDeSede(ctx context.Context, actor Actor, sesionID uuid.UUID) (*model.SesionCaja, error) {
	sedeID, err := sedeDe(actor)
	if err != nil {
		return nil, err
	}
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, storeErr("buscar sesión", err, "sesión de caja no encontrada")
	}
	if sesion.SedeID != sedeID {
		return nil, notFound("sesión de caja no encontrada")
	}
	return sesion, nil
}

func (s *cajaService) lock(ctx context.Context, sedeID uuid.UUID, op string) (func(), error) {
	return lockSede(ctx, s.locker, sedeID, op)
}

// lockSede takes the per-site register lock. Opening, closing and sale
// registration share the key so a sale never lands inside a closing's window
// after its totals were computed.
func lockSede(ctx context.Context, locker Locker, sedeID uuid.UUID, op string) (func(), error) {
	release, err := locker.Acquire(ctx, "sede:"+sedeID.String())
	if errors.Is(err, infra.ErrLockHeld) {
		metrics.Conflictos.WithLabelValues(op).Inc()
		return nil, conflict("otra operación de caja está en curso en esta sede, intente nuevamente")
	}
	if err != nil {
		return nil, &TransientStoreError{Op: "tomar lock de caja", Err: err}
	}
	return release, nil
}

func (s *cajaService) publicar(ctx context.Context, ev CajaEvento) {
	if err := s.events.Publicar(ctx, ev); err != nil {
		log.Error().Err(err).Str("tipo", ev.Tipo).Str("sesion_id", ev.SesionID.String()).
			Msg("no se pudo publicar el evento de caja")
	}
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context, string) (func(), error) { return func() {}, nil }
