package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/infra"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// ── In-memory CajaRepository ─────────────────────────────────────────────────
// Mirrors the store constraints: one open session per site, unique
// idempotency keys, one closure per session, movements only on open sessions.

type fakeCajaRepo struct {
	mu          sync.Mutex
	sesiones    map[uuid.UUID]*model.SesionCaja
	movimientos []model.MovimientoCaja
	cierres     map[uuid.UUID]*model.CierreCaja // by sesion
	falla       error                           // returned by every call when set
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{
		sesiones: make(map[uuid.UUID]*model.SesionCaja),
		cierres:  make(map[uuid.UUID]*model.CierreCaja),
	}
}

func (r *fakeCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falla != nil {
		return r.falla
	}
	for _, o := range r.sesiones {
		if o.SedeID == s.SedeID && o.Abierta() {
			return repository.ErrDuplicado
		}
		if s.IdempotencyKey != nil && o.IdempotencyKey != nil && *o.IdempotencyKey == *s.IdempotencyKey {
			return repository.ErrDuplicado
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sesiones[s.ID] = &cp
	return nil
}

func (r *fakeCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falla != nil {
		return nil, r.falla
	}
	s, ok := r.sesiones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeCajaRepo) FindSesionByIdempotencyKey(_ context.Context, key string) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falla != nil {
		return nil, r.falla
	}
	for _, s := range r.sesiones {
		if s.IdempotencyKey != nil && *s.IdempotencyKey == key {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCajaRepo) ultimaAbierta(sedeID uuid.UUID, antesDe *time.Time) (*model.SesionCaja, error) {
	var best *model.SesionCaja
	for _, s := range r.sesiones {
		if s.SedeID != sedeID || !s.Abierta() {
			continue
		}
		if antesDe != nil && !s.OpenedAt.Before(*antesDe) {
			continue
		}
		if best == nil || s.OpenedAt.After(best.OpenedAt) {
			best = s
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (r *fakeCajaRepo) FindSesionAbierta(_ context.Context, sedeID uuid.UUID) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falla != nil {
		return nil, r.falla
	}
	return r.ultimaAbierta(sedeID, nil)
}

func (r *fakeCajaRepo) FindSesionVencida(_ context.Context, sedeID uuid.UUID, antesDe time.Time) (*model.SesionCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falla != nil {
		return nil, r.falla
	}
	return r.ultimaAbierta(sedeID, &antesDe)
}

func (r *fakeCajaRepo) CerrarSesion(_ context.Context, s *model.SesionCaja, c *model.CierreCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falla != nil {
		return r.falla
	}
	if _, ok := r.cierres[s.ID]; ok {
		return repository.ErrDuplicado
	}
	if c.IdempotencyKey != nil {
		for _, o := range r.cierres {
			if o.IdempotencyKey != nil && *o.IdempotencyKey == *c.IdempotencyKey {
				return repository.ErrDuplicado
			}
		}
	}
	stored, ok := r.sesiones[s.ID]
	if !ok || !stored.Abierta() {
		return repository.ErrSesionNoAbierta
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() && s.ClosedAt != nil {
		c.CreatedAt = *s.ClosedAt
	}
	cc := *c
	r.cierres[s.ID] = &cc

	s.Estado = model.EstadoCajaCerrada
	cp := *s
	r.sesiones[s.ID] = &cp
	return nil
}

func (r *fakeCajaRepo) CreateMovimiento(_ context.Context, m *model.MovimientoCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falla != nil {
		return r.falla
	}
	s, ok := r.sesiones[m.SesionID]
	if !ok {
		return repository.ErrNotFound
	}
	if !s.Abierta() {
		return repository.ErrSesionNoAbierta
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeCajaRepo) ListMovimientos(_ context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if m.SesionID == sesionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeCajaRepo) SumMovimientosPorTipo(_ context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.falla != nil {
		return nil, r.falla
	}
	sums := map[string]decimal.Decimal{}
	for _, m := range r.movimientos {
		if m.SesionID == sesionID {
			sums[m.Tipo] = sums[m.Tipo].Add(m.Monto)
		}
	}
	return sums, nil
}

func (r *fakeCajaRepo) FindCierreBySesion(_ context.Context, sesionID uuid.UUID) (*model.CierreCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cierres[sesionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCajaRepo) FindCierreByIdempotencyKey(_ context.Context, key string) (*model.CierreCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cierres {
		if c.IdempotencyKey != nil && *c.IdempotencyKey == key {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCajaRepo) ListCierres(_ context.Context, sedeID uuid.UUID, page, limit int) ([]model.CierreCaja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []model.CierreCaja
	for _, c := range r.cierres {
		if c.SedeID == sedeID {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeCajaRepo) contarSesiones() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sesiones)
}

// ── In-memory sales and lunch orders ─────────────────────────────────────────

type fakeVentaRepo struct {
	mu     sync.Mutex
	ventas []model.Venta
}

func (r *fakeVentaRepo) Create(_ context.Context, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Estado == "" {
		v.Estado = model.EstadoVentaCompletada
	}
	for i := range v.Pagos {
		v.Pagos[i].VentaID = v.ID
	}
	r.ventas = append(r.ventas, *v)
	return nil
}

func (r *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.ventas {
		if v.ID == id {
			cp := v
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeVentaRepo) enVentana(v model.Venta, sedeID uuid.UUID, desde, hasta time.Time) bool {
	return v.SedeID == sedeID && v.Estado == model.EstadoVentaCompletada &&
		!v.CreatedAt.Before(desde) && v.CreatedAt.Before(hasta)
}

func (r *fakeVentaRepo) SumPorMetodo(_ context.Context, sedeID uuid.UUID, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, v := range r.ventas {
		if r.enVentana(v, sedeID, desde, hasta) {
			sums[v.MetodoPago] = sums[v.MetodoPago].Add(v.Total)
		}
	}
	return sums, nil
}

func (r *fakeVentaRepo) SumPagosMixtos(_ context.Context, sedeID uuid.UUID, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, v := range r.ventas {
		if v.MetodoPago != model.MetodoMixto || !r.enVentana(v, sedeID, desde, hasta) {
			continue
		}
		for _, p := range v.Pagos {
			sums[p.Metodo] = sums[p.Metodo].Add(p.Monto)
		}
	}
	return sums, nil
}

type fakePedidoRepo struct {
	mu      sync.Mutex
	pedidos []model.PedidoAlmuerzo
}

func (r *fakePedidoRepo) Create(_ context.Context, p *model.PedidoAlmuerzo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pedidos = append(r.pedidos, *p)
	return nil
}

func (r *fakePedidoRepo) SumPorMetodo(_ context.Context, sedeID uuid.UUID, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := map[string]decimal.Decimal{}
	for _, p := range r.pedidos {
		if p.SedeID != sedeID || p.Estado == model.EstadoPedidoCancelado ||
			p.CreatedAt.Before(desde) || !p.CreatedAt.Before(hasta) {
			continue
		}
		sums[p.MetodoPago] = sums[p.MetodoPago].Add(p.Total)
	}
	return sums, nil
}

// ── Users ────────────────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	usuarios []*model.Usuario
}

func (r *fakeUsuarioRepo) Upsert(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios = append(r.usuarios, u)
	return nil
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func nuevoUsuario(username, password, rol string, sede *uuid.UUID) *model.Usuario {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &model.Usuario{
		ID:           uuid.New(),
		Username:     username,
		Nombre:       username,
		PasswordHash: string(hash),
		Rol:          rol,
		SedeID:       sede,
		Activo:       true,
	}
}

// ── Locker / events ──────────────────────────────────────────────────────────

type fakeLocker struct {
	mu       sync.Mutex
	tomados  map[string]bool
	liberado int
	falla    error
	// antes runs once, before the next acquisition, to interleave another operation.
	antes func()
}

func newFakeLocker() *fakeLocker { return &fakeLocker{tomados: map[string]bool{}} }

func (l *fakeLocker) Acquire(_ context.Context, key string) (func(), error) {
	if f := l.antes; f != nil {
		l.antes = nil
		f()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.falla != nil {
		return nil, l.falla
	}
	if l.tomados[key] {
		return nil, infra.ErrLockHeld
	}
	l.tomados[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.tomados, key)
		l.liberado++
	}, nil
}

type fakePublisher struct {
	mu      sync.Mutex
	eventos []CajaEvento
	falla   error
}

func (p *fakePublisher) Publicar(_ context.Context, ev CajaEvento) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eventos = append(p.eventos, ev)
	return p.falla
}

func (p *fakePublisher) tipos() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.eventos))
	for i, ev := range p.eventos {
		out[i] = ev.Tipo
	}
	return out
}

var errStoreCaido = errors.New("conexión rechazada")
