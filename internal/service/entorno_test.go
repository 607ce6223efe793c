package service

import (
	"context"
	"testing"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/config"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/dto"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entorno wires the register services over in-memory stores with a clock
// fixed at 2026-03-02 08:00 in Lima.
type entorno struct {
	t        *testing.T
	ctx      context.Context
	loc      *time.Location
	ahora    time.Time
	repo     *fakeCajaRepo
	ventasDB *fakeVentaRepo
	pedidos  *fakePedidoRepo
	usuarios *fakeUsuarioRepo
	locker   *fakeLocker
	eventos  *fakePublisher
	guard    *Guard
	caja     CajaService
	ventas   VentaService
	sede     uuid.UUID
	cajero   Actor
}

func nuevoEntorno(t *testing.T, politica PoliticaAjuste) *entorno {
	t.Helper()
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	e := &entorno{
		t:        t,
		ctx:      context.Background(),
		loc:      lima,
		ahora:    time.Date(2026, 3, 2, 8, 0, 0, 0, lima),
		repo:     newFakeCajaRepo(),
		ventasDB: &fakeVentaRepo{},
		pedidos:  &fakePedidoRepo{},
		usuarios: &fakeUsuarioRepo{},
		locker:   newFakeLocker(),
		eventos:  &fakePublisher{},
		sede:     uuid.New(),
	}
	clock := func() time.Time { return e.ahora }
	policy := NewRolesPolicy([]string{model.RolCajero, model.RolOperadorCaja, model.RolGestorUnidad})
	e.guard = NewGuard(e.repo, policy, lima, clock)

	cfg := &config.Config{JWTSecret: "secreto-de-prueba", JWTExpirationHours: 8, JWTRefreshHours: 24}
	auth := NewAuthService(e.usuarios, cfg)
	require.NoError(t, e.usuarios.Upsert(e.ctx, nuevoUsuario("directora", "clave-admin", model.RolAdminGeneral, nil)))
	require.NoError(t, e.usuarios.Upsert(e.ctx, nuevoUsuario("otro.cajero", "clave-cajero", model.RolCajero, &e.sede)))

	motor := NewMotor(e.repo, e.ventasDB, e.pedidos, politica)
	e.caja = NewCajaService(e.repo, e.guard, motor, e.locker, auth, e.eventos, CajaConfig{
		UmbralValidacion: decimal.NewFromInt(10),
		UmbralFirma:      decimal.NewFromInt(100),
	})
	e.ventas = NewVentaService(e.ventasDB, e.guard, e.locker)
	e.cajero = Actor{UsuarioID: uuid.New(), Email: "cajera@colegio.pe", SedeID: &e.sede, Rol: model.RolCajero}
	return e
}

func (e *entorno) avanzar(d time.Duration) { e.ahora = e.ahora.Add(d) }

func (e *entorno) abrir(inicial string) *dto.SesionResponse {
	e.t.Helper()
	s, err := e.caja.Abrir(e.ctx, e.cajero, dto.AbrirCajaRequest{MontoInicial: montoDe(inicial), Confirmado: true}, "")
	require.NoError(e.t, err)
	return s
}

func (e *entorno) mover(sesionID, tipo, monto string) {
	e.t.Helper()
	_, err := e.caja.RegistrarMovimiento(e.ctx, e.cajero, dto.MovimientoRequest{
		SesionID:          sesionID,
		Tipo:              tipo,
		Monto:             dec(monto),
		Motivo:            "movimiento de prueba",
		ResponsableNombre: "Rosa",
	})
	require.NoError(e.t, err)
}

func (e *entorno) vender(metodo, total string, pagos ...dto.PagoRequest) {
	e.t.Helper()
	_, err := e.ventas.Registrar(e.ctx, e.cajero, dto.RegistrarVentaRequest{
		Total: dec(total), MetodoPago: metodo, Pagos: pagos,
	})
	require.NoError(e.t, err)
}

// sesionVieja stores an open session opened the previous afternoon.
func (e *entorno) sesionVieja(monto string) *model.SesionCaja {
	e.t.Helper()
	s := &model.SesionCaja{
		SedeID:       e.sede,
		AbiertaPor:   e.cajero.UsuarioID,
		MontoInicial: dec(monto),
		Estado:       model.EstadoCajaAbierta,
		OpenedAt:     e.ahora.Add(-20 * time.Hour),
	}
	require.NoError(e.t, e.repo.CreateSesion(e.ctx, s))
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// montoDe is a declared amount as the handlers bind it.
func montoDe(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertMonto(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}
