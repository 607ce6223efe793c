package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway SQLite file with the same schema the service
// migrates on Postgres, partial unique index included. Times are kept in UTC
// and whole seconds so SQLite's text comparison orders them correctly.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "caja.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Usuario{},
		&model.SesionCaja{},
		&model.MovimientoCaja{},
		&model.CierreCaja{},
		&model.Venta{},
		&model.VentaPago{},
		&model.PedidoAlmuerzo{},
	))
	return db
}

var base = time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func abrirSesion(t *testing.T, repo CajaRepository, sede uuid.UUID, at time.Time) *model.SesionCaja {
	t.Helper()
	s := &model.SesionCaja{
		SedeID:       sede,
		AbiertaPor:   uuid.New(),
		MontoInicial: d(100),
		Estado:       model.EstadoCajaAbierta,
		OpenedAt:     at,
	}
	require.NoError(t, repo.CreateSesion(context.Background(), s))
	return s
}

func cerrarSesion(t *testing.T, repo CajaRepository, s *model.SesionCaja, at time.Time) *model.CierreCaja {
	t.Helper()
	c := &model.CierreCaja{
		SesionID:      s.ID,
		SedeID:        s.SedeID,
		FechaCierre:   at,
		MontoInicial:  s.MontoInicial,
		EsperadoFinal: d(100),
		RealFinal:     d(100),
		Diferencia:    d(0),
		CerradoPor:    uuid.New(),
		CreatedAt:     at,
	}
	s.ClosedAt = &at
	require.NoError(t, repo.CerrarSesion(context.Background(), s, c))
	return c
}

// ── Sessions ─────────────────────────────────────────────────────────────────

func TestCajaRepo_UnaSesionAbiertaPorSede(t *testing.T) {
	repo := NewCajaRepository(newTestDB(t))
	ctx := context.Background()
	sede := uuid.New()

	primera := abrirSesion(t, repo, sede, base.Add(-24*time.Hour))
	otra := &model.SesionCaja{SedeID: sede, AbiertaPor: uuid.New(), MontoInicial: d(50), Estado: model.EstadoCajaAbierta, OpenedAt: base}
	assert.ErrorIs(t, repo.CreateSesion(ctx, otra), ErrDuplicado)

	// Another site is unaffected.
	abrirSesion(t, repo, uuid.New(), base)

	cerrarSesion(t, repo, primera, base)
	abrirSesion(t, repo, sede, base.Add(time.Minute))
}

func TestCajaRepo_BusquedasDeSesion(t *testing.T) {
	repo := NewCajaRepository(newTestDB(t))
	ctx := context.Background()
	sede := uuid.New()

	_, err := repo.FindSesionAbierta(ctx, sede)
	assert.ErrorIs(t, err, ErrNotFound)

	clave := "apertura-1"
	s := &model.SesionCaja{SedeID: sede, AbiertaPor: uuid.New(), MontoInicial: d(80), Estado: model.EstadoCajaAbierta, OpenedAt: base, IdempotencyKey: &clave}
	require.NoError(t, repo.CreateSesion(ctx, s))

	abierta, err := repo.FindSesionAbierta(ctx, sede)
	require.NoError(t, err)
	assert.Equal(t, s.ID, abierta.ID)
	assert.True(t, abierta.MontoInicial.Equal(d(80)))

	porClave, err := repo.FindSesionByIdempotencyKey(ctx, clave)
	require.NoError(t, err)
	assert.Equal(t, s.ID, porClave.ID)

	vencida, err := repo.FindSesionVencida(ctx, sede, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, s.ID, vencida.ID)
	_, err = repo.FindSesionVencida(ctx, sede, base)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindSesionByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCajaRepo_CerrarSesion(t *testing.T) {
	repo := NewCajaRepository(newTestDB(t))
	ctx := context.Background()
	s := abrirSesion(t, repo, uuid.New(), base)

	c := cerrarSesion(t, repo, s, base.Add(8*time.Hour))
	assert.Equal(t, model.EstadoCajaCerrada, s.Estado)

	stored, err := repo.FindSesionByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCajaCerrada, stored.Estado)
	require.NotNil(t, stored.ClosedAt)

	cierre, err := repo.FindCierreBySesion(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, cierre.ID)

	again := &model.CierreCaja{SesionID: s.ID, SedeID: s.SedeID, FechaCierre: base, CerradoPor: uuid.New()}
	assert.ErrorIs(t, repo.CerrarSesion(ctx, s, again), ErrDuplicado)
}

func TestCajaRepo_CerrarSesionYaCerradaNoDejaCierre(t *testing.T) {
	db := newTestDB(t)
	repo := NewCajaRepository(db)
	ctx := context.Background()
	s := abrirSesion(t, repo, uuid.New(), base)

	// Closed by someone else between the read and the write.
	require.NoError(t, db.Model(&model.SesionCaja{}).Where("id = ?", s.ID).Update("estado", model.EstadoCajaCerrada).Error)

	c := &model.CierreCaja{SesionID: s.ID, SedeID: s.SedeID, FechaCierre: base, CerradoPor: uuid.New()}
	assert.ErrorIs(t, repo.CerrarSesion(ctx, s, c), ErrSesionNoAbierta)

	_, err := repo.FindCierreBySesion(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCajaRepo_ListCierresPagina(t *testing.T) {
	repo := NewCajaRepository(newTestDB(t))
	ctx := context.Background()
	sede := uuid.New()
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * 24 * time.Hour)
		cerrarSesion(t, repo, abrirSesion(t, repo, sede, at), at.Add(8*time.Hour))
	}
	cerrarSesion(t, repo, abrirSesion(t, repo, uuid.New(), base), base.Add(time.Hour))

	pagina, total, err := repo.ListCierres(ctx, sede, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, pagina, 2)
	assert.True(t, pagina[0].CreatedAt.After(pagina[1].CreatedAt))

	resto, _, err := repo.ListCierres(ctx, sede, 2, 2)
	require.NoError(t, err)
	assert.Len(t, resto, 1)
}

// ── Movements ────────────────────────────────────────────────────────────────

func TestCajaRepo_Movimientos(t *testing.T) {
	repo := NewCajaRepository(newTestDB(t))
	ctx := context.Background()
	s := abrirSesion(t, repo, uuid.New(), base)

	for _, m := range []struct {
		tipo  string
		monto int64
	}{
		{model.MovimientoIngreso, 20},
		{model.MovimientoIngreso, 5},
		{model.MovimientoEgreso, 7},
		{model.MovimientoAjuste, 3},
	} {
		require.NoError(t, repo.CreateMovimiento(ctx, &model.MovimientoCaja{
			SesionID: s.ID, SedeID: s.SedeID, Tipo: m.tipo, Monto: d(m.monto),
			Motivo: "prueba", ResponsableNombre: "Rosa", CreadoPor: uuid.New(),
		}))
	}

	sums, err := repo.SumMovimientosPorTipo(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, sums[model.MovimientoIngreso].Equal(d(25)))
	assert.True(t, sums[model.MovimientoEgreso].Equal(d(7)))
	assert.True(t, sums[model.MovimientoAjuste].Equal(d(3)))

	movs, err := repo.ListMovimientos(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, movs, 4)

	cerrarSesion(t, repo, s, base.Add(time.Hour))
	err = repo.CreateMovimiento(ctx, &model.MovimientoCaja{
		SesionID: s.ID, SedeID: s.SedeID, Tipo: model.MovimientoIngreso, Monto: d(1),
		Motivo: "tarde", ResponsableNombre: "Rosa", CreadoPor: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrSesionNoAbierta)

	err = repo.CreateMovimiento(ctx, &model.MovimientoCaja{
		SesionID: uuid.New(), SedeID: s.SedeID, Tipo: model.MovimientoIngreso, Monto: d(1),
		Motivo: "huérfano", ResponsableNombre: "Rosa", CreadoPor: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── Sales and lunch orders ───────────────────────────────────────────────────

func TestVentaRepo_SumasPorVentana(t *testing.T) {
	repo := NewVentaRepository(newTestDB(t))
	ctx := context.Background()
	sede := uuid.New()
	venta := func(sedeID uuid.UUID, metodo string, total int64, estado string, at time.Time, pagos ...model.VentaPago) {
		require.NoError(t, repo.Create(ctx, &model.Venta{
			SedeID: sedeID, SesionID: uuid.New(), UsuarioID: uuid.New(), Total: d(total),
			MetodoPago: metodo, Estado: estado, CreatedAt: at, Pagos: pagos,
		}))
	}

	venta(sede, model.MetodoEfectivo, 150, model.EstadoVentaCompletada, base.Add(time.Hour))
	venta(sede, model.MetodoEfectivo, 30, model.EstadoVentaCompletada, base)
	venta(sede, model.MetodoEfectivo, 99, model.EstadoVentaAnulada, base.Add(time.Hour))
	venta(sede, model.MetodoEfectivo, 77, model.EstadoVentaCompletada, base.Add(-time.Second))
	venta(sede, model.MetodoEfectivo, 66, model.EstadoVentaCompletada, base.Add(10*time.Hour))
	venta(uuid.New(), model.MetodoEfectivo, 55, model.EstadoVentaCompletada, base.Add(time.Hour))
	venta(sede, model.MetodoTarjeta, 40, model.EstadoVentaCompletada, base.Add(time.Hour))
	venta(sede, model.MetodoMixto, 30, model.EstadoVentaCompletada, base.Add(2*time.Hour),
		model.VentaPago{Metodo: model.MetodoEfectivo, Monto: d(10)},
		model.VentaPago{Metodo: model.MetodoYapeQR, Monto: d(20)},
	)
	venta(sede, model.MetodoMixto, 50, model.EstadoVentaAnulada, base.Add(2*time.Hour),
		model.VentaPago{Metodo: model.MetodoEfectivo, Monto: d(25)},
		model.VentaPago{Metodo: model.MetodoTarjeta, Monto: d(25)},
	)

	hasta := base.Add(10 * time.Hour)
	pos, err := repo.SumPorMetodo(ctx, sede, base, hasta)
	require.NoError(t, err)
	assert.True(t, pos[model.MetodoEfectivo].Equal(d(180)))
	assert.True(t, pos[model.MetodoTarjeta].Equal(d(40)))
	assert.True(t, pos[model.MetodoMixto].Equal(d(30)))

	mixtos, err := repo.SumPagosMixtos(ctx, sede, base, hasta)
	require.NoError(t, err)
	assert.True(t, mixtos[model.MetodoEfectivo].Equal(d(10)))
	assert.True(t, mixtos[model.MetodoYapeQR].Equal(d(20)))
	assert.True(t, mixtos[model.MetodoTarjeta].IsZero())
}

func TestVentaRepo_FindByIDCargaPagos(t *testing.T) {
	repo := NewVentaRepository(newTestDB(t))
	ctx := context.Background()
	v := &model.Venta{
		SedeID: uuid.New(), SesionID: uuid.New(), UsuarioID: uuid.New(), Total: d(30),
		MetodoPago: model.MetodoMixto, Estado: model.EstadoVentaCompletada, CreatedAt: base,
		Pagos: []model.VentaPago{
			{Metodo: model.MetodoEfectivo, Monto: d(10)},
			{Metodo: model.MetodoTarjeta, Monto: d(20)},
		},
	}
	require.NoError(t, repo.Create(ctx, v))

	got, err := repo.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, got.Pagos, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPedidoRepo_ExcluyeCancelados(t *testing.T) {
	repo := NewPedidoRepository(newTestDB(t))
	ctx := context.Background()
	sede := uuid.New()
	pedido := func(metodo string, total int64, estado string, at time.Time) {
		require.NoError(t, repo.Create(ctx, &model.PedidoAlmuerzo{
			SedeID: sede, EstudianteID: uuid.New(), FechaMenu: base, Total: d(total),
			MetodoPago: metodo, Estado: estado, CreatedAt: at,
		}))
	}
	pedido(model.MetodoEfectivo, 11, "confirmado", base.Add(time.Hour))
	pedido(model.MetodoEfectivo, 9, model.EstadoPedidoCancelado, base.Add(time.Hour))
	pedido(model.MetodoCredito, 12, "entregado", base.Add(time.Hour))
	pedido(model.MetodoEfectivo, 13, "confirmado", base.Add(-time.Hour))

	sums, err := repo.SumPorMetodo(ctx, sede, base, base.Add(10*time.Hour))
	require.NoError(t, err)
	assert.True(t, sums[model.MetodoEfectivo].Equal(d(11)))
	assert.True(t, sums[model.MetodoCredito].Equal(d(12)))
}

// ── Users ────────────────────────────────────────────────────────────────────

func TestUsuarioRepo_UpsertYBusqueda(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsuarioRepository(db)
	ctx := context.Background()
	email := "Directora@Colegio.pe"

	require.NoError(t, repo.Upsert(ctx, &model.Usuario{
		Username: "directora", Nombre: "Directora", Email: &email,
		PasswordHash: "hash-1", Rol: model.RolCajero, Activo: true,
	}))
	require.NoError(t, repo.Upsert(ctx, &model.Usuario{
		Username: "directora", Nombre: "Directora", Email: &email,
		PasswordHash: "hash-2", Rol: model.RolAdminGeneral, Activo: true,
	}))

	u, err := repo.FindByUsername(ctx, "directora@colegio.pe")
	require.NoError(t, err)
	assert.Equal(t, model.RolAdminGeneral, u.Rol)
	assert.Equal(t, "hash-2", u.PasswordHash)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "directora", byID.Username)

	require.NoError(t, db.Model(&model.Usuario{}).Where("id = ?", u.ID).Update("activo", false).Error)
	_, err = repo.FindByUsername(ctx, "directora")
	assert.ErrorIs(t, err, ErrNotFound)
}
