package service

import (
	"testing"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_Resultados(t *testing.T) {
	tests := []struct {
		name     string
		preparar func(e *entorno) Actor
		want     Resultado
	}{
		{
			name:     "sin sede",
			preparar: func(e *entorno) Actor { return Actor{UsuarioID: uuid.New(), Rol: model.RolCajero} },
			want:     ResultadoNoAplica,
		},
		{
			name:     "cajero sin caja",
			preparar: func(e *entorno) Actor { return e.cajero },
			want:     ResultadoRequiereDeclaracion,
		},
		{
			name: "rol sin custodia",
			preparar: func(e *entorno) Actor {
				return Actor{UsuarioID: uuid.New(), SedeID: &e.sede, Rol: model.RolPadre}
			},
			want: ResultadoNoAplica,
		},
		{
			name: "caja abierta hoy",
			preparar: func(e *entorno) Actor {
				e.abrir("100")
				return e.cajero
			},
			want: ResultadoAbiertaHoy,
		},
		{
			name: "caja de ayer",
			preparar: func(e *entorno) Actor {
				e.sesionVieja("50")
				return e.cajero
			},
			want: ResultadoSinCerrar,
		},
		{
			name: "caja de ayer vista por un rol sin custodia",
			preparar: func(e *entorno) Actor {
				e.sesionVieja("50")
				return Actor{UsuarioID: uuid.New(), SedeID: &e.sede, Rol: model.RolAdminGeneral}
			},
			want: ResultadoSinCerrar,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := nuevoEntorno(t, AjusteExcluir)
			actor := tt.preparar(e)

			got, err := e.guard.Resolver(e.ctx, actor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Resultado)
			if tt.want == ResultadoAbiertaHoy || tt.want == ResultadoSinCerrar {
				assert.NotNil(t, got.Sesion)
			} else {
				assert.Nil(t, got.Sesion)
			}
		})
	}
}

func TestGuard_DiaSeEvaluaEnHoraLocal(t *testing.T) {
	e := nuevoEntorno(t, AjusteExcluir)
	// 23:30 in Lima the previous evening is already "today" in UTC.
	e.ahora = time.Date(2026, 3, 2, 0, 15, 0, 0, e.loc)
	anoche := time.Date(2026, 3, 1, 23, 30, 0, 0, e.loc)
	require.Equal(t, 2, anoche.UTC().Day())

	require.NoError(t, e.repo.CreateSesion(e.ctx, &model.SesionCaja{
		SedeID: e.sede, AbiertaPor: e.cajero.UsuarioID, MontoInicial: dec("20"),
		Estado: model.EstadoCajaAbierta, OpenedAt: anoche,
	}))

	got, err := e.guard.Resolver(e.ctx, e.cajero)
	require.NoError(t, err)
	assert.Equal(t, ResultadoSinCerrar, got.Resultado)

	// Just after local midnight counts as today.
	e2 := nuevoEntorno(t, AjusteExcluir)
	e2.ahora = time.Date(2026, 3, 2, 0, 5, 0, 0, e2.loc)
	e2.abrir("20")
	e2.ahora = time.Date(2026, 3, 2, 23, 59, 0, 0, e2.loc)
	got, err = e2.guard.Resolver(e2.ctx, e2.cajero)
	require.NoError(t, err)
	assert.Equal(t, ResultadoAbiertaHoy, got.Resultado)
}

func TestGuard_EsSoloLectura(t *testing.T) {
	e := nuevoEntorno(t, AjusteExcluir)
	e.sesionVieja("50")

	for i := 0; i < 3; i++ {
		_, err := e.guard.Resolver(e.ctx, e.cajero)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, e.repo.contarSesiones())
	s, err := e.repo.FindSesionAbierta(e.ctx, e.sede)
	require.NoError(t, err)
	assert.True(t, s.Abierta())
}

func TestGuard_PuedeOperar(t *testing.T) {
	e := nuevoEntorno(t, AjusteExcluir)
	var ce *ConflictError

	_, err := e.guard.PuedeOperar(e.ctx, e.cajero)
	require.ErrorAs(t, err, &ce)

	sesion := e.abrir("100")
	s, err := e.guard.PuedeOperar(e.ctx, e.cajero)
	require.NoError(t, err)
	assert.Equal(t, sesion.ID, s.ID.String())

	e.avanzar(24 * time.Hour)
	_, err = e.guard.PuedeOperar(e.ctx, e.cajero)
	require.ErrorAs(t, err, &ce)
}

func TestRolesPolicy(t *testing.T) {
	p := NewRolesPolicy([]string{" cajero ", "", "operador_caja"})
	assert.True(t, p.RequiereCustodia("cajero"))
	assert.True(t, p.RequiereCustodia("operador_caja"))
	assert.False(t, p.RequiereCustodia("padre"))
	assert.False(t, p.RequiereCustodia(""))
}
