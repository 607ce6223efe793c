package service

import (
	"context"
	"errors"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"
)

// Resultado is the outcome of resolving a site's register state for a user.
type Resultado string

const (
	ResultadoAbiertaHoy          Resultado = "OPEN_TODAY"
	ResultadoSinCerrar           Resultado = "UNCLOSED_PREVIOUS"
	ResultadoRequiereDeclaracion Resultado = "NEEDS_DECLARATION"
	ResultadoNoAplica            Resultado = "NOT_APPLICABLE"
)

// EstadoCaja pairs the outcome with the session it refers to, if any.
type EstadoCaja struct {
	Resultado Resultado
	Sesion    *model.SesionCaja
}

// Guard resolves whether a user may operate the point of sale of their site.
// It never writes.
type Guard struct {
	repo   repository.CajaRepository
	policy CustodyPolicy
	loc    *time.Location
	now    Clock
}

func NewGuard(repo repository.CajaRepository, policy CustodyPolicy, loc *time.Location, now Clock) *Guard {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Guard{repo: repo, policy: policy, loc: loc, now: now}
}

// InicioDelDia returns midnight of t's calendar date in the site time zone.
func (g *Guard) InicioDelDia(t time.Time) time.Time {
	y, m, d := t.In(g.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, g.loc)
}

// Hoy returns the current instant and the start of today in the site time zone.
func (g *Guard) Hoy() (ahora, inicio time.Time) {
	ahora = g.now()
	return ahora, g.InicioDelDia(ahora)
}

// Resolver classifies the actor's site:
//
//	no site                          -> NOT_APPLICABLE
//	open session opened today        -> OPEN_TODAY
//	open session from a previous day -> UNCLOSED_PREVIOUS
//	no open session                  -> NEEDS_DECLARATION for custody roles, else NOT_APPLICABLE
func (g *Guard) Resolver(ctx context.Context, actor Actor) (EstadoCaja, error) {
	if actor.SedeID == nil {
		return EstadoCaja{Resultado: ResultadoNoAplica}, nil
	}
	_, inicio := g.Hoy()

	sesion, err := g.repo.FindSesionAbierta(ctx, *actor.SedeID)
	switch {
	case err == nil:
		if sesion.OpenedAt.Before(inicio) {
			return EstadoCaja{Resultado: ResultadoSinCerrar, Sesion: sesion}, nil
		}
		return EstadoCaja{Resultado: ResultadoAbiertaHoy, Sesion: sesion}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return EstadoCaja{}, storeErr("buscar sesión abierta", err, "")
	}

	if g.policy != nil && g.policy.RequiereCustodia(actor.Rol) {
		return EstadoCaja{Resultado: ResultadoRequiereDeclaracion}, nil
	}
	return EstadoCaja{Resultado: ResultadoNoAplica}, nil
}

// PuedeOperar returns the session the actor must sell against, or a
// ConflictError when the site has no register open today.
func (g *Guard) PuedeOperar(ctx context.Context, actor Actor) (*model.SesionCaja, error) {
	estado, err := g.Resolver(ctx, actor)
	if err != nil {
		return nil, err
	}
	switch estado.Resultado {
	case ResultadoAbiertaHoy:
		return estado.Sesion, nil
	case ResultadoSinCerrar:
		return nil, conflict("la caja de un día anterior sigue abierta: ciérrela antes de vender")
	case ResultadoRequiereDeclaracion:
		return nil, conflict("no hay caja abierta hoy: declare el monto inicial para empezar")
	default:
		return nil, conflict("el usuario no opera una caja en esta sede")
	}
}
