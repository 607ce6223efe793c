package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventoCajaAbierta = "caja.abierta"
	EventoCajaCerrada = "caja.cerrada"
)

// CajaEvento is published after a register opens or closes.
type CajaEvento struct {
	Tipo      string    `json:"tipo"`
	SesionID  uuid.UUID `json:"sesion_id"`
	SedeID    uuid.UUID `json:"sede_id"`
	UsuarioID uuid.UUID `json:"usuario_id"`
	Forzado   bool      `json:"forzado,omitempty"`
	At        time.Time `json:"at"`
}

// EventPublisher delivers register events. Publish failures never undo the
// committed operation; callers only log them.
type EventPublisher interface {
	Publicar(ctx context.Context, ev CajaEvento) error
}

type noopPublisher struct{}

func (noopPublisher) Publicar(context.Context, CajaEvento) error { return nil }
