package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Actor is the authenticated user on whose behalf a register operation runs.
// It is built from the JWT claims by the handlers and passed explicitly.
type Actor struct {
	UsuarioID uuid.UUID
	Email     string
	SedeID    *uuid.UUID
	Rol       string
}

// CustodyPolicy decides which roles must hold a cash register to operate.
type CustodyPolicy interface {
	RequiereCustodia(rol string) bool
}

// RolesPolicy is a CustodyPolicy backed by a fixed set of role names.
type RolesPolicy map[string]struct{}

func NewRolesPolicy(roles []string) RolesPolicy {
	p := make(RolesPolicy, len(roles))
	for _, r := range roles {
		if r = strings.TrimSpace(r); r != "" {
			p[r] = struct{}{}
		}
	}
	return p
}

func (p RolesPolicy) RequiereCustodia(rol string) bool {
	_, ok := p[rol]
	return ok
}

// Clock returns the current instant. Tests inject a fixed one.
type Clock func() time.Time
