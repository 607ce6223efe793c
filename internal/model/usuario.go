package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles known to the kiosk. Which of them must hold a cash register is decided
// by the custody policy, not here.
const (
	RolSuperAdmin   = "superadmin"
	RolAdminGeneral = "admin_general"
	RolGestorUnidad = "gestor_unidad"
	RolOperadorCaja = "operador_caja"
	RolCajero       = "cajero"
	RolPadre        = "padre"
)

// Usuario stores staff and parent accounts.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	// SedeID is the school site the user works at; nil for parents and global admins.
	SedeID    *uuid.UUID `gorm:"type:uuid"`
	Activo    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EsAdmin reports whether the user may authorize a closing with a large difference.
func (u *Usuario) EsAdmin() bool {
	switch u.Rol {
	case RolSuperAdmin, RolAdminGeneral, RolGestorUnidad:
		return true
	}
	return false
}
