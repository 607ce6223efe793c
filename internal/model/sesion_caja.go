package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EstadoCajaAbierta = "abierta"
	EstadoCajaCerrada = "cerrada"
)

// Tipos de movimiento manual. The amount is always positive; the direction
// comes from the tipo.
const (
	MovimientoIngreso = "ingreso"
	MovimientoEgreso  = "egreso"
	MovimientoAjuste  = "ajuste"
)

// SesionCaja is one custody period of a site's cash drawer.
// Estado: "abierta" | "cerrada"
//
// The partial unique index on sede_id guarantees that a site never has two
// open sessions, whichever day they were opened.
type SesionCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SedeID       uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_caja_abierta_por_sede,where:estado = 'abierta'"`
	AbiertaPor   uuid.UUID       `gorm:"type:uuid;not null"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoEsperado, MontoReal and Diferencia stay nil until the session closes.
	MontoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoReal     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado        string           `gorm:"type:varchar(20);not null;default:'abierta'"`
	CerradaPor    *uuid.UUID       `gorm:"type:uuid"`
	Notas         *string
	// IdempotencyKey lets a retried open return the original session.
	IdempotencyKey *string `gorm:"type:varchar(64);uniqueIndex"`
	OpenedAt       time.Time
	ClosedAt       *time.Time
}

func (SesionCaja) TableName() string { return "cash_registers" }

// Abierta reports whether the session still holds custody of the drawer.
func (s *SesionCaja) Abierta() bool { return s.Estado == EstadoCajaAbierta }

// MovimientoCaja is an append-only manual adjustment of the drawer.
// Tipo: "ingreso" | "egreso" | "ajuste"
// Movements are NEVER modified or deleted.
type MovimientoCaja struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SesionID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	SedeID            uuid.UUID       `gorm:"type:uuid;not null"`
	Tipo              string          `gorm:"type:varchar(20);not null"`
	Monto             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo            string          `gorm:"not null"`
	ResponsableNombre string          `gorm:"not null"`
	ResponsableID     *uuid.UUID      `gorm:"type:uuid"`
	CreadoPor         uuid.UUID       `gorm:"type:uuid;not null"`
	FirmaRequerida    bool            `gorm:"not null;default:false"`
	FirmaValidada     bool            `gorm:"not null;default:false"`
	VoucherImpreso    bool            `gorm:"not null;default:false"`
	CreatedAt         time.Time
}

func (MovimientoCaja) TableName() string { return "cash_movements" }
