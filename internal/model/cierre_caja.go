package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CierreCaja is the reconciliation snapshot written exactly once when a
// session closes. It is insert-only: the unique index on sesion_id keeps the
// 1:1 relation with SesionCaja.
//
//	EsperadoFinal = MontoInicial + TotalIngresos - TotalEgresos + TotalEfectivo
//	Diferencia    = RealFinal - EsperadoFinal
type CierreCaja struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SesionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SedeID      uuid.UUID `gorm:"type:uuid;not null;index"`
	FechaCierre time.Time `gorm:"type:date;not null"`

	// Punto de venta
	PosEfectivo      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PosTarjeta       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PosYape          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PosYapeQR        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:pos_yape_qr"`
	PosCredito       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PosMixtoEfectivo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PosMixtoTarjeta  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PosMixtoYape     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PosTotal         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Pedidos de almuerzo
	AlmuerzoEfectivo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AlmuerzoCredito  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AlmuerzoTarjeta  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AlmuerzoYape     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AlmuerzoTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	TotalEfectivo decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTarjeta  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalYape     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalYapeQR   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:total_yape_qr"`
	TotalCredito  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalVentas   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	TotalIngresos decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalEgresos  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoInicial  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EsperadoFinal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RealFinal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Diferencia    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CerradoPor  uuid.UUID  `gorm:"type:uuid;not null"`
	ValidadoPor *uuid.UUID `gorm:"type:uuid"`

	Exportado       bool `gorm:"not null;default:false"`
	Impreso         bool `gorm:"not null;default:false"`
	EnviadoWhatsApp bool `gorm:"not null;default:false;column:enviado_whatsapp"`
	// Forzado marks closures synthesized by the stale-session recovery.
	Forzado        bool `gorm:"not null;default:false"`
	Notas          *string
	IdempotencyKey *string `gorm:"type:varchar(64);uniqueIndex"`
	CreatedAt      time.Time
}

func (CierreCaja) TableName() string { return "cash_closures" }
