package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados en el kiosco.
const (
	MetodoEfectivo = "efectivo"
	MetodoTarjeta  = "tarjeta"
	MetodoYape     = "yape"
	MetodoYapeQR   = "yape_qr"
	MetodoCredito  = "credito"
	// MetodoMixto marks a sale paid with more than one method; the split
	// lives in VentaPago rows.
	MetodoMixto = "mixto"
)

const (
	EstadoVentaCompletada = "completada"
	EstadoVentaAnulada    = "anulada"
)

// Venta is a point-of-sale transaction at a site.
// Estado: "completada" | "anulada"
type Venta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SedeID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SesionID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago string          `gorm:"type:varchar(20);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'completada'"`
	// ClienteNombre is free text printed on the ticket (student or parent).
	ClienteNombre *string
	CreatedAt     time.Time `gorm:"index"`

	Pagos []VentaPago `gorm:"foreignKey:VentaID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaPago is one tender line of a mixed-payment sale.
type VentaPago struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Metodo  string          `gorm:"type:varchar(20);not null"`
	Monto   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (VentaPago) TableName() string { return "venta_pagos" }
