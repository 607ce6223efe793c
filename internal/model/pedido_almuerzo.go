package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const EstadoPedidoCancelado = "cancelado"

// PedidoAlmuerzo is a student lunch order paid at the kiosk or charged to the
// family credit account. The cash register only reads these rows.
// MetodoPago: "efectivo" | "credito" | "tarjeta" | "yape"
type PedidoAlmuerzo struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SedeID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	EstudianteID uuid.UUID       `gorm:"type:uuid;not null"`
	FechaMenu    time.Time       `gorm:"type:date;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago   string          `gorm:"type:varchar(20);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'confirmado'"`
	CreatedAt    time.Time       `gorm:"index"`
}

func (PedidoAlmuerzo) TableName() string { return "lunch_orders" }
