package repository

import (
	"context"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaRepository stores POS sales and answers the per-method aggregations
// the cash reconciliation needs. Windows are half-open: [desde, hasta).
type VentaRepository interface {
	Create(ctx context.Context, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// SumPorMetodo totals completed sales of the site grouped by metodo_pago.
	// Mixed sales appear under "mixto" with their full amount.
	SumPorMetodo(ctx context.Context, sedeID uuid.UUID, desde, hasta time.Time) (map[string]decimal.Decimal, error)
	// SumPagosMixtos totals the tender lines of completed mixed sales by method.
	SumPagosMixtos(ctx context.Context, sedeID uuid.UUID, desde, hasta time.Time) (map[string]decimal.Decimal, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) Create(ctx context.Context, v *model.Venta) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Pagos").Where("id = ?", id).First(&v).Error
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (r *ventaRepo) SumPorMetodo(ctx context.Context, sedeID uuid.UUID, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	var rows []metodoTotal
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("metodo_pago AS metodo, COALESCE(SUM(total), 0) AS total").
		Where("sede_id = ? AND estado = ? AND created_at >= ? AND created_at < ?",
			sedeID, model.EstadoVentaCompletada, desde, hasta).
		Group("metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return porMetodo(rows), nil
}

func (r *ventaRepo) SumPagosMixtos(ctx context.Context, sedeID uuid.UUID, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	var rows []metodoTotal
	err := r.db.WithContext(ctx).Table("venta_pagos AS vp").
		Select("vp.metodo AS metodo, COALESCE(SUM(vp.monto), 0) AS total").
		Joins("JOIN ventas v ON v.id = vp.venta_id").
		Where("v.sede_id = ? AND v.estado = ? AND v.metodo_pago = ? AND v.created_at >= ? AND v.created_at < ?",
			sedeID, model.EstadoVentaCompletada, model.MetodoMixto, desde, hasta).
		Group("vp.metodo").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return porMetodo(rows), nil
}

type metodoTotal struct {
	Metodo string
	Total  decimal.Decimal
}

func porMetodo(rows []metodoTotal) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Metodo] = sums[row.Metodo].Add(row.Total)
	}
	return sums
}
