package repository

import (
	"context"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PedidoRepository reads lunch orders for the cash reconciliation.
type PedidoRepository interface {
	Create(ctx context.Context, p *model.PedidoAlmuerzo) error
	// SumPorMetodo totals non-cancelled lunch orders of the site created in
	// [desde, hasta), grouped by metodo_pago.
	SumPorMetodo(ctx context.Context, sedeID uuid.UUID, desde, hasta time.Time) (map[string]decimal.Decimal, error)
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) Create(ctx context.Context, p *model.PedidoAlmuerzo) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *pedidoRepo) SumPorMetodo(ctx context.Context, sedeID uuid.UUID, desde, hasta time.Time) (map[string]decimal.Decimal, error) {
	var rows []metodoTotal
	err := r.db.WithContext(ctx).Model(&model.PedidoAlmuerzo{}).
		Select("metodo_pago AS metodo, COALESCE(SUM(total), 0) AS total").
		Where("sede_id = ? AND estado <> ? AND created_at >= ? AND created_at < ?",
			sedeID, model.EstadoPedidoCancelado, desde, hasta).
		Group("metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return porMetodo(rows), nil
}
