package repository

import (
	"context"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CajaRepository persists register sessions, their movement ledger and their
// closures. Movements and closures are insert-only: the interface has no
// update or delete for them.
type CajaRepository interface {
	CreateSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	FindSesionByIdempotencyKey(ctx context.Context, key string) (*model.SesionCaja, error)
	// FindSesionAbierta returns the most recently opened open session of the site.
	FindSesionAbierta(ctx context.Context, sedeID uuid.UUID) (*model.SesionCaja, error)
	// FindSesionVencida returns the most recently opened session of the site
	// that is still open and was opened before antesDe.
	FindSesionVencida(ctx context.Context, sedeID uuid.UUID, antesDe time.Time) (*model.SesionCaja, error)
	// CerrarSesion writes the closure and flips the session to "cerrada" in a
	// single transaction. It fails with ErrSesionNoAbierta when the session was
	// closed concurrently, and with ErrDuplicado when a closure already exists.
	CerrarSesion(ctx context.Context, s *model.SesionCaja, c *model.CierreCaja) error

	// CreateMovimiento inserts the movement only if its session is still open.
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error)
	SumMovimientosPorTipo(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error)

	FindCierreBySesion(ctx context.Context, sesionID uuid.UUID) (*model.CierreCaja, error)
	FindCierreByIdempotencyKey(ctx context.Context, key string) (*model.CierreCaja, error)
	ListCierres(ctx context.Context, sedeID uuid.UUID, page, limit int) ([]model.CierreCaja, int64, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateSesion(ctx context.Context, s *model.SesionCaja) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionByIdempotencyKey(ctx context.Context, key string) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionAbierta(ctx context.Context, sedeID uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("sede_id = ? AND estado = ?", sedeID, model.EstadoCajaAbierta).
		Order("opened_at DESC").
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionVencida(ctx context.Context, sedeID uuid.UUID, antesDe time.Time) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("sede_id = ? AND estado = ? AND opened_at < ?", sedeID, model.EstadoCajaAbierta, antesDe).
		Order("opened_at DESC").
		First(&s).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *cajaRepo) CerrarSesion(ctx context.Context, s *model.SesionCaja, c *model.CierreCaja) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		res := tx.Model(&model.SesionCaja{}).
			Where("id = ? AND estado = ?", s.ID, model.EstadoCajaAbierta).
			Updates(map[string]any{
				"estado":         model.EstadoCajaCerrada,
				"monto_esperado": s.MontoEsperado,
				"monto_real":     s.MontoReal,
				"diferencia":     s.Diferencia,
				"cerrada_por":    s.CerradaPor,
				"closed_at":      s.ClosedAt,
				"notas":          s.Notas,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSesionNoAbierta
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}
	s.Estado = model.EstadoCajaCerrada
	return nil
}

func (r *cajaRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s model.SesionCaja
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", m.SesionID).First(&s).Error; err != nil {
			return err
		}
		if !s.Abierta() {
			return ErrSesionNoAbierta
		}
		return tx.Create(m).Error
	})
	return translate(err)
}

func (r *cajaRepo) ListMovimientos(ctx context.Context, sesionID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).Where("sesion_id = ?", sesionID).Order("created_at ASC").Find(&movs).Error
	return movs, translate(err)
}

func (r *cajaRepo) SumMovimientosPorTipo(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Tipo  string
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Where("sesion_id = ?", sesionID).
		Group("tipo").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	sums := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.Tipo] = row.Total
	}
	return sums, nil
}

func (r *cajaRepo) FindCierreBySesion(ctx context.Context, sesionID uuid.UUID) (*model.CierreCaja, error) {
	var c model.CierreCaja
	err := r.db.WithContext(ctx).Where("sesion_id = ?", sesionID).First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *cajaRepo) FindCierreByIdempotencyKey(ctx context.Context, key string) (*model.CierreCaja, error) {
	var c model.CierreCaja
	err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *cajaRepo) ListCierres(ctx context.Context, sedeID uuid.UUID, page, limit int) ([]model.CierreCaja, int64, error) {
	var (
		cierres []model.CierreCaja
		total   int64
	)
	porSede := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.CierreCaja{}).Where("sede_id = ?", sedeID)
	}
	if err := porSede().Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	err := porSede().Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&cierres).Error
	return cierres, total, translate(err)
}
