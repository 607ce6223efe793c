package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are generated client-side so inserts behave the same on every driver.

func (s *SesionCaja) BeforeCreate(*gorm.DB) error     { s.ID = orNew(s.ID); return nil }
func (m *MovimientoCaja) BeforeCreate(*gorm.DB) error { m.ID = orNew(m.ID); return nil }
func (c *CierreCaja) BeforeCreate(*gorm.DB) error     { c.ID = orNew(c.ID); return nil }
func (v *Venta) BeforeCreate(*gorm.DB) error          { v.ID = orNew(v.ID); return nil }
func (p *VentaPago) BeforeCreate(*gorm.DB) error      { p.ID = orNew(p.ID); return nil }
func (p *PedidoAlmuerzo) BeforeCreate(*gorm.DB) error { p.ID = orNew(p.ID); return nil }
func (u *Usuario) BeforeCreate(*gorm.DB) error        { u.ID = orNew(u.ID); return nil }

func orNew(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
