package infra

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerarCierrePDF(t *testing.T) {
	opened := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	closed := opened.Add(9 * time.Hour)
	notas := "Diferencia por vuelto mal entregado"
	s := &model.SesionCaja{ID: uuid.New(), OpenedAt: opened, ClosedAt: &closed}
	c := &model.CierreCaja{
		SesionID:         s.ID,
		PosEfectivo:      decimal.NewFromInt(150),
		PosMixtoEfectivo: decimal.NewFromInt(5),
		PosTotal:         decimal.NewFromInt(155),
		MontoInicial:     decimal.NewFromInt(100),
		EsperadoFinal:    decimal.NewFromInt(265),
		RealFinal:        decimal.NewFromInt(260),
		Diferencia:       decimal.NewFromInt(-5),
		Notas:            &notas,
	}
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	path, err := GenerarCierrePDF(s, c, t.TempDir(), lima)
	require.NoError(t, err)
	assert.Contains(t, path, "cierre_"+s.ID.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestSendCierreSinDestinatarios(t *testing.T) {
	m := &Mailer{}
	assert.Error(t, m.SendCierre(nil, "asunto", "cuerpo", ""))
}
