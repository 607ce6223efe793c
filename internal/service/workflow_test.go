package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstadoFlujo(t *testing.T) {
	assert.Equal(t, FlujoAdvertencia, EstadoFlujo(ResultadoSinCerrar))
	assert.Equal(t, FlujoAbierta, EstadoFlujo(ResultadoAbiertaHoy))
	assert.Equal(t, FlujoDeclaracion, EstadoFlujo(ResultadoRequiereDeclaracion))
	assert.Equal(t, FlujoNoAplica, EstadoFlujo(ResultadoNoAplica))
	assert.Equal(t, FlujoNoAplica, EstadoFlujo("otro"))
}

func TestValidarDeclaracion(t *testing.T) {
	var ve *ValidationError
	require.ErrorAs(t, ValidarDeclaracion(montoDe("-1"), true), &ve)
	require.ErrorAs(t, ValidarDeclaracion(montoDe("0"), false), &ve)
	assert.NoError(t, ValidarDeclaracion(montoDe("0"), true))
	assert.NoError(t, ValidarDeclaracion(montoDe("150.50"), true))
	require.ErrorAs(t, ValidarDeclaracion(nil, true), &ve)
}
