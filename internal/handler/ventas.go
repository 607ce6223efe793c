package handler

import (
	"net/http"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/dto"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary Registra una venta del punto de venta
// @Description Solo se acepta con la caja de la sede abierta hoy.
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarVentaRequest true "Venta"
// @Success 201 {object} dto.VentaResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), a, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
