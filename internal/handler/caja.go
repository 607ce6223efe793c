package handler

import (
	"net/http"
	"strconv"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/dto"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Estado godoc
// @Summary Estado de la caja de la sede del usuario
// @Description Resultado del guardia (OPEN_TODAY, UNCLOSED_PREVIOUS, NEEDS_DECLARATION, NOT_APPLICABLE) y la pantalla que corresponde.
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EstadoCajaResponse
// @Failure 503 {object} apierror.APIError
// @Router /v1/caja/estado [get]
func (h *CajaHandler) Estado(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	resp, err := h.svc.Estado(c.Request.Context(), a)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Abrir godoc
// @Summary Declara el monto inicial y abre la caja del dia
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Clave de reintento"
// @Param body body dto.AbrirCajaRequest true "Declaracion de apertura"
// @Success 201 {object} dto.SesionResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), a, req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarMovimiento godoc
// @Summary Registra un ingreso, egreso o ajuste manual
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovimientoRequest true "Movimiento manual"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja/movimiento [post]
func (h *CajaHandler) RegistrarMovimiento(c *gin.Context) {
	var req dto.MovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegistrarMovimiento(c.Request.Context(), a, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarMovimientos godoc
// @Summary Lista los movimientos manuales de una sesion
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesion"
// @Success 200 {array} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/movimientos [get]
func (h *CajaHandler) ListarMovimientos(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := sesionParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), a, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if resp == nil {
		resp = []dto.MovimientoResponse{}
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary Conciliacion en vivo de la sesion
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesion"
// @Success 200 {object} dto.ResumenResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/resumen [get]
func (h *CajaHandler) Resumen(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := sesionParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), a, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cerrar godoc
// @Summary Cierra la caja con el efectivo contado
// @Description Si |diferencia| supera el umbral se exigen credenciales de un administrador.
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesion"
// @Param Idempotency-Key header string false "Clave de reintento"
// @Param body body dto.CerrarCajaRequest true "Efectivo declarado"
// @Success 200 {object} dto.CierreResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caja/{id}/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	id, ok := sesionParam(c)
	if !ok {
		return
	}
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, ok := actor(c)
	if !ok {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), a, id, req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ForzarCierre godoc
// @Summary Cierre forzado de una caja de un dia anterior
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesion"
// @Param Idempotency-Key header string false "Clave de reintento"
// @Success 200 {object} dto.CierreResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/{id}/forzar-cierre [post]
func (h *CajaHandler) ForzarCierre(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := sesionParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.ForzarCierre(c.Request.Context(), a, id, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reporte godoc
// @Summary Reporte de una sesion de caja
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de sesion"
// @Success 200 {object} dto.ReporteCajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/reporte [get]
func (h *CajaHandler) Reporte(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := sesionParam(c)
	if !ok {
		return
	}
	resp, err := h.svc.Reporte(c.Request.Context(), a, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary Historial paginado de cierres de la sede del usuario
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param page query int false "Pagina (1..10000)" default(1)
// @Param limit query int false "Cierres por pagina (1..100)" default(20)
// @Success 200 {object} dto.HistorialCierresResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/caja/historial [get]
func (h *CajaHandler) Historial(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if page > service.MaxPaginaHistorial {
		page = service.MaxPaginaHistorial
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	resp, err := h.svc.Historial(c.Request.Context(), a, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
