package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/apierror"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/middleware"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// IdempotencyKeyHeader carries the client-generated key of open and close
// requests so a retried submit returns the original record.
const IdempotencyKeyHeader = "Idempotency-Key"

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode(apierror.CodeValidacion, "JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeError maps service errors onto HTTP statuses. Anything untyped is
// logged and answered with a generic 500.
func writeError(c *gin.Context, err error) {
	var (
		ve *service.ValidationError
		ce *service.ConflictError
		ne *service.NotFoundError
		te *service.TransientStoreError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, apierror.WithCode(apierror.CodeValidacion, ve.Msg))
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, apierror.WithCode(apierror.CodeConflicto, ce.Msg))
	case errors.As(err, &ne):
		c.JSON(http.StatusNotFound, apierror.WithCode(apierror.CodeNoEncontrado, ne.Msg))
	case errors.Is(err, service.ErrCredenciales):
		c.JSON(http.StatusUnauthorized, apierror.WithCode(apierror.CodeNoAutorizado, "Credenciales invalidas"))
	case errors.As(err, &te):
		log.Warn().Str("request_id", c.GetString(middleware.RequestIDKey)).Err(err).Msg("store unavailable")
		c.JSON(http.StatusServiceUnavailable, apierror.WithCode(apierror.CodeReintentar, "Servicio no disponible, reintente"))
	default:
		_ = c.Error(err)
		log.Error().Str("request_id", c.GetString(middleware.RequestIDKey)).Err(err).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, apierror.WithCode(apierror.CodeInterno, "Error interno del servidor"))
	}
}

// actor builds the service-level identity from the JWT claims. A malformed
// sede_id is treated as no site.
func actor(c *gin.Context) (service.Actor, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.WithCode(apierror.CodeNoAutorizado, "Autenticacion requerida"))
		return service.Actor{}, false
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.WithCode(apierror.CodeNoAutorizado, "Token sin usuario valido"))
		return service.Actor{}, false
	}
	a := service.Actor{UsuarioID: uid, Email: claims.Email, Rol: claims.Rol}
	if claims.SedeID != nil {
		if sede, err := uuid.Parse(*claims.SedeID); err == nil {
			a.SedeID = &sede
		}
	}
	return a, true
}

// sesionParam parses the :id path parameter.
func sesionParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.WithCode(apierror.CodeValidacion, "ID de sesion invalido"))
		return uuid.Nil, false
	}
	return id, true
}
