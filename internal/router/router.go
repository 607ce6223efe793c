package router

import (
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/config"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/handler"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/infra"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/middleware"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/service"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	rolesPersonal = []string{
		model.RolSuperAdmin, model.RolAdminGeneral, model.RolGestorUnidad,
		model.RolOperadorCaja, model.RolCajero,
	}
	rolesSupervision = []string{model.RolSuperAdmin, model.RolAdminGeneral, model.RolGestorUnidad}
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker, loc *time.Location) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// config.Load already rejects unknown values; a hand-built Config still gets a warning.
	politica, err := service.ParsePoliticaAjuste(cfg.CajaAjustePolitica)
	if err != nil {
		log.Warn().Err(err).Str("default", string(service.AjusteExcluir)).Msg("invalid CAJA_AJUSTE_POLITICA, using default")
		politica = service.AjusteExcluir
	}
	guard := service.NewGuard(cajaRepo, service.NewRolesPolicy(cfg.RolesCustodia()), loc, time.Now)
	motor := service.NewMotor(cajaRepo, ventaRepo, pedidoRepo, politica)
	locker := infra.NewRedisLocker(rdb, time.Duration(cfg.CajaLockTTLSeconds)*time.Second)
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaService(cajaRepo, guard, motor, locker, authSvc, dispatcher, service.CajaConfig{
		UmbralValidacion: cfg.UmbralValidacion(),
		UmbralFirma:      cfg.UmbralFirma(),
	})
	ventaSvc := service.NewVentaService(ventaRepo, guard, locker)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))
	if cfg.PrometheusEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// The guard decides per session who may sell; parents never reach the POS.
		v1.POST("/ventas", middleware.RequireRole(rolesPersonal...), ventasH.RegistrarVenta)

		caja := v1.Group("/caja", middleware.RequireRole(rolesPersonal...))
		{
			caja.GET("/estado", cajaH.Estado)
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/movimiento", cajaH.RegistrarMovimiento)
			caja.GET("/historial", middleware.RequireRole(rolesSupervision...), cajaH.Historial)
			caja.GET("/:id/movimientos", cajaH.ListarMovimientos)
			caja.GET("/:id/resumen", cajaH.Resumen)
			caja.GET("/:id/reporte", cajaH.Reporte)
			// Admin password checks on closing are throttled per user.
			caja.POST("/:id/cerrar", middleware.AdminValidationRateLimiter(), cajaH.Cerrar)
			caja.POST("/:id/forzar-cierre", middleware.AdminValidationRateLimiter(), cajaH.ForzarCierre)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
