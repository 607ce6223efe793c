package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/config"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/infra"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "clave-segura"

// newTestRouter wires the real engine over SQLite. Redis points nowhere: the
// routes exercised here never reach the lock or the event channel.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "router.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	sede := uuid.New()
	usuarios := repository.NewUsuarioRepository(db)
	for _, u := range []*model.Usuario{
		{Username: "cajera", Nombre: "Cajera", PasswordHash: string(hash), Rol: model.RolCajero, SedeID: &sede, Activo: true},
		{Username: "padre", Nombre: "Padre", PasswordHash: string(hash), Rol: model.RolPadre, Activo: true},
	} {
		require.NoError(t, usuarios.Upsert(context.Background(), u))
	}

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		PrometheusEnabled:  true,
		CajaRolesCustodia:  "cajero,operador_caja,gestor_unidad",
		CajaLockTTLSeconds: 15,
	}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = rdb.Close() })
	lima, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)

	return New(cfg, db, rdb, infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp")), lima)
}

func httpReq(method, path string, body any, token string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func call(r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	return serve(r, httpReq(method, path, body, token))
}

func login(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := call(r, http.MethodPost, "/v1/auth/login", map[string]string{"username": username, "password": testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestRouter_EstadoDeCajaConLogin(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "cajera")

	w := call(r, http.MethodGet, "/v1/caja/estado", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "NEEDS_DECLARATION")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RutasProtegidas(t *testing.T) {
	r := newTestRouter(t)

	w := call(r, http.MethodGet, "/v1/caja/estado", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"no_autorizado"`)

	padre := login(t, r, "padre")
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodPost, "/v1/ventas", map[string]any{"total": "5", "metodo_pago": "efectivo"}, padre).Code)
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/v1/caja/estado", nil, padre).Code)

	cajera := login(t, r, "cajera")
	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/v1/caja/historial", nil, cajera).Code)
}

func TestRouter_VentaSinCajaAbiertaEsConflicto(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "cajera")

	w := call(r, http.MethodPost, "/v1/ventas", map[string]any{"total": "5.50", "metodo_pago": "efectivo"}, token)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"code":"conflicto"`)
}

func TestRouter_Metricas(t *testing.T) {
	r := newTestRouter(t)

	w := call(r, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
