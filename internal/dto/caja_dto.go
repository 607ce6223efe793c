package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AbrirCajaRequest is the opening declaration. The cashier must confirm the
// counted amount before the session is created. An omitted amount is nil,
// never zero.
type AbrirCajaRequest struct {
	MontoInicial *decimal.Decimal `json:"monto_inicial" validate:"required,min=0"`
	Confirmado   bool             `json:"confirmado"`
	Notas        *string          `json:"notas"         validate:"omitempty,max=500"`
}

type MovimientoRequest struct {
	SesionID          string          `json:"sesion_id"          validate:"required,uuid"`
	Tipo              string          `json:"tipo"               validate:"required,oneof=ingreso egreso ajuste"`
	Monto             decimal.Decimal `json:"monto"              validate:"gt=0"`
	Motivo            string          `json:"motivo"             validate:"required,min=3,max=255"`
	ResponsableNombre string          `json:"responsable_nombre" validate:"required,min=2,max=120"`
	ResponsableID     *string         `json:"responsable_id"     validate:"omitempty,uuid"`
	FirmaValidada     bool            `json:"firma_validada"`
	VoucherImpreso    bool            `json:"voucher_impreso"`
}

// CerrarCajaRequest carries the declared cash. AdminUsername and
// AdminPassword are only needed when the difference exceeds the validation
// threshold.
type CerrarCajaRequest struct {
	MontoReal       *decimal.Decimal `json:"monto_real"      validate:"required,min=0"`
	Notas           *string          `json:"notas"           validate:"omitempty,max=500"`
	AdminUsername   string           `json:"admin_username"  validate:"omitempty,max=150"`
	AdminPassword   string           `json:"admin_password"  validate:"omitempty,max=128"`
	Exportado       bool             `json:"exportado"`
	Impreso         bool             `json:"impreso"`
	EnviadoWhatsApp bool             `json:"enviado_whatsapp"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SesionResponse struct {
	ID            string           `json:"id"`
	SedeID        string           `json:"sede_id"`
	AbiertaPor    string           `json:"abierta_por"`
	MontoInicial  decimal.Decimal  `json:"monto_inicial"`
	MontoEsperado *decimal.Decimal `json:"monto_esperado"`
	MontoReal     *decimal.Decimal `json:"monto_real"`
	Diferencia    *decimal.Decimal `json:"diferencia"`
	Estado        string           `json:"estado"`
	CerradaPor    *string          `json:"cerrada_por"`
	Notas         *string          `json:"notas"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at"`
}

// EstadoCajaResponse drives the kiosk entry screen.
// Resultado: OPEN_TODAY | UNCLOSED_PREVIOUS | NEEDS_DECLARATION | NOT_APPLICABLE
// Flujo:     open | unclosed_warning | declaration | not_applicable
type EstadoCajaResponse struct {
	Resultado string          `json:"resultado"`
	Flujo     string          `json:"flujo"`
	Fecha     string          `json:"fecha"`
	Sesion    *SesionResponse `json:"sesion"`
}

type MovimientoResponse struct {
	ID                string          `json:"id"`
	SesionID          string          `json:"sesion_id"`
	Tipo              string          `json:"tipo"`
	Monto             decimal.Decimal `json:"monto"`
	Motivo            string          `json:"motivo"`
	ResponsableNombre string          `json:"responsable_nombre"`
	ResponsableID     *string         `json:"responsable_id"`
	CreadoPor         string          `json:"creado_por"`
	FirmaRequerida    bool            `json:"firma_requerida"`
	FirmaValidada     bool            `json:"firma_validada"`
	VoucherImpreso    bool            `json:"voucher_impreso"`
	CreatedAt         string          `json:"created_at"`
}

type DesglosePos struct {
	Efectivo      decimal.Decimal `json:"efectivo"`
	Tarjeta       decimal.Decimal `json:"tarjeta"`
	Yape          decimal.Decimal `json:"yape"`
	YapeQR        decimal.Decimal `json:"yape_qr"`
	Credito       decimal.Decimal `json:"credito"`
	MixtoEfectivo decimal.Decimal `json:"mixto_efectivo"`
	MixtoTarjeta  decimal.Decimal `json:"mixto_tarjeta"`
	MixtoYape     decimal.Decimal `json:"mixto_yape"`
	Total         decimal.Decimal `json:"total"`
}

type DesgloseAlmuerzo struct {
	Efectivo decimal.Decimal `json:"efectivo"`
	Credito  decimal.Decimal `json:"credito"`
	Tarjeta  decimal.Decimal `json:"tarjeta"`
	Yape     decimal.Decimal `json:"yape"`
	Total    decimal.Decimal `json:"total"`
}

type TotalesCaja struct {
	Efectivo decimal.Decimal `json:"efectivo"`
	Tarjeta  decimal.Decimal `json:"tarjeta"`
	Yape     decimal.Decimal `json:"yape"`
	YapeQR   decimal.Decimal `json:"yape_qr"`
	Credito  decimal.Decimal `json:"credito"`
	Ventas   decimal.Decimal `json:"ventas"`
}

// ResumenResponse is the reconciliation shown on the closing screen.
type ResumenResponse struct {
	SesionID       string           `json:"sesion_id"`
	Desde          string           `json:"desde"`
	Hasta          string           `json:"hasta"`
	Pos            DesglosePos      `json:"pos"`
	Almuerzo       DesgloseAlmuerzo `json:"almuerzo"`
	Totales        TotalesCaja      `json:"totales"`
	MontoInicial   decimal.Decimal  `json:"monto_inicial"`
	TotalIngresos  decimal.Decimal  `json:"total_ingresos"`
	TotalEgresos   decimal.Decimal  `json:"total_egresos"`
	TotalAjustes   decimal.Decimal  `json:"total_ajustes"`
	PoliticaAjuste string           `json:"politica_ajuste"`
	EsperadoFinal  decimal.Decimal  `json:"esperado_final"`
	// UmbralValidacion is the |diferencia| above which an admin must validate.
	UmbralValidacion decimal.Decimal `json:"umbral_validacion"`
}

type CierreResponse struct {
	ID              string           `json:"id"`
	SesionID        string           `json:"sesion_id"`
	SedeID          string           `json:"sede_id"`
	FechaCierre     string           `json:"fecha_cierre"`
	Pos             DesglosePos      `json:"pos"`
	Almuerzo        DesgloseAlmuerzo `json:"almuerzo"`
	Totales         TotalesCaja      `json:"totales"`
	TotalIngresos   decimal.Decimal  `json:"total_ingresos"`
	TotalEgresos    decimal.Decimal  `json:"total_egresos"`
	MontoInicial    decimal.Decimal  `json:"monto_inicial"`
	EsperadoFinal   decimal.Decimal  `json:"esperado_final"`
	RealFinal       decimal.Decimal  `json:"real_final"`
	Diferencia      decimal.Decimal  `json:"diferencia"`
	CerradoPor      string           `json:"cerrado_por"`
	ValidadoPor     *string          `json:"validado_por"`
	Exportado       bool             `json:"exportado"`
	Impreso         bool             `json:"impreso"`
	EnviadoWhatsApp bool             `json:"enviado_whatsapp"`
	Forzado         bool             `json:"forzado"`
	Notas           *string          `json:"notas"`
	CreatedAt       string           `json:"created_at"`
}

// ReporteCajaResponse bundles a session with its ledger. Cierre is set for
// closed sessions; Resumen carries the live reconciliation of open ones.
type ReporteCajaResponse struct {
	Sesion      SesionResponse       `json:"sesion"`
	Movimientos []MovimientoResponse `json:"movimientos"`
	Cierre      *CierreResponse      `json:"cierre"`
	Resumen     *ResumenResponse     `json:"resumen"`
}

type HistorialCierresResponse struct {
	Data  []CierreResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
