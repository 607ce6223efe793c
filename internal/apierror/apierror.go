// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// Machine-readable codes carried next to the human message so the kiosk
// client can choose between "refresh", "retry" and "fix the input".
const (
	CodeValidacion   = "validacion"
	CodeConflicto    = "conflicto"
	CodeNoEncontrado = "no_encontrado"
	CodeReintentar   = "reintentar"
	CodeNoAutorizado = "no_autorizado"
	CodeInterno      = "interno"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// WithCode builds an envelope tagged with one of the Code* constants.
func WithCode(code, msg string) *APIError {
	return &APIError{Detail: msg, Code: code}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Code: CodeValidacion, Fields: fields}
}
