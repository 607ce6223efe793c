package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("registro no encontrado")
	ErrDuplicado = errors.New("registro duplicado")
	// ErrSesionNoAbierta is returned when a close targets a session that is
	// no longer open (closed or force-closed by someone else).
	ErrSesionNoAbierta = errors.New("la sesión no está abierta")
)

const pgUniqueViolation = "23505"

// translate maps driver errors onto the package sentinels so services never
// depend on gorm or pgx.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicado
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicado
	}
	// sqlite, used by the repository tests
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicado
	}
	return err
}
