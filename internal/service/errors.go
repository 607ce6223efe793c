package service

import (
	"errors"
	"fmt"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"
)

// ValidationError reports invalid user input. Nothing was persisted.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports an operation that contradicts the current state of a
// session (open while one is open today, close of a closed session, ...).
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError reports a reference to a session or closure that does not
// exist. Callers should refresh the register state and retry.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// TransientStoreError wraps a failed read or write against the store. The
// operation may be retried as is.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

func validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// storeErr translates a repository error. notFoundMsg is used when the
// repository reports a missing row; duplicates become conflicts.
func storeErr(op string, err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return &NotFoundError{Msg: notFoundMsg}
	case errors.Is(err, repository.ErrDuplicado):
		return &ConflictError{Msg: "la operación entra en conflicto con el estado actual de la caja"}
	case errors.Is(err, repository.ErrSesionNoAbierta):
		return &ConflictError{Msg: "la sesión de caja ya está cerrada"}
	}
	var (
		ve *ValidationError
		ce *ConflictError
		ne *NotFoundError
		te *TransientStoreError
	)
	if errors.As(err, &ve) || errors.As(err, &ce) || errors.As(err, &ne) || errors.As(err, &te) {
		return err
	}
	return &TransientStoreError{Op: op, Err: err}
}
