package worker

// cierre_worker.go
// Processes closure-report jobs from QueueCierreCaja: renders the closure
// ticket PDF and mails it to CAJA_REPORTE_EMAIL through the SMTP breaker.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/infra"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/metrics"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type cierreReader interface {
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	FindCierreBySesion(ctx context.Context, sesionID uuid.UUID) (*model.CierreCaja, error)
}

type reportMailer interface {
	Configured() bool
	SendCierre(to []string, subject, body, pdfPath string) error
}

// CierreWorker renders and mails closure reports.
type CierreWorker struct {
	repo           cierreReader
	mailer         reportMailer
	cb             *infra.CircuitBreaker
	pdfStoragePath string
	destinatarios  []string
	loc            *time.Location
}

// NewCierreWorker wires the report worker. destinatarios is the comma
// separated CAJA_REPORTE_EMAIL value; empty means reports are only stored.
func NewCierreWorker(repo cierreReader, mailer reportMailer, cb *infra.CircuitBreaker, pdfStoragePath, destinatarios string, loc *time.Location) *CierreWorker {
	var to []string
	for _, d := range strings.Split(destinatarios, ",") {
		if d = strings.TrimSpace(d); d != "" {
			to = append(to, d)
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CierreWorker{
		repo:           repo,
		mailer:         mailer,
		cb:             cb,
		pdfStoragePath: pdfStoragePath,
		destinatarios:  to,
		loc:            loc,
	}
}

// NewSMTPBreaker returns the breaker guarding the SMTP relay, reporting its
// state on the circuit_breaker_abierto gauge.
func NewSMTPBreaker() *infra.CircuitBreaker {
	cfg := infra.DefaultCBConfig("smtp")
	cfg.OnStateChange = func(name string, _, to infra.CBState) {
		v := 0.0
		if to != infra.CBClosed {
			v = 1
		}
		metrics.BreakerAbierto.WithLabelValues(name).Set(v)
	}
	return infra.NewCircuitBreaker(cfg)
}

// Process handles a single closure-report job:
//  1. Load the session and its closure
//  2. Render the ticket PDF
//  3. Mail it through the breaker, when SMTP and recipients are configured
func (w *CierreWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload CierreJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return permanent(fmt.Errorf("cierre_worker: invalid payload: %w", err))
	}
	sesionID, err := uuid.Parse(payload.SesionID)
	if err != nil {
		return permanent(fmt.Errorf("cierre_worker: invalid sesion_id %q", payload.SesionID))
	}

	sesion, err := w.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return w.loadErr("sesion", err)
	}
	cierre, err := w.repo.FindCierreBySesion(ctx, sesionID)
	if err != nil {
		return w.loadErr("cierre", err)
	}

	pdfPath, err := infra.GenerarCierrePDF(sesion, cierre, w.pdfStoragePath, w.loc)
	if err != nil {
		return fmt.Errorf("cierre_worker: %w", err)
	}
	logger := log.With().Str("sesion_id", payload.SesionID).Str("pdf", pdfPath).Logger()

	if !w.mailer.Configured() || len(w.destinatarios) == 0 {
		logger.Info().Msg("cierre_worker: report stored, mail not configured")
		return nil
	}

	subject, body := w.mensaje(sesion, cierre)
	if err := w.cb.Execute(func() error {
		return w.mailer.SendCierre(w.destinatarios, subject, body, pdfPath)
	}); err != nil {
		return fmt.Errorf("cierre_worker: send report: %w", err)
	}
	logger.Info().Strs("to", w.destinatarios).Msg("cierre_worker: report sent")
	return nil
}

func (w *CierreWorker) loadErr(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return permanent(fmt.Errorf("cierre_worker: %s not found", what))
	}
	return fmt.Errorf("cierre_worker: load %s: %w", what, err)
}

func (w *CierreWorker) mensaje(s *model.SesionCaja, c *model.CierreCaja) (string, string) {
	fecha := c.FechaCierre.Format("02/01/2006")
	subject := "Cierre de caja " + fecha
	if c.Forzado {
		subject += " (forzado)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sesión: %s\n", s.ID)
	fmt.Fprintf(&b, "Apertura: %s\n", s.OpenedAt.In(w.loc).Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Esperado: S/ %s\n", c.EsperadoFinal.StringFixed(2))
	fmt.Fprintf(&b, "Declarado: S/ %s\n", c.RealFinal.StringFixed(2))
	fmt.Fprintf(&b, "Diferencia: S/ %s\n", c.Diferencia.StringFixed(2))
	if c.Notas != nil && *c.Notas != "" {
		fmt.Fprintf(&b, "Notas: %s\n", *c.Notas)
	}
	return subject, b.String()
}
