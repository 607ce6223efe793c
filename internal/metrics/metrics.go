// Package metrics exposes the register counters scraped from /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	CajasAbiertas = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kiosco",
		Subsystem: "caja",
		Name:      "aperturas_total",
		Help:      "Cash register sessions opened.",
	}, []string{"sede"})

	Cierres = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kiosco",
		Subsystem: "caja",
		Name:      "cierres_total",
		Help:      "Cash register closures by kind (normal, forzado).",
	}, []string{"tipo"})

	Diferencia = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kiosco",
		Subsystem: "caja",
		Name:      "diferencia_soles",
		Help:      "Declared minus expected cash at closing.",
		Buckets:   []float64{-100, -20, -10, -5, -1, 0, 1, 5, 10, 20, 100},
	})

	Movimientos = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kiosco",
		Subsystem: "caja",
		Name:      "movimientos_total",
		Help:      "Manual cash movements by tipo.",
	}, []string{"tipo"})

	Conflictos = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kiosco",
		Subsystem: "caja",
		Name:      "conflictos_total",
		Help:      "Register operations rejected because of the register state.",
	}, []string{"operacion"})

	JobsFallidos = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kiosco",
		Subsystem: "worker",
		Name:      "jobs_fallidos_total",
		Help:      "Background jobs moved to the dead-letter queue.",
	}, []string{"queue"})

	BreakerAbierto = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "kiosco",
		Subsystem: "worker",
		Name:      "circuit_breaker_abierto",
		Help:      "1 while the named circuit breaker is not closed.",
	}, []string{"breaker"})
)

// ObservarDiferencia records a closing difference.
func ObservarDiferencia(d decimal.Decimal) {
	f, _ := d.Float64()
	Diferencia.Observe(f)
}
