package worker

import (
	"context"
	"encoding/json"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/service"

	"github.com/redis/go-redis/v9"
)

const (
	// CanalEventos is the pub/sub channel every register event is published on.
	CanalEventos = "caja:eventos"

	QueueCierreCaja = "jobs:cierre_caja"
	JobCierreCaja   = "cierre_caja"
)

// Job is the generic envelope for all async tasks. Replays counts how many
// times the job came back from the dead-letter queue.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Replays int             `json:"replays,omitempty"`
}

// CierreJobPayload asks for the closure report of one session.
type CierreJobPayload struct {
	SesionID string `json:"sesion_id"`
	Forzado  bool   `json:"forzado,omitempty"`
}

// queue is the slice of the Redis API the dispatcher, the DLQ and the retry
// cron use. *redis.Client satisfies it.
type queue interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	RPop(ctx context.Context, key string) *redis.StringCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Dispatcher publishes register events and enqueues the jobs they trigger.
// It is the service.EventPublisher used in production.
type Dispatcher struct {
	rdb queue
}

func NewDispatcher(rdb queue) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// Publicar broadcasts ev on CanalEventos. A closed register also gets its
// report job queued.
func (d *Dispatcher) Publicar(ctx context.Context, ev service.CajaEvento) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := d.rdb.Publish(ctx, CanalEventos, data).Err(); err != nil {
		return err
	}
	if ev.Tipo != service.EventoCajaCerrada {
		return nil
	}
	return d.EnqueueCierre(ctx, CierreJobPayload{SesionID: ev.SesionID.String(), Forzado: ev.Forzado})
}

// EnqueueCierre pushes a closure-report job to Redis.
func (d *Dispatcher) EnqueueCierre(ctx context.Context, payload CierreJobPayload) error {
	return enqueue(ctx, d.rdb, QueueCierreCaja, Job{Type: JobCierreCaja}, payload)
}

func enqueue(ctx context.Context, rdb queue, queueName string, job Job, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job.Payload = data
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queueName, encoded).Err()
}
