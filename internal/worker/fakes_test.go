package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/model"
	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// fakeQueue keeps Redis lists and published messages in memory.
type fakeQueue struct {
	mu          sync.Mutex
	lists       map[string][]string
	published   map[string][]string
	failPublish error
	failPush    error
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{lists: map[string][]string{}, published: map[string][]string{}}
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case string:
		return x
	default:
		return ""
	}
}

func (q *fakeQueue) LPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failPush != nil {
		return redis.NewIntResult(0, q.failPush)
	}
	for _, v := range values {
		q.lists[key] = append([]string{toString(v)}, q.lists[key]...)
	}
	return redis.NewIntResult(int64(len(q.lists[key])), nil)
}

func (q *fakeQueue) RPop(_ context.Context, key string) *redis.StringCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	l := q.lists[key]
	if len(l) == 0 {
		return redis.NewStringResult("", redis.Nil)
	}
	v := l[len(l)-1]
	q.lists[key] = l[:len(l)-1]
	return redis.NewStringResult(v, nil)
}

func (q *fakeQueue) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failPublish != nil {
		return redis.NewIntResult(0, q.failPublish)
	}
	q.published[channel] = append(q.published[channel], toString(message))
	return redis.NewIntResult(1, nil)
}

func (q *fakeQueue) list(key string) []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.lists[key]...)
}

// fakeCierres serves one session and its closure.
type fakeCierres struct {
	sesiones map[uuid.UUID]*model.SesionCaja
	cierres  map[uuid.UUID]*model.CierreCaja
	falla    error
}

func (r *fakeCierres) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	if r.falla != nil {
		return nil, r.falla
	}
	s, ok := r.sesiones[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeCierres) FindCierreBySesion(_ context.Context, id uuid.UUID) (*model.CierreCaja, error) {
	c, ok := r.cierres[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type envio struct {
	to      []string
	subject string
	body    string
	pdf     string
}

type fakeMailer struct {
	configured bool
	falla      error
	enviados   []envio
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) SendCierre(to []string, subject, body, pdfPath string) error {
	if m.falla != nil {
		return m.falla
	}
	m.enviados = append(m.enviados, envio{to: to, subject: subject, body: body, pdf: pdfPath})
	return nil
}

var errSMTP = errors.New("dial tcp: connection refused")
