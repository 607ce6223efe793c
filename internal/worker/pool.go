package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// maxJobAttempts is how many times a job runs before it is dead-lettered.
const maxJobAttempts = 3

// JobHandler processes the payload of one job type. Returning a
// permanent error skips the remaining attempts.
type JobHandler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// permanent marks err as not worth retrying (bad payload, missing rows).
func permanent(err error) error { return &permanentError{err: err} }

// StartWorkerPool launches numWorkers goroutines consuming the queues of
// handlers (keyed by queue name). Each goroutine blocks on BRPOP, so idle
// workers cost nothing. Wait on the returned group after cancelling ctx.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]JobHandler) *sync.WaitGroup {
	queues := make([]string, 0, len(handlers))
	for q := range handlers {
		queues = append(queues, q)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, id, queues, handlers)
		}(i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", queues).Msg("worker pool started")
	return &wg
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, queues []string, handlers map[string]JobHandler) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Int("worker", id).Err(err).Msg("worker: BRPOP failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[0], result[1], handlers[result[0]])
		}
	}
}

// processJob runs one raw job with retries and dead-letters it on failure.
func processJob(ctx context.Context, q queue, queueName, raw string, h JobHandler) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		SendToDLQ(ctx, q, queueName, Job{Payload: json.RawMessage(`null`)}, "payload ilegible: "+err.Error(), 0)
		return
	}
	if h == nil {
		SendToDLQ(ctx, q, queueName, job, "sin handler para la cola", 0)
		return
	}

	logger := log.With().Str("queue", queueName).Str("type", job.Type).Logger()
	attempts, err := withRetry(ctx, maxJobAttempts, func(attempt int) error {
		err := h.Process(ctx, job.Payload)
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt+1).Msg("job attempt failed")
		}
		return err
	})
	if err != nil {
		SendToDLQ(ctx, q, queueName, job, err.Error(), attempts)
		return
	}
	logger.Info().Int("attempts", attempts).Msg("job processed")
}

// retryBackoff is the first wait between attempts; it doubles every time.
var retryBackoff = time.Second

// withRetry calls fn up to maxAttempts times with exponential backoff and
// returns how many attempts ran. Permanent errors stop immediately.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) (int, error) {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * retryBackoff
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-time.After(wait):
			}
		}
		err := fn(i)
		if err == nil {
			return i + 1, nil
		}
		lastErr = err
		var pe *permanentError
		if errors.As(err, &pe) {
			return i + 1, err
		}
	}
	return maxAttempts, lastErr
}
