package worker

// retry_cron.go
// Background goroutine that periodically puts dead-lettered report jobs back
// on their queue once the SMTP breaker is no longer open. Jobs that already
// came back MaxReplays times are parked in dlq:{queue}:agotados.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 10
	// MaxReplays is how many times one job may return from the DLQ.
	MaxReplays = 3
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	Queue    queue
	CB       *infra.CircuitBreaker
	Queues   []string
	Interval time.Duration
}

// StartRetryCron launches the replay loop. It respects the context for
// graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	interval := cfg.Interval
	if interval <= 0 {
		interval = retryTickInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				for _, q := range cfg.Queues {
					replayDLQ(ctx, cfg, q)
				}
			}
		}
	}()
}

// replayDLQ moves up to retryBatchSize entries of dlq:{queueName} back to
// queueName and returns how many were requeued.
func replayDLQ(ctx context.Context, cfg RetryCronConfig, queueName string) int {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return 0
	}

	dlqKey := DLQPrefix + queueName
	requeued := 0
	for i := 0; i < retryBatchSize; i++ {
		raw, err := cfg.Queue.RPop(ctx, dlqKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: failed to pop DLQ")
			break
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.JobType == "" || entry.Replays >= MaxReplays {
			if err := cfg.Queue.LPush(ctx, dlqKey+":agotados", raw).Err(); err != nil {
				log.Error().Err(err).Str("dlq_key", dlqKey).Msg("retry_cron: failed to park entry")
			}
			continue
		}

		job := Job{Type: entry.JobType, Payload: entry.Payload, Replays: entry.Replays + 1}
		encoded, err := json.Marshal(job)
		if err != nil {
			continue
		}
		if err := cfg.Queue.LPush(ctx, queueName, encoded).Err(); err != nil {
			log.Error().Err(err).Str("queue", queueName).Msg("retry_cron: failed to requeue job")
			_ = cfg.Queue.LPush(ctx, dlqKey, raw).Err()
			break
		}
		requeued++
	}
	if requeued > 0 {
		log.Info().Str("queue", queueName).Int("count", requeued).Msg("retry_cron: dead-lettered jobs requeued")
	}
	return requeued
}
