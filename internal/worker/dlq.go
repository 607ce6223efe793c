package worker

// dlq.go: Dead Letter Queue
// Jobs that exhaust their attempts are moved here for inspection and for the
// retry cron. One Redis list per source queue: dlq:{original_queue}

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Rubennaldos/parent-portal-connect-sub004/internal/metrics"

	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // ISO 8601
	Attempts      int             `json:"attempts"`
	Replays       int             `json:"replays"`
}

// SendToDLQ pushes a failed job to the dead letter queue of its source queue.
func SendToDLQ(ctx context.Context, q queue, queueName string, job Job, reason string, attempts int) {
	metrics.JobsFallidos.WithLabelValues(queueName).Inc()

	entry := DLQEntry{
		OriginalQueue: queueName,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
		Replays:       job.Replays,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queueName).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queueName
	if err := q.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("queue", queueName).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", attempts).
		Int("replays", job.Replays).
		Msg("dlq: job moved to dead letter queue")
}
