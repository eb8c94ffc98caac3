package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	rediskeys "github.com/herdup/herdup/pkg/redis"
)

// MaxRetries is the number of times to retry a job before moving to DLQ.
const MaxRetries = 3

// RetryBackoff is the delay between retries.
const RetryBackoff = 10 * time.Second

var (
	// QueueEmails is the Redis list key for email jobs.
	QueueEmails = rediskeys.Key("worker", "emails")
	// QueueDLQ is the dead-letter queue for failed jobs after retries.
	QueueDLQ = rediskeys.Key("worker", "dlq")
)

// JobType identifies the job kind.
type JobType string

const (
	JobTypePasswordReset    JobType = "password_reset"
	JobTypeRSVPConfirmation JobType = "rsvp_confirmation"
)

// PasswordResetPayload is the payload for password reset emails.
type PasswordResetPayload struct {
	UserID         uuid.UUID `json:"user_id"`
	RecipientEmail string    `json:"recipient_email"`
	ResetURL       string    `json:"reset_url"`
}

// RSVPConfirmationPayload is the payload for RSVP confirmation emails.
type RSVPConfirmationPayload struct {
	UserID         uuid.UUID `json:"user_id"`
	EventID        uuid.UUID `json:"event_id"`
	RecipientEmail string    `json:"recipient_email"`
	EventName      string    `json:"event_name"`
	OrgName        string    `json:"org_name"`
	EventDate      string    `json:"event_date"`
	EventTime      string    `json:"event_time"`
	Location       string    `json:"location"`
}

// Job is a generic job envelope.
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Attempt   int             `json:"attempt"`
	CreatedAt time.Time       `json:"created_at"`
}

// Queue enqueues and dequeues jobs via Redis.
type Queue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewQueue creates a new Redis-backed job queue.
func NewQueue(client *redis.Client, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{client: client, logger: logger}
}

// NewJob wraps a payload into a job envelope.
func NewJob(jobType JobType, payload any) (*Job, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Payload:   body,
		CreatedAt: time.Now(),
	}, nil
}

// EnqueuePasswordReset enqueues a password reset email job.
func (q *Queue) EnqueuePasswordReset(ctx context.Context, payload PasswordResetPayload) error {
	return q.enqueue(ctx, JobTypePasswordReset, payload)
}

// EnqueueRSVPConfirmation enqueues an RSVP confirmation email job.
func (q *Queue) EnqueueRSVPConfirmation(ctx context.Context, payload RSVPConfirmationPayload) error {
	return q.enqueue(ctx, JobTypeRSVPConfirmation, payload)
}

func (q *Queue) enqueue(ctx context.Context, jobType JobType, payload any) error {
	job, err := NewJob(jobType, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, QueueEmails, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	q.logger.Debug("enqueued email job", zap.String("job_id", job.ID), zap.String("type", string(jobType)))
	return nil
}

// Dequeue blocks up to timeout for a job. Returns nil job when nothing arrived.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	result, err := q.client.BLPop(ctx, timeout, QueueEmails).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		q.logger.Warn("invalid job payload", zap.String("raw", result[1]), zap.Error(err))
		return nil, nil
	}
	return &job, nil
}

// Retry re-enqueues a job with incremented attempt. If attempt >= MaxRetries, pushes to DLQ instead.
func (q *Queue) Retry(ctx context.Context, job *Job) error {
	job.Attempt++
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if job.Attempt >= MaxRetries {
		if err := q.client.RPush(ctx, QueueDLQ, raw).Err(); err != nil {
			q.logger.Error("dlq push failed", zap.Error(err), zap.String("job_id", job.ID))
			return err
		}
		q.logger.Warn("job moved to DLQ", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		return nil
	}
	if err := q.client.RPush(ctx, QueueEmails, raw).Err(); err != nil {
		return err
	}
	q.logger.Info("job retried", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	return nil
}
