package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/herdup/herdup/internal/models"
	"github.com/herdup/herdup/pkg/queue"
)

// JobQueue is the part of queue.Queue the processor needs.
type JobQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// LogStore records delivery attempts.
type LogStore interface {
	Create(ctx context.Context, l *models.EmailLog) error
}

// EmailProcessor delivers email jobs and records each attempt in email_logs.
type EmailProcessor struct {
	queue   JobQueue
	sender  Sender
	logs    LogStore
	logger  *zap.Logger
	poll    time.Duration
	backoff time.Duration
	now     func() time.Time
}

// NewEmailProcessor creates an email job processor.
func NewEmailProcessor(q JobQueue, sender Sender, logs LogStore, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{
		queue:   q,
		sender:  sender,
		logs:    logs,
		logger:  logger,
		poll:    5 * time.Second,
		backoff: queue.RetryBackoff,
		now:     time.Now,
	}
}

// Process renders and sends one email job.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	var (
		msg     Message
		entry   models.EmailLog
		userID  uuid.UUID
		eventID *uuid.UUID
		err     error
	)
	switch job.Type {
	case queue.JobTypePasswordReset:
		var payload queue.PasswordResetPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		userID = payload.UserID
		entry.EmailType = models.EmailTypePasswordReset
		msg, err = renderPasswordReset(payload)
	case queue.JobTypeRSVPConfirmation:
		var payload queue.RSVPConfirmationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		userID = payload.UserID
		eventID = &payload.EventID
		entry.EmailType = models.EmailTypeRSVPConfirmation
		msg, err = renderRSVPConfirmation(payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", job.Type, err)
	}
	if msg.To == "" {
		p.logger.Warn("email job without recipient dropped", zap.String("job_id", job.ID))
		return nil
	}

	entry.UserID = &userID
	entry.EventID = eventID
	entry.RecipientEmail = msg.To
	entry.Subject = msg.Subject

	sendErr := p.sender.Send(msg)
	if sendErr != nil {
		entry.Status = models.EmailLogStatusFailed
		entry.ErrorMessage = sendErr.Error()
	} else {
		sent := p.now()
		entry.Status = models.EmailLogStatusSent
		entry.SentAt = &sent
	}
	if p.logs != nil {
		if err := p.logs.Create(ctx, &entry); err != nil {
			p.logger.Warn("write email log", zap.Error(err), zap.String("job_id", job.ID))
		}
	}
	if sendErr != nil {
		return sendErr
	}
	p.logger.Info("email sent", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *EmailProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, p.poll)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *EmailProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
