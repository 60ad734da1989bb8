package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/config"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/logger"
)

// Dispatcher pulls registration jobs from the work queue and hands them to
// the executor. One bad job never stops the loop; message-level failures are
// acked, naked or dead-lettered individually.
type Dispatcher struct {
	js       adapter.JetStream
	json     adapter.JSON
	clock    adapter.Clock
	executor JobExecutor
	cfg      config.NATSConfig
	running  atomic.Bool
}

// NewDispatcher creates a dispatcher bound to one consumer
func NewDispatcher(js adapter.JetStream, jsonAdapter adapter.JSON, clock adapter.Clock, executor JobExecutor, cfg config.NATSConfig) *Dispatcher {
	return &Dispatcher{
		js:       js,
		json:     jsonAdapter,
		clock:    clock,
		executor: executor,
		cfg:      cfg,
	}
}

// Start runs the poll loop until Stop is called or the context is cancelled.
// The consumer's ack wait is the visibility timeout: a worker that dies
// mid-job has its message redelivered elsewhere.
func (d *Dispatcher) Start(ctx context.Context) error {
	consumer, err := d.js.CreateOrUpdateConsumer(ctx, d.cfg.StreamName, jetstream.ConsumerConfig{
		Durable:       d.cfg.ConsumerName,
		FilterSubject: SubjectPrefix + ".>",
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       d.cfg.AckWait,
		MaxDeliver:    d.cfg.MaxDeliver,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", d.cfg.ConsumerName, err)
	}

	d.running.Store(true)
	logger.Info("dispatcher started",
		zap.String("stream", d.cfg.StreamName),
		zap.String("consumer", d.cfg.ConsumerName))

	for d.running.Load() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msgs, err := consumer.Fetch(d.cfg.FetchBatchSize, d.cfg.FetchMaxWait)
		if err != nil {
			if isFetchTimeout(err) {
				continue
			}
			backoffFor := infraBackoff(err)
			logger.Error(fmt.Errorf("fetch failed: %w", err),
				zap.Duration("backoff", backoffFor))
			d.clock.Sleep(backoffFor)
			continue
		}

		for _, msg := range msgs {
			d.handleMessage(ctx, msg)
		}
	}

	logger.Info("dispatcher stopped")
	return nil
}

// Stop makes the loop exit after its current iteration
func (d *Dispatcher) Stop() {
	d.running.Store(false)
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg adapter.Message) {
	var job domain.RegistrationJob
	if err := d.json.Unmarshal(msg.Data(), &job); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("malformed job payload, dead-lettered: %w", err),
			zap.ByteString("payload", msg.Data()))
		d.terminate(ctx, msg, "")
		return
	}

	if err := job.Validate(); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("invalid job, dead-lettered: %w", err),
			zap.String("job_id", job.JobID),
			zap.String("property_id", job.PropertyID))
		d.terminate(ctx, msg, job.JobID)
		return
	}

	result := d.executor.Execute(ctx, &job)

	if result.Success {
		if err := msg.Ack(); err != nil {
			logger.WarnCtx(ctx, "failed to ack message", zap.Error(err), zap.String("job_id", job.JobID))
		}
		return
	}

	if !domain.IsRetryable(result.Err) {
		logger.ErrorCtx(ctx, fmt.Errorf("job failed terminally, dead-lettered: %w", result.Err),
			zap.String("job_id", job.JobID),
			zap.String("property_id", job.PropertyID),
			zap.String("state", string(result.State)))
		d.terminate(ctx, msg, job.JobID)
		return
	}

	if d.deliveriesExhausted(ctx, msg) {
		logger.ErrorCtx(ctx, fmt.Errorf("job exhausted retries, dead-lettered: %w", result.Err),
			zap.String("job_id", job.JobID),
			zap.String("property_id", job.PropertyID),
			zap.String("state", string(result.State)))
		d.terminate(ctx, msg, job.JobID)
		return
	}

	logger.WarnCtx(ctx, "job failed, scheduling redelivery",
		zap.Error(result.Err),
		zap.String("job_id", job.JobID),
		zap.String("property_id", job.PropertyID),
		zap.String("state", string(result.State)))
	if err := msg.Nak(); err != nil {
		logger.WarnCtx(ctx, "failed to nak message", zap.Error(err), zap.String("job_id", job.JobID))
	}
}

func (d *Dispatcher) terminate(ctx context.Context, msg adapter.Message, jobID string) {
	if err := msg.Term(); err != nil {
		logger.WarnCtx(ctx, "failed to terminate message", zap.Error(err), zap.String("job_id", jobID))
	}
}

// deliveriesExhausted reports whether this delivery is the message's last
// allowed attempt.
func (d *Dispatcher) deliveriesExhausted(ctx context.Context, msg adapter.Message) bool {
	md, err := msg.Metadata()
	if err != nil {
		logger.WarnCtx(ctx, "failed to read message metadata", zap.Error(err))
		return false
	}
	return d.cfg.MaxDeliver > 0 && md.NumDelivered >= uint64(d.cfg.MaxDeliver)
}

func isFetchTimeout(err error) bool {
	return errors.Is(err, nats.ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, jetstream.ErrNoMessages)
}

// infraBackoff scales the poll-loop sleep to the error's expected recovery
// time: auth and permission failures need human intervention, connection
// blips resolve on their own.
func infraBackoff(err error) time.Duration {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "authorization") ||
		strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "permission") {
		return 30 * time.Second
	}
	return 2 * time.Second
}
