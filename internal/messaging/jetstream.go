package messaging

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/config"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/logger"
)

// JetStreamQueue publishes registration jobs to a NATS JetStream work queue.
type JetStreamQueue struct {
	conn       adapter.NatsConn
	js         adapter.JetStream
	json       adapter.JSON
	streamName string
}

// NewJetStreamQueue connects to NATS, ensures the job stream exists and
// returns a publisher bound to it.
func NewJetStreamQueue(ctx context.Context, njs adapter.NatsJetStream, jsonAdapter adapter.JSON, cfg config.NATSConfig) (*JetStreamQueue, error) {
	conn, js, err := Connect(njs, cfg)
	if err != nil {
		return nil, err
	}

	if err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.StreamName,
		Subjects:  []string{SubjectPrefix + ".>"},
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.StreamName, err)
	}

	return &JetStreamQueue{
		conn:       conn,
		js:         js,
		json:       jsonAdapter,
		streamName: cfg.StreamName,
	}, nil
}

// Connect establishes a NATS connection with reconnect handling and returns
// both the connection and its JetStream context.
func Connect(njs adapter.NatsJetStream, cfg config.NATSConfig) (adapter.NatsConn, adapter.JetStream, error) {
	name := cfg.ConnectionName
	if name == "" {
		name = "land-registry"
	}

	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			logger.Warn("nats connection closed")
		}),
	}

	conn, js, err := njs.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return conn, js, nil
}

// Enqueue publishes one job. The job id doubles as the message id so broker
// level deduplication drops accidental double publishes.
func (q *JetStreamQueue) Enqueue(ctx context.Context, job *domain.RegistrationJob) error {
	payload, err := q.json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", SubjectPrefix, job.Action)
	if _, err := q.js.Publish(ctx, subject, payload, jetstream.WithMsgID(job.JobID)); err != nil {
		return &domain.ExternalServiceError{Service: "nats", Err: err}
	}

	logger.InfoCtx(ctx, "job enqueued",
		zap.String("job_id", job.JobID),
		zap.String("subject", subject),
		zap.String("property_id", job.PropertyID))

	return nil
}

func (q *JetStreamQueue) Close() {
	q.conn.Close()
}
