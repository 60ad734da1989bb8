package messaging

import (
	"context"

	"github.com/deedhub/land-registry/internal/domain"
)

// SubjectPrefix is the subject namespace for registration jobs. The action
// is appended, e.g. registrations.register, registrations.update.
const SubjectPrefix = "registrations"

// Queue publishes registration jobs for out-of-band processing. Delivery to
// consumers is at-least-once; the executor's idempotency guard makes
// duplicate delivery harmless.
//
//go:generate mockgen -source=queue.go -destination=../mocks/queue.go -package=mocks -mock_names=Queue=MockQueue
type Queue interface {
	// Enqueue publishes one job. Returns once the broker has acknowledged
	// the message.
	Enqueue(ctx context.Context, job *domain.RegistrationJob) error

	// Close releases the broker connection
	Close()
}

// JobExecutor processes one registration job to completion. Implemented by
// the registrar; declared here so the dispatcher does not depend on it.
type JobExecutor interface {
	Execute(ctx context.Context, job *domain.RegistrationJob) domain.RegistrationResult
}
