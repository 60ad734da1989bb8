package registrar

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/deedhub/land-registry/internal/chain"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/ipfs"
	"github.com/deedhub/land-registry/internal/logger"
	"github.com/deedhub/land-registry/internal/notify"
	"github.com/deedhub/land-registry/internal/store"
	"github.com/deedhub/land-registry/internal/store/schema"
)

// Uploader pins a property's document set. Implemented by ipfs.Uploader.
//
//go:generate mockgen -source=executor.go -destination=../mocks/registrar.go -package=mocks -mock_names=Uploader=MockUploader,BalanceGuard=MockBalanceGuard
type Uploader interface {
	UploadBatch(ctx context.Context, fileURLs []string, property ipfs.PropertyContext) (*ipfs.BatchResult, error)
}

// BalanceGuard verifies the wallet can afford an action. Implemented by
// balance.Guard.
type BalanceGuard interface {
	EnsureCanRegister(ctx context.Context, jobID, propertyID string) error
	EnsureCanUpdate(ctx context.Context, jobID, propertyID string) error
}

// Executor drives one registration job through its fixed step sequence:
// upload, balance check, chain submission, persistence, notification. Each
// step's output is the next step's input; no step is skipped.
type Executor struct {
	store       store.Store
	uploader    Uploader
	guard       BalanceGuard
	chainClient chain.Client
	notifier    notify.Notifier
	explorerURL string
	actionURL   string
}

// NewExecutor creates a job executor
func NewExecutor(
	store store.Store,
	uploader Uploader,
	guard BalanceGuard,
	chainClient chain.Client,
	notifier notify.Notifier,
	explorerURL string,
	actionURL string,
) *Executor {
	return &Executor{
		store:       store,
		uploader:    uploader,
		guard:       guard,
		chainClient: chainClient,
		notifier:    notifier,
		explorerURL: explorerURL,
		actionURL:   actionURL,
	}
}

// Execute processes one job to completion. Errors are reported in the result
// and never re-raised past this boundary, so one bad job cannot crash the
// worker loop.
func (e *Executor) Execute(ctx context.Context, job *domain.RegistrationJob) domain.RegistrationResult {
	log := logger.FromContext(ctx).With(
		zap.String("job_id", job.JobID),
		zap.String("property_id", job.PropertyID),
		zap.String("action", string(job.Action)))

	log.Info("job received", zap.String("state", string(domain.StateReceived)))

	property, err := e.store.GetProperty(ctx, job.PropertyID)
	if err != nil {
		return e.fail(ctx, job, domain.StateReceived, err)
	}

	// Idempotency guard: a redelivered register job for an already
	// registered property is a duplicate, not an error. Token ids are
	// assigned exactly once.
	if job.Action == domain.ActionRegister && property.TokenID != nil {
		log.Info("property already registered, duplicate job is a no-op",
			zap.Uint64("token_id", *property.TokenID))
		return domain.RegistrationResult{
			Success: true,
			NoOp:    true,
			TokenID: property.TokenID,
			TxHash:  property.TxHash,
			State:   domain.StatePersisted,
		}
	}

	log.Info("uploading documents", zap.String("state", string(domain.StateUploading)),
		zap.Int("file_count", len(job.FileURLs)))

	batch, err := e.uploader.UploadBatch(ctx, job.FileURLs, ipfs.PropertyContext{
		PropertyID:   property.PropertyID,
		PropertyName: property.Name,
		OwnerName:    property.OwnerName,
		PropertyType: property.PropertyType,
	})
	if err != nil {
		return e.fail(ctx, job, domain.StateUploading, err)
	}

	log.Info("checking wallet balance", zap.String("state", string(domain.StateBalanceCheck)))

	switch job.Action {
	case domain.ActionRegister:
		err = e.guard.EnsureCanRegister(ctx, job.JobID, job.PropertyID)
	case domain.ActionUpdate:
		err = e.guard.EnsureCanUpdate(ctx, job.JobID, job.PropertyID)
	}
	if err != nil {
		return e.fail(ctx, job, domain.StateBalanceCheck, err)
	}

	log.Info("submitting transaction", zap.String("state", string(domain.StateSubmitting)),
		zap.String("metadata_cid", batch.MetadataCID))

	var tokenID uint64
	var txHash string
	switch job.Action {
	case domain.ActionRegister:
		result, registerErr := e.chainClient.RegisterLand(ctx, batch.MetadataCID)
		if registerErr != nil {
			return e.fail(ctx, job, domain.StateSubmitting, registerErr)
		}
		tokenID = result.TokenID
		txHash = result.TxHash
	case domain.ActionUpdate:
		tokenID = *job.TokenID
		txHash, err = e.chainClient.UpdateProperty(ctx, tokenID, batch.MetadataCID)
		if err != nil {
			return e.fail(ctx, job, domain.StateSubmitting, err)
		}
	}

	log.Info("transaction confirmed", zap.String("state", string(domain.StateConfirmed)),
		zap.Uint64("token_id", tokenID),
		zap.String("tx_hash", txHash))

	if err := e.store.ApplyChainRegistration(ctx, domain.ChainRegistration{
		PropertyID:  job.PropertyID,
		TokenID:     tokenID,
		MetadataCID: batch.MetadataCID,
		TxHash:      txHash,
	}); err != nil {
		// The chain state is final but the local record does not reflect it.
		// Capture token id and tx hash here so the record can be reconciled
		// manually; a retry would assign a second token id.
		divergence := &domain.ChainStateDivergenceError{
			TokenID: tokenID,
			TxHash:  txHash,
			Err:     err,
		}
		log.Error("chain registration succeeded but write-back failed, manual reconciliation required",
			zap.Uint64("token_id", tokenID),
			zap.String("tx_hash", txHash),
			zap.String("metadata_cid", batch.MetadataCID),
			zap.Error(err))
		return e.fail(ctx, job, domain.StatePersisted, divergence)
	}

	log.Info("registration persisted", zap.String("state", string(domain.StatePersisted)))
	e.recordActivity(ctx, job, domain.StatePersisted,
		fmt.Sprintf("token %s registered in tx %s", domain.FormatTokenID(tokenID), txHash))

	// Notify phase is isolated: the on-chain state is already final and
	// correct, so a failed send never fails the job.
	e.notify(ctx, job, tokenID, txHash)

	return domain.RegistrationResult{
		Success: true,
		TokenID: &tokenID,
		TxHash:  txHash,
		State:   domain.StateNotified,
	}
}

func (e *Executor) notify(ctx context.Context, job *domain.RegistrationJob, tokenID uint64, txHash string) {
	notification := domain.Notification{
		RecipientEmail: job.Requester.Email,
		RecipientName:  job.Requester.FullName,
		PropertyName:   job.PropertyName,
		PropertyID:     job.PropertyID,
		TxHash:         txHash,
		TokenID:        tokenID,
		ExplorerURL:    fmt.Sprintf("%s/tx/%s", e.explorerURL, txHash),
		ActionURL:      e.actionURL,
	}

	if err := e.notifier.Notify(ctx, notification); err != nil {
		logger.WarnCtx(ctx, "notification failed, job outcome unaffected",
			zap.Error(err),
			zap.String("job_id", job.JobID),
			zap.String("recipient", job.Requester.Email))
		return
	}

	logger.InfoCtx(ctx, "notification sent",
		zap.String("job_id", job.JobID),
		zap.String("state", string(domain.StateNotified)))
}

func (e *Executor) fail(ctx context.Context, job *domain.RegistrationJob, state domain.JobState, err error) domain.RegistrationResult {
	logger.ErrorCtx(ctx, fmt.Errorf("job failed: %w", err),
		zap.String("job_id", job.JobID),
		zap.String("property_id", job.PropertyID),
		zap.String("action", string(job.Action)),
		zap.String("state", string(state)),
		zap.Bool("retryable", domain.IsRetryable(err)))

	e.recordActivity(ctx, job, domain.StateFailed, err.Error())

	return domain.RegistrationResult{
		Success: false,
		State:   state,
		Err:     err,
	}
}

// recordActivity appends an audit entry, best-effort.
func (e *Executor) recordActivity(ctx context.Context, job *domain.RegistrationJob, state domain.JobState, message string) {
	if err := e.store.CreateActivityLog(ctx, &schema.ActivityLog{
		JobID:      job.JobID,
		PropertyID: job.PropertyID,
		Action:     string(job.Action),
		State:      string(state),
		Message:    message,
	}); err != nil {
		logger.WarnCtx(ctx, "failed to record activity", zap.Error(err), zap.String("job_id", job.JobID))
	}
}
