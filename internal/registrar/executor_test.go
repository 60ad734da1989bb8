package registrar_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/deedhub/land-registry/internal/chain"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/ipfs"
	"github.com/deedhub/land-registry/internal/mocks"
	"github.com/deedhub/land-registry/internal/registrar"
	"github.com/deedhub/land-registry/internal/store/schema"
)

const (
	testExplorerURL = "https://sepolia.etherscan.io"
	testActionURL   = "https://app.deedhub.example.com/properties"
)

type executorMocks struct {
	store       *mocks.MockStore
	uploader    *mocks.MockUploader
	guard       *mocks.MockBalanceGuard
	chainClient *mocks.MockChainClient
	notifier    *mocks.MockNotifier
}

func newExecutor(ctrl *gomock.Controller) (*registrar.Executor, executorMocks) {
	m := executorMocks{
		store:       mocks.NewMockStore(ctrl),
		uploader:    mocks.NewMockUploader(ctrl),
		guard:       mocks.NewMockBalanceGuard(ctrl),
		chainClient: mocks.NewMockChainClient(ctrl),
		notifier:    mocks.NewMockNotifier(ctrl),
	}
	executor := registrar.NewExecutor(m.store, m.uploader, m.guard, m.chainClient, m.notifier,
		testExplorerURL, testActionURL)
	return executor, m
}

func registerJob() *domain.RegistrationJob {
	return &domain.RegistrationJob{
		JobID:        "01JREGISTER000000000000000",
		Action:       domain.ActionRegister,
		PropertyID:   "PROP-001",
		PropertyName: "12 Elm Street",
		FileURLs:     []string{"https://files.example.com/deed.pdf"},
		Requester: domain.Requester{
			ID:       "user-1",
			Email:    "ada@example.com",
			FullName: "Ada Lovelace",
		},
	}
}

func updateJob(tokenID uint64) *domain.RegistrationJob {
	job := registerJob()
	job.Action = domain.ActionUpdate
	job.TokenID = &tokenID
	return job
}

func pendingProperty() *schema.Property {
	return &schema.Property{
		PropertyID:   "PROP-001",
		Name:         "12 Elm Street",
		OwnerName:    "Ada Lovelace",
		PropertyType: "residential",
		Status:       schema.PropertyStatusPending,
	}
}

func registeredProperty(tokenID uint64) *schema.Property {
	property := pendingProperty()
	property.TokenID = &tokenID
	property.TxHash = "0xoriginal"
	property.Status = schema.PropertyStatusRegistered
	return property
}

func TestExecuteRegisterDuplicateIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor, m := newExecutor(ctrl)

	// Only the lookup runs: no upload, no balance check, no transaction.
	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(registeredProperty(7), nil)

	result := executor.Execute(context.Background(), registerJob())

	assert.True(t, result.Success)
	assert.True(t, result.NoOp)
	assert.Equal(t, uint64(7), *result.TokenID)
	assert.Equal(t, "0xoriginal", result.TxHash)
	assert.NoError(t, result.Err)
}

func TestExecuteRegisterHappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor, m := newExecutor(ctrl)
	job := registerJob()

	batch := &ipfs.BatchResult{
		MetadataCID: "QmMeta",
		Files:       []domain.PinnedFile{{FileName: "deed.pdf", CID: "QmDeed"}},
	}

	// The step sequence is fixed: upload, balance check, submission,
	// persistence, notification.
	gomock.InOrder(
		m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(pendingProperty(), nil),
		m.uploader.EXPECT().
			UploadBatch(gomock.Any(), job.FileURLs, ipfs.PropertyContext{
				PropertyID:   "PROP-001",
				PropertyName: "12 Elm Street",
				OwnerName:    "Ada Lovelace",
				PropertyType: "residential",
			}).
			Return(batch, nil),
		m.guard.EXPECT().EnsureCanRegister(gomock.Any(), job.JobID, "PROP-001").Return(nil),
		m.chainClient.EXPECT().
			RegisterLand(gomock.Any(), "QmMeta").
			Return(&chain.RegisterResult{TxHash: "0xabc", TokenID: 7}, nil),
		m.store.EXPECT().
			ApplyChainRegistration(gomock.Any(), domain.ChainRegistration{
				PropertyID:  "PROP-001",
				TokenID:     7,
				MetadataCID: "QmMeta",
				TxHash:      "0xabc",
			}).
			Return(nil),
		m.store.EXPECT().
			CreateActivityLog(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *schema.ActivityLog) error {
				assert.Equal(t, string(domain.StatePersisted), entry.State)
				return nil
			}),
		m.notifier.EXPECT().
			Notify(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, n domain.Notification) error {
				assert.Equal(t, "ada@example.com", n.RecipientEmail)
				assert.Equal(t, uint64(7), n.TokenID)
				assert.Equal(t, testExplorerURL+"/tx/0xabc", n.ExplorerURL)
				return nil
			}),
	)

	result := executor.Execute(context.Background(), job)

	assert.True(t, result.Success)
	assert.False(t, result.NoOp)
	assert.Equal(t, uint64(7), *result.TokenID)
	assert.Equal(t, "0xabc", result.TxHash)
	assert.Equal(t, domain.StateNotified, result.State)
}

func TestExecuteUpdateHappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor, m := newExecutor(ctrl)
	job := updateJob(7)

	gomock.InOrder(
		m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(registeredProperty(7), nil),
		m.uploader.EXPECT().UploadBatch(gomock.Any(), job.FileURLs, gomock.Any()).
			Return(&ipfs.BatchResult{MetadataCID: "QmNewMeta"}, nil),
		m.guard.EXPECT().EnsureCanUpdate(gomock.Any(), job.JobID, "PROP-001").Return(nil),
		m.chainClient.EXPECT().UpdateProperty(gomock.Any(), uint64(7), "QmNewMeta").Return("0xupd", nil),
		m.store.EXPECT().ApplyChainRegistration(gomock.Any(), domain.ChainRegistration{
			PropertyID:  "PROP-001",
			TokenID:     7,
			MetadataCID: "QmNewMeta",
			TxHash:      "0xupd",
		}).Return(nil),
		m.store.EXPECT().CreateActivityLog(gomock.Any(), gomock.Any()).Return(nil),
		m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil),
	)

	result := executor.Execute(context.Background(), job)

	assert.True(t, result.Success)
	assert.Equal(t, "0xupd", result.TxHash)
}

func TestExecuteBalanceFailureBlocksSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor, m := newExecutor(ctrl)
	job := registerJob()

	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(pendingProperty(), nil)
	m.uploader.EXPECT().UploadBatch(gomock.Any(), job.FileURLs, gomock.Any()).
		Return(&ipfs.BatchResult{MetadataCID: "QmMeta"}, nil)
	m.guard.EXPECT().EnsureCanRegister(gomock.Any(), job.JobID, "PROP-001").
		Return(&domain.InsufficientBalanceError{Balance: big.NewInt(0)})
	m.store.EXPECT().
		CreateActivityLog(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *schema.ActivityLog) error {
			assert.Equal(t, string(domain.StateFailed), entry.State)
			return nil
		})
	// No RegisterLand expectation: nothing is submitted with an empty wallet.

	result := executor.Execute(context.Background(), job)

	assert.False(t, result.Success)
	assert.Equal(t, domain.StateBalanceCheck, result.State)

	var balanceErr *domain.InsufficientBalanceError
	assert.ErrorAs(t, result.Err, &balanceErr)
}

func TestExecuteUploadFailureStopsJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor, m := newExecutor(ctrl)
	job := registerJob()

	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(pendingProperty(), nil)
	m.uploader.EXPECT().UploadBatch(gomock.Any(), job.FileURLs, gomock.Any()).
		Return(nil, &domain.UnsupportedFileTypeError{FileName: "deed.exe", Extension: "exe"})
	m.store.EXPECT().CreateActivityLog(gomock.Any(), gomock.Any()).Return(nil)

	result := executor.Execute(context.Background(), job)

	assert.False(t, result.Success)
	assert.Equal(t, domain.StateUploading, result.State)
	assert.False(t, domain.IsRetryable(result.Err))
}

func TestExecuteNotifyFailureDoesNotFailJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor, m := newExecutor(ctrl)
	job := registerJob()

	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(pendingProperty(), nil)
	m.uploader.EXPECT().UploadBatch(gomock.Any(), job.FileURLs, gomock.Any()).
		Return(&ipfs.BatchResult{MetadataCID: "QmMeta"}, nil)
	m.guard.EXPECT().EnsureCanRegister(gomock.Any(), job.JobID, "PROP-001").Return(nil)
	m.chainClient.EXPECT().RegisterLand(gomock.Any(), "QmMeta").
		Return(&chain.RegisterResult{TxHash: "0xabc", TokenID: 7}, nil)
	m.store.EXPECT().ApplyChainRegistration(gomock.Any(), gomock.Any()).Return(nil)
	m.store.EXPECT().CreateActivityLog(gomock.Any(), gomock.Any()).Return(nil)
	m.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).
		Return(&domain.ExternalServiceError{Service: "notification webhook", Err: errors.New("503")})

	result := executor.Execute(context.Background(), job)

	// The on-chain state is final; a failed send never fails the job.
	assert.True(t, result.Success)
	assert.Equal(t, domain.StateNotified, result.State)
	assert.NoError(t, result.Err)
}

func TestExecuteWriteBackFailureIsTerminalDivergence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor, m := newExecutor(ctrl)
	job := registerJob()

	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(pendingProperty(), nil)
	m.uploader.EXPECT().UploadBatch(gomock.Any(), job.FileURLs, gomock.Any()).
		Return(&ipfs.BatchResult{MetadataCID: "QmMeta"}, nil)
	m.guard.EXPECT().EnsureCanRegister(gomock.Any(), job.JobID, "PROP-001").Return(nil)
	m.chainClient.EXPECT().RegisterLand(gomock.Any(), "QmMeta").
		Return(&chain.RegisterResult{TxHash: "0xabc", TokenID: 7}, nil)
	m.store.EXPECT().ApplyChainRegistration(gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset"))
	m.store.EXPECT().CreateActivityLog(gomock.Any(), gomock.Any()).Return(nil)

	result := executor.Execute(context.Background(), job)

	assert.False(t, result.Success)
	assert.Equal(t, domain.StatePersisted, result.State)

	// Redelivery would mint a second token for the same property, so the
	// divergence must be terminal.
	var divergence *domain.ChainStateDivergenceError
	assert.ErrorAs(t, result.Err, &divergence)
	assert.Equal(t, uint64(7), divergence.TokenID)
	assert.Equal(t, "0xabc", divergence.TxHash)
	assert.False(t, domain.IsRetryable(result.Err))
}

func TestExecutePropertyNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor, m := newExecutor(ctrl)

	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(nil, domain.ErrPropertyNotFound)
	m.store.EXPECT().CreateActivityLog(gomock.Any(), gomock.Any()).Return(nil)

	result := executor.Execute(context.Background(), registerJob())

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, domain.ErrPropertyNotFound)
	assert.False(t, domain.IsRetryable(result.Err))
}
