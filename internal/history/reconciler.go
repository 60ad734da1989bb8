package history

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deedhub/land-registry/internal/chain"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/logger"
	"github.com/deedhub/land-registry/internal/store"
)

// Reconciler builds a property's ownership timeline from the indexing API,
// synthesizing a mint record when indexing lags behind a fresh registration.
// Read-only; nothing is persisted.
type Reconciler struct {
	store           store.Store
	indexer         IndexerClient
	chainClient     chain.Client
	contractAddress string
}

// NewReconciler creates an ownership-history reconciler
func NewReconciler(store store.Store, indexer IndexerClient, chainClient chain.Client, contractAddress string) *Reconciler {
	return &Reconciler{
		store:           store,
		indexer:         indexer,
		chainClient:     chainClient,
		contractAddress: contractAddress,
	}
}

// GetOwnershipHistory returns the ownership timeline for a property, most
// recent event first. Fails with domain.ErrNotRegistered when the property
// has not completed chain registration.
func (r *Reconciler) GetOwnershipHistory(ctx context.Context, propertyID string) (*domain.OwnershipHistory, error) {
	property, err := r.store.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.TokenID == nil {
		return nil, domain.ErrNotRegistered
	}
	tokenID := *property.TokenID

	transfers, err := r.indexer.GetTokenTransfers(ctx, r.contractAddress, tokenID)
	if err != nil {
		return nil, err
	}

	if len(transfers) == 0 {
		// Indexing lag right after registration: synthesize the mint from
		// what we stored locally.
		return &domain.OwnershipHistory{
			PropertyID: propertyID,
			TokenID:    tokenID,
			Events:     []domain.OwnershipEvent{r.syntheticMint(ctx, property.TxHash, tokenID, property.CreatedAt)},
		}, nil
	}

	events := make([]domain.OwnershipEvent, 0, len(transfers))
	for _, transfer := range transfers {
		eventType := domain.OwnershipEventTransfer
		if isZeroAddress(transfer.FromAddress) {
			eventType = domain.OwnershipEventMint
		}
		events = append(events, domain.OwnershipEvent{
			FromAddress: transfer.FromAddress,
			ToAddress:   transfer.ToAddress,
			TxHash:      transfer.TxHash,
			BlockNumber: transfer.BlockNumber,
			Timestamp:   transfer.Timestamp,
			EventType:   eventType,
		})
	}

	// Most recent first, so index 0 is always the current owner
	sort.Slice(events, func(i, j int) bool {
		return events[i].BlockNumber > events[j].BlockNumber
	})

	return &domain.OwnershipHistory{
		PropertyID: propertyID,
		TokenID:    tokenID,
		Events:     events,
	}, nil
}

// syntheticMint builds a single mint event from the locally stored
// registration outcome. The current owner is fetched live, best-effort; the
// timeline degrades to an Unknown owner rather than failing the request.
func (r *Reconciler) syntheticMint(ctx context.Context, txHash string, tokenID uint64, createdAt time.Time) domain.OwnershipEvent {
	owner := domain.UnknownOwner
	record, err := r.chainClient.GetProperty(ctx, tokenID)
	if err != nil {
		logger.WarnCtx(ctx, "failed to read current owner for synthetic mint",
			zap.Error(err),
			zap.Uint64("token_id", tokenID))
	} else {
		owner = record.Owner
	}

	return domain.OwnershipEvent{
		FromAddress: domain.EthereumZeroAddress,
		ToAddress:   owner,
		TxHash:      txHash,
		Timestamp:   createdAt,
		EventType:   domain.OwnershipEventMint,
	}
}

func isZeroAddress(address string) bool {
	return strings.EqualFold(address, domain.EthereumZeroAddress)
}
