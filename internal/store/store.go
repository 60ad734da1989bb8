package store

import (
	"context"

	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/store/schema"
)

// Store defines persistence operations for the registry
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetProperty returns a property by its external property id. Returns
	// domain.ErrPropertyNotFound when no row exists.
	GetProperty(ctx context.Context, propertyID string) (*schema.Property, error)

	// GetPropertyByTokenID returns a property by its on-chain token id.
	// Returns domain.ErrPropertyNotFound when no row exists.
	GetPropertyByTokenID(ctx context.Context, tokenID uint64) (*schema.Property, error)

	// UpsertProperty creates the property row or updates its mutable fields
	UpsertProperty(ctx context.Context, property *schema.Property) error

	// ApplyChainRegistration atomically records the outcome of a confirmed
	// chain registration: token id, tx hash, metadata CID and status.
	ApplyChainRegistration(ctx context.Context, reg domain.ChainRegistration) error

	// CreateActivityLog appends a pipeline event for a property
	CreateActivityLog(ctx context.Context, log *schema.ActivityLog) error

	// ListActivityLogs returns the pipeline events for a property, most recent first
	ListActivityLogs(ctx context.Context, propertyID string, limit int) ([]schema.ActivityLog, error)
}
