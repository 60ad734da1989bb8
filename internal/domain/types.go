package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewJobID returns a lexicographically sortable job identifier.
func NewJobID() string {
	return ulid.Make().String()
}

// EthereumZeroAddress marks mint events in transfer histories.
const EthereumZeroAddress = "0x0000000000000000000000000000000000000000"

// UnknownOwner is the sentinel used when the live on-chain owner lookup fails
// during fallback history synthesis.
const UnknownOwner = "Unknown"

// JobAction discriminates the two kinds of registration work.
type JobAction string

const (
	ActionRegister JobAction = "register"
	ActionUpdate   JobAction = "update"
)

// JobState tracks the executor's progress through a single job.
type JobState string

const (
	StateReceived     JobState = "RECEIVED"
	StateUploading    JobState = "UPLOADING"
	StateBalanceCheck JobState = "BALANCE_CHECK"
	StateSubmitting   JobState = "SUBMITTING"
	StateConfirmed    JobState = "CONFIRMED"
	StatePersisted    JobState = "PERSISTED"
	StateNotified     JobState = "NOTIFIED"
	StateFailed       JobState = "FAILED"
)

// Requester identifies the user that asked for the registration, carried in
// the job payload for notification purposes.
type Requester struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// RegistrationJob is the unit of work published to the job queue.
// Delivery is at-least-once; the executor's idempotency guard is what makes
// duplicate delivery of a register job harmless.
type RegistrationJob struct {
	JobID        string    `json:"job_id"`
	Action       JobAction `json:"action"`
	PropertyID   string    `json:"property_id"`
	PropertyName string    `json:"property_name"`
	FileURLs     []string  `json:"file_urls"`
	Requester    Requester `json:"requester"`
	TokenID      *uint64   `json:"token_id,omitempty"` // set only for update
	EnqueuedAt   time.Time `json:"enqueued_at"`
}

// Validate rejects malformed payloads before any work is attempted.
func (j *RegistrationJob) Validate() error {
	if j.PropertyID == "" {
		return &ValidationError{Reason: "property_id is required"}
	}

	switch j.Action {
	case ActionRegister:
		if j.TokenID != nil {
			return &ValidationError{Reason: "register job must not carry a token id"}
		}
	case ActionUpdate:
		if j.TokenID == nil {
			return &ValidationError{Reason: "update job requires a token id"}
		}
	default:
		return &ValidationError{Reason: fmt.Sprintf("unknown action %q", j.Action)}
	}

	if len(j.FileURLs) == 0 {
		return &ValidationError{Reason: "job carries no file URLs"}
	}

	return nil
}

// PinnedFile is the result of pinning one source document.
type PinnedFile struct {
	FileName string `json:"file_name"`
	DocType  string `json:"doc_type"`
	CID      string `json:"cid"`
}

// RegistrationMetadata is the JSON document pinned as the canonical property
// record. It is serialized in RFC 8785 canonical form so identical inputs
// always produce identical bytes.
type RegistrationMetadata struct {
	PropertyID   string       `json:"property_id"`
	OwnerName    string       `json:"owner_name"`
	PropertyType string       `json:"property_type"`
	PropertyName string       `json:"property_name"`
	Documents    []PinnedFile `json:"documents"`
	Timestamp    string       `json:"timestamp"` // RFC 3339
}

// ChainRegistration mirrors the on-chain record into the property row.
type ChainRegistration struct {
	PropertyID  string `json:"property_id"`
	TokenID     uint64 `json:"token_id"`
	MetadataCID string `json:"metadata_cid"`
	TxHash      string `json:"tx_hash"`
	Owner       string `json:"owner"`
}

// RegistrationResult is what the executor reports back to the dispatcher.
type RegistrationResult struct {
	Success bool     `json:"success"`
	NoOp    bool     `json:"no_op,omitempty"`
	TokenID *uint64  `json:"token_id,omitempty"`
	TxHash  string   `json:"tx_hash,omitempty"`
	State   JobState `json:"state"`
	Err     error    `json:"-"`
}

// OwnershipEventType classifies one entry of a token's ownership timeline.
type OwnershipEventType string

const (
	OwnershipEventMint     OwnershipEventType = "MINT"
	OwnershipEventTransfer OwnershipEventType = "TRANSFER"
)

// OwnershipEvent is one entry in a property's ownership timeline, recomputed
// on each history query and never persisted locally.
type OwnershipEvent struct {
	FromAddress string             `json:"from_address"`
	ToAddress   string             `json:"to_address"`
	TxHash      string             `json:"tx_hash"`
	BlockNumber uint64             `json:"block_number"`
	Timestamp   time.Time          `json:"timestamp"`
	EventType   OwnershipEventType `json:"event_type"`
}

// OwnershipHistory is the read response for a property's timeline, ordered by
// descending block number so index 0 is the current owner.
type OwnershipHistory struct {
	PropertyID string           `json:"property_id"`
	TokenID    uint64           `json:"token_id"`
	Events     []OwnershipEvent `json:"ownership_history"`
}

// Notification is the payload handed to the notifier after a successful
// registration has been persisted.
type Notification struct {
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	PropertyName   string `json:"property_name"`
	PropertyID     string `json:"property_id"`
	TxHash         string `json:"transaction_hash"`
	TokenID        uint64 `json:"token_id"`
	ExplorerURL    string `json:"explorer_url"`
	ActionURL      string `json:"action_url"`
}

// FormatTokenID renders a token id for log fields and API responses.
func FormatTokenID(tokenID uint64) string {
	return strconv.FormatUint(tokenID, 10)
}
