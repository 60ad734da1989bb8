package domain

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNotRegistered is returned when ownership history is requested for a
	// property that has not completed chain registration yet.
	ErrNotRegistered = errors.New("property is not registered on chain")

	// ErrPropertyNotFound is returned when a property id does not exist.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrTokenNotFound is returned when a token id has no on-chain record.
	ErrTokenNotFound = errors.New("token not found")
)

// ValidationError rejects bad input (unsupported file type, too many files,
// malformed job payload) before any external call. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// UnsupportedFileTypeError fails a whole upload batch before any network call.
type UnsupportedFileTypeError struct {
	FileName  string
	Extension string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q for file %q", e.Extension, e.FileName)
}

// FileTooLargeError rejects a downloaded file exceeding the size cap.
type FileTooLargeError struct {
	FileName string
	Size     int64
	Limit    int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file %q is too large: %d bytes (limit %d)", e.FileName, e.Size, e.Limit)
}

// TooManyFilesError rejects a batch exceeding the per-batch URL cap.
type TooManyFilesError struct {
	Count int
	Limit int
}

func (e *TooManyFilesError) Error() string {
	return fmt.Sprintf("too many files in batch: %d (limit %d)", e.Count, e.Limit)
}

// PinningQuotaError surfaces provider quota/rate exhaustion as a distinct,
// user-actionable failure instead of a generic upload error.
type PinningQuotaError struct {
	Provider string
	Detail   string
}

func (e *PinningQuotaError) Error() string {
	return fmt.Sprintf("pinning quota exhausted on %s: %s", e.Provider, e.Detail)
}

// DuplicateContentError is returned when a CID is already registered to a
// token. Rejected before any transaction is submitted.
type DuplicateContentError struct {
	CID string
}

func (e *DuplicateContentError) Error() string {
	return fmt.Sprintf("content %s is already registered on chain", e.CID)
}

// InsufficientBalanceError carries the wallet balance and, when computable,
// the estimated cost so operators know how much funding is missing.
// Amounts are integer wei; conversion to ether happens only at display time.
type InsufficientBalanceError struct {
	Balance       *big.Int
	EstimatedCost *big.Int // nil when estimation was skipped (zero balance)
}

func (e *InsufficientBalanceError) Error() string {
	if e.EstimatedCost == nil {
		return fmt.Sprintf("insufficient wallet balance: %s wei", e.Balance.String())
	}
	return fmt.Sprintf("insufficient wallet balance: have %s wei, need %s wei",
		e.Balance.String(), e.EstimatedCost.String())
}

// TransactionFailedError is returned when a submitted transaction mines with
// a failed receipt status. Not retried with the same parameters.
type TransactionFailedError struct {
	TxHash string
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s reverted on chain", e.TxHash)
}

// ChainStateDivergenceError marks the most dangerous partial state: the
// chain transaction succeeded but the local write-back failed. Terminal:
// resubmitting would assign a second token id to the same property. Carries
// the chain outcome so the record can be reconciled manually.
type ChainStateDivergenceError struct {
	TokenID uint64
	TxHash  string
	Err     error
}

func (e *ChainStateDivergenceError) Error() string {
	return fmt.Sprintf("chain registration succeeded (token %d, tx %s) but local write-back failed: %v",
		e.TokenID, e.TxHash, e.Err)
}

func (e *ChainStateDivergenceError) Unwrap() error {
	return e.Err
}

// ExternalServiceError wraps transient failures of the pinning provider, the
// RPC node, or the indexing API. Retryable via queue redelivery.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a job failure should be redelivered (NAK)
// rather than dead-lettered. Validation, duplicate-content, balance,
// transaction-revert, and not-found failures are terminal: retrying them
// with the same input cannot succeed.
func IsRetryable(err error) bool {
	var (
		validationErr  *ValidationError
		unsupportedErr *UnsupportedFileTypeError
		tooLargeErr    *FileTooLargeError
		tooManyErr     *TooManyFilesError
		duplicateErr   *DuplicateContentError
		balanceErr     *InsufficientBalanceError
		txFailedErr    *TransactionFailedError
		quotaErr       *PinningQuotaError
		divergenceErr  *ChainStateDivergenceError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &unsupportedErr),
		errors.As(err, &tooLargeErr),
		errors.As(err, &tooManyErr),
		errors.As(err, &duplicateErr),
		errors.As(err, &balanceErr),
		errors.As(err, &txFailedErr),
		errors.As(err, &quotaErr),
		errors.As(err, &divergenceErr):
		return false
	case errors.Is(err, ErrPropertyNotFound),
		errors.Is(err, ErrTokenNotFound),
		errors.Is(err, ErrNotRegistered):
		return false
	}

	return true
}
