package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/logger"
)

// registryABI describes the land registry contract surface: register, update
// and read operations plus the registration event emitted on mint.
const registryABIJSON = `[
	{"inputs":[{"name":"cid","type":"string"}],"name":"registerLand","outputs":[{"name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"},{"name":"newCid","type":"string"}],"name":"updateProperty","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"getProperty","outputs":[{"name":"cid","type":"string"},{"name":"owner","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"cid","type":"string"}],"name":"isCidUsed","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"nextTokenId","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"tokenId","type":"uint256"},{"indexed":true,"name":"owner","type":"address"},{"indexed":false,"name":"cid","type":"string"}],"name":"LandRegistered","type":"event"}
]`

// estimationCID is a representative CID used when estimating registration
// cost before the real metadata CID exists.
const estimationCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

// RegisterResult is the outcome of a confirmed registration transaction.
type RegisterResult struct {
	TxHash  string
	TokenID uint64
}

// PropertyRecord is the on-chain state of one token.
type PropertyRecord struct {
	TokenID uint64
	CID     string
	Owner   string
}

// CostEstimate is the projected cost of a registration transaction.
// All amounts are integer wei; conversion to ether happens only at display
// boundaries.
type CostEstimate struct {
	GasLimit  uint64
	GasPrice  *big.Int
	TotalCost *big.Int
}

// Client defines operations against the land registry contract
//
//go:generate mockgen -source=client.go -destination=../mocks/chain.go -package=mocks -mock_names=Client=MockChainClient
type Client interface {
	// RegisterLand registers a new property record and returns the assigned
	// token id. Fails with DuplicateContentError before submitting when the
	// CID is already registered.
	RegisterLand(ctx context.Context, cid string) (*RegisterResult, error)

	// UpdateProperty points an existing token at a new metadata CID
	UpdateProperty(ctx context.Context, tokenID uint64, newCID string) (string, error)

	// GetProperty reads the on-chain record for a token
	GetProperty(ctx context.Context, tokenID uint64) (*PropertyRecord, error)

	// IsCIDUsed reports whether a CID is already registered to any token
	IsCIDUsed(ctx context.Context, cid string) (bool, error)

	// WalletBalance returns the service wallet's balance in wei
	WalletBalance(ctx context.Context) (*big.Int, error)

	// EstimateRegisterCost estimates the total cost of a registration in wei
	EstimateRegisterCost(ctx context.Context, cid string) (*CostEstimate, error)

	// WalletAddress returns the service wallet's address
	WalletAddress() string

	// Close closes the underlying RPC connection
	Close()
}

type registryClient struct {
	client       adapter.EthClient
	clock        adapter.Clock
	registryABI  abi.ABI
	contractAddr common.Address
	privateKey   *ecdsa.PrivateKey
	fromAddr     common.Address
	chainID      *big.Int

	confirmInterval time.Duration
	confirmTimeout  time.Duration

	// txMu serializes nonce allocation, broadcast and confirmation. The
	// service wallet must be a single writer: uncoordinated concurrent
	// submissions risk nonce collisions, and the token-id counter fallback
	// is only sound while no other registration is in flight.
	txMu sync.Mutex
}

// NewClient constructs a registry client bound to one signing wallet and one
// deployed contract. Constructed once at startup and shared by reference.
func NewClient(
	ctx context.Context,
	client adapter.EthClient,
	clock adapter.Clock,
	contractAddress string,
	privateKeyHex string,
	confirmInterval time.Duration,
	confirmTimeout time.Duration,
) (Client, error) {
	registryABI, err := abi.JSON(strings.NewReader(registryABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry ABI: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	return &registryClient{
		client:          client,
		clock:           clock,
		registryABI:     registryABI,
		contractAddr:    common.HexToAddress(contractAddress),
		privateKey:      privateKey,
		fromAddr:        crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:         chainID,
		confirmInterval: confirmInterval,
		confirmTimeout:  confirmTimeout,
	}, nil
}

func (c *registryClient) WalletAddress() string {
	return c.fromAddr.Hex()
}

func (c *registryClient) Close() {
	c.client.Close()
}

// call executes a read-only contract call and unpacks the outputs.
func (c *registryClient) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.registryABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.contractAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, classifyRPCError(method, err)
	}

	outputs, err := c.registryABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s result: %w", method, err)
	}

	return outputs, nil
}

// IsCIDUsed reports whether a CID is already registered to any token.
func (c *registryClient) IsCIDUsed(ctx context.Context, cid string) (bool, error) {
	outputs, err := c.call(ctx, "isCidUsed", cid)
	if err != nil {
		return false, err
	}

	used, ok := outputs[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected isCidUsed output type %T", outputs[0])
	}
	return used, nil
}

// GetProperty reads the on-chain record for a token. Returns
// domain.ErrTokenNotFound when the token has no owner.
func (c *registryClient) GetProperty(ctx context.Context, tokenID uint64) (*PropertyRecord, error) {
	outputs, err := c.call(ctx, "getProperty", new(big.Int).SetUint64(tokenID))
	if err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			// Reverted read means the token does not exist
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}

	cid, _ := outputs[0].(string)
	owner, ok := outputs[1].(common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected getProperty owner type %T", outputs[1])
	}

	if owner == (common.Address{}) {
		return nil, domain.ErrTokenNotFound
	}

	return &PropertyRecord{
		TokenID: tokenID,
		CID:     cid,
		Owner:   owner.Hex(),
	}, nil
}

// WalletBalance returns the service wallet's balance in wei.
func (c *registryClient) WalletBalance(ctx context.Context) (*big.Int, error) {
	balance, err := c.client.BalanceAt(ctx, c.fromAddr, nil)
	if err != nil {
		return nil, classifyRPCError("balance lookup", err)
	}
	return balance, nil
}

// EstimateRegisterCost estimates the total cost of a registration in wei.
// When cid is empty a representative dummy CID is used, since the real
// metadata CID is not known before upload.
func (c *registryClient) EstimateRegisterCost(ctx context.Context, cid string) (*CostEstimate, error) {
	if cid == "" {
		cid = estimationCID
	}

	data, err := c.registryABI.Pack("registerLand", cid)
	if err != nil {
		return nil, fmt.Errorf("failed to pack registerLand call: %w", err)
	}

	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: c.fromAddr,
		To:   &c.contractAddr,
		Data: data,
	})
	if err != nil {
		return nil, classifyRPCError("gas estimation", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, classifyRPCError("gas price lookup", err)
	}

	totalCost := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	return &CostEstimate{
		GasLimit:  gasLimit,
		GasPrice:  gasPrice,
		TotalCost: totalCost,
	}, nil
}

// RegisterLand registers a new property record and returns the assigned
// token id.
func (c *registryClient) RegisterLand(ctx context.Context, cid string) (*RegisterResult, error) {
	used, err := c.IsCIDUsed(ctx, cid)
	if err != nil {
		return nil, err
	}
	if used {
		// Fail before submission so no gas is spent on a doomed call
		return nil, &domain.DuplicateContentError{CID: cid}
	}

	data, err := c.registryABI.Pack("registerLand", cid)
	if err != nil {
		return nil, fmt.Errorf("failed to pack registerLand call: %w", err)
	}

	return c.submitRegistration(ctx, data)
}

// submitRegistration broadcasts a registration and resolves its token id as
// one critical section. The lock must cover the fallback counter read: the
// moment another registration can broadcast, nextTokenId no longer identifies
// this transaction's mint.
func (c *registryClient) submitRegistration(ctx context.Context, data []byte) (*RegisterResult, error) {
	c.txMu.Lock()
	defer c.txMu.Unlock()

	receipt, txHash, err := c.submitAndWaitLocked(ctx, data)
	if err != nil {
		return nil, err
	}

	tokenID, err := c.tokenIDFromReceipt(ctx, receipt)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		TxHash:  txHash,
		TokenID: tokenID,
	}, nil
}

// UpdateProperty points an existing token at a new metadata CID. The token
// must exist and the new CID must not belong to another token.
func (c *registryClient) UpdateProperty(ctx context.Context, tokenID uint64, newCID string) (string, error) {
	existing, err := c.GetProperty(ctx, tokenID)
	if err != nil {
		return "", err
	}

	used, err := c.IsCIDUsed(ctx, newCID)
	if err != nil {
		return "", err
	}
	// A CID already held by this same token is not a conflict
	if used && existing.CID != newCID {
		return "", &domain.DuplicateContentError{CID: newCID}
	}

	data, err := c.registryABI.Pack("updateProperty", new(big.Int).SetUint64(tokenID), newCID)
	if err != nil {
		return "", fmt.Errorf("failed to pack updateProperty call: %w", err)
	}

	_, txHash, err := c.submitAndWait(ctx, data)
	if err != nil {
		return "", err
	}

	return txHash, nil
}

// submitAndWait signs, broadcasts and confirms one contract transaction.
// The mutex is held through confirmation so the wallet has at most one
// transaction in flight.
func (c *registryClient) submitAndWait(ctx context.Context, data []byte) (*types.Receipt, string, error) {
	c.txMu.Lock()
	defer c.txMu.Unlock()
	return c.submitAndWaitLocked(ctx, data)
}

// submitAndWaitLocked is submitAndWait's body; callers must hold txMu.
func (c *registryClient) submitAndWaitLocked(ctx context.Context, data []byte) (*types.Receipt, string, error) {
	nonce, err := c.client.PendingNonceAt(ctx, c.fromAddr)
	if err != nil {
		return nil, "", classifyRPCError("nonce lookup", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, "", classifyRPCError("gas price lookup", err)
	}

	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From: c.fromAddr,
		To:   &c.contractAddr,
		Data: data,
	})
	if err != nil {
		return nil, "", classifyRPCError("gas estimation", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contractAddr,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.privateKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, "", classifyRPCError("transaction broadcast", err)
	}

	txHash := signedTx.Hash()
	logger.InfoCtx(ctx, "transaction submitted, waiting for confirmation",
		zap.String("tx_hash", txHash.Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas_limit", gasLimit))

	receipt, err := c.waitForReceipt(ctx, txHash)
	if err != nil {
		return nil, txHash.Hex(), err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, txHash.Hex(), &domain.TransactionFailedError{TxHash: txHash.Hex()}
	}

	return receipt, txHash.Hex(), nil
}

// waitForReceipt polls until the transaction is mined or the confirmation
// timeout elapses.
func (c *registryClient) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	start := c.clock.Now()

	for {
		receipt, err := c.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, classifyRPCError("receipt lookup", err)
		}

		if c.clock.Since(start) > c.confirmTimeout {
			return nil, &domain.ExternalServiceError{
				Service: "ethereum rpc",
				Err:     fmt.Errorf("transaction %s not confirmed after %s", txHash.Hex(), c.confirmTimeout),
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.clock.After(c.confirmInterval):
		}
	}
}

// tokenIDFromReceipt extracts the assigned token id from the registration
// event. Falls back to the contract's next-id counter minus one when the
// event is absent or malformed. Callers must hold txMu: the fallback read is
// only sound while no later mint can land, so it is also logged loudly.
func (c *registryClient) tokenIDFromReceipt(ctx context.Context, receipt *types.Receipt) (uint64, error) {
	eventID := c.registryABI.Events["LandRegistered"].ID

	for _, vLog := range receipt.Logs {
		if vLog.Address != c.contractAddr {
			continue
		}
		if len(vLog.Topics) < 2 || vLog.Topics[0] != eventID {
			continue
		}
		tokenID := new(big.Int).SetBytes(vLog.Topics[1].Bytes())
		return tokenID.Uint64(), nil
	}

	logger.WarnCtx(ctx, "registration event missing from receipt, falling back to next-id counter",
		zap.String("tx_hash", receipt.TxHash.Hex()))

	outputs, err := c.call(ctx, "nextTokenId")
	if err != nil {
		return 0, fmt.Errorf("failed to read next token id for fallback: %w", err)
	}

	nextID, ok := outputs[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected nextTokenId output type %T", outputs[0])
	}
	if nextID.Sign() == 0 {
		return 0, fmt.Errorf("next token id counter is zero, nothing was registered")
	}

	return new(big.Int).Sub(nextID, big.NewInt(1)).Uint64(), nil
}

// classifyRPCError maps contract-revert style errors to terminal validation
// failures and everything else to retryable external-service failures.
func classifyRPCError(operation string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "always failing transaction") ||
		strings.Contains(msg, "invalid opcode") {
		return &domain.ValidationError{Reason: fmt.Sprintf("%s rejected by contract: %v", operation, err)}
	}

	return &domain.ExternalServiceError{Service: "ethereum rpc", Err: fmt.Errorf("%s: %w", operation, err)}
}

// WeiToEtherString renders a wei amount as a decimal ether string for logs
// and user-facing messages. Never used in comparison logic.
func WeiToEtherString(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18))
	return ether.Text('f', 6)
}
