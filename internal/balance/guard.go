package balance

import (
	"context"
	"encoding/json"
	"math/big"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/deedhub/land-registry/internal/chain"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/logger"
	"github.com/deedhub/land-registry/internal/store"
	"github.com/deedhub/land-registry/internal/store/schema"
)

// Guard checks the service wallet can afford an on-chain action before any
// irreversible submission. Failing fast here avoids wasted uploads and stuck
// partial state.
type Guard struct {
	chainClient chain.Client
	store       store.Store
	minBalance  *big.Int
}

// NewGuard creates a balance guard. minBalance is the fixed wei threshold
// used for the cheap update-path check.
func NewGuard(chainClient chain.Client, store store.Store, minBalance *big.Int) *Guard {
	return &Guard{
		chainClient: chainClient,
		store:       store,
		minBalance:  minBalance,
	}
}

// EnsureCanRegister verifies the wallet can afford a first-time registration.
// Uses full gas estimation against a representative dummy CID, since the real
// metadata CID is not known at check time.
func (g *Guard) EnsureCanRegister(ctx context.Context, jobID, propertyID string) error {
	balance, err := g.chainClient.WalletBalance(ctx)
	if err != nil {
		return err
	}

	// Zero balance is always insufficient; gas estimation itself can fail
	// misleadingly with an empty wallet, so skip it.
	if balance.Sign() == 0 {
		return g.fail(ctx, jobID, propertyID, &domain.InsufficientBalanceError{Balance: balance})
	}

	estimate, err := g.chainClient.EstimateRegisterCost(ctx, "")
	if err != nil {
		return err
	}

	if balance.Cmp(estimate.TotalCost) < 0 {
		return g.fail(ctx, jobID, propertyID, &domain.InsufficientBalanceError{
			Balance:       balance,
			EstimatedCost: estimate.TotalCost,
		})
	}

	return nil
}

// EnsureCanUpdate verifies the wallet holds at least the fixed minimum
// threshold. Cheaper than full estimation; good enough for updates.
func (g *Guard) EnsureCanUpdate(ctx context.Context, jobID, propertyID string) error {
	balance, err := g.chainClient.WalletBalance(ctx)
	if err != nil {
		return err
	}

	if balance.Sign() == 0 || balance.Cmp(g.minBalance) < 0 {
		return g.fail(ctx, jobID, propertyID, &domain.InsufficientBalanceError{
			Balance:       balance,
			EstimatedCost: new(big.Int).Set(g.minBalance),
		})
	}

	return nil
}

// fail records an activity entry with the balance context so operators can
// see how much funding is missing, then returns the error.
func (g *Guard) fail(ctx context.Context, jobID, propertyID string, balanceErr *domain.InsufficientBalanceError) error {
	detail := map[string]string{
		"wallet":      g.chainClient.WalletAddress(),
		"balance_wei": balanceErr.Balance.String(),
		"balance_eth": chain.WeiToEtherString(balanceErr.Balance),
	}
	if balanceErr.EstimatedCost != nil {
		detail["estimated_cost_wei"] = balanceErr.EstimatedCost.String()
		detail["estimated_cost_eth"] = chain.WeiToEtherString(balanceErr.EstimatedCost)
	}

	detailJSON, err := json.Marshal(detail)
	if err != nil {
		detailJSON = nil
	}

	if err := g.store.CreateActivityLog(ctx, &schema.ActivityLog{
		JobID:      jobID,
		PropertyID: propertyID,
		State:      string(domain.StateBalanceCheck),
		Message:    balanceErr.Error(),
		Detail:     datatypes.JSON(detailJSON),
	}); err != nil {
		logger.WarnCtx(ctx, "failed to record balance failure", zap.Error(err), zap.String("property_id", propertyID))
	}

	logger.WarnCtx(ctx, "insufficient wallet balance",
		zap.String("property_id", propertyID),
		zap.String("balance_eth", chain.WeiToEtherString(balanceErr.Balance)))

	return balanceErr
}
