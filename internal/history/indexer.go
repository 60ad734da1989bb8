package history

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/domain"
)

// TransferRecord is one transfer event as reported by the indexing API.
type TransferRecord struct {
	FromAddress string    `json:"from_address"`
	ToAddress   string    `json:"to_address"`
	TxHash      string    `json:"transaction_hash"`
	BlockNumber uint64    `json:"block_number"`
	Timestamp   time.Time `json:"timestamp"`
}

// IndexerClient defines the read operations against the chain-indexing API
//
//go:generate mockgen -source=indexer.go -destination=../mocks/indexer.go -package=mocks -mock_names=IndexerClient=MockIndexerClient
type IndexerClient interface {
	// GetTokenTransfers returns all transfer events for one token on one
	// contract, in whatever order the API reports them.
	GetTokenTransfers(ctx context.Context, contractAddress string, tokenID uint64) ([]TransferRecord, error)
}

// HTTPIndexerClient talks to the chain-indexing HTTP API
type HTTPIndexerClient struct {
	apiURL     string
	apiKey     string
	httpClient adapter.HTTPClient
}

// NewHTTPIndexerClient creates an indexing API client
func NewHTTPIndexerClient(apiURL, apiKey string, httpClient adapter.HTTPClient) *HTTPIndexerClient {
	return &HTTPIndexerClient{
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type transfersResponse struct {
	Result []TransferRecord `json:"result"`
}

// GetTokenTransfers returns all transfer events for one token.
func (c *HTTPIndexerClient) GetTokenTransfers(ctx context.Context, contractAddress string, tokenID uint64) ([]TransferRecord, error) {
	endpoint := fmt.Sprintf("%s/nft/%s/%d/transfers?%s",
		c.apiURL,
		url.PathEscape(contractAddress),
		tokenID,
		url.Values{"format": []string{"decimal"}}.Encode())

	headers := map[string]string{
		"X-API-KEY": c.apiKey,
		"Accept":    "application/json",
	}

	var resp transfersResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, headers, &resp); err != nil {
		return nil, &domain.ExternalServiceError{Service: "chain indexer", Err: err}
	}

	return resp.Result, nil
}
