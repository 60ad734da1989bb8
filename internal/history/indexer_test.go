package history_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/history"
	"github.com/deedhub/land-registry/internal/mocks"
)

func TestGetTokenTransfers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := history.NewHTTPIndexerClient("https://indexer.example.com/", "secret-key", httpClient)

	wantURL := "https://indexer.example.com/nft/" + testContract + "/7/transfers?format=decimal"

	httpClient.EXPECT().
		GetJSON(gomock.Any(), wantURL, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, headers map[string]string, result interface{}) error {
			assert.Equal(t, "secret-key", headers["X-API-KEY"])

			payload := `{"result":[
				{"from_address":"` + domain.EthereumZeroAddress + `","to_address":"` + testOwner + `","transaction_hash":"0xaa","block_number":100,"timestamp":"2026-02-01T09:00:00Z"},
				{"from_address":"` + testOwner + `","to_address":"` + testNextOwner + `","transaction_hash":"0xbb","block_number":120,"timestamp":"2026-02-10T09:00:00Z"}
			]}`
			return json.Unmarshal([]byte(payload), result)
		})

	transfers, err := client.GetTokenTransfers(context.Background(), testContract, 7)
	assert.NoError(t, err)
	assert.Len(t, transfers, 2)
	assert.Equal(t, domain.EthereumZeroAddress, transfers[0].FromAddress)
	assert.Equal(t, uint64(120), transfers[1].BlockNumber)
}

func TestGetTokenTransfersWrapsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := history.NewHTTPIndexerClient("https://indexer.example.com", "secret-key", httpClient)

	httpClient.EXPECT().
		GetJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("502 bad gateway"))

	_, err := client.GetTokenTransfers(context.Background(), testContract, 7)

	var external *domain.ExternalServiceError
	assert.ErrorAs(t, err, &external)
	assert.Equal(t, "chain indexer", external.Service)
	assert.True(t, domain.IsRetryable(err))
}
