package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/deedhub/land-registry/internal/api/middleware"
	"github.com/deedhub/land-registry/internal/api/rest"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/mocks"
	"github.com/deedhub/land-registry/internal/store/schema"
)

const testAPIKey = "test-api-key"

type handlerMocks struct {
	store       *mocks.MockStore
	queue       *mocks.MockQueue
	history     *mocks.MockHistoryReader
	chainClient *mocks.MockChainClient
	clock       *mocks.MockClock
}

func setupRouter(ctrl *gomock.Controller) (*gin.Engine, handlerMocks) {
	gin.SetMode(gin.TestMode)

	m := handlerMocks{
		store:       mocks.NewMockStore(ctrl),
		queue:       mocks.NewMockQueue(ctrl),
		history:     mocks.NewMockHistoryReader(ctrl),
		chainClient: mocks.NewMockChainClient(ctrl),
		clock:       mocks.NewMockClock(ctrl),
	}

	router := gin.New()
	handler := rest.NewHandler(m.store, m.queue, m.history, m.chainClient, m.clock)
	rest.SetupRoutes(router, handler, middleware.AuthConfig{APIKeys: []string{testAPIKey}})
	return router, m
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "APIKey "+testAPIKey)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validRegisterBody() map[string]interface{} {
	return map[string]interface{}{
		"name":          "12 Elm Street",
		"owner_name":    "Ada Lovelace",
		"property_type": "residential",
		"file_urls":     []string{"https://files.example.com/deed.pdf"},
		"requester": map[string]interface{}{
			"id":        "user-1",
			"email":     "ada@example.com",
			"full_name": "Ada Lovelace",
		},
	}
}

func TestHealthIsPublic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := setupRouter(ctrl)

	// No Authorization header at all
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIRequiresAuthentication(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := setupRouter(ctrl)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties/PROP-001", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterEnqueuesJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := setupRouter(ctrl)

	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(nil, domain.ErrPropertyNotFound)
	m.store.EXPECT().
		UpsertProperty(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, property *schema.Property) error {
			assert.Equal(t, "PROP-001", property.PropertyID)
			assert.Equal(t, "Ada Lovelace", property.OwnerName)
			assert.Equal(t, schema.PropertyStatusPending, property.Status)
			return nil
		})
	m.clock.EXPECT().Now().Return(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	m.queue.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.RegistrationJob) error {
			assert.Equal(t, domain.ActionRegister, job.Action)
			assert.Equal(t, "PROP-001", job.PropertyID)
			assert.Nil(t, job.TokenID)
			assert.NotEmpty(t, job.JobID)
			return nil
		})

	w := doRequest(router, http.MethodPost, "/api/v1/properties/PROP-001/register", validRegisterBody())

	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp rest.JobAcceptedResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PROP-001", resp.PropertyID)
	assert.Equal(t, "register", resp.Action)
	assert.Equal(t, "queued", resp.Status)
	assert.NotEmpty(t, resp.JobID)
}

func TestRegisterAlreadyRegisteredConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := setupRouter(ctrl)

	tokenID := uint64(7)
	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(&schema.Property{
		PropertyID: "PROP-001",
		TokenID:    &tokenID,
		Status:     schema.PropertyStatusRegistered,
	}, nil)
	// No upsert, no enqueue: the request is rejected outright

	w := doRequest(router, http.MethodPost, "/api/v1/properties/PROP-001/register", validRegisterBody())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "sync")
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := setupRouter(ctrl)

	body := validRegisterBody()
	delete(body, "file_urls")

	w := doRequest(router, http.MethodPost, "/api/v1/properties/PROP-001/register", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncUnregisteredPropertyConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := setupRouter(ctrl)

	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(&schema.Property{
		PropertyID: "PROP-001",
		Status:     schema.PropertyStatusPending,
	}, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/properties/PROP-001/sync", map[string]interface{}{
		"requester": map[string]interface{}{
			"id":    "user-1",
			"email": "ada@example.com",
		},
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), string(rest.ErrCodeNotRegistered))
}

func TestSyncDefaultsToStoredFileURLs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := setupRouter(ctrl)

	tokenID := uint64(7)
	stored, _ := json.Marshal([]string{"https://files.example.com/deed.pdf"})
	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-001").Return(&schema.Property{
		PropertyID: "PROP-001",
		Name:       "12 Elm Street",
		TokenID:    &tokenID,
		FileURLs:   datatypes.JSON(stored),
		Status:     schema.PropertyStatusRegistered,
	}, nil)
	m.clock.EXPECT().Now().Return(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	m.queue.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job *domain.RegistrationJob) error {
			assert.Equal(t, domain.ActionUpdate, job.Action)
			assert.Equal(t, uint64(7), *job.TokenID)
			assert.Equal(t, []string{"https://files.example.com/deed.pdf"}, job.FileURLs)
			return nil
		})

	w := doRequest(router, http.MethodPost, "/api/v1/properties/PROP-001/sync", map[string]interface{}{
		"requester": map[string]interface{}{
			"id":    "user-1",
			"email": "ada@example.com",
		},
	})

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestGetPropertyNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := setupRouter(ctrl)

	m.store.EXPECT().GetProperty(gomock.Any(), "PROP-404").Return(nil, domain.ErrPropertyNotFound)

	w := doRequest(router, http.MethodGet, "/api/v1/properties/PROP-404", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := setupRouter(ctrl)

	m.history.EXPECT().GetOwnershipHistory(gomock.Any(), "PROP-001").Return(&domain.OwnershipHistory{
		PropertyID: "PROP-001",
		TokenID:    7,
		Events: []domain.OwnershipEvent{
			{
				FromAddress: domain.EthereumZeroAddress,
				ToAddress:   "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
				TxHash:      "0xmint",
				EventType:   domain.OwnershipEventMint,
			},
		},
	}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/properties/PROP-001/history", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.OwnershipHistory
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7), resp.TokenID)
	assert.Len(t, resp.Events, 1)
}

func TestGetWalletBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := setupRouter(ctrl)

	m.chainClient.EXPECT().WalletBalance(gomock.Any()).
		Return(new(big.Int).Mul(big.NewInt(2), big.NewInt(1e18)), nil)
	m.chainClient.EXPECT().WalletAddress().
		Return("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	w := doRequest(router, http.MethodGet, "/api/v1/wallet/balance", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp rest.WalletBalanceResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2000000000000000000", resp.BalanceWei)
	assert.Equal(t, "2.000000", resp.BalanceEth)
}
