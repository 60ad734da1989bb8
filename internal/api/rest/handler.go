package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/api/middleware"
	"github.com/deedhub/land-registry/internal/chain"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/logger"
	"github.com/deedhub/land-registry/internal/messaging"
	"github.com/deedhub/land-registry/internal/store"
	"github.com/deedhub/land-registry/internal/store/schema"
)

// HistoryReader builds a property's ownership timeline. Implemented by
// history.Reconciler.
//
//go:generate mockgen -source=handler.go -destination=../../mocks/history_reader.go -package=mocks -mock_names=HistoryReader=MockHistoryReader
type HistoryReader interface {
	GetOwnershipHistory(ctx context.Context, propertyID string) (*domain.OwnershipHistory, error)
}

// Handler holds the REST endpoint implementations
type Handler struct {
	store       store.Store
	queue       messaging.Queue
	history     HistoryReader
	chainClient chain.Client
	clock       adapter.Clock
}

// NewHandler creates a new REST handler
func NewHandler(store store.Store, queue messaging.Queue, history HistoryReader, chainClient chain.Client, clock adapter.Clock) *Handler {
	return &Handler{
		store:       store,
		queue:       queue,
		history:     history,
		chainClient: chainClient,
		clock:       clock,
	}
}

// SetupRoutes registers all REST routes
func SetupRoutes(router *gin.Engine, handler *Handler, authCfg middleware.AuthConfig) {
	router.GET("/health", handler.Health)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(authCfg))
	{
		v1.POST("/properties/:id/register", handler.Register)
		v1.POST("/properties/:id/sync", handler.Sync)
		v1.GET("/properties/:id", handler.GetProperty)
		v1.GET("/properties/:id/history", handler.GetHistory)
		v1.GET("/properties/:id/activity", handler.GetActivity)
		v1.GET("/wallet/balance", handler.GetWalletBalance)
	}
}

// Health reports process liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Register accepts a first-time registration request and enqueues it. The
// caller gets an immediate acknowledgment; the on-chain result surfaces via
// notification and later property reads.
func (h *Handler) Register(c *gin.Context) {
	propertyID := c.Param("id")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewBadRequestError("Invalid request body", err.Error()))
		return
	}

	ctx := c.Request.Context()

	// A property that already holds a token id must never be registered
	// again; document changes go through sync.
	existing, err := h.store.GetProperty(ctx, propertyID)
	if err == nil && existing.TokenID != nil {
		c.JSON(http.StatusConflict, &APIError{
			Code:    ErrCodeConflict,
			Message: "Property is already registered",
			Details: "use the sync endpoint to update its documents",
		})
		return
	}

	fileURLs, err := json.Marshal(req.FileURLs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewInternalError("Failed to store file URLs"))
		return
	}

	property := &schema.Property{
		PropertyID:   propertyID,
		Name:         req.Name,
		OwnerName:    req.OwnerName,
		OwnerEmail:   req.Requester.Email,
		PropertyType: req.PropertyType,
		FileURLs:     datatypes.JSON(fileURLs),
		Status:       schema.PropertyStatusPending,
	}
	if err := h.store.UpsertProperty(ctx, property); err != nil {
		h.respondError(c, err)
		return
	}

	job := &domain.RegistrationJob{
		JobID:        domain.NewJobID(),
		Action:       domain.ActionRegister,
		PropertyID:   propertyID,
		PropertyName: req.Name,
		FileURLs:     req.FileURLs,
		Requester:    req.Requester.toDomain(),
		EnqueuedAt:   h.clock.Now().UTC(),
	}
	if err := job.Validate(); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.queue.Enqueue(ctx, job); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, JobAcceptedResponse{
		JobID:      job.JobID,
		PropertyID: propertyID,
		Action:     string(job.Action),
		Status:     "queued",
	})
}

// Sync re-anchors an already registered property's documents via an update
// transaction.
func (h *Handler) Sync(c *gin.Context) {
	propertyID := c.Param("id")

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewBadRequestError("Invalid request body", err.Error()))
		return
	}

	ctx := c.Request.Context()

	property, err := h.store.GetProperty(ctx, propertyID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if property.TokenID == nil {
		h.respondError(c, domain.ErrNotRegistered)
		return
	}

	fileURLs := req.FileURLs
	if len(fileURLs) == 0 {
		if err := json.Unmarshal(property.FileURLs, &fileURLs); err != nil || len(fileURLs) == 0 {
			c.JSON(http.StatusBadRequest, NewBadRequestError("Property has no file URLs to sync"))
			return
		}
	} else {
		stored, err := json.Marshal(fileURLs)
		if err == nil {
			property.FileURLs = datatypes.JSON(stored)
			if err := h.store.UpsertProperty(ctx, property); err != nil {
				logger.WarnCtx(ctx, "failed to update stored file URLs",
					zap.Error(err), zap.String("property_id", propertyID))
			}
		}
	}

	job := &domain.RegistrationJob{
		JobID:        domain.NewJobID(),
		Action:       domain.ActionUpdate,
		PropertyID:   propertyID,
		PropertyName: property.Name,
		FileURLs:     fileURLs,
		Requester:    req.Requester.toDomain(),
		TokenID:      property.TokenID,
		EnqueuedAt:   h.clock.Now().UTC(),
	}
	if err := job.Validate(); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.queue.Enqueue(ctx, job); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, JobAcceptedResponse{
		JobID:      job.JobID,
		PropertyID: propertyID,
		Action:     string(job.Action),
		Status:     "queued",
	})
}

// GetProperty returns the property record with its registration outcome
func (h *Handler) GetProperty(c *gin.Context) {
	property, err := h.store.GetProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPropertyResponse(property))
}

// GetHistory returns the property's ownership timeline, most recent first
func (h *Handler) GetHistory(c *gin.Context) {
	history, err := h.history.GetOwnershipHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetActivity returns the property's pipeline audit trail
func (h *Handler) GetActivity(c *gin.Context) {
	logs, err := h.store.ListActivityLogs(c.Request.Context(), c.Param("id"), 50)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": toActivityLogResponses(logs)})
}

// GetWalletBalance reports the service wallet's funds
func (h *Handler) GetWalletBalance(c *gin.Context) {
	balance, err := h.chainClient.WalletBalance(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, WalletBalanceResponse{
		Address:    h.chainClient.WalletAddress(),
		BalanceWei: balance.String(),
		BalanceEth: chain.WeiToEtherString(balance),
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, apiErr := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), err,
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")))
	}
	c.JSON(status, apiErr)
}
