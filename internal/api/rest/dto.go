package rest

import (
	"time"

	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/store/schema"
)

// RequesterDTO identifies the user asking for a registration
type RequesterDTO struct {
	ID       string `json:"id" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name"`
}

// RegisterRequest starts a first-time registration for a property
type RegisterRequest struct {
	Name         string       `json:"name" binding:"required"`
	OwnerName    string       `json:"owner_name" binding:"required"`
	PropertyType string       `json:"property_type"`
	FileURLs     []string     `json:"file_urls" binding:"required,min=1"`
	Requester    RequesterDTO `json:"requester" binding:"required"`
}

// SyncRequest re-anchors an already registered property's current documents
type SyncRequest struct {
	FileURLs  []string     `json:"file_urls"` // defaults to the stored set
	Requester RequesterDTO `json:"requester" binding:"required"`
}

// JobAcceptedResponse acknowledges that a job was enqueued. The eventual
// outcome surfaces via notification and the property record.
type JobAcceptedResponse struct {
	JobID      string `json:"job_id"`
	PropertyID string `json:"property_id"`
	Action     string `json:"action"`
	Status     string `json:"status"`
}

// PropertyResponse is the read view of a property record
type PropertyResponse struct {
	PropertyID   string    `json:"property_id"`
	Name         string    `json:"name"`
	OwnerName    string    `json:"owner_name"`
	PropertyType string    `json:"property_type"`
	TokenID      *uint64   `json:"token_id,omitempty"`
	TxHash       string    `json:"transaction_hash,omitempty"`
	MetadataCID  string    `json:"metadata_cid,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WalletBalanceResponse reports the service wallet's funds. The wei amount
// is authoritative; the ether string is display-only.
type WalletBalanceResponse struct {
	Address    string `json:"address"`
	BalanceWei string `json:"balance_wei"`
	BalanceEth string `json:"balance_eth"`
}

// ActivityLogResponse is one audit entry of the registration pipeline
type ActivityLogResponse struct {
	JobID     string    `json:"job_id,omitempty"`
	Action    string    `json:"action,omitempty"`
	State     string    `json:"state"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func toPropertyResponse(p *schema.Property) PropertyResponse {
	return PropertyResponse{
		PropertyID:   p.PropertyID,
		Name:         p.Name,
		OwnerName:    p.OwnerName,
		PropertyType: p.PropertyType,
		TokenID:      p.TokenID,
		TxHash:       p.TxHash,
		MetadataCID:  p.MetadataCID,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toActivityLogResponses(logs []schema.ActivityLog) []ActivityLogResponse {
	out := make([]ActivityLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, ActivityLogResponse{
			JobID:     l.JobID,
			Action:    l.Action,
			State:     l.State,
			Message:   l.Message,
			CreatedAt: l.CreatedAt,
		})
	}
	return out
}

func (r RequesterDTO) toDomain() domain.Requester {
	return domain.Requester{
		ID:       r.ID,
		Email:    r.Email,
		FullName: r.FullName,
	}
}
