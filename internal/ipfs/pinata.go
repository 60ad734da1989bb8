package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/domain"
)

// PinClient defines operations against an IPFS pinning provider
//
//go:generate mockgen -source=pinata.go -destination=../mocks/pinata.go -package=mocks -mock_names=PinClient=MockPinClient
type PinClient interface {
	// PinFile pins raw file bytes and returns the resulting CID
	PinFile(ctx context.Context, fileName string, data []byte) (string, error)

	// PinJSON pins a JSON document and returns the resulting CID
	PinJSON(ctx context.Context, name string, content json.RawMessage) (string, error)
}

// PinataClient talks to the Pinata pinning API
type PinataClient struct {
	baseURL    string
	jwt        string
	httpClient adapter.HTTPClient
}

// NewPinataClient creates a Pinata-backed pin client
func NewPinataClient(baseURL, jwt string, httpClient adapter.HTTPClient) *PinataClient {
	return &PinataClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		jwt:        jwt,
		httpClient: httpClient,
	}
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (c *PinataClient) authHeaders() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.jwt,
	}
}

// PinFile pins raw file bytes via pinFileToIPFS.
func (c *PinataClient) PinFile(ctx context.Context, fileName string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := c.baseURL + "/pinning/pinFileToIPFS"
	respBody, err := c.httpClient.Post(ctx, url, writer.FormDataContentType(), c.authHeaders(), &buf)
	if err != nil {
		return "", classifyPinError(err)
	}

	return parsePinResponse(respBody)
}

// PinJSON pins a JSON document via pinJSONToIPFS.
func (c *PinataClient) PinJSON(ctx context.Context, name string, content json.RawMessage) (string, error) {
	payload := map[string]interface{}{
		"pinataContent": content,
		"pinataMetadata": map[string]string{
			"name": name,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pin request: %w", err)
	}

	url := c.baseURL + "/pinning/pinJSONToIPFS"
	respBody, err := c.httpClient.Post(ctx, url, "application/json", c.authHeaders(), bytes.NewReader(body))
	if err != nil {
		return "", classifyPinError(err)
	}

	return parsePinResponse(respBody)
}

func parsePinResponse(respBody []byte) (string, error) {
	var resp pinResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if resp.IpfsHash == "" {
		return "", fmt.Errorf("pin response missing IpfsHash")
	}
	return resp.IpfsHash, nil
}

// classifyPinError recognizes quota and rate-limit exhaustion in the
// provider's response so callers can surface it as a distinct failure instead
// of a generic upload error.
func classifyPinError(err error) error {
	var statusErr *adapter.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode == http.StatusPaymentRequired {
			return &domain.PinningQuotaError{Provider: "pinata", Detail: statusErr.Body}
		}

		lower := strings.ToLower(statusErr.Body)
		if strings.Contains(lower, "quota") ||
			strings.Contains(lower, "rate limit") ||
			strings.Contains(lower, "plan limit") {
			return &domain.PinningQuotaError{Provider: "pinata", Detail: statusErr.Body}
		}

		if statusErr.StatusCode >= 500 {
			return &domain.ExternalServiceError{Service: "pinata", Err: err}
		}
		return err
	}

	return &domain.ExternalServiceError{Service: "pinata", Err: err}
}
