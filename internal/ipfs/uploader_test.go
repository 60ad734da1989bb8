package ipfs_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/ipfs"
	"github.com/deedhub/land-registry/internal/mocks"
)

const (
	testMaxBatchSize = 5
	testMaxFileSize  = 1024
)

var testProperty = ipfs.PropertyContext{
	PropertyID:   "PROP-001",
	PropertyName: "12 Elm Street",
	OwnerName:    "Ada Lovelace",
	PropertyType: "residential",
}

func newTestUploader(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock) *ipfs.Uploader {
	return ipfs.NewUploader(
		pin,
		httpClient,
		clock,
		testMaxBatchSize,
		testMaxFileSize,
		30*time.Second,
		2,
		[]string{"pdf", "jpg", "png"},
	)
}

func pdfResponse(body string) *http.Response {
	return &http.Response{
		StatusCode:    http.StatusOK,
		ContentLength: int64(len(body)),
		Body:          io.NopCloser(strings.NewReader(body)),
	}
}

func TestUploadBatch(t *testing.T) {
	pdfBody := "%PDF-1.4 deed contents"

	tests := []struct {
		name        string
		fileURLs    []string
		setupMocks  func(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock)
		wantErr     func(t *testing.T, err error)
		wantCID     string
		wantFiles   int
		wantMessage string
	}{
		{
			name:       "empty batch rejected",
			fileURLs:   nil,
			setupMocks: func(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock) {},
			wantErr: func(t *testing.T, err error) {
				var validationErr *domain.ValidationError
				assert.ErrorAs(t, err, &validationErr)
			},
		},
		{
			name: "batch over the cap rejected before any upload",
			fileURLs: []string{
				"https://files.example.com/a.pdf",
				"https://files.example.com/b.pdf",
				"https://files.example.com/c.pdf",
				"https://files.example.com/d.pdf",
				"https://files.example.com/e.pdf",
				"https://files.example.com/f.pdf",
			},
			setupMocks: func(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock) {},
			wantErr: func(t *testing.T, err error) {
				var tooMany *domain.TooManyFilesError
				assert.ErrorAs(t, err, &tooMany)
				assert.Equal(t, 6, tooMany.Count)
				assert.Equal(t, testMaxBatchSize, tooMany.Limit)
			},
		},
		{
			name: "one unsupported extension fails the whole batch before any network call",
			fileURLs: []string{
				"https://files.example.com/deed.pdf",
				"https://files.example.com/malware.exe",
			},
			setupMocks: func(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock) {},
			wantErr: func(t *testing.T, err error) {
				var unsupported *domain.UnsupportedFileTypeError
				assert.ErrorAs(t, err, &unsupported)
				assert.Equal(t, "exe", unsupported.Extension)
			},
		},
		{
			name: "identical urls collapse to a single upload",
			fileURLs: []string{
				"https://files.example.com/deed.pdf",
				"https://files.example.com/deed.pdf",
				"https://files.example.com/deed.pdf",
			},
			setupMocks: func(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock) {
				httpClient.EXPECT().
					GetResponse(gomock.Any(), "https://files.example.com/deed.pdf", nil).
					Return(pdfResponse(pdfBody), nil).
					Times(1)
				pin.EXPECT().
					PinFile(gomock.Any(), "deed.pdf", []byte(pdfBody)).
					Return("QmDeed", nil).
					Times(1)
				clock.EXPECT().Now().Return(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
				pin.EXPECT().
					PinJSON(gomock.Any(), "property-PROP-001-metadata", gomock.Any()).
					Return("QmMeta", nil)
			},
			wantCID:     "QmMeta",
			wantFiles:   1,
			wantMessage: "2 duplicates removed",
		},
		{
			name: "oversized file fails the batch",
			fileURLs: []string{
				"https://files.example.com/huge.pdf",
			},
			setupMocks: func(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock) {
				big := "%PDF-1.4 " + strings.Repeat("x", testMaxFileSize)
				httpClient.EXPECT().
					GetResponse(gomock.Any(), "https://files.example.com/huge.pdf", nil).
					Return(&http.Response{
						StatusCode:    http.StatusOK,
						ContentLength: -1, // undeclared length; the cap must still hold
						Body:          io.NopCloser(strings.NewReader(big)),
					}, nil)
			},
			wantErr: func(t *testing.T, err error) {
				var tooLarge *domain.FileTooLargeError
				assert.ErrorAs(t, err, &tooLarge)
				assert.Equal(t, "huge.pdf", tooLarge.FileName)
			},
		},
		{
			name: "failed download fails the batch and skips metadata pinning",
			fileURLs: []string{
				"https://files.example.com/deed.pdf",
			},
			setupMocks: func(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock) {
				httpClient.EXPECT().
					GetResponse(gomock.Any(), "https://files.example.com/deed.pdf", nil).
					Return(nil, fmt.Errorf("connection refused"))
			},
			wantErr: func(t *testing.T, err error) {
				var external *domain.ExternalServiceError
				assert.ErrorAs(t, err, &external)
				assert.Equal(t, "file storage", external.Service)
			},
		},
		{
			name: "happy path pins every document then the metadata record",
			fileURLs: []string{
				"https://files.example.com/deed.pdf",
				"https://files.example.com/survey.pdf",
			},
			setupMocks: func(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock) {
				httpClient.EXPECT().
					GetResponse(gomock.Any(), "https://files.example.com/deed.pdf", nil).
					Return(pdfResponse(pdfBody), nil)
				httpClient.EXPECT().
					GetResponse(gomock.Any(), "https://files.example.com/survey.pdf", nil).
					Return(pdfResponse(pdfBody), nil)
				pin.EXPECT().
					PinFile(gomock.Any(), "deed.pdf", []byte(pdfBody)).
					Return("QmDeed", nil)
				pin.EXPECT().
					PinFile(gomock.Any(), "survey.pdf", []byte(pdfBody)).
					Return("QmSurvey", nil)
				clock.EXPECT().Now().Return(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
				pin.EXPECT().
					PinJSON(gomock.Any(), "property-PROP-001-metadata", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, content json.RawMessage) (string, error) {
						var metadata domain.RegistrationMetadata
						assert.NoError(t, json.Unmarshal(content, &metadata))
						assert.Equal(t, "PROP-001", metadata.PropertyID)
						assert.Equal(t, "Ada Lovelace", metadata.OwnerName)
						assert.Len(t, metadata.Documents, 2)
						assert.Equal(t, "2026-03-01T12:00:00Z", metadata.Timestamp)
						return "QmMeta", nil
					})
			},
			wantCID:   "QmMeta",
			wantFiles: 2,
		},
		{
			name: "pinning quota failure surfaces as terminal",
			fileURLs: []string{
				"https://files.example.com/deed.pdf",
			},
			setupMocks: func(pin *mocks.MockPinClient, httpClient *mocks.MockHTTPClient, clock *mocks.MockClock) {
				httpClient.EXPECT().
					GetResponse(gomock.Any(), "https://files.example.com/deed.pdf", nil).
					Return(pdfResponse(pdfBody), nil)
				pin.EXPECT().
					PinFile(gomock.Any(), "deed.pdf", []byte(pdfBody)).
					Return("", &domain.PinningQuotaError{Provider: "pinata", Detail: "plan limit reached"})
			},
			wantErr: func(t *testing.T, err error) {
				var quota *domain.PinningQuotaError
				assert.ErrorAs(t, err, &quota)
				assert.False(t, domain.IsRetryable(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pin := mocks.NewMockPinClient(ctrl)
			httpClient := mocks.NewMockHTTPClient(ctrl)
			clock := mocks.NewMockClock(ctrl)
			tt.setupMocks(pin, httpClient, clock)

			uploader := newTestUploader(pin, httpClient, clock)
			result, err := uploader.UploadBatch(context.Background(), tt.fileURLs, testProperty)

			if tt.wantErr != nil {
				assert.Error(t, err)
				tt.wantErr(t, err)
				assert.Nil(t, result)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantCID, result.MetadataCID)
			assert.Len(t, result.Files, tt.wantFiles)
			assert.Equal(t, tt.wantMessage, result.Message)
		})
	}
}

func TestUploadFileFromURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pin := mocks.NewMockPinClient(ctrl)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	clock := mocks.NewMockClock(ctrl)

	body := "%PDF-1.4 deed contents"
	httpClient.EXPECT().
		GetResponse(gomock.Any(), "https://files.example.com/deed.pdf?token=abc", nil).
		Return(&http.Response{
			StatusCode:    http.StatusOK,
			ContentLength: int64(len(body)),
			Body:          io.NopCloser(bytes.NewReader([]byte(body))),
		}, nil)
	pin.EXPECT().
		PinFile(gomock.Any(), "deed.pdf", []byte(body)).
		Return("QmDeed", nil)

	uploader := newTestUploader(pin, httpClient, clock)

	pinned, err := uploader.UploadFileFromURL(context.Background(), "https://files.example.com/deed.pdf?token=abc")
	assert.NoError(t, err)
	assert.Equal(t, "deed.pdf", pinned.FileName)
	assert.Equal(t, "QmDeed", pinned.CID)
	assert.Equal(t, "application/pdf", pinned.DocType)
}

func TestUploadFileFromURLRejectsDeclaredOversize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pin := mocks.NewMockPinClient(ctrl)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	clock := mocks.NewMockClock(ctrl)

	httpClient.EXPECT().
		GetResponse(gomock.Any(), "https://files.example.com/huge.pdf", nil).
		Return(&http.Response{
			StatusCode:    http.StatusOK,
			ContentLength: testMaxFileSize + 1,
			Body:          io.NopCloser(strings.NewReader("")),
		}, nil)

	uploader := newTestUploader(pin, httpClient, clock)

	_, err := uploader.UploadFileFromURL(context.Background(), "https://files.example.com/huge.pdf")

	var tooLarge *domain.FileTooLargeError
	assert.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(testMaxFileSize+1), tooLarge.Size)
}
