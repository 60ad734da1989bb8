package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gowebpki/jcs"
	"go.uber.org/zap"

	"github.com/deedhub/land-registry/internal/adapter"
	"github.com/deedhub/land-registry/internal/domain"
	"github.com/deedhub/land-registry/internal/logger"
)

// BatchResult is the outcome of pinning one property's document set.
type BatchResult struct {
	MetadataCID string              `json:"metadata_cid"`
	Files       []domain.PinnedFile `json:"files"`
	Message     string              `json:"message,omitempty"`
}

// PropertyContext carries the property attributes embedded in the pinned
// metadata document.
type PropertyContext struct {
	PropertyID   string
	PropertyName string
	OwnerName    string
	PropertyType string
}

// Uploader pins a property's documents and its aggregate metadata record.
type Uploader struct {
	pinClient         PinClient
	httpClient        adapter.HTTPClient
	clock             adapter.Clock
	maxBatchSize      int
	maxFileSize       int64
	downloadTimeout   time.Duration
	uploadConcurrency int
	allowedExtensions map[string]struct{}
}

// NewUploader creates an uploader bounded by the given limits.
func NewUploader(
	pinClient PinClient,
	httpClient adapter.HTTPClient,
	clock adapter.Clock,
	maxBatchSize int,
	maxFileSize int64,
	downloadTimeout time.Duration,
	uploadConcurrency int,
	allowedExtensions []string,
) *Uploader {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	if uploadConcurrency <= 0 {
		uploadConcurrency = 5
	}

	return &Uploader{
		pinClient:         pinClient,
		httpClient:        httpClient,
		clock:             clock,
		maxBatchSize:      maxBatchSize,
		maxFileSize:       maxFileSize,
		downloadTimeout:   downloadTimeout,
		uploadConcurrency: uploadConcurrency,
		allowedExtensions: allowed,
	}
}

// UploadBatch pins every document of a property plus the aggregate metadata
// record. All-or-nothing: a single failed file fails the batch so an
// incomplete document set is never committed to the metadata record.
func (u *Uploader) UploadBatch(ctx context.Context, fileURLs []string, property PropertyContext) (*BatchResult, error) {
	unique, removed := dedupeURLs(fileURLs)

	if len(unique) == 0 {
		return nil, &domain.ValidationError{Reason: "batch contains no file URLs"}
	}
	if len(unique) > u.maxBatchSize {
		return nil, &domain.TooManyFilesError{Count: len(unique), Limit: u.maxBatchSize}
	}

	if removed > 0 {
		logger.InfoCtx(ctx, "removed duplicate file URLs from batch",
			zap.Int("removed", removed),
			zap.String("property_id", property.PropertyID))
	}

	// Gate the whole batch on file types before any network call. A doomed
	// batch must not leave partial uploads behind.
	for _, fileURL := range unique {
		if err := u.checkExtension(fileURL); err != nil {
			return nil, err
		}
	}

	pool := pond.NewResultPool[domain.PinnedFile](u.uploadConcurrency)
	defer pool.StopAndWait()

	tasks := make([]pond.Result[domain.PinnedFile], 0, len(unique))
	for _, fileURL := range unique {
		tasks = append(tasks, pool.SubmitErr(func() (domain.PinnedFile, error) {
			return u.UploadFileFromURL(ctx, fileURL)
		}))
	}

	files := make([]domain.PinnedFile, 0, len(tasks))
	var firstErr error
	for _, task := range tasks {
		pinned, err := task.Wait()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if err == nil {
			files = append(files, pinned)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	metadata := domain.RegistrationMetadata{
		PropertyID:   property.PropertyID,
		OwnerName:    property.OwnerName,
		PropertyType: property.PropertyType,
		PropertyName: property.PropertyName,
		Documents:    files,
		Timestamp:    u.clock.Now().UTC().Format(time.RFC3339),
	}

	metadataCID, err := u.UploadMetadata(ctx, metadata)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		MetadataCID: metadataCID,
		Files:       files,
	}
	if removed > 0 {
		result.Message = fmt.Sprintf("%d duplicates removed", removed)
	}

	return result, nil
}

// UploadFileFromURL downloads one document from its storage URL and pins it.
func (u *Uploader) UploadFileFromURL(ctx context.Context, fileURL string) (domain.PinnedFile, error) {
	if err := u.checkExtension(fileURL); err != nil {
		return domain.PinnedFile{}, err
	}

	fileName := fileNameFromURL(fileURL)

	data, err := u.download(ctx, fileURL, fileName)
	if err != nil {
		return domain.PinnedFile{}, err
	}

	cid, err := u.pinClient.PinFile(ctx, fileName, data)
	if err != nil {
		return domain.PinnedFile{}, err
	}

	return domain.PinnedFile{
		FileName: fileName,
		DocType:  mimetype.Detect(data).String(),
		CID:      cid,
	}, nil
}

// UploadMetadata pins the aggregate metadata record in RFC 8785 canonical
// form so identical inputs always pin identical bytes.
func (u *Uploader) UploadMetadata(ctx context.Context, metadata domain.RegistrationMetadata) (string, error) {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize metadata: %w", err)
	}

	name := fmt.Sprintf("property-%s-metadata", metadata.PropertyID)
	return u.pinClient.PinJSON(ctx, name, json.RawMessage(canonical))
}

func (u *Uploader) download(ctx context.Context, fileURL, fileName string) ([]byte, error) {
	downloadCtx, cancel := context.WithTimeout(ctx, u.downloadTimeout)
	defer cancel()

	resp, err := u.httpClient.GetResponse(downloadCtx, fileURL, nil)
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "file storage", Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close download body", zap.Error(err), zap.String("url", fileURL))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ExternalServiceError{
			Service: "file storage",
			Err:     fmt.Errorf("unexpected status %d downloading %s", resp.StatusCode, fileURL),
		}
	}

	if resp.ContentLength > u.maxFileSize {
		return nil, &domain.FileTooLargeError{FileName: fileName, Size: resp.ContentLength, Limit: u.maxFileSize}
	}

	// Read one byte past the cap to detect oversized bodies that did not
	// declare a Content-Length.
	data, err := io.ReadAll(io.LimitReader(resp.Body, u.maxFileSize+1))
	if err != nil {
		return nil, &domain.ExternalServiceError{Service: "file storage", Err: err}
	}
	if int64(len(data)) > u.maxFileSize {
		return nil, &domain.FileTooLargeError{FileName: fileName, Size: int64(len(data)), Limit: u.maxFileSize}
	}

	return data, nil
}

func (u *Uploader) checkExtension(fileURL string) error {
	fileName := fileNameFromURL(fileURL)
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if _, ok := u.allowedExtensions[ext]; !ok {
		return &domain.UnsupportedFileTypeError{FileName: fileName, Extension: ext}
	}
	return nil
}

func fileNameFromURL(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return path.Base(fileURL)
	}
	return path.Base(parsed.Path)
}

// dedupeURLs removes duplicate URLs preserving first-seen order and reports
// how many were dropped.
func dedupeURLs(urls []string) ([]string, int) {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return unique, len(urls) - len(unique)
}
