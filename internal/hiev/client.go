package hiev

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdevine/face-neutronprobe-hiev/internal/config"
	"github.com/gdevine/face-neutronprobe-hiev/internal/infrastructure"
)

const uploadEndpoint = "/data_files/api_create"

// Uploader is the capability the pipeline depends on. The production
// implementation is Client; tests substitute stubs.
type Uploader interface {
	Upload(ctx context.Context, filePath string, md Metadata) error
}

// UploadError reports a rejected or failed upload. Detail carries the
// response body (or transport error text) for the run log; it never
// contains the API token.
type UploadError struct {
	File       string
	StatusCode int
	Detail     string
}

func (e *UploadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upload of %s failed with status %d: %s", e.File, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("upload of %s failed: %s", e.File, e.Detail)
}

// Client uploads files to a HIEv instance
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a HIEv client from configuration
func NewClient(cfg config.HIEvConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.UploadTimeout,
		},
	}
}

// Upload creates a data file record on HIEv by POSTing the file content
// and its metadata as one multipart form. A nil return means the remote
// record exists; any other outcome is an *UploadError.
func (c *Client) Upload(ctx context.Context, filePath string, md Metadata) error {
	fileName := filepath.Base(filePath)

	if err := md.Validate(); err != nil {
		return &UploadError{File: fileName, Detail: err.Error()}
	}

	body, contentType, err := c.buildForm(filePath, md)
	if err != nil {
		return &UploadError{File: fileName, Detail: err.Error()}
	}

	requestURL := c.baseURL + uploadEndpoint + "?auth_token=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, body)
	if err != nil {
		return &UploadError{File: fileName, Detail: fmt.Sprintf("failed to create request: %s", redact(err))}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", "face-neutronprobe-hiev/1.0")

	logger := infrastructure.LoggerFromContext(ctx)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		detail := redact(err)
		logger.Error("HIEv request failed",
			"file", fileName,
			"duration", time.Since(start).String(),
			"error", detail)
		return &UploadError{File: fileName, Detail: detail}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &UploadError{File: fileName, StatusCode: resp.StatusCode,
			Detail: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("HIEv rejected upload",
			"file", fileName,
			"status", resp.StatusCode,
			"duration", time.Since(start).String())
		return &UploadError{
			File:       fileName,
			StatusCode: resp.StatusCode,
			Detail:     excerpt(respBody),
		}
	}

	logger.Info("File successfully uploaded to HIEv",
		"file", fileName,
		"type", md.Type,
		"status", resp.StatusCode,
		"duration", time.Since(start).String())

	return nil
}

// buildForm assembles the multipart body: the file part first, then every
// metadata field.
func (c *Client) buildForm(filePath string, md Metadata) (*bytes.Buffer, string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to read upload file: %w", err)
	}

	for _, field := range md.Fields() {
		if err := writer.WriteField(field.Key, field.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.Key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// redact rewrites a transport error without its request URL. url.Error
// messages embed the full URL, and ours carries the auth_token query
// parameter, which must never reach logs or run summaries.
func redact(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Sprintf("%s %s: %v", urlErr.Op, uploadEndpoint, urlErr.Err)
	}
	return err.Error()
}

// excerpt trims a response body to a loggable detail string
func excerpt(body []byte) string {
	const max = 512
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	if s == "" {
		return "(empty response body)"
	}
	return s
}
