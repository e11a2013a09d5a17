package shotdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"plateflow/internal/config"
	"plateflow/internal/services"
)

// HTTPDoer describes the HTTP client used by the tracking-database service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient is the REST-backed tracking-database client.
type HTTPClient struct {
	baseURL   string
	apiKey    string
	projectID int64
	client    HTTPDoer
}

// NewHTTPClient constructs a client from application config.
func NewHTTPClient(cfg *config.Config) *HTTPClient {
	timeout := time.Duration(cfg.ShotDB.TimeoutSeconds) * time.Second
	return &HTTPClient{
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.ShotDB.BaseURL), "/"),
		apiKey:    strings.TrimSpace(cfg.ShotDB.APIKey),
		projectID: cfg.ShotDB.ProjectID,
		client:    &http.Client{Timeout: timeout},
	}
}

// NewHTTPClientWithDoer injects a custom HTTP doer (primarily for tests).
func NewHTTPClientWithDoer(baseURL, apiKey string, projectID int64, doer HTTPDoer) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:    strings.TrimSpace(apiKey),
		projectID: projectID,
		client:    doer,
	}
}

func (c *HTTPClient) FindVersionCodes(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/projects/%d/versions?fields=code", c.baseURL, c.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build find request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrLookup, "resolve", "find versions", "", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrLookup, "resolve", "find versions",
			fmt.Sprintf("tracking database returned %d", resp.StatusCode), nil)
	}

	var payload struct {
		Versions []VersionRecord `json:"versions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrLookup, "resolve", "decode versions", "", err)
	}

	codes := make([]string, 0, len(payload.Versions))
	for _, record := range payload.Versions {
		if record.Code != "" {
			codes = append(codes, record.Code)
		}
	}
	return codes, nil
}

func (c *HTTPClient) ProjectCodec(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/projects/%d?fields=codec", c.baseURL, c.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build project request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrLookup, "generate", "find project codec", "", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrLookup, "generate", "find project codec",
			fmt.Sprintf("tracking database returned %d", resp.StatusCode), nil)
	}

	var payload struct {
		Codec string `json:"codec"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", services.Wrap(services.ErrLookup, "generate", "decode project", "", err)
	}
	return strings.TrimSpace(payload.Codec), nil
}

func (c *HTTPClient) CreateVersion(ctx context.Context, fields map[string]string) (VersionRecord, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("marshal version fields: %w", err)
	}

	url := fmt.Sprintf("%s/projects/%d/versions", c.baseURL, c.projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return VersionRecord{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return VersionRecord{}, fmt.Errorf("create version: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return VersionRecord{}, fmt.Errorf("create version: tracking database returned %d", resp.StatusCode)
	}

	var record VersionRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return VersionRecord{}, fmt.Errorf("decode created version: %w", err)
	}
	return record, nil
}

func (c *HTTPClient) UploadMovie(ctx context.Context, versionID int64, moviePath string) error {
	file, err := os.Open(moviePath)
	if err != nil {
		return fmt.Errorf("open movie %s: %w", moviePath, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("movie", filepath.Base(moviePath))
	if err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read movie %s: %w", moviePath, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize upload form: %w", err)
	}

	url := fmt.Sprintf("%s/versions/%d/movie", c.baseURL, versionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload movie: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("upload movie: tracking database returned %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

var _ Client = (*HTTPClient)(nil)
