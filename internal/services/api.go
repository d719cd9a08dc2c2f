// API service for making raw HTTP requests to the FastAPI proxy
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/ytsync/internal/shared"
)

// APIService provides methods for making raw HTTP requests to the FastAPI proxy.
type APIService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the FastAPI proxy.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// SetAuthFile sets the headers file forwarded in X-Auth-File; empty disables the header.
func (a *APIService) SetAuthFile(path string) {
	a.authFile = path
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the response has a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// UploadJSON uploads JSON data to the specified path.
func (a *APIService) UploadJSON(ctx context.Context, path string, jsonData []byte) (*APIResponse, error) {
	return a.Post(ctx, path, jsonData)
}

// Health calls GET /health and fails unless the proxy answers with a 2xx status.
func (a *APIService) Health(ctx context.Context) (*APIResponse, error) {
	resp, err := a.Get(ctx, "/health")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return resp, fmt.Errorf("%w: health check returned status %d", shared.ErrServiceUnavailable, resp.StatusCode)
	}
	return resp, nil
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.authFile != "" {
		req.Header.Set("X-Auth-File", a.authFile)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
