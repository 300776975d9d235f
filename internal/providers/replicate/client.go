package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"visualizer/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("replicate: api token is required")

// Prediction statuses reported by the API.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// Options configures the Replicate client.
type Options struct {
	APIToken       string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Replicate predictions and files APIs.
type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// PredictionRequest creates a prediction either by model name or by version.
type PredictionRequest struct {
	Model   string         `json:"model,omitempty"`
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}

// Prediction is the job handle returned by create and get calls.
type Prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`

	// HTTPStatus is the status code of the create call.
	HTTPStatus int `json:"-"`
}

// Pending reports whether the prediction has not reached a terminal state.
func (p *Prediction) Pending() bool {
	return p != nil && (p.Status == StatusStarting || p.Status == StatusProcessing)
}

// ErrorMessage returns the upstream error text, or "Unknown error".
func (p *Prediction) ErrorMessage() string {
	if p == nil || len(p.Error) == 0 || string(p.Error) == "null" {
		return "Unknown error"
	}
	var text string
	if err := json.Unmarshal(p.Error, &text); err == nil {
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
		return "Unknown error"
	}
	return strings.TrimSpace(string(p.Error))
}

// FirstOutput returns the first element of a list output, or the output
// itself when it is a single string.
func (p *Prediction) FirstOutput() (string, bool) {
	if p == nil || len(p.Output) == 0 {
		return "", false
	}
	var list []string
	if err := json.Unmarshal(p.Output, &list); err == nil {
		if len(list) == 0 {
			return "", false
		}
		return list[0], true
	}
	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil {
		return single, true
	}
	return "", false
}

// OutputText returns the output as text, joining list fragments with spaces.
func (p *Prediction) OutputText() string {
	if p == nil || len(p.Output) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(p.Output, &single); err == nil {
		return single
	}
	var list []string
	if err := json.Unmarshal(p.Output, &list); err == nil {
		return strings.Join(list, " ")
	}
	return ""
}

// SubmitError is returned when the create call is not acknowledged.
type SubmitError struct {
	Status int
	Body   string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("replicate: create prediction: %d - %s", e.Status, e.Body)
}

type fileResponse struct {
	URL  string `json:"url"`
	URLs struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	logger := opts.Logger
	if logger == nil {
		logger = infra.DiscardLogger()
	}
	return &Client{
		apiToken:   strings.TrimSpace(opts.APIToken),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiToken != ""
}

// CreatePrediction submits a job. Responses other than 200 and 201 yield a
// *SubmitError carrying the upstream status and body.
func (c *Client) CreatePrediction(ctx context.Context, req PredictionRequest) (*Prediction, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &SubmitError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	var pred Prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return nil, fmt.Errorf("replicate: decode response: %w", err)
	}
	pred.HTTPStatus = resp.StatusCode
	c.logger.Debug().
		Str("prediction_id", pred.ID).
		Str("status", pred.Status).
		Str("model", coalesce(req.Model, req.Version)).
		Msg("replicate: prediction created")
	return &pred, nil
}

// GetPrediction fetches the current state of a prediction.
func (c *Client) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("replicate: prediction id is required")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("replicate: get prediction: http %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("replicate: decode response: %w", err)
	}
	return &pred, nil
}

// UploadFile stores bytes through the files endpoint and returns a URL the
// models can read.
func (c *Client) UploadFile(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("replicate: build upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("replicate: build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("replicate: build upload: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &buf)
	if err != nil {
		return "", fmt.Errorf("replicate: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("replicate: upload file: %d - %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out fileResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("replicate: decode response: %w", err)
	}
	url := coalesce(out.URLs.Get, out.URL)
	if url == "" {
		return "", errors.New("replicate: upload returned no url")
	}
	return url, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
