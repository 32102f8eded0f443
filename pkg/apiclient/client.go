package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/ignitionstack/fnctl/pkg/logging"
	"github.com/ignitionstack/fnctl/pkg/types"
)

// DefaultBaseURL is where the backend listens unless configured otherwise
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client is the interface for communicating with the function backend
type Client interface {
	// ListFunctions fetches the full function catalog
	ListFunctions(ctx context.Context) ([]types.Function, error)

	// CreateFunction registers a new function and returns it with its assigned ID
	CreateFunction(ctx context.Context, draft types.FunctionDraft) (*types.Function, error)

	// UpdateFunction replaces all fields of an existing function
	UpdateFunction(ctx context.Context, fn types.Function) (*types.Function, error)

	// DeleteFunction removes a function
	DeleteFunction(ctx context.Context, id int) error

	// RunFunction executes a function and returns its raw output
	RunFunction(ctx context.Context, id int) (string, error)

	// ListMetrics fetches the execution log
	ListMetrics(ctx context.Context, query types.MetricsQuery) ([]types.ExecutionMetric, error)
}

// clientImpl is the implementation of the Client interface
type clientImpl struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logging.Logger
}

// Options for creating a new backend client
type Options struct {
	BaseURL string

	// HTTPClient overrides the transport. No timeout is applied by default;
	// the backend owns execution timeouts.
	HTTPClient *http.Client

	Logger logging.Logger
}

// New creates a new backend client with the given options
func New(opts Options) (Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}

	baseURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", raw)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &clientImpl{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// ListFunctions fetches the full function catalog
func (c *clientImpl) ListFunctions(ctx context.Context) ([]types.Function, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, "functions/", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send list request: %w", err)
	}
	defer resp.Body.Close()

	var functions []types.Function
	if err := json.NewDecoder(resp.Body).Decode(&functions); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}

	return functions, nil
}

// CreateFunction registers a new function
func (c *clientImpl) CreateFunction(ctx context.Context, draft types.FunctionDraft) (*types.Function, error) {
	resp, err := c.sendRequest(ctx, http.MethodPost, "functions/", nil, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to send create request: %w", err)
	}
	defer resp.Body.Close()

	var created types.Function
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode create response: %w", err)
	}

	return &created, nil
}

// UpdateFunction replaces all fields of an existing function
func (c *clientImpl) UpdateFunction(ctx context.Context, fn types.Function) (*types.Function, error) {
	resp, err := c.sendRequest(ctx, http.MethodPut, functionPath(fn.ID), nil, fn)
	if err != nil {
		return nil, fmt.Errorf("failed to send update request: %w", err)
	}
	defer resp.Body.Close()

	var updated types.Function
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode update response: %w", err)
	}

	return &updated, nil
}

// DeleteFunction removes a function. The acknowledgement body is ignored.
func (c *clientImpl) DeleteFunction(ctx context.Context, id int) error {
	resp, err := c.sendRequest(ctx, http.MethodDelete, functionPath(id), nil, nil)
	if err != nil {
		return fmt.Errorf("failed to send delete request: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// RunFunction executes a function and returns its raw output
func (c *clientImpl) RunFunction(ctx context.Context, id int) (string, error) {
	resp, err := c.sendRequest(ctx, http.MethodPost, functionPath(id)+"/run", nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to send run request: %w", err)
	}
	defer resp.Body.Close()

	var runResp types.RunResponse
	if err := json.NewDecoder(resp.Body).Decode(&runResp); err != nil {
		return "", fmt.Errorf("failed to decode run response: %w", err)
	}

	return runResp.Output, nil
}

// ListMetrics fetches the execution log, optionally filtered server side
func (c *clientImpl) ListMetrics(ctx context.Context, q types.MetricsQuery) ([]types.ExecutionMetric, error) {
	query := url.Values{}
	if q.Runtime != "" {
		query.Set("runtime", q.Runtime)
	}
	if q.Success != nil {
		query.Set("success", strconv.FormatBool(*q.Success))
	}
	if q.From != 0 {
		query.Set("from_ts", strconv.FormatFloat(q.From, 'f', -1, 64))
	}
	if q.To != 0 {
		query.Set("to_ts", strconv.FormatFloat(q.To, 'f', -1, 64))
	}

	resp, err := c.sendRequest(ctx, http.MethodGet, "metrics", query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send metrics request: %w", err)
	}
	defer resp.Body.Close()

	var records []types.ExecutionMetric
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode metrics response: %w", err)
	}

	return records, nil
}

func functionPath(id int) string {
	return "functions/" + strconv.Itoa(id)
}

// sendRequest is a helper function to send a request to the backend
func (c *clientImpl) sendRequest(ctx context.Context, method, endpoint string, query url.Values, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(jsonData)
	}

	// Build the path by hand: the backend routes are sensitive to the trailing slash
	target := *c.baseURL
	target.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + endpoint
	target.RawPath = ""
	target.RawQuery = ""
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debugf("request %s: %s %s", requestID, method, target.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("backend connection timed out: %w", err)
		}
		if strings.Contains(err.Error(), "connect: connection refused") {
			return nil, fmt.Errorf("backend is not reachable at %s: %w", c.baseURL.Host, err)
		}
		return nil, err
	}

	c.logger.Debugf("request %s: %s", requestID, resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(bodyBytes, apiErr); err == nil && apiErr.Detail != "" {
			return nil, apiErr
		}

		// FastAPI validation errors carry a list in "detail"; keep the raw body
		apiErr.Detail = strings.TrimSpace(string(bodyBytes))
		return nil, apiErr
	}

	return resp, nil
}
