// Package ollama implements [drill.Generator] for the Ollama HTTP API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"drill"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.2"
	defaultTimeout = 30 * time.Second

	generatePath = "/api/generate"
	tagsPath     = "/api/tags"
)

// stopSequences end generation before the model drifts into asking a second
// question in the same turn.
var stopSequences = []string{"\n\n\n", "Candidate:", "Question 2:", "Next question:"}

// Interface compliance check.
var _ drill.Generator = (*Client)(nil)

// Client implements [drill.Generator] for the Ollama generate API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithModel sets the model used for all generation requests.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the deadline for non-streaming Generate calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a new Ollama [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type apiRequest struct {
	Model   string     `json:"model"`
	Prompt  string     `json:"prompt"`
	Stream  bool       `json:"stream"`
	Options apiOptions `json:"options"`
}

type apiOptions struct {
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p"`
	TopK          int      `json:"top_k"`
	RepeatPenalty float64  `json:"repeat_penalty,omitempty"`
	NumPredict    int      `json:"num_predict"`
	Stop          []string `json:"stop,omitempty"`
}

type apiResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Stream sends a streaming generation request and returns a [drill.Stream]
// decoding the newline-delimited response payloads. The streaming call has
// no explicit timeout; it runs until the backend signals completion or ctx
// is cancelled.
func (c *Client) Stream(ctx context.Context, prompt string) (drill.Stream, error) {
	body := apiRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: true,
		Options: apiOptions{
			Temperature:   0.7,
			TopP:          0.9,
			TopK:          40,
			RepeatPenalty: 1.2,
			NumPredict:    150,
			Stop:          stopSequences,
		},
	}

	resp, err := c.post(ctx, body)
	if err != nil {
		return nil, err
	}
	return newStream(ctx, resp.Body), nil
}

// Generate sends a non-streaming generation request bounded by the client's
// timeout. Expiry is reported as [drill.ErrTimeout]; transport failures and
// non-2xx responses as [drill.ErrBackendUnavailable].
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := apiRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: apiOptions{
			Temperature: 0.7,
			TopP:        0.9,
			TopK:        40,
			NumPredict:  200,
		},
	}

	resp, err := c.post(ctx, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", drill.ErrBackendUnavailable)
	}
	return out.Response, nil
}

func (c *Client) post(ctx context.Context, body apiRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("ollama: %w", drill.ErrTimeout)
		}
		return nil, fmt.Errorf("ollama: %v: %w", err, drill.ErrBackendUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ollama: HTTP %d: %s: %w", resp.StatusCode, bytes.TrimSpace(msg), drill.ErrBackendUnavailable)
	}
	return resp, nil
}

// Models lists the models available on the backend. It backs the startup
// connectivity check.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tagsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: %v: %w", err, drill.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: HTTP %d: %w", resp.StatusCode, drill.ErrBackendUnavailable)
	}

	var out struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ollama: decode tags: %w", err)
	}

	names := make([]string, len(out.Models))
	for i, m := range out.Models {
		names[i] = m.Name
	}
	return names, nil
}
