package extractors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"

	"github.com/layomi72/clip-factory-pro/internal/analysis"
	"github.com/layomi72/clip-factory-pro/pkg/clients"
	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// SignalExtractor produces the three signal series plus source metadata.
// Each extractor may fail independently; callers decide how to degrade.
type SignalExtractor interface {
	GetMetadata(ctx context.Context, sourceURL string) (analysis.VideoMetadata, error)
	ExtractLoudness(ctx context.Context, sourceURL string) ([]analysis.LoudnessEvent, error)
	DetectSceneChanges(ctx context.Context, sourceURL string) ([]float64, error)
	ExtractMotion(ctx context.Context, sourceURL string) ([]analysis.MotionSample, error)
}

// extractTimeout is the hard cap per extractor call; the media service
// decodes the whole source, so calls are slow but bounded.
const extractTimeout = 30 * time.Second

// Client talks to the remote media analysis service over HTTP with retry
// and a circuit breaker shared across all extractor calls.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	executor   failsafe.Executor[*http.Response]
	logger     logging.Logger
}

// NewClient creates an extractor client for the given service URL.
func NewClient(baseURL, token string, logger logging.Logger) *Client {
	cb := clients.NewCircuitBreaker(clients.CircuitBreakerConfig{
		Name:   "media-analysis",
		Logger: logger,
	})
	cfg := clients.DefaultHTTPExecutorConfig()
	cfg.CircuitBreaker = cb

	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: extractTimeout},
		executor:   clients.NewHTTPExecutor(cfg),
		logger:     logger,
	}
}

type extractRequest struct {
	SourceURL string `json:"sourceUrl"`
}

// GetMetadata fetches the source's duration and stream properties.
// Duration is mandatory input to the window generator, so there is no
// fallback path for this call.
func (c *Client) GetMetadata(ctx context.Context, sourceURL string) (analysis.VideoMetadata, error) {
	var meta analysis.VideoMetadata
	if err := c.post(ctx, "/v1/metadata", sourceURL, &meta); err != nil {
		return analysis.VideoMetadata{}, err
	}
	if meta.Duration <= 0 {
		return analysis.VideoMetadata{}, fmt.Errorf("metadata returned non-positive duration %v", meta.Duration)
	}
	return meta, nil
}

// ExtractLoudness fetches loudness events for the source.
func (c *Client) ExtractLoudness(ctx context.Context, sourceURL string) ([]analysis.LoudnessEvent, error) {
	var out struct {
		Events []analysis.LoudnessEvent `json:"events"`
	}
	if err := c.post(ctx, "/v1/loudness", sourceURL, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// DetectSceneChanges fetches scene-change timestamps for the source.
func (c *Client) DetectSceneChanges(ctx context.Context, sourceURL string) ([]float64, error) {
	var out struct {
		Timestamps []float64 `json:"timestamps"`
	}
	if err := c.post(ctx, "/v1/scenes", sourceURL, &out); err != nil {
		return nil, err
	}
	return out.Timestamps, nil
}

// ExtractMotion fetches motion-intensity samples for the source.
func (c *Client) ExtractMotion(ctx context.Context, sourceURL string) ([]analysis.MotionSample, error) {
	var out struct {
		Samples []analysis.MotionSample `json:"samples"`
	}
	if err := c.post(ctx, "/v1/motion", sourceURL, &out); err != nil {
		return nil, err
	}
	return out.Samples, nil
}

func (c *Client) post(ctx context.Context, path, sourceURL string, out interface{}) error {
	body, err := json.Marshal(extractRequest{SourceURL: sourceURL})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := clients.ExecuteHTTP(ctx, c.executor, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		return c.httpClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("extractor call %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("extractor call %s returned %d: %s", path, resp.StatusCode, string(payload))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
