package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"

	"github.com/layomi72/clip-factory-pro/pkg/clients"
	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// VideoQuality presets accepted by the media processor.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// EffectsConfig selects the optional render effects burned into a clip.
type EffectsConfig struct {
	AddCaptions    bool   `json:"addCaptions"`
	CaptionText    string `json:"captionText,omitempty"`
	AddTransitions bool   `json:"addTransitions"`
	EnhanceAudio   bool   `json:"enhanceAudio"`
	VideoQuality   string `json:"videoQuality,omitempty"`
}

// Validate rejects unknown quality presets.
func (e EffectsConfig) Validate() error {
	switch e.VideoQuality {
	case "", QualityHigh, QualityMedium, QualityLow:
		return nil
	default:
		return fmt.Errorf("unknown video quality %q", e.VideoQuality)
	}
}

// MediaProcessor is the black-box cut contract: given a source, a time
// range, and effects, produce an output file URL.
type MediaProcessor interface {
	Cut(ctx context.Context, sourceURL string, startTime, endTime float64, effects EffectsConfig) (string, error)
}

// cutTimeout caps one render. Cutting plus effects on a 30s clip is slow
// but bounded; anything longer means the processor is stuck.
const cutTimeout = 2 * time.Minute

// Client calls the remote media processing service.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	executor   failsafe.Executor[*http.Response]
	logger     logging.Logger
}

// NewClient creates a processor client for the given service URL.
func NewClient(baseURL, token string, logger logging.Logger) *Client {
	cfg := clients.DefaultHTTPExecutorConfig()
	cfg.CircuitBreaker = clients.NewCircuitBreaker(clients.CircuitBreakerConfig{
		Name:   "media-processor",
		Logger: logger,
	})

	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: cutTimeout},
		executor:   clients.NewHTTPExecutor(cfg),
		logger:     logger,
	}
}

type cutRequest struct {
	SourceURL string        `json:"sourceUrl"`
	StartTime float64       `json:"startTime"`
	EndTime   float64       `json:"endTime"`
	Effects   EffectsConfig `json:"effects"`
}

type cutResponse struct {
	OutputURL string `json:"outputUrl"`
}

// Cut renders one clip and returns the output file URL.
func (c *Client) Cut(ctx context.Context, sourceURL string, startTime, endTime float64, effects EffectsConfig) (string, error) {
	if endTime <= startTime || startTime < 0 {
		return "", fmt.Errorf("invalid cut range [%v, %v]", startTime, endTime)
	}
	if err := effects.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(cutRequest{
		SourceURL: sourceURL,
		StartTime: startTime,
		EndTime:   endTime,
		Effects:   effects,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cut request: %w", err)
	}

	resp, err := clients.ExecuteHTTP(ctx, c.executor, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/cut", bytes.NewReader(body))
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
		return "", fmt.Errorf("cut request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("processor returned %d: %s", resp.StatusCode, string(payload))
	}

	var out cutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode cut response: %w", err)
	}
	if out.OutputURL == "" {
		return "", fmt.Errorf("processor returned empty output URL")
	}

	c.logger.WithFields(logging.Fields{
		"source":     sourceURL,
		"start_time": startTime,
		"end_time":   endTime,
		"output":     out.OutputURL,
	}).Info("Clip rendered")

	return out.OutputURL, nil
}
