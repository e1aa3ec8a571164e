package publisher

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

// Supported target platforms.
const (
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformInstagram = "instagram"
)

// Credentials carries the OAuth material for one connected account. Token
// exchange happens upstream; this layer only forwards the result.
type Credentials struct {
	AccessToken string `json:"accessToken"`
	AccountID   string `json:"accountId"`
}

// PublishResult identifies the uploaded clip on the remote platform.
type PublishResult struct {
	RemoteID  string `json:"remoteId"`
	RemoteURL string `json:"remoteUrl"`
}

// Publisher uploads a rendered clip to a social platform.
type Publisher interface {
	Publish(ctx context.Context, platform, clipURL, caption string, creds Credentials) (PublishResult, error)
}

// Client calls the platform connector service, which owns the per-platform
// upload APIs.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	executor   failsafe.Executor[*http.Response]
	logger     logging.Logger
}

// NewClient creates a publisher client for the given connector URL.
func NewClient(baseURL, token string, logger logging.Logger) *Client {
	cfg := clients.DefaultHTTPExecutorConfig()
	cfg.CircuitBreaker = clients.NewCircuitBreaker(clients.CircuitBreakerConfig{
		Name:   "platform-connector",
		Logger: logger,
	})

	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		executor:   clients.NewHTTPExecutor(cfg),
		logger:     logger,
	}
}

type publishRequest struct {
	Platform    string      `json:"platform"`
	ClipURL     string      `json:"clipUrl"`
	Caption     string      `json:"caption"`
	Credentials Credentials `json:"credentials"`
}

// Publish uploads one clip and returns the remote id and URL.
func (c *Client) Publish(ctx context.Context, platform, clipURL, caption string, creds Credentials) (PublishResult, error) {
	switch platform {
	case PlatformTikTok, PlatformYouTube, PlatformInstagram:
	default:
		return PublishResult{}, fmt.Errorf("unsupported platform %q", platform)
	}
	if creds.AccessToken == "" {
		return PublishResult{}, fmt.Errorf("missing access token for %s", platform)
	}

	body, err := json.Marshal(publishRequest{
		Platform:    platform,
		ClipURL:     clipURL,
		Caption:     caption,
		Credentials: creds,
	})
	if err != nil {
		return PublishResult{}, fmt.Errorf("failed to marshal publish request: %w", err)
	}

	resp, err := clients.ExecuteHTTP(ctx, c.executor, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/publish", bytes.NewReader(body))
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
		return PublishResult{}, fmt.Errorf("publish request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return PublishResult{}, fmt.Errorf("connector returned %d: %s", resp.StatusCode, string(payload))
	}

	var result PublishResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return PublishResult{}, fmt.Errorf("failed to decode publish response: %w", err)
	}

	c.logger.WithFields(logging.Fields{
		"platform":  platform,
		"remote_id": result.RemoteID,
	}).Info("Clip published")

	return result, nil
}
