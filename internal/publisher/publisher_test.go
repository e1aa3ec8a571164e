package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

func TestPublishReturnsRemoteIdentity(t *testing.T) {
	var got publishRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(PublishResult{
			RemoteID:  "tt-123",
			RemoteURL: "https://tiktok.com/@u/video/tt-123",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", logging.NewLogger())
	result, err := client.Publish(context.Background(), PlatformTikTok, "https://cdn/out.mp4", "Wait for it", Credentials{
		AccessToken: "tok",
		AccountID:   "acct",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RemoteID != "tt-123" || result.RemoteURL == "" {
		t.Fatalf("unexpected result %+v", result)
	}
	if got.Platform != PlatformTikTok || got.Credentials.AccessToken != "tok" {
		t.Fatalf("request not forwarded: %+v", got)
	}
}

func TestPublishValidatesInput(t *testing.T) {
	client := NewClient("http://unused", "", logging.NewLogger())

	if _, err := client.Publish(context.Background(), "myspace", "url", "cap", Credentials{AccessToken: "t"}); err == nil {
		t.Fatal("expected error for unsupported platform")
	}
	if _, err := client.Publish(context.Background(), PlatformYouTube, "url", "cap", Credentials{}); err == nil {
		t.Fatal("expected error for missing token")
	}
}
