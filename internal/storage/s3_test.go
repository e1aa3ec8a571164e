package storage

import "testing"

func TestClipKeys(t *testing.T) {
	if got := ClipKey("user-1", "clip-9"); got != "clips/user-1/clip-9.mp4" {
		t.Fatalf("unexpected clip key %s", got)
	}
	if got := ThumbnailKey("user-1", "clip-9"); got != "thumbnails/user-1/clip-9.jpg" {
		t.Fatalf("unexpected thumbnail key %s", got)
	}
}

func TestFullKeyPrefixJoin(t *testing.T) {
	tests := []struct {
		prefix string
		key    string
		want   string
	}{
		{"", "clips/a.mp4", "clips/a.mp4"},
		{"prod", "clips/a.mp4", "prod/clips/a.mp4"},
		{"prod/", "/clips/a.mp4", "prod/clips/a.mp4"},
	}

	for _, tt := range tests {
		c := &S3Client{config: S3Config{Prefix: tt.prefix}}
		if got := c.fullKey(tt.key); got != tt.want {
			t.Fatalf("prefix %q key %q: got %q, want %q", tt.prefix, tt.key, got, tt.want)
		}
	}
}

func TestObjectURL(t *testing.T) {
	aws := &S3Client{config: S3Config{Bucket: "clips", Region: "us-east-1"}}
	if got := aws.ObjectURL("clips/u/c.mp4"); got != "https://clips.s3.us-east-1.amazonaws.com/clips/u/c.mp4" {
		t.Fatalf("unexpected AWS URL %s", got)
	}

	minio := &S3Client{config: S3Config{Bucket: "clips", Endpoint: "http://minio:9000/"}}
	if got := minio.ObjectURL("clips/u/c.mp4"); got != "http://minio:9000/clips/clips/u/c.mp4" {
		t.Fatalf("unexpected MinIO URL %s", got)
	}
}
