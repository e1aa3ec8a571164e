package config

import (
	"strings"
	"time"

	pkgconfig "github.com/layomi72/clip-factory-pro/pkg/config"
)

// Config holds the lookout service configuration.
type Config struct {
	Port string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	S3Bucket    string
	S3Prefix    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	ExtractorURL   string
	ExtractorToken string
	ProcessorURL   string
	ProcessorToken string
	PublisherURL   string
	PublisherToken string

	// ServiceToken guards the API; empty disables auth (local dev).
	ServiceToken string

	ScoringPreset    string
	TopN             int
	QueueLimit       int
	SuppressOverlaps bool
	RandomSeed       int64

	JanitorInterval time.Duration
	JobRetention    time.Duration
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		Port: pkgconfig.GetEnv("PORT", "18020"),

		DatabaseURL: pkgconfig.GetEnv("DATABASE_URL", ""),

		RedisAddr:     pkgconfig.GetEnv("REDIS_ADDR", ""),
		RedisPassword: pkgconfig.GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       pkgconfig.GetEnvInt("REDIS_DB", 0),

		KafkaBrokers: splitList(pkgconfig.GetEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   pkgconfig.GetEnv("KAFKA_TOPIC", "clip_events"),

		S3Bucket:    pkgconfig.GetEnv("S3_BUCKET", ""),
		S3Prefix:    pkgconfig.GetEnv("S3_PREFIX", ""),
		S3Region:    pkgconfig.GetEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  pkgconfig.GetEnv("S3_ENDPOINT", ""),
		S3AccessKey: pkgconfig.GetEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: pkgconfig.GetEnv("S3_SECRET_KEY", ""),

		ExtractorURL:   pkgconfig.GetEnv("EXTRACTOR_URL", "http://localhost:18021"),
		ExtractorToken: pkgconfig.GetEnv("EXTRACTOR_TOKEN", ""),
		ProcessorURL:   pkgconfig.GetEnv("PROCESSOR_URL", "http://localhost:18022"),
		ProcessorToken: pkgconfig.GetEnv("PROCESSOR_TOKEN", ""),
		PublisherURL:   pkgconfig.GetEnv("PUBLISHER_URL", "http://localhost:18023"),
		PublisherToken: pkgconfig.GetEnv("PUBLISHER_TOKEN", ""),

		ServiceToken: pkgconfig.GetEnv("SERVICE_TOKEN", ""),

		ScoringPreset:    pkgconfig.GetEnv("SCORING_PRESET", "elite"),
		TopN:             pkgconfig.GetEnvInt("TOP_N", 10),
		QueueLimit:       pkgconfig.GetEnvInt("QUEUE_LIMIT", 5),
		SuppressOverlaps: pkgconfig.GetEnvBool("SUPPRESS_OVERLAPS", false),
		RandomSeed:       int64(pkgconfig.GetEnvInt("RANDOM_SEED", 0)),

		JanitorInterval: pkgconfig.GetEnvDuration("JANITOR_INTERVAL", time.Hour),
		JobRetention:    pkgconfig.GetEnvDuration("JOB_RETENTION", 7*24*time.Hour),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
