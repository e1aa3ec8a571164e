package main

import (
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/layomi72/clip-factory-pro/internal/analysis"
	"github.com/layomi72/clip-factory-pro/internal/cache"
	"github.com/layomi72/clip-factory-pro/internal/config"
	"github.com/layomi72/clip-factory-pro/internal/extractors"
	"github.com/layomi72/clip-factory-pro/internal/handlers"
	"github.com/layomi72/clip-factory-pro/internal/jobs"
	"github.com/layomi72/clip-factory-pro/internal/processor"
	"github.com/layomi72/clip-factory-pro/internal/publisher"
	"github.com/layomi72/clip-factory-pro/internal/storage"
	"github.com/layomi72/clip-factory-pro/pkg/database"
	"github.com/layomi72/clip-factory-pro/pkg/kafka"
	"github.com/layomi72/clip-factory-pro/pkg/logging"
	"github.com/layomi72/clip-factory-pro/pkg/middleware"
	"github.com/layomi72/clip-factory-pro/pkg/monitoring"
	"github.com/layomi72/clip-factory-pro/pkg/server"
	"github.com/layomi72/clip-factory-pro/pkg/version"
)

const serviceName = "lookout"

func main() {
	_ = godotenv.Load()

	logger := logging.NewLoggerWithService(serviceName)
	cfg := config.Load()

	logger.WithFields(logging.Fields{
		"version": version.Version,
		"commit":  version.GetShortCommit(),
		"preset":  cfg.ScoringPreset,
	}).Info("Starting viral moment detection service")

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := analysis.NewSeededRandom(seed)

	metricsCollector := monitoring.NewMetricsCollector(serviceName, version.Version, version.GetShortCommit())
	_, _, fallbackCounter := metricsCollector.CreateAnalysisMetrics()

	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer func() { _ = db.Close() }()

	store := jobs.NewStore(db, logger)

	janitor := jobs.NewJanitor(db, logger, cfg.JanitorInterval, cfg.JobRetention)
	janitor.Start()
	defer janitor.Stop()

	var redisClient goredis.UniversalClient
	var resultCache handlers.ResultCache
	if cfg.RedisAddr != "" {
		redisClient = goredis.NewUniversalClient(&goredis.UniversalOptions{
			Addrs:    []string{cfg.RedisAddr},
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = redisClient.Close() }()
		resultCache = cache.NewAnalysisCache(redisClient, logger)
		logger.WithField("addr", cfg.RedisAddr).Info("Analysis cache enabled")
	}

	var producer *kafka.Producer
	var events kafka.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, serviceName, cfg.KafkaTopic, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create Kafka producer")
		}
		defer func() { _ = producer.Close() }()
		events = producer
	}

	var objects storage.ObjectStore
	if cfg.S3Bucket != "" {
		s3Client, err := storage.NewS3Client(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to create object store")
		}
		objects = s3Client
	}

	extractor := extractors.NewClient(cfg.ExtractorURL, cfg.ExtractorToken, logger)
	source := extractors.NewFallbackExtractor(extractor, rng, logger, fallbackCounter)

	proc := processor.NewClient(cfg.ProcessorURL, cfg.ProcessorToken, logger)
	pub := publisher.NewClient(cfg.PublisherURL, cfg.PublisherToken, logger)

	if objects != nil {
		worker := jobs.NewWorker(store, proc, objects, events, logger, 15*time.Second, processor.EffectsConfig{
			VideoQuality: processor.QualityHigh,
		})
		worker.Start()
		defer worker.Stop()
	} else {
		logger.Warn("Object storage not configured, clip rendering disabled")
	}

	healthChecker := monitoring.NewHealthChecker(serviceName, version.Version)
	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	if redisClient != nil {
		healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))
	}
	if producer != nil {
		healthChecker.AddCheck("kafka", monitoring.KafkaHealthCheck(producer.GetClient()))
	}
	healthChecker.AddCheck("configuration", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL":  cfg.DatabaseURL,
		"EXTRACTOR_URL": cfg.ExtractorURL,
		"PROCESSOR_URL": cfg.ProcessorURL,
	}))

	router := server.SetupServiceRouter(logger, serviceName, healthChecker, metricsCollector)

	h := handlers.NewHandlers(source, store, resultCache, events, pub, objects, rng, logger, handlers.Options{
		DefaultPreset:    cfg.ScoringPreset,
		DefaultTopN:      cfg.TopN,
		QueueLimit:       cfg.QueueLimit,
		SuppressOverlaps: cfg.SuppressOverlaps,
	})

	api := router.Group("/api")
	if cfg.ServiceToken != "" {
		api.Use(middleware.ServiceAuthMiddleware(cfg.ServiceToken))
	} else {
		logger.Warn("SERVICE_TOKEN not set, API authentication disabled")
	}
	h.RegisterRoutes(api)

	serverConfig := server.DefaultConfig(serviceName, cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server exited with error")
	}
}
