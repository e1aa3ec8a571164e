package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/layomi72/clip-factory-pro/internal/analysis"
	"github.com/layomi72/clip-factory-pro/internal/jobs"
	"github.com/layomi72/clip-factory-pro/internal/publisher"
	"github.com/layomi72/clip-factory-pro/internal/storage"
	"github.com/layomi72/clip-factory-pro/pkg/kafka"
	"github.com/layomi72/clip-factory-pro/pkg/logging"
)

// SignalSource provides the signals and metadata for one source video.
type SignalSource interface {
	ExtractAll(ctx context.Context, sourceURL string) (analysis.SignalSet, analysis.VideoMetadata, error)
}

// JobQueue persists selected clips as processing jobs.
type JobQueue interface {
	EnqueueBatch(ctx context.Context, batch []jobs.ClipJob) []jobs.QueueResult
	ListByUser(ctx context.Context, userID string, limit int) ([]jobs.ClipJob, error)
}

// ResultCache memoizes analysis runs per source and preset.
type ResultCache interface {
	Get(ctx context.Context, sourceURL, preset string) ([]analysis.ClipCandidate, bool)
	Set(ctx context.Context, sourceURL, preset string, candidates []analysis.ClipCandidate) error
}

// Options configures the handler set. Cache and Events are optional.
type Options struct {
	DefaultPreset    string
	DefaultTopN      int
	QueueLimit       int
	SuppressOverlaps bool
}

// Handlers owns the HTTP surface of the analysis service.
type Handlers struct {
	source    SignalSource
	queue     JobQueue
	cache     ResultCache
	events    kafka.EventPublisher
	publisher publisher.Publisher
	objects   storage.ObjectStore
	rng       analysis.RandomSource
	metadata  *analysis.MetadataGenerator
	logger    logging.Logger
	opts      Options
}

// NewHandlers wires the handler set. Cache, events, publisher, and object
// store may be nil; their endpoints report unavailability.
func NewHandlers(source SignalSource, queue JobQueue, cache ResultCache, events kafka.EventPublisher, pub publisher.Publisher, objects storage.ObjectStore, rng analysis.RandomSource, logger logging.Logger, opts Options) *Handlers {
	if opts.DefaultPreset == "" {
		opts.DefaultPreset = "elite"
	}
	if opts.QueueLimit <= 0 {
		opts.QueueLimit = 5
	}
	return &Handlers{
		source:    source,
		queue:     queue,
		cache:     cache,
		events:    events,
		publisher: pub,
		objects:   objects,
		rng:       rng,
		metadata:  analysis.NewMetadataGenerator(rng),
		logger:    logger,
		opts:      opts,
	}
}

// RegisterRoutes attaches the API routes to a router group.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/analyze", h.Analyze)
	api.POST("/clips/metadata", h.ClipMetadata)
	api.POST("/clips/publish", h.PublishClip)
	api.GET("/users/:userId/jobs", h.ListJobs)
}

type analyzeRequest struct {
	VideoURL         string `json:"videoUrl" binding:"required"`
	UserID           string `json:"userId"`
	StreamID         string `json:"streamId"`
	Preset           string `json:"preset"`
	TopN             int    `json:"topN"`
	QueueClips       bool   `json:"queueClips"`
	GenerateMetadata bool   `json:"generateMetadata"`
}

type analyzedClip struct {
	analysis.ClipCandidate
	Metadata *analysis.ClipMetadata `json:"metadata,omitempty"`
}

type analyzeResponse struct {
	Clips   []analyzedClip     `json:"clips"`
	Jobs    []jobs.QueueResult `json:"jobs,omitempty"`
	Queued  int                `json:"queued,omitempty"`
	Failed  int                `json:"failed,omitempty"`
	Message string             `json:"message,omitempty"`
}

// Analyze scores one source video and optionally queues the best clips.
// An empty clip list is a success, distinct from analysis failure and
// from partial queueing, which is reported per clip.
func (h *Handlers) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoUrl is required"})
		return
	}
	if req.QueueClips && req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required to queue clips"})
		return
	}

	preset := req.Preset
	if preset == "" {
		preset = h.opts.DefaultPreset
	}
	cfg, err := analysis.ConfigByName(preset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg.SuppressOverlaps = h.opts.SuppressOverlaps
	if h.opts.DefaultTopN > 0 {
		cfg.TopN = h.opts.DefaultTopN
	}
	customSelection := req.TopN > 0
	if customSelection {
		cfg.TopN = req.TopN
	}

	start := time.Now()
	selected, ok := h.cachedResult(c.Request.Context(), req.VideoURL, preset, customSelection)
	if !ok {
		signals, meta, err := h.source.ExtractAll(c.Request.Context(), req.VideoURL)
		if err != nil {
			h.logger.WithError(err).WithField("video_url", req.VideoURL).Error("Extraction failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to read source video: " + err.Error()})
			return
		}

		engine := analysis.NewEngine(cfg, h.rng, h.logger)
		selected, err = engine.Analyze(meta.Duration, signals)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, analysis.ErrDurationTooShort) || errors.Is(err, analysis.ErrInvalidTimeRange) {
				status = http.StatusUnprocessableEntity
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		if h.cache != nil && !customSelection {
			if err := h.cache.Set(c.Request.Context(), req.VideoURL, preset, selected); err != nil {
				h.logger.WithError(err).Warn("Failed to cache analysis result")
			}
		}
	}

	h.publishEvent(kafka.EventAnalysisCompleted, req, map[string]interface{}{
		"clip_count":  len(selected),
		"preset":      preset,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	resp := analyzeResponse{Clips: make([]analyzedClip, 0, len(selected))}
	for _, clip := range selected {
		out := analyzedClip{ClipCandidate: clip}
		if req.GenerateMetadata {
			m := h.metadata.Generate(clip)
			out.Metadata = &m
		}
		resp.Clips = append(resp.Clips, out)
	}
	if len(selected) == 0 {
		resp.Message = "no viral-worthy clips found"
		c.JSON(http.StatusOK, resp)
		return
	}

	if req.QueueClips {
		resp.Jobs = h.queueClips(c.Request.Context(), req, selected)
		for _, r := range resp.Jobs {
			if r.Status == "queued" {
				resp.Queued++
			} else {
				resp.Failed++
			}
		}
		if resp.Failed > 0 {
			resp.Message = "some clips failed to queue"
		}
	}

	c.JSON(http.StatusOK, resp)
}

// cachedResult looks up a memoized run. Custom topN selections bypass the
// cache so the stored result always reflects the preset's own limit.
func (h *Handlers) cachedResult(ctx context.Context, videoURL, preset string, customSelection bool) ([]analysis.ClipCandidate, bool) {
	if h.cache == nil || customSelection {
		return nil, false
	}
	return h.cache.Get(ctx, videoURL, preset)
}

func (h *Handlers) queueClips(ctx context.Context, req analyzeRequest, selected []analysis.ClipCandidate) []jobs.QueueResult {
	limit := h.opts.QueueLimit
	if len(selected) < limit {
		limit = len(selected)
	}

	batch := make([]jobs.ClipJob, 0, limit)
	for _, clip := range selected[:limit] {
		job := jobs.ClipJob{
			UserID:    req.UserID,
			SourceURL: req.VideoURL,
			StartTime: clip.StartTime,
			EndTime:   clip.EndTime,
		}
		if req.StreamID != "" {
			streamID := req.StreamID
			job.StreamID = &streamID
		}
		batch = append(batch, job)
	}

	results := h.queue.EnqueueBatch(ctx, batch)
	for i, r := range results {
		if r.Status != "queued" {
			continue
		}
		h.publishEvent(kafka.EventClipQueued, req, map[string]interface{}{
			"job_id":          r.JobID,
			"clip_start_time": batch[i].StartTime,
			"clip_end_time":   batch[i].EndTime,
		})
	}
	return results
}

func (h *Handlers) publishEvent(eventType string, req analyzeRequest, data map[string]interface{}) {
	if h.events == nil {
		return
	}
	event := kafka.NewClipEvent(eventType, "lookout", data)
	event.UserID = req.UserID
	event.VideoURL = req.VideoURL
	if req.StreamID != "" {
		streamID := req.StreamID
		event.StreamID = &streamID
	}
	if err := h.events.PublishClipEvent(event); err != nil {
		h.logger.WithError(err).WithField("event_type", eventType).Warn("Failed to publish event")
	}
}

type metadataRequest struct {
	Clips []analysis.ClipCandidate `json:"clips" binding:"required"`
}

// ClipMetadata generates a title/caption/hashtag bundle per clip.
func (h *Handlers) ClipMetadata(c *gin.Context) {
	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Clips) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clips list is required"})
		return
	}

	bundles := make([]analysis.ClipMetadata, 0, len(req.Clips))
	for _, clip := range req.Clips {
		bundles = append(bundles, h.metadata.Generate(clip))
	}
	c.JSON(http.StatusOK, gin.H{"metadata": bundles})
}

type publishClipRequest struct {
	ClipKey     string                `json:"clipKey"`
	ClipURL     string                `json:"clipUrl"`
	Platform    string                `json:"platform" binding:"required"`
	Caption     string                `json:"caption"`
	Credentials publisher.Credentials `json:"credentials"`
}

// PublishClip uploads one stored clip to a social platform. Clips stored
// in the bucket are referenced by key and handed out as presigned URLs so
// the connector never needs bucket credentials.
func (h *Handlers) PublishClip(c *gin.Context) {
	if h.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "publishing is not configured"})
		return
	}

	var req publishClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platform is required"})
		return
	}
	if req.ClipKey == "" && req.ClipURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clipKey or clipUrl is required"})
		return
	}

	clipURL := req.ClipURL
	if clipURL == "" {
		if h.objects == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage is not configured"})
			return
		}
		var err error
		clipURL, err = h.objects.PresignGet(c.Request.Context(), req.ClipKey, 0)
		if err != nil {
			h.logger.WithError(err).WithField("clip_key", req.ClipKey).Error("Failed to presign clip")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to presign clip"})
			return
		}
	}

	result, err := h.publisher.Publish(c.Request.Context(), req.Platform, clipURL, req.Caption, req.Credentials)
	if err != nil {
		h.logger.WithError(err).WithField("platform", req.Platform).Error("Publish failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.events != nil {
		event := kafka.NewClipEvent(kafka.EventClipPublished, "lookout", map[string]interface{}{
			"platform":   req.Platform,
			"remote_id":  result.RemoteID,
			"remote_url": result.RemoteURL,
		})
		if err := h.events.PublishClipEvent(event); err != nil {
			h.logger.WithError(err).Warn("Failed to publish event")
		}
	}

	c.JSON(http.StatusOK, result)
}

// ListJobs returns a user's recent clip jobs.
func (h *Handlers) ListJobs(c *gin.Context) {
	userID := c.Param("userId")
	list, err := h.queue.ListByUser(c.Request.Context(), userID, 50)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}
	if list == nil {
		list = []jobs.ClipJob{}
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list})
}
