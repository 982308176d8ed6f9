package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/streetpulse/streetpulse-backend/internal/analysis"
	"github.com/streetpulse/streetpulse-backend/internal/api"
	"github.com/streetpulse/streetpulse-backend/internal/auth"
	"github.com/streetpulse/streetpulse-backend/internal/config"
	"github.com/streetpulse/streetpulse-backend/internal/handler"
	"github.com/streetpulse/streetpulse-backend/internal/policy"
	"github.com/streetpulse/streetpulse-backend/internal/pulse"
	"github.com/streetpulse/streetpulse-backend/internal/service"
	"github.com/streetpulse/streetpulse-backend/internal/storage"
	"github.com/streetpulse/streetpulse-backend/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	signer := auth.NewSigner(cfg.TokenSecret)
	st := store.New(cfg, signer)

	videoStorage, err := newStorage(cfg)
	if err != nil {
		logger.Fatalw("Failed to initialize storage", "error", err)
	}

	extractor := analysis.NewExtractor(analysis.NewFFmpegDecoder(), cfg.Frames.Count, cfg.Frames.MaxDim, logger)
	vision := analysis.NewVisionClient(analysis.VisionConfig{
		URL:         cfg.Vision.URL,
		APIKey:      cfg.Vision.APIKey,
		Model:       cfg.Vision.Model,
		Timeout:     cfg.VisionTimeout,
		MaxRetries:  cfg.Vision.MaxRetries,
		BackoffBase: cfg.VisionBackoffBase,
		RatePerSec:  cfg.Vision.RatePerSecond,
	}, logger)
	orchestrator := analysis.NewOrchestrator(videoStorage, extractor, vision, st.AIMeta, cfg.Vision.Model, logger)

	gatekeeper := policy.NewGatekeeper(policy.Thresholds{
		RadiusM:          cfg.Comment.ProximityRadiusM,
		FreshnessWindow:  cfg.SessionFreshnessWindow,
		RateLimitWindow:  cfg.CommentRateLimitWindow,
		MaxCommentLength: cfg.Comment.MaxLength,
	}, st.Engagement)

	pulseCalc := pulse.NewCalculator(st.Videos, cfg.PulseImmediateWindow, cfg.PulseRecentWindow)
	uploads := service.NewUploadService(st, videoStorage, orchestrator, logger)
	feed := service.NewFeedService(st, videoStorage, pulseCalc)

	router := api.SetupRouter(api.Handlers{
		Sessions:   handler.NewSessionHandler(st.Sessions, st.Zones),
		Videos:     handler.NewVideoHandler(uploads, feed, signer),
		Engagement: handler.NewEngagementHandler(st.Engagement),
		Comments:   handler.NewCommentHandler(st, gatekeeper, signer),
		Heatmap:    handler.NewHeatmapHandler(feed),
		AI:         handler.NewAIHandler(st.AIMeta),
	}, logger)

	logger.Infow("server starting", "port", cfg.App.Port, "zones", len(cfg.Zone.Seeds), "storage", cfg.Storage)
	if err := router.Run(cfg.App.Port); err != nil {
		logger.Fatalw("Failed to start server", "error", err)
	}
}

func newLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	var z *zap.Logger
	var err error
	if cfg.App.Env == "development" {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}

func newStorage(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage == "s3" {
		return storage.NewS3Store(context.Background(), cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.Endpoint)
	}
	return storage.NewMemoryStore(), nil
}
