// Command pipeline runs the core ingestion/analysis loop: one ffmpeg
// transcoder per registered stream, a periodic screenshot capture that
// composes annotated grids, and a vision model call per grid against each
// stream's first SOP.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gridwatch/internal/catalog"
	"gridwatch/internal/config"
	"gridwatch/internal/crudclient"
	"gridwatch/internal/imagefetch"
	"gridwatch/internal/objectstore"
	"gridwatch/internal/scheduler"
	"gridwatch/internal/screenshot"
	"gridwatch/internal/soplookup"
	"gridwatch/internal/stitcher"
	"gridwatch/internal/streammanager"
	"gridwatch/internal/vision"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadPipeline()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	manager := streammanager.New(streammanager.Config{
		FFmpegBinary:      cfg.FFmpegBinary,
		SegmentSeconds:    2,
		PlaylistSize:      5,
		ProbeSizeBytes:    5_000_000,
		AnalyzeDurationUS: 5_000_000,
		SocketTimeoutUS:   5_000_000,
		VerifyTimeout:     time.Duration(cfg.VerifyHLSTimeoutSec) * time.Second,
		ExtractTimeout:    time.Duration(cfg.ExtractTimeoutSec) * time.Second,
		LogHistorySize:    cfg.LogHistorySize,
	})

	store, err := objectstore.New(ctx, cfg.GCSCredentialsPath, cfg.GCSBucketName)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}
	defer store.Close()

	fetcher := imagefetch.New()
	grid := stitcher.New(fetcher)

	visionAdapter, err := vision.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, time.Duration(cfg.VisionTimeoutSec)*time.Second)
	if err != nil {
		log.Fatalf("Failed to initialize vision adapter: %v", err)
	}

	crud := crudclient.New(cfg.APIBaseURL)
	sops := soplookup.New(crud)

	proc := screenshot.New(manager, store, grid, visionAdapter, crud, sops, cfg.UploadsDir, cfg.GridRows, cfg.GridCols)

	cat := catalog.New(crud, time.Duration(cfg.StreamsCacheTTLSecs)*time.Second)

	sched, err := scheduler.New(manager, cat, proc, cfg.GridRows, cfg.GridCols)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	if err := sched.Start(
		time.Duration(cfg.VerifyIntervalSec)*time.Second,
		time.Duration(cfg.CaptureIntervalSec)*time.Second,
	); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Println("[Pipeline] started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("[Pipeline] shutting down")
	_ = sched.Stop()
	manager.StopAll()
}
