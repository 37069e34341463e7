// Package screenshot drives one iteration of the capture pipeline per
// stream per tick: upload the latest frame, and once enough screenshots
// have accumulated, stitch them into a grid and dispatch it for vision
// analysis.
package screenshot

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gridwatch/internal/crudclient"
	"gridwatch/internal/schema"
	"gridwatch/internal/utils"
)

// SOPLookup resolves a stream's SOPs (by id, from the CRUD service) into
// their prompt and decoded schema so the processor doesn't need to know
// about persistence.
type SOPLookup interface {
	DecodeByID(id uint) (prompt string, sopSchema *schema.Schema, err error)
}

// FrameSource is the subset of StreamManager the processor needs: the
// latest extracted frame for a stream, or "" if none is available.
type FrameSource interface {
	GetLatestFrame(streamID string) string
}

// ObjectStore is the subset of objectstore.Store the processor needs.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, blobKey string) error
	RecentScreenshotURLs(ctx context.Context, streamID string, count int) ([]string, error)
}

// GridStitcher is the subset of stitcher.Stitcher the processor needs.
type GridStitcher interface {
	Stitch(urls []string, outputPath string, rows, cols int) (image.Image, error)
}

// VisionAnalyzer is the subset of vision.Adapter the processor needs.
type VisionAnalyzer interface {
	Analyze(ctx context.Context, imagePath, prompt string, sopSchema *schema.Schema) (json.RawMessage, error)
}

// CRUDClient is the subset of crudclient.Client the processor needs to
// resolve a stream's SOPs and record an analysis result.
type CRUDClient interface {
	GetStream(id uint) (*crudclient.StreamSummary, error)
	CreateAnalysis(req crudclient.CreateAnalysisRequest) error
}

// Processor implements ScreenshotProcessor. It is safe for concurrent use
// across distinct streams; a per-stream lock serializes the counter and
// grid-dispatch for a single stream.
type Processor struct {
	manager            FrameSource
	store              ObjectStore
	stitcher           GridStitcher
	vision             VisionAnalyzer
	crud               CRUDClient
	sops               SOPLookup
	uploadsDir         string
	screenshotsPerGrid int

	mu       sync.Mutex
	counters map[string]int
	locks    map[string]*sync.Mutex
}

// New builds a Processor wired to every collaborator it fans out to.
func New(manager FrameSource, store ObjectStore, st GridStitcher, va VisionAnalyzer, crud CRUDClient, sops SOPLookup, uploadsDir string, gridRows, gridCols int) *Processor {
	return &Processor{
		manager:            manager,
		store:              store,
		stitcher:           st,
		vision:             va,
		crud:               crud,
		sops:               sops,
		uploadsDir:         uploadsDir,
		screenshotsPerGrid: gridRows * gridCols,
		counters:           make(map[string]int),
		locks:              make(map[string]*sync.Mutex),
	}
}

func (p *Processor) lockFor(streamID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[streamID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[streamID] = l
	}
	return l
}

// ProcessScreenshot implements the per-tick capture step: it asks the
// StreamManager for the latest frame, uploads it, mirrors it locally, and
// once screenshotsPerGrid frames have accumulated, resets the counter and
// dispatches grid creation. Counter updates and grid dispatch for one
// stream are serialized under that stream's lock.
func (p *Processor) ProcessScreenshot(ctx context.Context, streamID, streamName string, gridRows, gridCols int) error {
	if gridRows*gridCols != p.screenshotsPerGrid {
		log.Printf("[ScreenshotProcessor] grid dims %dx%d don't match screenshotsPerGrid %d, adapting", gridRows, gridCols, p.screenshotsPerGrid)
		p.screenshotsPerGrid = gridRows * gridCols
	}

	lock := p.lockFor(streamID)
	lock.Lock()
	defer lock.Unlock()

	framePath := p.manager.GetLatestFrame(streamID)
	if framePath == "" {
		return nil // no frame available this tick; not an error
	}

	blobKey := fmt.Sprintf("screenshots/%s-%s-%s.jpg", streamID, utils.SanitizeName(streamName), utils.BlobTimestamp(time.Now()))
	if err := p.store.Upload(ctx, framePath, blobKey); err != nil {
		return fmt.Errorf("screenshot: upload %s: %w", blobKey, err)
	}

	if err := p.mirrorLocally(framePath, blobKey); err != nil {
		log.Printf("[ScreenshotProcessor] local mirror failed for %s: %v", blobKey, err)
	}

	// The counters map is shared by every stream, so it is touched only
	// under p.mu; the per-stream lock above still serializes this stream.
	p.mu.Lock()
	p.counters[streamID]++
	if p.counters[streamID] < p.screenshotsPerGrid {
		p.mu.Unlock()
		return nil
	}

	// Invariant 3: reset before dispatch, so a failed grid attempt doesn't
	// replay on the very next tick.
	p.counters[streamID] = 0
	p.mu.Unlock()

	if err := p.createGrid(ctx, streamID, streamName, gridRows, gridCols); err != nil {
		log.Printf("[ScreenshotProcessor] grid creation failed for %s: %v", streamName, err)
		return err
	}
	return nil
}

func (p *Processor) mirrorLocally(framePath, blobKey string) error {
	dir := filepath.Join(p.uploadsDir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := os.ReadFile(framePath)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, filepath.Base(blobKey)), data, 0o644)
}

func (p *Processor) createGrid(ctx context.Context, streamID, streamName string, rows, cols int) error {
	urls, err := p.store.RecentScreenshotURLs(ctx, streamID, p.screenshotsPerGrid)
	if err != nil {
		return fmt.Errorf("fetch recent screenshot urls: %w", err)
	}
	if len(urls) != p.screenshotsPerGrid {
		log.Printf("[ScreenshotProcessor] not enough screenshots for grid: %s got %d need %d", streamName, len(urls), p.screenshotsPerGrid)
		return nil
	}

	gridName := gridBasename(urls[0])
	gridDir := filepath.Join(p.uploadsDir, "grids")
	if err := os.MkdirAll(gridDir, 0o755); err != nil {
		return err
	}
	gridPath := filepath.Join(gridDir, gridName)

	if _, err := p.stitcher.Stitch(urls, gridPath, rows, cols); err != nil {
		return fmt.Errorf("stitch grid: %w", err)
	}

	stream, err := p.crud.GetStream(parseStreamID(streamID))
	if err != nil {
		return fmt.Errorf("fetch stream details: %w", err)
	}
	if len(stream.SOPs) == 0 {
		log.Printf("[ScreenshotProcessor] no SOPs associated with stream %s", streamName)
		return nil
	}

	// Only the first SOP is evaluated per grid (see DESIGN.md open question).
	sopID := stream.SOPs[0].ID
	prompt, sopSchema, err := p.sops.DecodeByID(sopID)
	if err != nil {
		return fmt.Errorf("decode sop %d: %w", sopID, err)
	}

	raw, err := p.vision.Analyze(ctx, gridPath, prompt, sopSchema)
	if err != nil {
		return fmt.Errorf("analyze grid: %w", err)
	}

	var output any
	if err := json.Unmarshal(raw, &output); err != nil {
		output = string(raw)
	}

	if err := p.crud.CreateAnalysis(crudclient.CreateAnalysisRequest{
		RTSPID: stream.ID,
		SOPID:  sopID,
		Output: output,
	}); err != nil {
		log.Printf("[ScreenshotProcessor] failed to create analysis record: %v", err)
	}
	return nil
}

func gridBasename(firstURL string) string {
	base := filepath.Base(firstURL)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)] + ".png"
}

func parseStreamID(id string) uint {
	n, _ := strconv.ParseUint(id, 10, 64)
	return uint(n)
}
