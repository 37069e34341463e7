package screenshot

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"gridwatch/internal/crudclient"
	"gridwatch/internal/schema"
)

func TestGridBasenameReplacesExtensionWithPNG(t *testing.T) {
	got := gridBasename("https://storage.googleapis.com/bucket/screenshots/1-cam-26-03-05--14--30--07.jpg")
	want := "1-cam-26-03-05--14--30--07.png"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseStreamID(t *testing.T) {
	if got := parseStreamID("42"); got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	if got := parseStreamID("not-a-number"); got != 0 {
		t.Fatalf("expected 0 for unparseable id, got %d", got)
	}
}

// fakeFrameSource always hands back the same temp file as "the latest frame".
type fakeFrameSource struct {
	path string
}

func (f *fakeFrameSource) GetLatestFrame(streamID string) string { return f.path }

// fakeStore records uploads and returns a fixed list of URLs sized to
// whatever count RecentScreenshotURLs is asked for.
type fakeStore struct {
	mu        sync.Mutex
	uploads   int
	urlsErr   error
	urlsCount int
}

func (f *fakeStore) Upload(ctx context.Context, localPath, blobKey string) error {
	f.mu.Lock()
	f.uploads++
	f.mu.Unlock()
	return nil
}

func (f *fakeStore) RecentScreenshotURLs(ctx context.Context, streamID string, count int) ([]string, error) {
	if f.urlsErr != nil {
		return nil, f.urlsErr
	}
	n := f.urlsCount
	if n == 0 {
		n = count
	}
	urls := make([]string, n)
	for i := range urls {
		urls[i] = "https://storage.googleapis.com/bucket/screenshots/1-cam-26-03-05--14--30--07.jpg"
	}
	return urls, nil
}

// fakeStitcher counts invocations and can be made to fail.
type fakeStitcher struct {
	calls int32
	err   error
}

func (f *fakeStitcher) Stitch(urls []string, outputPath string, rows, cols int) (image.Image, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

type fakeVision struct {
	calls int32
}

func (f *fakeVision) Analyze(ctx context.Context, imagePath, prompt string, sopSchema *schema.Schema) (json.RawMessage, error) {
	atomic.AddInt32(&f.calls, 1)
	return json.RawMessage(`{"ok":true}`), nil
}

// fakeCRUD answers GetStream with a single SOP so createGrid proceeds to
// vision analysis, and records CreateAnalysis calls.
type fakeCRUD struct {
	mu       sync.Mutex
	analyses int
	noSOPs   bool
	getErr   error
}

func (f *fakeCRUD) GetStream(id uint) (*crudclient.StreamSummary, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sops := []crudclient.SOPRef{{ID: 7}}
	if f.noSOPs {
		sops = nil
	}
	return &crudclient.StreamSummary{ID: id, Name: "cam", SOPs: sops}, nil
}

func (f *fakeCRUD) CreateAnalysis(req crudclient.CreateAnalysisRequest) error {
	f.mu.Lock()
	f.analyses++
	f.mu.Unlock()
	return nil
}

type fakeSOPLookup struct{}

func (fakeSOPLookup) DecodeByID(id uint) (string, *schema.Schema, error) {
	return "describe the scene", &schema.Schema{Type: schema.TypeObject}, nil
}

func newTestFrame(t *testing.T) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "frame-*.jpg")
	if err != nil {
		t.Fatalf("create temp frame: %v", err)
	}
	if _, err := f.Write([]byte{0xFF, 0xD8, 0xFF}); err != nil {
		t.Fatalf("write temp frame: %v", err)
	}
	f.Close()
	return f.Name()
}

func TestProcessScreenshotResetsCounterBeforeDispatchEvenOnGridFailure(t *testing.T) {
	frame := newTestFrame(t)
	stitch := &fakeStitcher{err: errors.New("stitch boom")}
	store := &fakeStore{}
	crud := &fakeCRUD{}

	p := New(&fakeFrameSource{path: frame}, store, stitch, &fakeVision{}, crud, fakeSOPLookup{}, t.TempDir(), 1, 1)

	ctx := context.Background()
	if err := p.ProcessScreenshot(ctx, "1", "cam", 1, 1); err == nil {
		t.Fatal("expected grid dispatch failure to propagate")
	}
	if err := p.ProcessScreenshot(ctx, "1", "cam", 1, 1); err == nil {
		t.Fatal("expected grid dispatch failure to propagate again after reset")
	}

	if stitch.calls != 2 {
		t.Fatalf("expected a grid dispatch attempt on both calls (counter must reset even though stitching failed), got %d", stitch.calls)
	}
	if p.counters["1"] != 0 {
		t.Fatalf("expected counter to stay reset after a failed dispatch, got %d", p.counters["1"])
	}
}

func TestProcessScreenshotDispatchesGridOnceThresholdReached(t *testing.T) {
	frame := newTestFrame(t)
	stitch := &fakeStitcher{}
	vision := &fakeVision{}
	crud := &fakeCRUD{}

	p := New(&fakeFrameSource{path: frame}, &fakeStore{}, stitch, vision, crud, fakeSOPLookup{}, t.TempDir(), 1, 1)

	ctx := context.Background()
	if err := p.ProcessScreenshot(ctx, "1", "cam", 1, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stitch.calls != 1 {
		t.Fatalf("expected grid to be stitched once threshold reached, got %d calls", stitch.calls)
	}
	if vision.calls != 1 {
		t.Fatalf("expected one vision analysis, got %d", vision.calls)
	}
	crud.mu.Lock()
	defer crud.mu.Unlock()
	if crud.analyses != 1 {
		t.Fatalf("expected one analysis record created, got %d", crud.analyses)
	}
}

func TestProcessScreenshotSerializesPerStreamAcrossGoroutines(t *testing.T) {
	frame := newTestFrame(t)
	stitch := &fakeStitcher{}

	p := New(&fakeFrameSource{path: frame}, &fakeStore{}, stitch, &fakeVision{}, &fakeCRUD{}, fakeSOPLookup{}, t.TempDir(), 1, 5)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = p.ProcessScreenshot(context.Background(), "1", "cam", 1, 5)
		}()
	}
	wg.Wait()

	// 20 calls at threshold 5 should dispatch exactly 4 grids; a racy,
	// unserialized counter would over- or under-count and miss this.
	if stitch.calls != 4 {
		t.Fatalf("expected 4 grid dispatches from 20 calls at threshold 5, got %d", stitch.calls)
	}
}

func TestProcessScreenshotKeepsIndependentCountersAcrossDistinctStreams(t *testing.T) {
	frame := newTestFrame(t)
	stitch := &fakeStitcher{}

	p := New(&fakeFrameSource{path: frame}, &fakeStore{}, stitch, &fakeVision{}, &fakeCRUD{}, fakeSOPLookup{}, t.TempDir(), 1, 100)

	var wg sync.WaitGroup
	for _, id := range []string{"1", "2", "3"} {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.ProcessScreenshot(context.Background(), id, "cam-"+id, 1, 100); err != nil {
				t.Errorf("stream %s: unexpected error: %v", id, err)
			}
		}()
	}
	wg.Wait()

	if stitch.calls != 0 {
		t.Fatalf("threshold of 100 with one call per stream should never dispatch a grid, got %d calls", stitch.calls)
	}
	for _, id := range []string{"1", "2", "3"} {
		if p.counters[id] != 1 {
			t.Fatalf("stream %s: expected independent counter of 1, got %d", id, p.counters[id])
		}
	}
}
