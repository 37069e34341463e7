// Package scheduler wraps go-co-op/gocron to drive the three fixed-interval
// tasks the pipeline runs: a one-shot stream initializer, a 60s stream
// verifier, and a 10s screenshot capture loop. Every recurring job runs in
// gocron's singleton mode so a late run is dropped rather than queued.
package scheduler

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"

	"gridwatch/internal/crudclient"
	"gridwatch/internal/screenshot"
	"gridwatch/internal/streammanager"
)

// Scheduler owns the gocron scheduler and the collaborators its jobs fan
// out to.
type Scheduler struct {
	gocron   gocron.Scheduler
	manager  *streammanager.Manager
	catalog  StreamLister
	proc     *screenshot.Processor
	gridRows int
	gridCols int
}

// StreamLister is the subset of catalog.Catalog the scheduler needs.
type StreamLister interface {
	Streams() []crudclient.StreamSummary
}

// New builds a Scheduler. Call Start to register and run its jobs.
func New(manager *streammanager.Manager, catalog StreamLister, proc *screenshot.Processor, gridRows, gridCols int) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{gocron: s, manager: manager, catalog: catalog, proc: proc, gridRows: gridRows, gridCols: gridCols}, nil
}

// Start runs initialize_streams once, then registers verify_streams (60s)
// and capture_screenshots (10s) as singleton-mode recurring jobs, and
// starts the underlying gocron loop.
func (s *Scheduler) Start(verifyInterval, captureInterval time.Duration) error {
	s.initializeStreams()

	if _, err := s.gocron.NewJob(
		gocron.DurationJob(verifyInterval),
		gocron.NewTask(s.verifyStreams),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}

	if _, err := s.gocron.NewJob(
		gocron.DurationJob(captureInterval),
		gocron.NewTask(s.captureScreenshots),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}

	s.gocron.Start()
	return nil
}

// Stop shuts the gocron scheduler down.
func (s *Scheduler) Stop() error {
	return s.gocron.Shutdown()
}

func (s *Scheduler) initializeStreams() {
	for _, stream := range s.catalog.Streams() {
		id := streamKey(stream.ID)
		err := s.manager.StartStream(id, stream.RTSPUrl)
		if err == nil || errors.Is(err, streammanager.ErrAlreadyRunning) {
			continue
		}
		log.Printf("[Scheduler] failed to initialize stream %s: %v, retrying once", stream.Name, err)
		time.Sleep(2 * time.Second)
		if err := s.manager.StartStream(id, stream.RTSPUrl); err != nil && !errors.Is(err, streammanager.ErrAlreadyRunning) {
			log.Printf("[Scheduler] failed to initialize stream %s after retry: %v", stream.Name, err)
		}
	}
}

func (s *Scheduler) verifyStreams() {
	for _, stream := range s.catalog.Streams() {
		id := streamKey(stream.ID)
		status := s.manager.GetStreamStatus(id)
		if status.Status != streammanager.StatusRunning {
			log.Printf("[Scheduler] stream %s not running (status %s), restarting", stream.Name, status.Status)
			s.manager.StopStream(id)
			time.Sleep(2 * time.Second)
			if err := s.manager.StartStream(id, stream.RTSPUrl); err != nil && !errors.Is(err, streammanager.ErrAlreadyRunning) {
				log.Printf("[Scheduler] restart failed for stream %s: %v", stream.Name, err)
			}
		}
	}
}

func (s *Scheduler) captureScreenshots() {
	ctx := context.Background()
	for _, stream := range s.catalog.Streams() {
		id := streamKey(stream.ID)
		status := s.manager.GetStreamStatus(id)
		if status.Status != streammanager.StatusRunning {
			continue
		}
		if err := s.proc.ProcessScreenshot(ctx, id, stream.Name, s.gridRows, s.gridCols); err != nil {
			log.Printf("[Scheduler] screenshot processing failed for stream %s: %v", stream.Name, err)
		}
	}
}

func streamKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
