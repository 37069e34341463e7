// Package imagefetch downloads screenshot URLs for the stitcher, with a
// bounded timeout and retry on transient failure.
package imagefetch

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher downloads and decodes images referenced by ObjectStore URLs.
type Fetcher struct {
	client *resty.Client
}

// New builds a Fetcher with a bounded timeout and a small retry budget for
// flaky upstream HTTP calls.
func New() *Fetcher {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(250 * time.Millisecond)
	return &Fetcher{client: client}
}

// Fetch downloads url and decodes it as an image. Individual failures are
// returned to the caller, which is expected to log and skip per the
// stitcher's tolerant-of-partial-failure contract.
func (f *Fetcher) Fetch(url string) (image.Image, error) {
	resp, err := f.client.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("imagefetch: get %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("imagefetch: %s returned status %d", url, resp.StatusCode())
	}
	img, _, err := image.Decode(newReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("imagefetch: decode %s: %w", url, err)
	}
	return img, nil
}
