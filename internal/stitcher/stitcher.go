// Package stitcher downloads a batch of screenshot URLs, annotates each
// with a label bar carrying its basename, and composes them into a single
// R×C grid PNG. Annotation is done with fogleman/gg (label bar + centered
// text); grid composition and pasting is done with disintegration/imaging.
package stitcher

import (
	"fmt"
	"image"
	"log"
	"net/url"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"gridwatch/internal/imagefetch"
)

const (
	labelMargin = 60
	borderSize  = 10
)

// Stitcher composes annotated screenshot grids.
type Stitcher struct {
	fetcher *imagefetch.Fetcher
}

// New builds a Stitcher backed by the given image fetcher.
func New(fetcher *imagefetch.Fetcher) *Stitcher {
	return &Stitcher{fetcher: fetcher}
}

type labeled struct {
	name string
	img  image.Image
}

// Stitch downloads each url (tolerant of individual failures), annotates it
// with a black label bar carrying its basename, assembles the survivors
// row-major into an R×C grid with a fixed border, and writes the result as
// a PNG to outputPath. Returns the composed bitmap for further use (e.g.
// re-upload).
func (s *Stitcher) Stitch(urls []string, outputPath string, rows, cols int) (image.Image, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("stitcher: no image URLs provided")
	}

	var processed []labeled
	for _, u := range urls {
		img, err := s.fetcher.Fetch(u)
		if err != nil {
			log.Printf("[Stitcher] skipping %s: %v", u, err)
			continue
		}
		name := basenameWithoutExt(u)
		processed = append(processed, labeled{name: name, img: annotate(img, name)})
	}
	if len(processed) == 0 {
		return nil, fmt.Errorf("stitcher: no images were successfully processed")
	}

	grid := stitchGrid(processed, rows, cols)
	if err := imaging.Save(grid, outputPath); err != nil {
		return nil, fmt.Errorf("stitcher: save %s: %w", outputPath, err)
	}
	return grid, nil
}

// annotate draws a fixed-height black header strip above image with name
// centered in white text, the same visual contract as the original's
// PIL annotate_image.
func annotate(img image.Image, name string) image.Image {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	dc := gg.NewContext(width, height+labelMargin)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(0, 0, float64(width), float64(labelMargin))
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	if err := dc.LoadFontFace(defaultFontPath(), 24); err == nil {
		dc.DrawStringAnchored(name, float64(width)/2, float64(labelMargin)/2, 0.5, 0.5)
	}

	dc.DrawImage(img, 0, labelMargin)
	return dc.Image()
}

// stitchGrid assembles labeled images row-major into an R×C grid separated
// by a fixed border. The first image's dimensions define the cell size;
// if fewer than R*C images survived download, the remaining cells are left
// as background (edge policy per the component design).
func stitchGrid(images []labeled, rows, cols int) image.Image {
	cellW := images[0].img.Bounds().Dx()
	cellH := images[0].img.Bounds().Dy()

	totalW := cols*cellW + (cols-1)*borderSize
	totalH := rows*cellH + (rows-1)*borderSize

	canvas := imaging.New(totalW, totalH, image.White)
	for i, entry := range images {
		if i >= rows*cols {
			break
		}
		row := i / cols
		col := i % cols
		x := col * (cellW + borderSize)
		y := row * (cellH + borderSize)
		canvas = imaging.Paste(canvas, entry.img, image.Pt(x, y))
	}
	return canvas
}

func basenameWithoutExt(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	name := rawURL
	if err == nil {
		name = parsed.Path
	}
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}
