// Package render draws world snapshots to images for the debug frame
// endpoint. Rendering reads only immutable snapshots, so it never contends
// with the tick loop.
package render

import (
	"bytes"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"collider/internal/world"
)

// Renderer draws snapshots at a fixed canvas size with a world-to-pixel
// scale factor.
type Renderer struct {
	width  int
	height int
	scale  float64
}

// NewRenderer creates a renderer for a canvas of width x height pixels
// covering a world of worldWidth units.
func NewRenderer(width, height int, worldWidth float64) *Renderer {
	scale := 1.0
	if worldWidth > 0 {
		scale = float64(width) / worldWidth
	}
	return &Renderer{width: width, height: height, scale: scale}
}

// Draw renders the snapshot onto a fresh context and returns it.
func (r *Renderer) Draw(snap *world.Snapshot) *gg.Context {
	dc := gg.NewContext(r.width, r.height)
	r.drawBackground(dc)
	r.drawGrid(dc)
	for _, b := range snap.Bodies {
		r.drawBody(dc, b)
	}
	return dc
}

// FramePNG renders the snapshot and encodes it as PNG.
func (r *Renderer) FramePNG(snap *world.Snapshot) ([]byte, error) {
	dc := r.Draw(snap)
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, errors.Wrap(err, "render: encode frame")
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(color.RGBA{12, 12, 28, 255})
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()
}

func (r *Renderer) drawGrid(dc *gg.Context) {
	dc.SetColor(color.RGBA{30, 30, 45, 255})
	dc.SetLineWidth(1)

	gridSize := 10 * r.scale
	for x := 0.0; x < float64(r.width); x += gridSize {
		dc.DrawLine(x, 0, x, float64(r.height))
		dc.Stroke()
	}
	for y := 0.0; y < float64(r.height); y += gridSize {
		dc.DrawLine(0, y, float64(r.width), y)
		dc.Stroke()
	}
}

func (r *Renderer) drawBody(dc *gg.Context, b world.BodySnapshot) {
	if len(b.Vertices) < 3 {
		return
	}

	// Bounding box outline first so the hull draws over it.
	dc.SetColor(color.RGBA{60, 60, 90, 255})
	dc.SetLineWidth(1)
	dc.DrawRectangle(
		b.Min.X*r.scale, b.Min.Y*r.scale,
		(b.Max.X-b.Min.X)*r.scale, (b.Max.Y-b.Min.Y)*r.scale,
	)
	dc.Stroke()

	dc.NewSubPath()
	for _, v := range b.Vertices {
		dc.LineTo(v.X*r.scale, v.Y*r.scale)
	}
	dc.ClosePath()

	// Colliding bodies fill red, idle bodies blue.
	if b.Colliding {
		dc.SetColor(color.RGBA{255, 62, 62, 180})
	} else {
		dc.SetColor(color.RGBA{83, 160, 255, 180})
	}
	dc.FillPreserve()

	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	dc.Stroke()
}
