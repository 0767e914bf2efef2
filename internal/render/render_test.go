package render

import (
	"bytes"
	"image/png"
	"testing"

	"collider/internal/geom"
	"collider/internal/world"
)

func testSnapshot() *world.Snapshot {
	return &world.Snapshot{
		Tick: 7,
		Bodies: []world.BodySnapshot{
			{
				Name:     "tri",
				Vertices: []geom.Vec2{geom.V(10, 10), geom.V(20, 10), geom.V(15, 18)},
				Min:      geom.V(10, 10),
				Max:      geom.V(20, 18),
			},
			{
				Name:      "hit",
				Vertices:  []geom.Vec2{geom.V(30, 30), geom.V(40, 30), geom.V(40, 40), geom.V(30, 40)},
				Min:       geom.V(30, 30),
				Max:       geom.V(40, 40),
				Colliding: true,
			},
		},
	}
}

func TestDrawCanvasSize(t *testing.T) {
	r := NewRenderer(160, 120, 80)
	dc := r.Draw(testSnapshot())

	img := dc.Image()
	bounds := img.Bounds()
	if bounds.Dx() != 160 || bounds.Dy() != 120 {
		t.Errorf("canvas = %dx%d, want 160x120", bounds.Dx(), bounds.Dy())
	}
}

func TestFramePNGDecodes(t *testing.T) {
	r := NewRenderer(100, 100, 50)

	frame, err := r.FramePNG(testSnapshot())
	if err != nil {
		t.Fatalf("FramePNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(frame))
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	if img.Bounds().Dx() != 100 {
		t.Errorf("width = %d, want 100", img.Bounds().Dx())
	}
}

func TestDrawEmptySnapshot(t *testing.T) {
	r := NewRenderer(50, 50, 50)
	if _, err := r.FramePNG(&world.Snapshot{}); err != nil {
		t.Fatalf("FramePNG on empty snapshot: %v", err)
	}
}

func TestDrawSkipsDegenerateBody(t *testing.T) {
	r := NewRenderer(50, 50, 50)
	snap := &world.Snapshot{
		Bodies: []world.BodySnapshot{
			{Name: "stub", Vertices: []geom.Vec2{geom.V(1, 1), geom.V(2, 2)}},
		},
	}
	if _, err := r.FramePNG(snap); err != nil {
		t.Fatalf("FramePNG with degenerate body: %v", err)
	}
}
