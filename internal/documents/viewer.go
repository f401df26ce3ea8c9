package documents

import (
	"sync"

	"github.com/shopspring/decimal"
)

var (
	MinZoom  = decimal.RequireFromString("0.5")
	MaxZoom  = decimal.RequireFromString("3")
	ZoomStep = decimal.RequireFromString("0.25")
)

type Offset struct {
	X, Y int
}

// ImageViewer keeps zoom and pan state of an image preview. Zoom is kept in exact
// decimal steps so repeated in/out returns to the same value.
type ImageViewer struct {
	mu       sync.Mutex
	zoom     decimal.Decimal
	offset   Offset
	dragging bool
	last     Offset
}

func NewImageViewer() *ImageViewer {
	return &ImageViewer{zoom: decimal.NewFromInt(1)}
}

func (v *ImageViewer) Zoom() decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.zoom
}

func (v *ImageViewer) ZoomIn() decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.zoom = snapZoom(v.zoom.Add(ZoomStep))

	return v.zoom
}

func (v *ImageViewer) ZoomOut() decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.zoom = snapZoom(v.zoom.Sub(ZoomStep))

	return v.zoom
}

// SetZoom snaps z to the nearest step inside [MinZoom, MaxZoom].
func (v *ImageViewer) SetZoom(z decimal.Decimal) decimal.Decimal {
	z = snapZoom(z)

	v.mu.Lock()
	defer v.mu.Unlock()

	v.zoom = z

	return z
}

func snapZoom(z decimal.Decimal) decimal.Decimal {
	z = z.Div(ZoomStep).Round(0).Mul(ZoomStep)

	switch {
	case z.LessThan(MinZoom):
		return MinZoom
	case z.GreaterThan(MaxZoom):
		return MaxZoom
	}

	return z
}

func (v *ImageViewer) Offset() Offset {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.offset
}

func (v *ImageViewer) StartDrag(x, y int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.dragging = true
	v.last = Offset{X: x, Y: y}
}

// Drag moves the image by the pointer delta since the previous position. It is ignored unless a drag is active.
func (v *ImageViewer) Drag(x, y int) Offset {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.dragging {
		return v.offset
	}

	v.offset.X += x - v.last.X
	v.offset.Y += y - v.last.Y
	v.last = Offset{X: x, Y: y}

	return v.offset
}

func (v *ImageViewer) EndDrag() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.dragging = false
}

// Reset restores 100% zoom and centers the image.
func (v *ImageViewer) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.zoom = decimal.NewFromInt(1)
	v.offset = Offset{}
	v.dragging = false
}
