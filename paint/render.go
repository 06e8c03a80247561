package paint

import (
	"fmt"

	"github.com/gogpu/gg"
)

// Canvas is the drawing surface the Renderer paints on. *gg.Context
// satisfies it.
type Canvas interface {
	Clear()
	SetHexColor(hex string)
	SetLineWidth(width float64)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke() error
}

// lineStyler is implemented by canvases that support cap and join styles.
type lineStyler interface {
	SetLineCap(gg.LineCap)
	SetLineJoin(gg.LineJoin)
}

// NewCanvas creates an offscreen gg canvas of the given pixel size. Sizes
// below one pixel are raised to one.
func NewCanvas(width, height int) *gg.Context {
	dc := gg.NewContext(max(width, 1), max(height, 1))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	return dc
}

// Renderer repaints the whole canvas from the stroke store and the gesture in
// progress. There is no incremental diffing: every call costs O(total points).
type Renderer struct {
	canvas Canvas

	frames   int
	segments int
}

func NewRenderer(c Canvas) *Renderer {
	return &Renderer{canvas: c}
}

type resizer interface {
	Resize(width, height int) error
}

func (r *Renderer) canvasResizer() (resizer, bool) {
	if r == nil {
		return nil, false
	}
	rs, ok := r.canvas.(resizer)
	return rs, ok
}

// Frames returns how many times Render has run.
func (r *Renderer) Frames() int {
	return r.frames
}

// Segments returns the number of segments drawn by the last Render.
func (r *Renderer) Segments() int {
	return r.segments
}

// Render clears the canvas and draws strokes followed by pending, which is
// painted as a trailing pseudo-stroke in pendingColor. Each segment takes the
// thickness of its destination point; strokes with fewer than two points are
// skipped.
func (r *Renderer) Render(strokes []Stroke, pending []SamplePoint, pendingColor Color) error {
	r.frames++
	r.segments = 0
	r.canvas.Clear()
	if ls, ok := r.canvas.(lineStyler); ok {
		ls.SetLineCap(gg.LineCapRound)
		ls.SetLineJoin(gg.LineJoinRound)
	}
	for i := range strokes {
		if err := r.drawPath(strokes[i].Points, strokes[i].Color); err != nil {
			return fmt.Errorf("render stroke %d: %w", i, err)
		}
	}
	if err := r.drawPath(pending, pendingColor); err != nil {
		return fmt.Errorf("render pending stroke: %w", err)
	}
	return nil
}

func (r *Renderer) drawPath(pts []SamplePoint, c Color) error {
	if len(pts) < 2 {
		return nil
	}
	r.canvas.SetHexColor(string(c))
	for i := 1; i < len(pts); i++ {
		p0, p1 := pts[i-1], pts[i]
		r.canvas.SetLineWidth(p1.Thickness)
		r.canvas.MoveTo(p0.X, p0.Y)
		r.canvas.LineTo(p1.X, p1.Y)
		if err := r.canvas.Stroke(); err != nil {
			return err
		}
		r.segments++
	}
	return nil
}
