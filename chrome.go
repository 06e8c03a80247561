package main

import (
	"math"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/whyrusleeping/soundpaint/paint"
)

const (
	toolbarHeight = 60
	buttonSize    = 40
	buttonGap     = 12
	volumeWidth   = 200
	volumeStep    = 0.1
)

// layout is where everything sits in the window. The toolbar runs along the
// top, the canvas below it and the scope, if enabled, fills what is left.
type layout struct {
	toolbar  sdl.Rect
	swatches []sdl.Rect
	play     sdl.Rect
	clear    sdl.Rect
	volume   sdl.Rect
	canvas   sdl.Rect
	scope    sdl.Rect
}

func computeLayout(width, height, scopeHeight int32, instruments int) layout {
	var l layout
	l.toolbar = sdl.Rect{X: 0, Y: 0, W: width, H: toolbarHeight}

	top := int32((toolbarHeight - buttonSize) / 2)
	x := int32(buttonGap)
	for i := 0; i < instruments; i++ {
		l.swatches = append(l.swatches, sdl.Rect{X: x, Y: top, W: buttonSize, H: buttonSize})
		x += buttonSize + buttonGap
	}
	x += buttonGap
	l.play = sdl.Rect{X: x, Y: top, W: buttonSize, H: buttonSize}
	x += buttonSize + buttonGap
	l.clear = sdl.Rect{X: x, Y: top, W: buttonSize, H: buttonSize}
	x += buttonSize + 2*buttonGap
	l.volume = sdl.Rect{X: x, Y: top + buttonSize/4, W: volumeWidth, H: buttonSize / 2}

	scopeHeight = max(0, min(scopeHeight, height-toolbarHeight-1))
	canvasHeight := max(height-toolbarHeight-scopeHeight, 1)
	l.canvas = sdl.Rect{X: 0, Y: toolbarHeight, W: max(width, 1), H: canvasHeight}
	l.scope = sdl.Rect{X: 0, Y: toolbarHeight + canvasHeight, W: width, H: scopeHeight}
	return l
}

func inRect(x, y int32, r sdl.Rect) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// surface is the canvas rectangle in the coordinates pointer events use.
func (l layout) surface() paint.Rect {
	return paint.Rect{
		Left:   float64(l.canvas.X),
		Top:    float64(l.canvas.Y),
		Width:  float64(l.canvas.W),
		Height: float64(l.canvas.H),
	}
}

// hit maps a click on the toolbar to the event it stands for.
func (l layout) hit(x, y int32) (paint.Event, bool) {
	if !inRect(x, y, l.toolbar) {
		return nil, false
	}
	for i, r := range l.swatches {
		if inRect(x, y, r) {
			return paint.SelectInstrumentIndex{Index: i}, true
		}
	}
	switch {
	case inRect(x, y, l.play):
		return paint.TogglePlay{}, true
	case inRect(x, y, l.clear):
		return paint.Clear{}, true
	case inRect(x, y, l.volume):
		return paint.SetVolume{Volume: volumeAt(x, l.volume)}, true
	}
	return nil, false
}

// volumeAt converts a click on the volume bar to a volume snapped to 0.1.
func volumeAt(x int32, bar sdl.Rect) float64 {
	v := float64(x-bar.X) / float64(max(bar.W-1, 1))
	v = math.Round(v/volumeStep) * volumeStep
	return clampUnit(v)
}

func setColor(r *sdl.Renderer, c paint.Color) {
	rgba := c.NRGBA()
	r.SetDrawColor(rgba.R, rgba.G, rgba.B, 255)
}

// drawChrome paints the toolbar from the session status.
func drawChrome(r *sdl.Renderer, l layout, cat paint.Catalog, st paint.Status) {
	r.SetDrawColor(30, 30, 46, 255)
	r.FillRect(&l.toolbar)

	for i, sw := range l.swatches {
		setColor(r, cat[i].Color)
		r.FillRect(&sw)
		if cat[i].Name == st.Instrument {
			ring := sdl.Rect{X: sw.X - 3, Y: sw.Y - 3, W: sw.W + 6, H: sw.H + 6}
			r.SetDrawColor(255, 255, 255, 255)
			r.DrawRect(&ring)
		}
	}

	if st.Playing {
		// stop square
		r.SetDrawColor(255, 107, 107, 255)
		r.FillRect(&sdl.Rect{X: l.play.X + 10, Y: l.play.Y + 10, W: l.play.W - 20, H: l.play.H - 20})
	} else {
		// play triangle, one scanline at a time
		r.SetDrawColor(150, 206, 180, 255)
		h := l.play.H - 16
		for dy := int32(0); dy <= h; dy++ {
			half := min(dy, h-dy)
			r.DrawLine(l.play.X+12, l.play.Y+8+dy, l.play.X+12+half, l.play.Y+8+dy)
		}
	}
	r.SetDrawColor(200, 200, 210, 255)
	r.DrawRect(&l.play)

	r.SetDrawColor(200, 200, 210, 255)
	r.DrawRect(&l.clear)
	r.DrawLine(l.clear.X+10, l.clear.Y+10, l.clear.X+l.clear.W-10, l.clear.Y+l.clear.H-10)
	r.DrawLine(l.clear.X+l.clear.W-10, l.clear.Y+10, l.clear.X+10, l.clear.Y+l.clear.H-10)

	r.SetDrawColor(60, 60, 80, 255)
	r.FillRect(&l.volume)
	fill := l.volume
	fill.W = int32(float64(l.volume.W) * st.Volume)
	setColor(r, st.Color)
	r.FillRect(&fill)
	r.SetDrawColor(200, 200, 210, 255)
	r.DrawRect(&l.volume)
}
