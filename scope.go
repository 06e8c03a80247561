package main

import (
	"math/cmplx"
	"sync"

	"github.com/gopxl/beep"
	"github.com/maddyblue/go-dsp/fft"
	"github.com/veandco/go-sdl2/sdl"
)

// Recorder keeps the most recent output samples in a ring buffer so the scope
// can draw them.
type Recorder struct {
	lk       sync.Mutex
	buf      [][2]float64
	position int
}

func NewRecorder(size int) *Recorder {
	return &Recorder{buf: make([][2]float64, size)}
}

// Tap returns a streamer that passes s through and records what it streams.
func (r *Recorder) Tap(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		if !ok {
			return n, ok
		}
		r.record(samples[:n])
		return n, ok
	})
}

func (r *Recorder) record(samples [][2]float64) {
	r.lk.Lock()
	defer r.lk.Unlock()

	for i := range samples {
		ix := r.position % len(r.buf)
		r.buf[ix] = samples[i]
		r.position++
	}
}

// GetSnapshot copies the recorded samples, oldest first, into buf and returns
// how many were copied.
func (r *Recorder) GetSnapshot(buf [][2]float64) int {
	r.lk.Lock()
	defer r.lk.Unlock()

	lim := min(len(buf), len(r.buf))
	for i := 0; i < lim; i++ {
		ix := (r.position + i) % len(r.buf)
		buf[i] = r.buf[ix]
	}

	return lim
}

// Position returns how many samples have been recorded in total.
func (r *Recorder) Position() int {
	r.lk.Lock()
	defer r.lk.Unlock()
	return r.position
}

// scope draws the recorded output as a waveform and a magnitude spectrum.
type scope struct {
	rec *Recorder

	buf      [][2]float64
	wave     []float64
	spectrum []float64
}

func newScope(rec *Recorder, size int) *scope {
	return &scope{
		rec:  rec,
		buf:  make([][2]float64, size),
		wave: make([]float64, size),
	}
}

// update refreshes the waveform and the spectrum from the recorder.
func (sc *scope) update() {
	n := sc.rec.GetSnapshot(sc.buf)
	for i := 0; i < n; i++ {
		sc.wave[i] = sc.buf[i][0]
	}
	sc.spectrum = magnitudeSpectrum(sc.wave[:n])
}

func magnitudeSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	fftResult := fft.FFTReal(data)

	out := make([]float64, len(fftResult)/2+1)
	for i, c := range fftResult[:len(out)] {
		out[i] = cmplx.Abs(c) / float64(len(data))
	}
	return out
}

// draw paints both graphs side by side inside area.
func (sc *scope) draw(renderer *sdl.Renderer, area sdl.Rect) {
	if area.W <= 0 || area.H <= 0 {
		return
	}
	renderer.SetDrawColor(24, 24, 36, 255)
	renderer.FillRect(&area)

	half := area.W / 2
	pad := int32(10)
	w, h := half-2*pad, area.H-2*pad

	wave := sc.wave
	if len(wave) > 500 {
		wave = wave[len(wave)-500:]
	}
	graphData(renderer, wave, area.X+pad, area.Y+pad, w, h, -1, 1)

	spec := sc.spectrum
	if len(spec) > 100 {
		spec = spec[:100]
	}
	graphData(renderer, spec, area.X+half+pad, area.Y+pad, w, h, 0, 0.2)
}

func graphData(renderer *sdl.Renderer, dataPoints []float64, x, y, width, height int32, minval, maxval float64) {
	// axes
	renderer.SetDrawColor(90, 90, 110, 255)
	renderer.DrawLine(x, y+height/2, x+width, y+height/2)
	renderer.DrawLine(x, y, x, y+height)

	if len(dataPoints) < 2 {
		return
	}

	spread := maxval - minval
	renderer.SetDrawColor(78, 205, 196, 255)
	for i := 0; i < len(dataPoints)-1; i++ {
		x1 := x + int32(float64(i)*float64(width)/float64(len(dataPoints)-1))
		y1 := y + height - int32(clampUnit((dataPoints[i]-minval)/spread)*float64(height))
		x2 := x + int32(float64(i+1)*float64(width)/float64(len(dataPoints)-1))
		y2 := y + height - int32(clampUnit((dataPoints[i+1]-minval)/spread)*float64(height))
		renderer.DrawLine(x1, y1, x2, y2)
	}
}

func clampUnit(v float64) float64 {
	return max(0, min(1, v))
}
