package paint

import (
	"sync"

	"github.com/gopxl/beep"
)

// Output is an open audio output the Player schedules tones on.
type Output interface {
	SampleRate() beep.SampleRate
	// Now is the output clock in samples.
	Now() int
	// Schedule starts s at sample at. Times already in the past start
	// immediately.
	Schedule(at int, s beep.Streamer)
	Close() error
}

// Opener acquires a fresh Output.
type Opener interface {
	Open() (Output, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func() (Output, error)

func (f OpenerFunc) Open() (Output, error) {
	return f()
}

type scheduled struct {
	at int
	s  beep.Streamer
}

// Device is a beep.Streamer that mixes scheduled tones against its own sample
// clock. It plays silence while nothing is due and keeps streaming until it is
// closed, after which it reports exhaustion so the audio backend drops it.
type Device struct {
	lk sync.Mutex

	sr      beep.SampleRate
	now     int
	pending []scheduled
	closed  bool

	buf [][2]float64
}

func NewDevice(sr beep.SampleRate) *Device {
	return &Device{sr: sr}
}

func (d *Device) SampleRate() beep.SampleRate {
	return d.sr
}

func (d *Device) Now() int {
	d.lk.Lock()
	defer d.lk.Unlock()
	return d.now
}

// Active returns the number of tones not yet finished.
func (d *Device) Active() int {
	d.lk.Lock()
	defer d.lk.Unlock()
	return len(d.pending)
}

// Closed reports whether Close has been called.
func (d *Device) Closed() bool {
	d.lk.Lock()
	defer d.lk.Unlock()
	return d.closed
}

func (d *Device) Schedule(at int, s beep.Streamer) {
	d.lk.Lock()
	defer d.lk.Unlock()
	if d.closed {
		return
	}
	if at < d.now {
		at = d.now
	}
	d.pending = append(d.pending, scheduled{at: at, s: s})
}

// Close drops every scheduled tone and ends the stream.
func (d *Device) Close() error {
	d.lk.Lock()
	defer d.lk.Unlock()
	d.closed = true
	d.pending = nil
	return nil
}

func (d *Device) Stream(samples [][2]float64) (int, bool) {
	d.lk.Lock()
	defer d.lk.Unlock()

	if d.closed {
		return 0, false
	}

	for i := range samples {
		samples[i][0] = 0
		samples[i][1] = 0
	}

	if len(d.buf) < len(samples) {
		d.buf = make([][2]float64, len(samples))
	}

	end := d.now + len(samples)
	live := d.pending[:0]
	for _, sc := range d.pending {
		if sc.at >= end {
			live = append(live, sc)
			continue
		}
		off := sc.at - d.now
		if off < 0 {
			off = 0
		}
		want := len(samples) - off
		buf := d.buf[:want]
		n, ok := sc.s.Stream(buf)
		for i := 0; i < n; i++ {
			samples[off+i][0] += buf[i][0]
			samples[off+i][1] += buf[i][1]
		}
		if ok && n == want {
			live = append(live, sc)
		}
	}
	for i := len(live); i < len(d.pending); i++ {
		d.pending[i] = scheduled{}
	}
	d.pending = live
	d.now = end

	return len(samples), true
}

func (d *Device) Err() error {
	return nil
}
