package main

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/whyrusleeping/soundpaint/paint"
)

// speakerOpener hands out paint devices played through the system speaker.
// The speaker itself is initialized once per process; every Open starts a
// fresh device on it and closing the device removes it from the speaker.
type speakerOpener struct {
	sr     beep.SampleRate
	buffer time.Duration
	tap    *Recorder

	once    sync.Once
	initErr error
	ready   bool
}

func newSpeakerOpener(sr beep.SampleRate, buffer time.Duration, tap *Recorder) *speakerOpener {
	return &speakerOpener{sr: sr, buffer: buffer, tap: tap}
}

func (o *speakerOpener) init() error {
	o.once.Do(func() {
		if err := speaker.Init(o.sr, o.sr.N(o.buffer)); err != nil {
			o.initErr = fmt.Errorf("initializing speaker: %w", err)
			return
		}
		o.ready = true
		slog.Info("speaker ready", "sampleRate", int(o.sr), "buffer", o.buffer)
	})
	return o.initErr
}

func (o *speakerOpener) Open() (paint.Output, error) {
	if err := o.init(); err != nil {
		return nil, err
	}

	d := paint.NewDevice(o.sr)
	var s beep.Streamer = d
	if o.tap != nil {
		s = o.tap.Tap(d)
	}
	speaker.Play(s)
	return d, nil
}

// Close silences and releases the speaker if it was ever initialized.
func (o *speakerOpener) Close() {
	if !o.ready {
		return
	}
	o.ready = false
	speaker.Clear()
	speaker.Close()
}
