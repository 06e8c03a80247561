package paint

import (
	"math"

	"github.com/gopxl/beep"
)

// toneAmplitude scales every tone so overlapping passes stay inside [-1,1].
const toneAmplitude = 0.3

func sineOsc(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

// Tone is the sine generator for one Voice. It holds each event's frequency
// and gain for one step and then jumps to the next, and ends after the last
// step.
type Tone struct {
	sampleRate float64
	step       int
	events     []ToneEvent

	position int
	phase    float64
}

// NewTone builds the streamer for v at the given sample rate.
func NewTone(v Voice, sr beep.SampleRate) *Tone {
	return &Tone{
		sampleRate: float64(sr),
		step:       max(sr.N(StepDuration), 1),
		events:     v.Events,
	}
}

// Len returns the length of the tone in samples.
func (t *Tone) Len() int {
	return t.step * len(t.events)
}

// Position returns the number of samples already streamed.
func (t *Tone) Position() int {
	return t.position
}

func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	total := t.Len()
	if t.position >= total {
		return 0, false
	}
	for n < len(samples) && t.position < total {
		ev := t.events[t.position/t.step]
		value := sineOsc(t.phase) * ev.Gain * toneAmplitude
		samples[n][0] = value
		samples[n][1] = value

		// the phase carries over between steps so pitch changes don't click
		t.phase += ev.Frequency / t.sampleRate
		t.phase -= math.Floor(t.phase)
		t.position++
		n++
	}
	return n, true
}

func (t *Tone) Err() error {
	return nil
}
