package paint

import "time"

const (
	// StepDuration is how long each sample point sounds.
	StepDuration = 50 * time.Millisecond

	minFrequency = 220.0
	maxFrequency = 1100.0
)

// ToneEvent is the pitch and gain step for one sample point. Start is
// measured from the beginning of the pass.
type ToneEvent struct {
	Stroke    int
	Index     int
	Start     time.Duration
	Frequency float64
	Gain      float64
}

// Voice is the single tone generator scheduled for one stroke. It sounds over
// [Start, Stop) and steps to each event's frequency and gain at the event's
// Start.
type Voice struct {
	Stroke     int
	Instrument string
	Start      time.Duration
	Stop       time.Duration
	Events     []ToneEvent
}

// Duration is Stop - Start.
func (v Voice) Duration() time.Duration {
	return v.Stop - v.Start
}

// Plan is the result of scheduling a store: one voice per stroke in store
// order, back to back.
type Plan struct {
	Voices []Voice
}

// Events flattens the plan into one event per point per stroke, ordered by
// stroke and then point.
func (p Plan) Events() []ToneEvent {
	n := 0
	for _, v := range p.Voices {
		n += len(v.Events)
	}
	out := make([]ToneEvent, 0, n)
	for _, v := range p.Voices {
		out = append(out, v.Events...)
	}
	return out
}

// Duration is the end of the last voice.
func (p Plan) Duration() time.Duration {
	if len(p.Voices) == 0 {
		return 0
	}
	return p.Voices[len(p.Voices)-1].Stop
}

// Frequency maps a surface-local y to a pitch between 220 Hz (top) and
// 1100 Hz (bottom).
func Frequency(y, surfaceHeight float64) float64 {
	return minFrequency + ratio(y, surfaceHeight)*(maxFrequency-minFrequency)
}

// Schedule walks strokes in order and builds a Plan. surfaceHeight is the
// drawing surface's current height and volume is the global volume in [0,1],
// sampled once for the whole plan.
func Schedule(strokes []Stroke, surfaceHeight, volume float64) Plan {
	volume = clampVolume(volume)
	plan := Plan{Voices: make([]Voice, 0, len(strokes))}
	var base time.Duration
	for si, s := range strokes {
		n := len(s.Points)
		v := Voice{
			Stroke:     si,
			Instrument: s.Instrument,
			Start:      base,
			Stop:       base + time.Duration(n)*StepDuration,
			Events:     make([]ToneEvent, n),
		}
		for i, pt := range s.Points {
			v.Events[i] = ToneEvent{
				Stroke:    si,
				Index:     i,
				Start:     base + time.Duration(i)*StepDuration,
				Frequency: Frequency(pt.Y, surfaceHeight),
				Gain:      pt.Velocity * volume,
			}
		}
		plan.Voices = append(plan.Voices, v)
		base = v.Stop
	}
	return plan
}

func clampVolume(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
