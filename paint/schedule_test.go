package paint

import (
	"testing"
	"time"
)

func strokeAt(n int, y, velocity float64) Stroke {
	p := make([]SamplePoint, n)
	for i := range p {
		p[i] = SamplePoint{Y: y, Velocity: velocity}
	}
	return Stroke{Points: p}
}

func TestFrequencyRange(t *testing.T) {
	tests := []struct {
		y, h float64
		want float64
	}{
		{0, 400, 220},
		{400, 400, 1100},
		{200, 400, 660},
		{-50, 400, 220},
		{900, 400, 1100},
		{0, 0, 220},
	}
	for _, tt := range tests {
		if got := Frequency(tt.y, tt.h); !approx(got, tt.want) {
			t.Errorf("Frequency(%v, %v) = %v, want %v", tt.y, tt.h, got, tt.want)
		}
	}
}

func TestScheduleBackToBack(t *testing.T) {
	plan := Schedule([]Stroke{strokeAt(10, 0, 1), strokeAt(5, 0, 1)}, 400, 1)
	if len(plan.Voices) != 2 {
		t.Fatalf("voices = %d, want 2", len(plan.Voices))
	}
	second := plan.Voices[1]
	if second.Start != 500*time.Millisecond || second.Stop != 750*time.Millisecond {
		t.Fatalf("second voice runs %v..%v, want 500ms..750ms", second.Start, second.Stop)
	}
	if plan.Duration() != 750*time.Millisecond {
		t.Fatalf("duration = %v", plan.Duration())
	}
}

func TestScheduleCumulativeStarts(t *testing.T) {
	strokes := []Stroke{strokeAt(3, 0, 1), strokeAt(0, 0, 1), strokeAt(1, 0, 1), strokeAt(4, 0, 1)}
	plan := Schedule(strokes, 100, 1)

	var base time.Duration
	for i, v := range plan.Voices {
		if v.Start != base {
			t.Errorf("voice %d start = %v, want %v", i, v.Start, base)
		}
		if v.Duration() != time.Duration(len(strokes[i].Points))*StepDuration {
			t.Errorf("voice %d duration = %v", i, v.Duration())
		}
		base = v.Stop
	}

	events := plan.Events()
	if len(events) != 8 {
		t.Fatalf("events = %d, want 8", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Start < events[i-1].Start {
			t.Fatalf("event %d starts before event %d", i, i-1)
		}
	}
	for i, ev := range events {
		if ev.Start != time.Duration(i)*StepDuration {
			t.Errorf("event %d start = %v", i, ev.Start)
		}
	}
}

func TestScheduleGainAndPitch(t *testing.T) {
	s := Stroke{Points: []SamplePoint{
		{Y: 0, Velocity: 0.5},
		{Y: 400, Velocity: 1.0},
	}}
	plan := Schedule([]Stroke{s}, 400, 0.5)
	ev := plan.Events()
	if !approx(ev[0].Frequency, 220) || !approx(ev[1].Frequency, 1100) {
		t.Errorf("frequencies = %v, %v", ev[0].Frequency, ev[1].Frequency)
	}
	if !approx(ev[0].Gain, 0.25) || !approx(ev[1].Gain, 0.5) {
		t.Errorf("gains = %v, %v", ev[0].Gain, ev[1].Gain)
	}
}

func TestScheduleEmpty(t *testing.T) {
	plan := Schedule(nil, 400, 1)
	if len(plan.Voices) != 0 || plan.Duration() != 0 || len(plan.Events()) != 0 {
		t.Fatalf("unexpected plan %+v", plan)
	}
}

func TestScheduleVolumeClamped(t *testing.T) {
	plan := Schedule([]Stroke{strokeAt(1, 0, 1)}, 100, 3)
	if g := plan.Events()[0].Gain; g != 1 {
		t.Fatalf("gain = %v, want 1", g)
	}
}
