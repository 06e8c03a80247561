package paint

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

const testRate = beep.SampleRate(1000)

func voice(start int, freqs ...float64) Voice {
	v := Voice{Start: StepDuration * time.Duration(start)}
	for i, f := range freqs {
		v.Events = append(v.Events, ToneEvent{Index: i, Frequency: f, Gain: 1})
	}
	v.Stop = v.Start + StepDuration*time.Duration(len(freqs))
	return v
}

func TestToneLength(t *testing.T) {
	tone := NewTone(voice(0, 100, 200, 300), testRate)
	step := testRate.N(StepDuration)
	if tone.Len() != 3*step {
		t.Fatalf("len = %d, want %d", tone.Len(), 3*step)
	}

	buf := make([][2]float64, 64)
	total := 0
	for {
		n, ok := tone.Stream(buf)
		if !ok {
			break
		}
		total += n
	}
	if total != tone.Len() || tone.Position() != tone.Len() {
		t.Fatalf("streamed %d samples, position %d, want %d", total, tone.Position(), tone.Len())
	}
}

func TestToneEmpty(t *testing.T) {
	tone := NewTone(Voice{}, testRate)
	if n, ok := tone.Stream(make([][2]float64, 8)); n != 0 || ok {
		t.Fatalf("empty tone streamed %d, %v", n, ok)
	}
}

func TestToneGainStep(t *testing.T) {
	v := Voice{Events: []ToneEvent{
		{Frequency: 250, Gain: 0},
		{Frequency: 250, Gain: 1},
	}}
	tone := NewTone(v, testRate)
	step := testRate.N(StepDuration)
	buf := make([][2]float64, tone.Len())
	tone.Stream(buf)

	for i := 0; i < step; i++ {
		if buf[i][0] != 0 {
			t.Fatalf("sample %d = %v during silent step", i, buf[i][0])
		}
	}
	peak := 0.0
	for i := step; i < len(buf); i++ {
		peak = math.Max(peak, math.Abs(buf[i][0]))
		if buf[i][0] != buf[i][1] {
			t.Fatalf("channels differ at %d", i)
		}
	}
	if peak < toneAmplitude*0.9 || peak > toneAmplitude+1e-9 {
		t.Fatalf("peak = %v, want about %v", peak, toneAmplitude)
	}
}

func TestDeviceSilenceAndClock(t *testing.T) {
	d := NewDevice(testRate)
	buf := make([][2]float64, 100)
	for i := range buf {
		buf[i] = [2]float64{1, 1}
	}
	n, ok := d.Stream(buf)
	if n != 100 || !ok {
		t.Fatalf("stream = %d, %v", n, ok)
	}
	for i := range buf {
		if buf[i] != [2]float64{} {
			t.Fatalf("sample %d not silent", i)
		}
	}
	if d.Now() != 100 {
		t.Fatalf("now = %d", d.Now())
	}
}

func TestDeviceScheduleOffset(t *testing.T) {
	d := NewDevice(testRate)
	tone := NewTone(voice(0, 250), testRate)
	d.Schedule(30, tone)

	buf := make([][2]float64, 20)
	d.Stream(buf)
	if tone.Position() != 0 {
		t.Fatal("tone started before its time")
	}

	buf = make([][2]float64, 40)
	d.Stream(buf)
	// now 20..60; the tone starts at local offset 10
	if tone.Position() != 30 {
		t.Fatalf("position = %d, want 30", tone.Position())
	}
	for i := 0; i < 10; i++ {
		if buf[i] != [2]float64{} {
			t.Fatalf("sample %d before the tone is not silent", i)
		}
	}

	for d.Active() > 0 {
		d.Stream(buf)
	}
	if tone.Position() != tone.Len() {
		t.Fatalf("tone not drained: %d/%d", tone.Position(), tone.Len())
	}
}

func TestDeviceClose(t *testing.T) {
	d := NewDevice(testRate)
	d.Schedule(0, NewTone(voice(0, 100, 100), testRate))
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if n, ok := d.Stream(make([][2]float64, 10)); n != 0 || ok {
		t.Fatalf("closed device streamed %d, %v", n, ok)
	}
	d.Schedule(0, NewTone(voice(0, 100), testRate))
	if d.Active() != 0 || !d.Closed() {
		t.Fatal("closed device accepted a tone")
	}
}

func TestDeviceMixesOverlap(t *testing.T) {
	d := NewDevice(testRate)
	v := Voice{Events: []ToneEvent{{Frequency: 250, Gain: 1}}}
	a, b := NewTone(v, testRate), NewTone(v, testRate)
	d.Schedule(0, a)
	d.Schedule(0, b)

	single := make([][2]float64, 10)
	NewTone(v, testRate).Stream(single)

	buf := make([][2]float64, 10)
	d.Stream(buf)
	for i := range buf {
		if !approx(buf[i][0], 2*single[i][0]) {
			t.Fatalf("sample %d = %v, want %v", i, buf[i][0], 2*single[i][0])
		}
	}
}
