package main

import (
	"testing"
	"time"

	"github.com/whyrusleeping/soundpaint/paint"
)

func TestDemoStrokes(t *testing.T) {
	s, err := paint.NewSession(paint.SessionConfig{
		Surface: paint.Rect{Width: 640, Height: 480},
		Canvas:  paint.NewCanvas(640, 480),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := demoStrokes(s); err != nil {
		t.Fatal(err)
	}

	strokes := s.Strokes()
	if len(strokes) != 3 {
		t.Fatalf("strokes = %d, want 3", len(strokes))
	}
	cat := paint.DefaultCatalog()
	for i, st := range strokes {
		if st.Instrument != cat[i].Name || st.Color != cat[i].Color {
			t.Errorf("stroke %d: %s %s", i, st.Instrument, st.Color)
		}
		if len(st.Points) != 17 {
			t.Errorf("stroke %d has %d points", i, len(st.Points))
		}
	}

	if d := s.Plan().Duration(); d != 51*paint.StepDuration {
		t.Fatalf("duration = %v", d)
	}
	if got := s.Plan().Voices[1].Start; got != 17*50*time.Millisecond {
		t.Fatalf("second stroke starts at %v", got)
	}
}
