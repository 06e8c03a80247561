package paint

import (
	"errors"
	"testing"

	"github.com/gogpu/gg"
)

type segment struct {
	color  string
	width  float64
	x0, y0 float64
	x1, y1 float64
}

// recordingCanvas keeps every stroked segment since the last Clear.
type recordingCanvas struct {
	clears   int
	segments []segment

	color  string
	width  float64
	path   []Point
	failOn int
}

func (c *recordingCanvas) Clear() {
	c.clears++
	c.segments = nil
	c.path = nil
}

func (c *recordingCanvas) SetHexColor(hex string)     { c.color = hex }
func (c *recordingCanvas) SetLineWidth(width float64) { c.width = width }
func (c *recordingCanvas) MoveTo(x, y float64)        { c.path = []Point{{x, y}} }
func (c *recordingCanvas) LineTo(x, y float64)        { c.path = append(c.path, Point{x, y}) }

func (c *recordingCanvas) Stroke() error {
	if c.failOn > 0 && len(c.segments)+1 == c.failOn {
		return errors.New("stroke failed")
	}
	if len(c.path) == 2 {
		c.segments = append(c.segments, segment{
			color: c.color,
			width: c.width,
			x0:    c.path[0].X,
			y0:    c.path[0].Y,
			x1:    c.path[1].X,
			y1:    c.path[1].Y,
		})
	}
	c.path = nil
	return nil
}

func pts(color Color, ys ...float64) []SamplePoint {
	out := make([]SamplePoint, len(ys))
	for i, y := range ys {
		out[i] = SamplePoint{X: float64(i), Y: y, Color: color, Thickness: 2 + y}
	}
	return out
}

func TestRenderSegmentCounts(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{7, 6},
	}
	for _, tt := range tests {
		c := &recordingCanvas{}
		r := NewRenderer(c)
		s := Stroke{Points: make([]SamplePoint, tt.points), Color: "#FF6B6B"}
		if err := r.Render([]Stroke{s}, nil, ""); err != nil {
			t.Fatal(err)
		}
		if len(c.segments) != tt.want || r.Segments() != tt.want {
			t.Errorf("%d points: drew %d segments (counted %d), want %d",
				tt.points, len(c.segments), r.Segments(), tt.want)
		}
	}
}

func TestRenderWidthsAndColors(t *testing.T) {
	c := &recordingCanvas{}
	r := NewRenderer(c)

	strokes := []Stroke{
		{Points: pts("#FF6B6B", 0, 1, 2), Color: "#FF6B6B"},
		{Points: pts("#45B7D1", 5, 6), Color: "#45B7D1"},
	}
	pending := pts("#FF6B6B", 3, 4)
	if err := r.Render(strokes, pending, "#96CEB4"); err != nil {
		t.Fatal(err)
	}

	want := []segment{
		{"#FF6B6B", 3, 0, 0, 1, 1},
		{"#FF6B6B", 4, 1, 1, 2, 2},
		{"#45B7D1", 8, 0, 5, 1, 6},
		{"#96CEB4", 6, 0, 3, 1, 4},
	}
	if len(c.segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(c.segments), len(want))
	}
	for i := range want {
		if c.segments[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, c.segments[i], want[i])
		}
	}
}

func TestRenderClearsEveryFrame(t *testing.T) {
	c := &recordingCanvas{}
	r := NewRenderer(c)
	s := []Stroke{{Points: pts("#FF6B6B", 0, 1), Color: "#FF6B6B"}}
	for i := 0; i < 3; i++ {
		if err := r.Render(s, nil, ""); err != nil {
			t.Fatal(err)
		}
	}
	if c.clears != 3 || r.Frames() != 3 || len(c.segments) != 1 {
		t.Fatalf("clears=%d frames=%d segments=%d", c.clears, r.Frames(), len(c.segments))
	}
}

func TestRenderStrokeError(t *testing.T) {
	c := &recordingCanvas{failOn: 2}
	r := NewRenderer(c)
	s := []Stroke{{Points: pts("#FF6B6B", 0, 1, 2), Color: "#FF6B6B"}}
	if err := r.Render(s, nil, ""); err == nil {
		t.Fatal("expected error from canvas")
	}
}

func TestNewCanvasRoundCaps(t *testing.T) {
	dc := NewCanvas(0, -5)
	defer dc.Close()
	if dc.Width() != 1 || dc.Height() != 1 {
		t.Fatalf("size = %dx%d, want 1x1", dc.Width(), dc.Height())
	}
	st := dc.GetStroke()
	if st.Cap != gg.LineCapRound || st.Join != gg.LineJoinRound {
		t.Fatalf("cap=%v join=%v", st.Cap, st.Join)
	}
}

func TestRenderOnCanvas(t *testing.T) {
	dc := NewCanvas(100, 100)
	defer dc.Close()
	r := NewRenderer(dc)

	line := []SamplePoint{
		{X: 10, Y: 50, Thickness: 10},
		{X: 90, Y: 50, Thickness: 10},
	}
	if err := r.Render([]Stroke{{Points: line, Color: "#FF6B6B"}}, nil, ""); err != nil {
		t.Fatal(err)
	}
	img := dc.Image()
	if _, _, _, a := img.At(50, 50).RGBA(); a == 0 {
		t.Error("expected stroke pixels on the line")
	}
	if _, _, _, a := img.At(50, 5).RGBA(); a != 0 {
		t.Error("expected transparent pixels away from the line")
	}
}
