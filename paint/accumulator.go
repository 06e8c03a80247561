package paint

import "github.com/google/uuid"

// Stroke is the immutable record of one continuous gesture. All points carry
// the stroke's Color.
type Stroke struct {
	ID         string
	Points     []SamplePoint
	Color      Color
	Instrument string
}

// Segments is the number of line segments the stroke renders as.
func (s Stroke) Segments() int {
	if len(s.Points) < 2 {
		return 0
	}
	return len(s.Points) - 1
}

type accState int

const (
	accIdle accState = iota
	accDrawing
)

func (s accState) String() string {
	if s == accDrawing {
		return "drawing"
	}
	return "idle"
}

// Accumulator is the Idle → Drawing → Idle state machine that collects the
// points of the gesture in progress.
type Accumulator struct {
	state  accState
	points []SamplePoint
}

// Drawing reports whether a gesture is in progress.
func (a *Accumulator) Drawing() bool {
	return a.state == accDrawing
}

// Pending returns the points of the gesture in progress. The slice must not
// be modified.
func (a *Accumulator) Pending() []SamplePoint {
	return a.points
}

// Down opens a new gesture seeded with p. A Down while already drawing
// discards the unfinished gesture and starts over.
func (a *Accumulator) Down(p SamplePoint) {
	a.state = accDrawing
	a.points = append(make([]SamplePoint, 0, 64), p)
}

// Move appends p to the gesture in progress. It reports false, and does
// nothing, when idle.
func (a *Accumulator) Move(p SamplePoint) bool {
	if a.state != accDrawing {
		return false
	}
	a.points = append(a.points, p)
	return true
}

// Up ends the gesture. If any points were collected they are finalized into a
// Stroke tagged with inst, the instrument selected at release time; every
// point is recolored to inst.Color so the stroke stays uniformly colored.
// ok is false when there was nothing to finalize.
func (a *Accumulator) Up(inst Instrument) (s Stroke, ok bool) {
	wasDrawing := a.state == accDrawing
	a.state = accIdle
	pts := a.points
	a.points = nil
	if !wasDrawing || len(pts) == 0 {
		return Stroke{}, false
	}
	for i := range pts {
		pts[i].Color = inst.Color
	}
	return Stroke{
		ID:         uuid.NewString(),
		Points:     pts,
		Color:      inst.Color,
		Instrument: inst.Name,
	}, true
}

// Truncate empties the pending points but keeps the state, so a gesture that
// is still held down continues collecting into an empty buffer.
func (a *Accumulator) Truncate() {
	a.points = nil
}

// Reset drops the gesture in progress without producing a stroke.
func (a *Accumulator) Reset() {
	a.state = accIdle
	a.points = nil
}
