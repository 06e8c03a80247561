package paint

import (
	"fmt"
	"math"
)

// Event is one input for Session.Dispatch. Front ends, MIDI readers and the
// console all produce Events; only the goroutine owning the session applies
// them.
type Event interface {
	apply(s *Session) error
}

type (
	PointerDown  struct{ Pos Point }
	PointerMove  struct{ Pos Point }
	PointerUp    struct{ Pos Point }
	PointerLeave struct{ Pos Point }

	SelectInstrument      struct{ Name string }
	SelectInstrumentIndex struct{ Index int }
	SetVolume             struct{ Volume float64 }
	// AdjustVolume adds Delta to the current volume.
	AdjustVolume struct{ Delta float64 }

	Play       struct{}
	Stop       struct{}
	TogglePlay struct{}
	Clear      struct{}

	Resize struct{ Surface Rect }
)

func (e PointerDown) apply(s *Session) error  { return s.PointerDown(e.Pos) }
func (e PointerMove) apply(s *Session) error  { return s.PointerMove(e.Pos) }
func (e PointerUp) apply(s *Session) error    { return s.PointerUp(e.Pos) }
func (e PointerLeave) apply(s *Session) error { return s.PointerLeave(e.Pos) }

func (e SelectInstrument) apply(s *Session) error      { return s.SelectInstrument(e.Name) }
func (e SelectInstrumentIndex) apply(s *Session) error { return s.SelectInstrumentIndex(e.Index) }
func (e SetVolume) apply(s *Session) error             { return s.SetVolume(e.Volume) }
func (e AdjustVolume) apply(s *Session) error {
	return s.SetVolume(math.Round((s.Volume()+e.Delta)*100) / 100)
}

func (Play) apply(s *Session) error       { return s.Play() }
func (Stop) apply(s *Session) error       { return s.Stop() }
func (TogglePlay) apply(s *Session) error { return s.TogglePlay() }
func (Clear) apply(s *Session) error      { return s.Clear() }

func (e Resize) apply(s *Session) error { return s.Resize(e.Surface) }

// Dispatch applies e to the session.
func (s *Session) Dispatch(e Event) error {
	if e == nil {
		return nil
	}
	if err := e.apply(s); err != nil {
		return fmt.Errorf("%T: %w", e, err)
	}
	return nil
}
