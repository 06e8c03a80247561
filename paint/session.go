package paint

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultVolume is the volume a session starts at when none is configured.
const DefaultVolume = 0.7

// SessionConfig describes a new session. Zero values pick defaults: the
// built-in catalog, the first instrument and DefaultVolume.
type SessionConfig struct {
	Catalog    Catalog
	Instrument string
	// Volume is only used when HasVolume is set, so zero is selectable.
	Volume    float64
	HasVolume bool
	Surface   Rect
	Canvas    Canvas
	Opener    Opener
}

// Session is one canvas worth of state: the gesture in progress, the stroke
// store, the selected instrument, the volume and the playback flag.
//
// A Session is not safe for concurrent use. It is owned by the goroutine
// that dispatches input events to it.
type Session struct {
	id      string
	catalog Catalog

	selected int
	volume   float64
	surface  Rect

	acc      Accumulator
	store    Store
	renderer *Renderer
	player   *Player

	closed bool
}

// NewSession creates a session and paints the empty canvas once.
func NewSession(cfg SessionConfig) (*Session, error) {
	cat := cfg.Catalog
	if len(cat) == 0 {
		cat = DefaultCatalog()
	}

	s := &Session{
		id:      uuid.NewString(),
		catalog: cat,
		volume:  DefaultVolume,
		surface: cfg.Surface,
		player:  NewPlayer(cfg.Opener),
	}
	if cfg.HasVolume {
		s.volume = clampVolume(cfg.Volume)
	}
	if cfg.Instrument != "" {
		if _, err := cat.Lookup(cfg.Instrument); err != nil {
			return nil, err
		}
		s.selected = indexFold(cat, cfg.Instrument)
	}
	if cfg.Canvas != nil {
		s.renderer = NewRenderer(cfg.Canvas)
	}

	Logger().Info("paint: session started",
		"session", s.id,
		"instrument", s.Instrument().Name,
		"volume", s.volume,
	)
	return s, s.redraw()
}

func indexFold(cat Catalog, name string) int {
	inst, err := cat.Lookup(name)
	if err != nil {
		return -1
	}
	return cat.Index(inst.Name)
}

// ID returns the random identifier used in log lines.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) Catalog() Catalog {
	return s.catalog
}

// Instrument returns the currently selected instrument.
func (s *Session) Instrument() Instrument {
	return s.catalog[s.selected]
}

// InstrumentIndex returns the catalog position of the selected instrument.
func (s *Session) InstrumentIndex() int {
	return s.selected
}

func (s *Session) Volume() float64 {
	return s.volume
}

func (s *Session) Surface() Rect {
	return s.surface
}

func (s *Session) Drawing() bool {
	return s.acc.Drawing()
}

func (s *Session) Playing() bool {
	return s.player.Playing()
}

// Strokes returns the finished strokes in drawing order.
func (s *Session) Strokes() []Stroke {
	return s.store.Strokes()
}

// Pending returns the points of the gesture in progress.
func (s *Session) Pending() []SamplePoint {
	return s.acc.Pending()
}

// Renderer returns the session's renderer, or nil if it has no canvas.
func (s *Session) Renderer() *Renderer {
	return s.renderer
}

// SelectInstrument selects the named instrument. Strokes already finished
// keep their color; the gesture in progress picks up the new color when it
// is released.
func (s *Session) SelectInstrument(name string) error {
	if s.closed {
		return errSessionClosed
	}
	i := indexFold(s.catalog, name)
	if i < 0 {
		_, err := s.catalog.Lookup(name)
		return err
	}
	return s.selectIndex(i)
}

// SelectInstrumentIndex selects the i'th catalog entry.
func (s *Session) SelectInstrumentIndex(i int) error {
	if s.closed {
		return errSessionClosed
	}
	if _, err := s.catalog.At(i); err != nil {
		return err
	}
	return s.selectIndex(i)
}

func (s *Session) selectIndex(i int) error {
	if i == s.selected {
		return nil
	}
	s.selected = i
	Logger().Debug("paint: instrument selected", "session", s.id, "instrument", s.catalog[i].Name)
	if s.acc.Drawing() {
		// pending points are drawn in the selected color
		return s.redraw()
	}
	return nil
}

// SetVolume sets the global volume, clamped to [0,1]. Passes already
// committed keep the volume they were scheduled with.
func (s *Session) SetVolume(v float64) error {
	if s.closed {
		return errSessionClosed
	}
	s.volume = clampVolume(v)
	return nil
}

// Resize moves or resizes the drawing surface. Points already sampled keep
// their attributes; later samples and schedules use the new size.
func (s *Session) Resize(r Rect) error {
	if s.closed {
		return errSessionClosed
	}
	s.surface = r
	if rs, ok := s.renderer.canvasResizer(); ok {
		if err := rs.Resize(max(int(r.Width), 1), max(int(r.Height), 1)); err != nil {
			return fmt.Errorf("resize canvas: %w", err)
		}
	}
	return s.redraw()
}

func (s *Session) sample(pos Point) SamplePoint {
	return Sample(pos, s.surface, s.Instrument().Color)
}

// PointerDown opens a new gesture at pos.
func (s *Session) PointerDown(pos Point) error {
	if s.closed {
		return errSessionClosed
	}
	s.acc.Down(s.sample(pos))
	return s.redraw()
}

// PointerMove extends the gesture in progress. Moves with no button held
// are ignored.
func (s *Session) PointerMove(pos Point) error {
	if s.closed {
		return errSessionClosed
	}
	if !s.acc.Move(s.sample(pos)) {
		return nil
	}
	return s.redraw()
}

// PointerUp ends the gesture in progress and stores it as a stroke.
func (s *Session) PointerUp(Point) error {
	return s.finish("up")
}

// PointerLeave ends the gesture the same way PointerUp does.
func (s *Session) PointerLeave(Point) error {
	return s.finish("leave")
}

func (s *Session) finish(how string) error {
	if s.closed {
		return errSessionClosed
	}
	if !s.acc.Drawing() {
		return nil
	}
	st, ok := s.acc.Up(s.Instrument())
	if ok {
		s.store.Append(st)
		Logger().Debug("paint: stroke finished",
			"session", s.id,
			"stroke", st.ID,
			"points", len(st.Points),
			"instrument", st.Instrument,
			"via", how,
		)
	}
	return s.redraw()
}

// Plan schedules the stored strokes with the current surface height and
// volume.
func (s *Session) Plan() Plan {
	return Schedule(s.store.Strokes(), s.surface.Height, s.volume)
}

// Play schedules every stored stroke and starts playback. The volume is read
// once here. Play while already playing starts another, overlapping pass.
//
// If the audio output cannot be opened the error wraps ErrDeviceUnavailable
// and the session is left as it was.
func (s *Session) Play() error {
	if s.closed {
		return errSessionClosed
	}
	plan := s.Plan()
	if err := s.player.Play(plan); err != nil {
		Logger().Warn("paint: play failed", "session", s.id, "err", err)
		return err
	}
	Logger().Info("paint: play",
		"session", s.id,
		"strokes", len(plan.Voices),
		"duration", plan.Duration(),
	)
	return nil
}

// Stop silences playback and releases the output.
func (s *Session) Stop() error {
	if s.closed {
		return errSessionClosed
	}
	return s.stop()
}

func (s *Session) stop() error {
	was := s.player.Playing()
	if err := s.player.Stop(); err != nil {
		return err
	}
	if was {
		Logger().Info("paint: stop", "session", s.id)
	}
	return nil
}

// TogglePlay stops when playing and plays otherwise.
func (s *Session) TogglePlay() error {
	if s.Playing() {
		return s.Stop()
	}
	return s.Play()
}

// Clear stops playback, drops every stroke and empties the gesture buffer.
// A gesture still held down keeps collecting from the next move on.
func (s *Session) Clear() error {
	if s.closed {
		return errSessionClosed
	}
	stopErr := s.stop()
	n := s.store.Len()
	s.store.Clear()
	s.acc.Truncate()
	Logger().Info("paint: clear", "session", s.id, "strokes", n)
	if err := s.redraw(); err != nil {
		return err
	}
	return stopErr
}

// Close stops playback and releases the output. Later calls return an
// error; Close itself may be called more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	err := s.stop()
	s.closed = true
	s.acc.Reset()
	Logger().Info("paint: session closed", "session", s.id)
	return err
}

// Status is a snapshot of the session for status lines and the console.
type Status struct {
	Strokes    int
	Points     int
	Pending    int
	Instrument string
	Color      Color
	Volume     float64
	Drawing    bool
	Playing    bool
	Duration   time.Duration
}

func (st Status) String() string {
	state := "stopped"
	if st.Playing {
		state = "playing"
	}
	return fmt.Sprintf("%d strokes (%d points), %s, volume %.1f, %s, %s",
		st.Strokes, st.Points, st.Instrument, st.Volume, state, st.Duration)
}

func (s *Session) Status() Status {
	return Status{
		Strokes:    s.store.Len(),
		Points:     s.store.Points(),
		Pending:    len(s.acc.Pending()),
		Instrument: s.Instrument().Name,
		Color:      s.Instrument().Color,
		Volume:     s.volume,
		Drawing:    s.acc.Drawing(),
		Playing:    s.player.Playing(),
		Duration:   time.Duration(s.store.Points()) * StepDuration,
	}
}

func (s *Session) redraw() error {
	if s.renderer == nil {
		return nil
	}
	if err := s.renderer.Render(s.store.Strokes(), s.acc.Pending(), s.Instrument().Color); err != nil {
		return fmt.Errorf("redraw: %w", err)
	}
	return nil
}
