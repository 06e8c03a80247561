package paint

import "fmt"

// Player commits plans to an output. The output is opened on the first Play
// and fully released by Stop, so the next Play starts from a fresh one.
type Player struct {
	opener Opener
	out    Output

	playing bool
	passes  int
}

func NewPlayer(o Opener) *Player {
	return &Player{opener: o}
}

// Playing reports whether a Play has happened since the last Stop.
func (p *Player) Playing() bool {
	return p.playing
}

// Passes returns how many plans have been committed to the current output.
func (p *Player) Passes() int {
	return p.passes
}

// Play schedules every voice of plan relative to the output clock and returns
// without waiting for the audio. Calling Play again while a pass is still
// sounding starts a second, overlapping pass.
//
// If no output can be opened the returned error wraps ErrDeviceUnavailable and
// the player stays stopped.
func (p *Player) Play(plan Plan) error {
	if p.out == nil {
		if p.opener == nil {
			return ErrDeviceUnavailable
		}
		out, err := p.opener.Open()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
		}
		if out == nil {
			return ErrDeviceUnavailable
		}
		p.out = out
		p.passes = 0
		Logger().Info("paint: output opened", "sampleRate", int(out.SampleRate()))
	}

	p.playing = true
	p.passes++

	sr := p.out.SampleRate()
	now := p.out.Now()
	voices := 0
	for _, v := range plan.Voices {
		if len(v.Events) == 0 {
			continue
		}
		p.out.Schedule(now+sr.N(v.Start), NewTone(v, sr))
		voices++
	}
	Logger().Debug("paint: plan committed",
		"voices", voices,
		"duration", plan.Duration(),
		"pass", p.passes,
	)
	return nil
}

// Stop silences everything and closes the output. It is a no-op when nothing
// is open.
func (p *Player) Stop() error {
	p.playing = false
	if p.out == nil {
		return nil
	}
	out := p.out
	p.out = nil
	p.passes = 0
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	Logger().Info("paint: output closed")
	return nil
}
