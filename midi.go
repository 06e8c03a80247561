package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rakyll/portmidi"
	"github.com/whyrusleeping/soundpaint/paint"
)

const (
	midiNoteOn        = 0x90
	midiNoteOff       = 0x80
	midiControlChange = 0xb0

	midiPollInterval = 10 * time.Millisecond
)

// MidiController turns a MIDI input into session events: a knob sets the
// volume, two buttons toggle playback and clear, notes pick instruments.
type MidiController struct {
	stream *portmidi.Stream
	post   func(paint.Event)

	knobsSeen map[int64]*knobInfo
	knobBinds map[int64]*knobBind
	noteBinds map[int64]paint.Event

	done chan struct{}
}

type knobBind struct {
	mapf   func(int64) paint.Event
	button func() paint.Event
}

func (kb *knobBind) Update(val int64) paint.Event {
	return kb.mapf(val)
}

type knobInfo struct {
	lastVal int64
}

// findInputDevice returns the first input whose name starts with prefix, or
// the default input if prefix is empty.
func findInputDevice(prefix string) (portmidi.DeviceID, error) {
	if prefix == "" {
		id := portmidi.DefaultInputDeviceID()
		if id < 0 {
			return id, fmt.Errorf("no default midi input")
		}
		return id, nil
	}
	for i := 0; i < portmidi.CountDevices(); i++ {
		id := portmidi.DeviceID(i)
		info := portmidi.Info(id)
		if info != nil && info.IsInputAvailable && strings.HasPrefix(info.Name, prefix) {
			return id, nil
		}
	}
	return -1, fmt.Errorf("no midi input matching %q", prefix)
}

func OpenController(id portmidi.DeviceID, post func(paint.Event)) (*MidiController, error) {
	in, err := portmidi.NewInputStream(id, 1024)
	if err != nil {
		return nil, err
	}

	mc := newMidiController(post)
	mc.stream = in

	go mc.run()

	return mc, nil
}

func newMidiController(post func(paint.Event)) *MidiController {
	return &MidiController{
		post:      post,
		knobsSeen: make(map[int64]*knobInfo),
		knobBinds: make(map[int64]*knobBind),
		noteBinds: make(map[int64]paint.Event),
		done:      make(chan struct{}),
	}
}

// configure binds the controls named in cfg.
func (mc *MidiController) configure(cfg MIDIConfig) {
	mc.BindKnob(cfg.VolumeKnob, func(v int64) paint.Event {
		return paint.SetVolume{Volume: float64(v) / 127}
	})
	mc.BindButton(cfg.PlayCC, paint.TogglePlay{})
	mc.BindButton(cfg.ClearCC, paint.Clear{})
	for note, name := range cfg.Notes {
		mc.BindNote(note, paint.SelectInstrument{Name: name})
	}
}

func (mc *MidiController) Shutdown() {
	close(mc.done)
	if mc.stream != nil {
		mc.stream.Close()
	}
}

func (mc *MidiController) run() {
	for {
		select {
		case <-mc.done:
			return
		default:
		}

		events, err := mc.stream.Read(1024)
		if err != nil {
			slog.Error("reading midi input", "err", err)
			return
		}
		if len(events) == 0 {
			time.Sleep(midiPollInterval)
			continue
		}

		for _, event := range events {
			if ev := mc.handle(event); ev != nil {
				mc.post(ev)
			}
		}
	}
}

// handle maps one MIDI message to a session event, or nil.
func (mc *MidiController) handle(event portmidi.Event) paint.Event {
	switch event.Status & 0xf0 {
	case midiNoteOn:
		if event.Data2 == 0 {
			// note on with zero velocity is a note off
			return nil
		}
		return mc.noteBinds[event.Data1]
	case midiNoteOff:
		return nil
	case midiControlChange:
		ki, ok := mc.knobsSeen[event.Data1]
		if !ok {
			ki = &knobInfo{}
			mc.knobsSeen[event.Data1] = ki
		}
		prev := ki.lastVal
		ki.lastVal = event.Data2

		kb, ok := mc.knobBinds[event.Data1]
		if !ok {
			slog.Debug("unbound midi control", "cc", event.Data1, "value", event.Data2)
			return nil
		}
		if kb.mapf == nil {
			// buttons fire on press only
			if event.Data2 > 0 && prev == 0 {
				return kb.button()
			}
			return nil
		}
		return kb.Update(event.Data2)
	default:
		slog.Debug("midi event", "status", event.Status, "data1", event.Data1, "data2", event.Data2)
		return nil
	}
}

func (mc *MidiController) BindKnob(knobid int64, rangeMapFunc func(int64) paint.Event) {
	if rangeMapFunc == nil {
		slog.Warn("nil mapping passed to bind knob", "knob", knobid)
		return
	}
	mc.knobBinds[knobid] = &knobBind{mapf: rangeMapFunc}
}

// BindButton fires ev when control cc goes from 0 to a positive value.
func (mc *MidiController) BindButton(cc int64, ev paint.Event) {
	mc.knobBinds[cc] = &knobBind{button: func() paint.Event { return ev }}
}

func (mc *MidiController) BindNote(note int64, ev paint.Event) {
	mc.noteBinds[note] = ev
}
