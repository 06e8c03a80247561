package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/gogpu/gg"
	"github.com/gopxl/beep"
	"github.com/rakyll/portmidi"
	"github.com/whyrusleeping/soundpaint/paint"
)

const scopeSamples = 2048

func main() {
	configPath := flag.String("config", "", "Config file. Defaults to soundpaint/config.yml in the user config directory.")
	verbose := flag.Bool("v", false, "Log debug messages.")
	volume := flag.Float64("volume", 0, "Initial volume between 0 and 1.")
	instrument := flag.String("instrument", "", "Initial instrument name.")
	console := flag.Bool("console", false, "Read commands from the terminal.")
	midi := flag.Bool("midi", false, "Listen to a MIDI controller.")
	scope := flag.Bool("scope", true, "Show the output scope under the canvas.")
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "volume":
			cfg.Volume = *volume
		case "instrument":
			cfg.Instrument = *instrument
		case "console":
			cfg.Console = *console
		case "midi":
			cfg.MIDI.Enabled = *midi
		case "scope":
			cfg.Scope = *scope
		}
	})
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel()}))
	slog.SetDefault(logger)
	paint.SetLogger(logger)
	gg.SetLogger(logger)

	cmd := "paint"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}
	switch cmd {
	case "paint":
		err = runWindow(cfg)
	case "demo":
		err = runDemo(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] [paint|demo]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "paint  open the drawing window (default)")
	fmt.Fprintln(os.Stderr, "demo   play a generated drawing without a window")
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}

func runWindow(cfg *Config) error {
	sr := beep.SampleRate(cfg.Audio.SampleRate)

	var sc *scope
	var rec *Recorder
	if cfg.Scope {
		rec = NewRecorder(scopeSamples)
		sc = newScope(rec, scopeSamples)
	}
	opener := newSpeakerOpener(sr, cfg.Audio.Buffer, rec)
	defer opener.Close()

	a := newApp(cfg, opener, sc)
	rem := a.remote()

	if cfg.MIDI.Enabled {
		mc, err := startMidi(cfg.MIDI, rem.Post)
		if err != nil {
			slog.Warn("midi disabled", "err", err)
		} else {
			defer func() {
				mc.Shutdown()
				portmidi.Terminate()
			}()
		}
	}

	if cfg.Console {
		con := NewConsole(rem, paint.DefaultCatalog(), os.Stdout)
		go con.Run()
	}

	return a.run()
}

func startMidi(cfg MIDIConfig, post func(paint.Event)) (*MidiController, error) {
	if err := portmidi.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portmidi: %w", err)
	}
	id, err := findInputDevice(cfg.Device)
	if err != nil {
		portmidi.Terminate()
		return nil, err
	}
	mc, err := OpenController(id, post)
	if err != nil {
		portmidi.Terminate()
		return nil, fmt.Errorf("opening midi input: %w", err)
	}
	mc.configure(cfg)
	slog.Info("midi input open", "device", portmidi.Info(id).Name)
	return mc, nil
}

// demoStrokes feeds a session a rising diagonal, a sine wave and a falling
// line, one per instrument.
func demoStrokes(s *paint.Session) error {
	r := s.Surface()

	var rise, wave, fall []paint.Point
	for i := 0; i <= 16; i++ {
		f := float64(i) / 16
		rise = append(rise, paint.Point{X: r.Left + f*r.Width, Y: r.Top + (1-f)*r.Height})
		wave = append(wave, paint.Point{
			X: r.Left + f*r.Width,
			Y: r.Top + r.Height*(0.5+0.4*math.Sin(2*math.Pi*f)),
		})
		fall = append(fall, paint.Point{X: r.Left + (1-f)*r.Width, Y: r.Top + f*r.Height})
	}
	gestures := [][]paint.Point{rise, wave, fall}

	for i, g := range gestures {
		if err := s.SelectInstrumentIndex(i % len(s.Catalog())); err != nil {
			return err
		}
		if err := s.PointerDown(g[0]); err != nil {
			return err
		}
		for _, p := range g[1:] {
			if err := s.PointerMove(p); err != nil {
				return err
			}
		}
		if err := s.PointerUp(g[len(g)-1]); err != nil {
			return err
		}
	}
	return nil
}

// runDemo draws a few strokes on an offscreen canvas, plays them through the
// speaker and waits for the pass to finish.
func runDemo(cfg *Config) error {
	sr := beep.SampleRate(cfg.Audio.SampleRate)
	opener := newSpeakerOpener(sr, cfg.Audio.Buffer, nil)
	defer opener.Close()

	canvas := paint.NewCanvas(cfg.Window.Width, cfg.CanvasHeight)
	defer canvas.Close()

	s, err := paint.NewSession(paint.SessionConfig{
		Instrument: cfg.Instrument,
		Volume:     cfg.Volume,
		HasVolume:  true,
		Surface:    paint.Rect{Width: float64(cfg.Window.Width), Height: float64(cfg.CanvasHeight)},
		Canvas:     canvas,
		Opener:     opener,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := demoStrokes(s); err != nil {
		return err
	}

	plan := s.Plan()
	if err := s.Play(); err != nil {
		if errors.Is(err, paint.ErrDeviceUnavailable) {
			return fmt.Errorf("demo needs an audio output: %w", err)
		}
		return err
	}
	fmt.Println(s.Status())

	time.Sleep(plan.Duration() + cfg.Audio.Buffer*2)
	return s.Stop()
}
