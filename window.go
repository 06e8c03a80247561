package main

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"time"

	"github.com/gogpu/gg"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/whyrusleeping/soundpaint/paint"
)

const frameInterval = time.Second / 60

// request carries an event from another goroutine to the window loop. A nil
// event only asks for the status.
type request struct {
	ev    paint.Event
	reply chan<- reply
}

type reply struct {
	status paint.Status
	err    error
}

// remote lets other goroutines drive the session through the window loop.
type remote struct {
	reqs chan<- request
	done <-chan struct{}
}

// Send dispatches ev on the window loop and waits for the result.
func (r remote) Send(ev paint.Event) (paint.Status, error) {
	ch := make(chan reply, 1)
	select {
	case r.reqs <- request{ev: ev, reply: ch}:
	case <-r.done:
		return paint.Status{}, errWindowClosed
	}
	select {
	case rep := <-ch:
		return rep.status, rep.err
	case <-r.done:
		return paint.Status{}, errWindowClosed
	}
}

// Post dispatches ev without waiting.
func (r remote) Post(ev paint.Event) {
	select {
	case r.reqs <- request{ev: ev}:
	case <-r.done:
	}
}

var errWindowClosed = errors.New("window closed")

type app struct {
	cfg     *Config
	opener  *speakerOpener
	scope   *scope
	session *paint.Session

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	canvas   *gg.Context
	layout   layout

	reqs chan request
	done chan struct{}

	buttonDown bool
	dirty      bool
	running    bool
}

func newApp(cfg *Config, opener *speakerOpener, sc *scope) *app {
	return &app{
		cfg:    cfg,
		opener: opener,
		scope:  sc,
		reqs:   make(chan request, 64),
		done:   make(chan struct{}),
	}
}

func (a *app) remote() remote {
	return remote{reqs: a.reqs, done: a.done}
}

func (a *app) scopeHeight() int32 {
	if a.scope == nil {
		return 0
	}
	return int32(a.cfg.Window.Height - toolbarHeight - a.cfg.CanvasHeight)
}

func (a *app) init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL: %w", err)
	}

	w, h := int32(a.cfg.Window.Width), int32(a.cfg.Window.Height)
	window, err := sdl.CreateWindow("soundpaint", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	a.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer = renderer

	a.layout = computeLayout(w, h, a.scopeHeight(), len(paint.DefaultCatalog()))
	if err := a.resizeCanvas(); err != nil {
		return err
	}

	a.session, err = paint.NewSession(paint.SessionConfig{
		Instrument: a.cfg.Instrument,
		Volume:     a.cfg.Volume,
		HasVolume:  true,
		Surface:    a.layout.surface(),
		Canvas:     a.canvas,
		Opener:     a.opener,
	})
	if err != nil {
		return err
	}
	a.dirty = true
	return nil
}

// resizeCanvas makes the gg canvas and the streaming texture match the
// canvas rectangle of the current layout.
func (a *app) resizeCanvas() error {
	cw, ch := int(a.layout.canvas.W), int(a.layout.canvas.H)
	if a.canvas == nil {
		a.canvas = paint.NewCanvas(cw, ch)
	}
	// the session resizes the canvas itself; only the texture is ours
	if a.texture != nil {
		a.texture.Destroy()
	}
	tex, err := a.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(cw), int32(ch))
	if err != nil {
		return fmt.Errorf("failed to create canvas texture: %w", err)
	}
	tex.SetBlendMode(sdl.BLENDMODE_BLEND)
	a.texture = tex
	return nil
}

func (a *app) close() {
	close(a.done)
	if a.session != nil {
		if err := a.session.Close(); err != nil {
			slog.Warn("closing session", "err", err)
		}
	}
	if a.canvas != nil {
		a.canvas.Close()
	}
	if a.texture != nil {
		a.texture.Destroy()
	}
	if a.renderer != nil {
		a.renderer.Destroy()
	}
	if a.window != nil {
		a.window.Destroy()
	}
	sdl.Quit()
}

func (a *app) dispatch(ev paint.Event) error {
	if ev == nil {
		return nil
	}
	err := a.session.Dispatch(ev)
	a.dirty = true
	if errors.Is(err, paint.ErrDeviceUnavailable) {
		slog.Warn("no audio output", "err", err)
	} else if err != nil {
		slog.Error("event failed", "err", err)
	}
	return err
}

// run is the event loop. It owns the session: every change to it happens
// here, including the ones requested over the remote.
func (a *app) run() error {
	if err := a.init(); err != nil {
		a.close()
		return err
	}
	defer a.close()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.running = true
	for a.running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			a.handle(event)
		}

	drain:
		for {
			select {
			case req := <-a.reqs:
				err := a.dispatch(req.ev)
				if req.reply != nil {
					req.reply <- reply{status: a.session.Status(), err: err}
				}
			default:
				break drain
			}
		}

		if err := a.present(); err != nil {
			return err
		}
		<-ticker.C
	}
	return nil
}

func pointAt(x, y int32) paint.Point {
	return paint.Point{X: float64(x), Y: float64(y)}
}

func (a *app) handle(event sdl.Event) {
	switch event := event.(type) {
	case *sdl.QuitEvent:
		a.running = false

	case *sdl.WindowEvent:
		switch event.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			a.layout = computeLayout(event.Data1, event.Data2, a.scopeHeight(), len(a.session.Catalog()))
			if err := a.resizeCanvas(); err != nil {
				slog.Error("resize", "err", err)
				return
			}
			a.dispatch(paint.Resize{Surface: a.layout.surface()})
		case sdl.WINDOWEVENT_LEAVE:
			a.buttonDown = false
			a.dispatch(paint.PointerLeave{})
		}

	case *sdl.MouseButtonEvent:
		if event.Button != sdl.BUTTON_LEFT {
			return
		}
		pos := pointAt(event.X, event.Y)
		if event.Type == sdl.MOUSEBUTTONDOWN {
			if ev, ok := a.layout.hit(event.X, event.Y); ok {
				a.dispatch(ev)
				return
			}
			if a.layout.surface().Contains(pos) {
				a.buttonDown = true
				a.dispatch(paint.PointerDown{Pos: pos})
			}
			return
		}
		if a.buttonDown {
			a.buttonDown = false
			a.dispatch(paint.PointerUp{Pos: pos})
		}

	case *sdl.MouseMotionEvent:
		if !a.buttonDown {
			return
		}
		pos := pointAt(event.X, event.Y)
		if !a.layout.surface().Contains(pos) {
			a.buttonDown = false
			a.dispatch(paint.PointerLeave{Pos: pos})
			return
		}
		a.dispatch(paint.PointerMove{Pos: pos})

	case *sdl.KeyboardEvent:
		if event.Type != sdl.KEYDOWN || event.Repeat != 0 {
			return
		}
		a.dispatch(a.keyEvent(event.Keysym.Sym))
	}
}

func (a *app) keyEvent(sym sdl.Keycode) paint.Event {
	switch sym {
	case sdl.K_1, sdl.K_2, sdl.K_3, sdl.K_4, sdl.K_5:
		return paint.SelectInstrumentIndex{Index: int(sym - sdl.K_1)}
	case sdl.K_SPACE:
		return paint.TogglePlay{}
	case sdl.K_c:
		return paint.Clear{}
	case sdl.K_UP:
		return paint.AdjustVolume{Delta: volumeStep}
	case sdl.K_DOWN:
		return paint.AdjustVolume{Delta: -volumeStep}
	case sdl.K_q, sdl.K_ESCAPE:
		a.running = false
	}
	return nil
}

// present uploads the canvas if it changed and draws a frame.
func (a *app) present() error {
	if a.dirty {
		if err := a.upload(); err != nil {
			return err
		}
		a.window.SetTitle("soundpaint: " + a.session.Status().String())
		a.dirty = false
	}

	a.renderer.SetDrawColor(18, 18, 28, 255)
	a.renderer.Clear()

	drawChrome(a.renderer, a.layout, a.session.Catalog(), a.session.Status())
	a.renderer.Copy(a.texture, nil, &a.layout.canvas)

	if a.scope != nil {
		a.scope.update()
		a.scope.draw(a.renderer, a.layout.scope)
	}

	a.renderer.Present()
	return nil
}

func (a *app) upload() error {
	src := toRGBA(a.canvas.Image())

	pix, pitch, err := a.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("locking canvas texture: %w", err)
	}
	defer a.texture.Unlock()

	rowBytes := min(src.Stride, pitch)
	rows := min(src.Rect.Dy(), len(pix)/max(pitch, 1))
	for y := 0; y < rows; y++ {
		copy(pix[y*pitch:y*pitch+rowBytes], src.Pix[y*src.Stride:y*src.Stride+rowBytes])
	}
	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}
