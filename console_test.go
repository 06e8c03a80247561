package main

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/whyrusleeping/soundpaint/paint"
)

type recordingSender struct {
	events []paint.Event
	err    error
}

func (r *recordingSender) Send(ev paint.Event) (paint.Status, error) {
	r.events = append(r.events, ev)
	return paint.Status{Instrument: "Synth Waves"}, r.err
}

func newTestConsole() (*Console, *recordingSender, *bytes.Buffer) {
	rs := &recordingSender{}
	out := new(bytes.Buffer)
	return NewConsole(rs, paint.DefaultCatalog(), out), rs, out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"play", []string{"play"}},
		{"volume(0.3)", []string{"volume", "(", "0.3", ")"}},
		{"volume( .5 )", []string{"volume", "(", ".5", ")"}},
		{`select("Star Chimes")`, []string{"select", "(", `"Star Chimes"`, ")"}},
		{"v = 12", []string{"v", "=", "12"}},
		{"volume(-1)", []string{"volume", "(", "-", "1", ")"}},
		{"print(a, b)", []string{"print", "(", "a", ",", "b", ")"}},
	}
	for _, tt := range tests {
		got, err := tokenize(tt.in)
		if err != nil {
			t.Fatalf("tokenize(%q): %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("tokenize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	for _, in := range []string{`select("open`, "play;", "a.b"} {
		if _, err := tokenize(in); err == nil {
			t.Errorf("tokenize(%q) should fail", in)
		}
	}
}

func TestScanTuple(t *testing.T) {
	toks, err := tokenize("(a(b), 123, f(d(4)))")
	if err != nil {
		t.Fatal(err)
	}
	args, end, err := scanTuple("(", ")", toks)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"a", "(", "b", ")"}, {"123"}, {"f", "(", "d", "(", "4", ")", ")"}}
	if !reflect.DeepEqual(args, want) || end != len(toks)-1 {
		t.Fatalf("args = %q end = %d", args, end)
	}
}

func TestConsoleCommands(t *testing.T) {
	c, rs, _ := newTestConsole()

	cmds := []string{
		"play",
		"volume(0.3)",
		"instrument(2)",
		`select("star chimes")`,
		"v = 1",
		"volume(v)",
		"volume(-1)",
		"clear()",
		"stop",
		"status",
	}
	for _, cmd := range cmds {
		if err := c.ProcessCmd(cmd); err != nil {
			t.Fatalf("%s: %v", cmd, err)
		}
	}

	want := []paint.Event{
		paint.Play{},
		paint.SetVolume{Volume: 0.3},
		paint.SelectInstrumentIndex{Index: 1},
		paint.SelectInstrument{Name: "star chimes"},
		paint.SetVolume{Volume: 1},
		paint.SetVolume{Volume: -1},
		paint.Clear{},
		paint.Stop{},
		nil,
	}
	if !reflect.DeepEqual(rs.events, want) {
		t.Fatalf("events = %#v\nwant %#v", rs.events, want)
	}
}

func TestConsoleErrors(t *testing.T) {
	c, rs, _ := newTestConsole()

	for _, cmd := range []string{
		"dance",
		"volume(1, 2)",
		`volume("loud")`,
		"instrument(1.5)",
		"volume(0.2) play",
		"v",
	} {
		if err := c.ProcessCmd(cmd); err == nil {
			t.Errorf("%s: expected error", cmd)
		}
	}
	if len(rs.events) != 0 {
		t.Fatalf("failed commands sent %d events", len(rs.events))
	}

	rs.err = paint.ErrDeviceUnavailable
	if err := c.ProcessCmd("play"); !errors.Is(err, paint.ErrDeviceUnavailable) {
		t.Fatalf("err = %v", err)
	}
}

func TestConsoleOutput(t *testing.T) {
	c, _, out := newTestConsole()
	if err := c.ProcessCmd("instruments"); err != nil {
		t.Fatal(err)
	}
	for _, inst := range paint.DefaultCatalog() {
		if !strings.Contains(out.String(), inst.Name) {
			t.Errorf("instrument list is missing %q", inst.Name)
		}
	}

	out.Reset()
	if err := c.ProcessCmd("help"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "volume(x)") {
		t.Fatalf("help output: %s", out.String())
	}

	out.Reset()
	c.ProcessCmd(`print("hi")`)
	if out.String() != "hi\n" {
		t.Fatalf("print output %q", out.String())
	}
}
