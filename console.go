package main

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/c-bata/go-prompt"
	"github.com/whyrusleeping/soundpaint/paint"
)

// sender delivers an event to the session and returns the resulting status.
// A nil event only fetches the status.
type sender interface {
	Send(ev paint.Event) (paint.Status, error)
}

// Console is a tiny command language for driving a session from a terminal:
//
//	play
//	volume(0.3)
//	select("Star Chimes")
//	v = 0.5
//	volume(v)
type Console struct {
	s       sender
	out     io.Writer
	catalog paint.Catalog

	vals  map[string]any
	help  map[string]string
	names []string
}

func NewConsole(s sender, cat paint.Catalog, out io.Writer) *Console {
	c := &Console{
		s:       s,
		out:     out,
		catalog: cat,
		vals:    make(map[string]any),
		help:    make(map[string]string),
	}

	send := func(ev paint.Event) error {
		st, err := c.s.Send(ev)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, st)
		return nil
	}

	c.Register("play", "start playback", MakeFunc(func() error {
		return send(paint.Play{})
	}))
	c.Register("stop", "stop playback and release the output", MakeFunc(func() error {
		return send(paint.Stop{})
	}))
	c.Register("toggle", "play or stop", MakeFunc(func() error {
		return send(paint.TogglePlay{})
	}))
	c.Register("clear", "stop and erase every stroke", MakeFunc(func() error {
		return send(paint.Clear{})
	}))
	c.Register("volume", "volume(x) sets the volume, 0 to 1", MakeFunc(func(v float64) error {
		return send(paint.SetVolume{Volume: v})
	}))
	c.Register("instrument", "instrument(i) selects instrument i, starting at 1", MakeFunc(func(i int) error {
		return send(paint.SelectInstrumentIndex{Index: i - 1})
	}))
	c.Register("select", `select("name") selects an instrument by name`, MakeFunc(func(name string) error {
		return send(paint.SelectInstrument{Name: name})
	}))
	c.Register("instruments", "list instruments", MakeFunc(func() {
		for i, inst := range c.catalog {
			fmt.Fprintf(c.out, "%d  %-14s %s\n", i+1, inst.Name, inst.Color)
		}
	}))
	c.Register("status", "show the session state", MakeFunc(func() error {
		return send(nil)
	}))
	c.Register("print", "print(x) prints a value", MakeFunc(func(v any) {
		fmt.Fprintln(c.out, v)
	}))
	c.Register("help", "list commands", MakeFunc(func() {
		for _, n := range c.names {
			fmt.Fprintf(c.out, "%-12s %s\n", n, c.help[n])
		}
	}))

	return c
}

// Register binds a function under name.
func (c *Console) Register(name, help string, f *Function) {
	c.Set(name, f)
	c.help[name] = help
	c.names = append(c.names, name)
	sort.Strings(c.names)
}

func (c *Console) Set(k string, v any) {
	c.vals[k] = v
}

func (c *Console) Lookup(k string) (any, bool) {
	v, ok := c.vals[k]
	return v, ok
}

// Suggest completes the word before the cursor with command names.
func (c *Console) Suggest(d prompt.Document) []prompt.Suggest {
	var s []prompt.Suggest
	for _, n := range c.names {
		s = append(s, prompt.Suggest{Text: n, Description: c.help[n]})
	}
	return prompt.FilterHasPrefix(s, d.GetWordBeforeCursor(), true)
}

// Run reads commands until exit, quit or end of input.
func (c *Console) Run() {
	for {
		line := strings.TrimSpace(prompt.Input("> ", c.Suggest))
		if line == "exit" || line == "quit" {
			return
		}
		if err := c.ProcessCmd(line); err != nil {
			if errors.Is(err, errWindowClosed) {
				return
			}
			fmt.Fprintln(c.out, "ERROR:", err)
		}
	}
}

type Function struct {
	fn reflect.Value
}

func MakeFunc(fn any) *Function {
	return &Function{
		fn: reflect.ValueOf(fn),
	}
}

func (f *Function) Call(args []any) (any, error) {
	return callFunc(f.fn, args)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func callFunc(rfv reflect.Value, args []any) (any, error) {
	t := rfv.Type()
	nargs := t.NumIn()
	if len(args) != nargs {
		return nil, fmt.Errorf("expected %d arguments, got %d", nargs, len(args))
	}
	var inargs []reflect.Value
	for i := 0; i < nargs; i++ {
		in := t.In(i)

		inval, err := argToType(args[i], in)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}

		if inval == nil {
			inargs = append(inargs, reflect.Zero(in))
		} else {
			inargs = append(inargs, reflect.ValueOf(inval))
		}
	}

	out := rfv.Call(inargs)

	var res any
	for _, o := range out {
		if o.Type() == errorType {
			if !o.IsNil() {
				return nil, o.Interface().(error)
			}
			continue
		}
		res = o.Interface()
	}
	return res, nil
}

func argToType(arg any, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Int:
		switch arg := arg.(type) {
		case int:
			return arg, nil
		case float64:
			if arg != float64(int(arg)) {
				return nil, fmt.Errorf("%v is not an integer", arg)
			}
			return int(arg), nil
		default:
			return nil, fmt.Errorf("unsupported int arg type: %T", arg)
		}
	case reflect.Float64:
		switch arg := arg.(type) {
		case float64:
			return arg, nil
		case int:
			return float64(arg), nil
		default:
			return nil, fmt.Errorf("unsupported float64 arg type: %T", arg)
		}
	case reflect.String:
		sval, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("unsupported string arg type: %T", arg)
		}
		return sval, nil
	case reflect.Interface:
		return arg, nil
	default:
		return nil, fmt.Errorf("requested type unknown: %s", t)
	}
}

func (c *Console) ProcessCmd(cmdl string) error {
	tokens, err := tokenize(cmdl)
	if err != nil {
		return err
	}

	return c.processCmd(tokens)
}

func (c *Console) processCmd(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	if len(tokens) == 1 {
		val, ok := c.Lookup(tokens[0])
		if !ok {
			return fmt.Errorf("unknown reference %q", tokens[0])
		}
		if f, ok := val.(*Function); ok && f.fn.Type().NumIn() == 0 {
			// bare command name, as in "play"
			_, err := f.Call(nil)
			return err
		}
		fmt.Fprintln(c.out, val)
		return nil
	}

	if len(tokens) > 2 && tokens[1] == "=" {
		val, err := c.ResolveStatement(tokens[2:])
		if err != nil {
			return err
		}

		c.Set(tokens[0], val)
		return nil
	}

	if _, ok := c.Lookup(tokens[0]); ok {
		_, err := c.ResolveStatement(tokens)
		return err
	}

	return fmt.Errorf("unknown command %q", tokens[0])
}

func (c *Console) ResolveStatement(tokens []string) (any, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("cannot parse empty statement")
	}

	if len(tokens) == 1 {
		// a literal or a variable
		tok := tokens[0]
		if strings.HasPrefix(tok, `"`) {
			return strconv.Unquote(tok)
		}
		if ival, err := strconv.Atoi(tok); err == nil {
			return ival, nil
		}
		if fval, err := strconv.ParseFloat(tok, 64); err == nil {
			return fval, nil
		}

		vbl, ok := c.Lookup(tok)
		if !ok {
			return nil, fmt.Errorf("unknown reference: %q", tok)
		}

		return vbl, nil
	}

	if tokens[0] == "-" && len(tokens) == 2 {
		v, err := c.ResolveStatement(tokens[1:])
		if err != nil {
			return nil, err
		}
		switch v := v.(type) {
		case int:
			return -v, nil
		case float64:
			return -v, nil
		}
		return nil, fmt.Errorf("cannot negate %T", v)
	}

	v, ok := c.Lookup(tokens[0])
	if !ok {
		return nil, fmt.Errorf("invalid statement (unknown symbol %q)", tokens[0])
	}
	f, ok := v.(*Function)
	if !ok {
		return nil, fmt.Errorf("%q is not callable", tokens[0])
	}
	if tokens[1] != "(" {
		return nil, fmt.Errorf("call %q missing open paren", tokens[0])
	}

	args, end, err := scanTuple("(", ")", tokens[1:])
	if err != nil {
		return nil, fmt.Errorf("collecting args for function call: %w", err)
	}
	if end+2 != len(tokens) {
		return nil, fmt.Errorf("unexpected %q after call to %q", tokens[end+2], tokens[0])
	}

	var params []any
	for i, argset := range args {
		v, err := c.ResolveStatement(argset)
		if err != nil {
			return nil, fmt.Errorf("parsing arg %d: %w", i, err)
		}
		params = append(params, v)
	}

	return f.Call(params)
}

// scans tokens of the form ( a(b), 123, f(d(4)))
// returns [][]string{ ["a", "(", "b", ")"], ["123"], [ "f", "(", "d", "(", "4", ")", ")" ] }
func scanTuple(beg, end string, tokens []string) ([][]string, int, error) {
	if len(tokens) == 0 || tokens[0] != beg {
		return nil, 0, fmt.Errorf("expected %q at beginning of sequence", beg)
	}

	var out [][]string

	var cur int = 1
	var term []string
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == "(" {
			term = append(term, ")")
			continue
		}
		if tokens[i] == "[" {
			term = append(term, "]")
			continue
		}

		if len(term) > 0 {
			if tokens[i] == term[len(term)-1] {
				term = term[:len(term)-1]
			}
			continue
		}

		if tokens[i] == "," {
			if i-cur == 0 {
				return nil, 0, fmt.Errorf("empty argument at index %d", len(out))
			}

			out = append(out, tokens[cur:i])
			cur = i + 1
		}

		if tokens[i] == end {
			if i > cur {
				out = append(out, tokens[cur:i])
			}
			return out, i, nil
		}
	}

	return nil, 0, fmt.Errorf("missing close sigil")
}

func tokenize(s string) ([]string, error) {
	var out []string
	var wordstart int
	inword := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch {
		case unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_':
			if !inword {
				inword = true
				wordstart = i
			}
		case runes[i] == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) &&
			(!inword || isNumber(runes[wordstart:i])):
			// decimal point
			if !inword {
				inword = true
				wordstart = i
			}
		case runes[i] == '"':
			if inword {
				out = append(out, string(runes[wordstart:i]))
				inword = false
			}
			j := i + 1
			for ; j < len(runes) && runes[j] != '"'; j++ {
				if runes[j] == '\\' {
					j++
				}
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated string at index %d", i)
			}
			out = append(out, string(runes[i:j+1]))
			i = j
		case unicode.IsSpace(runes[i]):
			if inword {
				out = append(out, string(runes[wordstart:i]))
				inword = false
			}
		case runes[i] == '=',
			runes[i] == ',',
			runes[i] == '-',
			runes[i] == '(',
			runes[i] == ')',
			runes[i] == '[',
			runes[i] == ']':
			if inword {
				out = append(out, string(runes[wordstart:i]))
				inword = false
			}
			out = append(out, string(runes[i]))
		default:
			return nil, fmt.Errorf("invalid character at index %d: %q", i, runes[i])
		}
	}
	if inword {
		out = append(out, string(runes[wordstart:]))
	}

	return out, nil
}

func isNumber(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
