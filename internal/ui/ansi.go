package ui

import (
	"fmt"
	"io"
	"os"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// ColorMode decides whether escapes are emitted.
type ColorMode int

const (
	ColorAuto ColorMode = iota // only when Out is a terminal
	ColorAlways
	ColorNever
)

// Printer writes themed CLI output.
type Printer struct {
	Out, Err io.Writer
	theme    Theme
	color    bool
}

// NewPrinter binds a theme to a pair of writers.
func NewPrinter(out, errw io.Writer, theme Theme, mode ColorMode) *Printer {
	color := false
	switch mode {
	case ColorAlways:
		color = true
	case ColorAuto:
		color = isTTY(out)
	}
	if theme.Mono {
		color = false
	}
	return &Printer{Out: out, Err: errw, theme: theme, color: color}
}

// Theme is the active theme.
func (p *Printer) Theme() Theme { return p.theme }

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when color output is on.
func (p *Printer) C(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + reset
}

func (p *Printer) OK(msg string)   { fmt.Fprintln(p.Out, p.C(fgGreen, symCheck+" "+msg)) }
func (p *Printer) Fail(msg string) { fmt.Fprintln(p.Err, p.C(fgRed, symCross+" "+msg)) }
func (p *Printer) Hint(msg string) { fmt.Fprintln(p.Err, p.C(fgGray, msg)) }
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.Out, a...)
}

// Dim renders s faint, for secondary text like indexes.
func (p *Printer) Dim(s string) string { return p.C(dim, s) }
