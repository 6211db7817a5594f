package diag

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Sink receives diagnostics. source is the full text the span points into
// and may be nil.
type Sink interface {
	Report(d Diagnostic, source []byte)
}

// Discard drops every report.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Diagnostic, []byte) {}

var severityColors = [...]lipgloss.Color{
	Verbose: lipgloss.Color("4"),
	Comment: lipgloss.Color("2"),
	Caution: lipgloss.Color("3"),
	Failure: lipgloss.Color("1"),
}

// Reporter renders diagnostics to a writer. It is safe for concurrent use.
type Reporter struct {
	mu     sync.Mutex
	w      io.Writer
	styles map[Severity]lipgloss.Style
	counts [len(severityNames)]int
}

// ColorMode selects whether spans are highlighted.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode accepts "auto", "always" and "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("diag: unknown color mode %q", s)
}

// NewReporter renders to w. In auto mode the terminal behind w decides
// whether escape sequences are emitted.
func NewReporter(w io.Writer, mode ColorMode) *Reporter {
	r := &Reporter{w: w}
	if mode != ColorNever {
		renderer := lipgloss.NewRenderer(w)
		if mode == ColorAlways {
			renderer.SetColorProfile(termenv.ANSI)
		}
		r.styles = make(map[Severity]lipgloss.Style, len(severityColors))
		for severity, c := range severityColors {
			r.styles[Severity(severity)] = renderer.NewStyle().Bold(true).Foreground(c)
		}
	}
	return r
}

func (r *Reporter) Report(d Diagnostic, source []byte) {
	var buf bytes.Buffer
	r.render(&buf, d, source)

	r.mu.Lock()
	defer r.mu.Unlock()
	if int(d.Severity) < len(r.counts) {
		r.counts[d.Severity]++
	}
	r.w.Write(buf.Bytes())
}

// Count returns how many reports of the given severity were written.
func (r *Reporter) Count(s Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(s) >= len(r.counts) {
		return 0
	}
	return r.counts[s]
}

func (r *Reporter) paint(s Severity, text []byte) string {
	style, ok := r.styles[s]
	if !ok {
		return string(text)
	}
	return style.Render(string(text))
}

// render writes the header and, for a non-empty span, the covering source
// lines with a row gutter and the span highlighted.
func (r *Reporter) render(w *bytes.Buffer, d Diagnostic, source []byte) {
	w.WriteString(d.Header())
	w.WriteByte('\n')

	if d.Empty() || d.Ending > len(source) || d.Beginning < 0 {
		return
	}

	lineStart := bytes.LastIndexByte(source[:d.Beginning], '\n') + 1
	row := d.Row

	fmt.Fprintf(w, "\t%d | ", row)
	w.Write(source[lineStart:d.Beginning])

	// each newline inside the span opens a new gutter line
	span := source[d.Beginning:d.Ending]
	for {
		i := bytes.IndexByte(span, '\n')
		if i < 0 {
			w.WriteString(r.paint(d.Severity, span))
			break
		}
		w.WriteString(r.paint(d.Severity, span[:i]))
		row++
		fmt.Fprintf(w, "\n\t%d | ", row)
		span = span[i+1:]
	}

	rest := source[d.Ending:]
	if i := bytes.IndexAny(rest, "\n\x00\x03"); i >= 0 {
		rest = rest[:i]
	}
	w.Write(rest)
	w.WriteString("\n\n")
}

// Collector keeps every report in memory.
type Collector struct {
	mu          sync.Mutex
	Diagnostics []Diagnostic
}

func (c *Collector) Report(d Diagnostic, _ []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Diagnostics = append(c.Diagnostics, d)
}

// Failures returns the collected failure-severity diagnostics.
func (c *Collector) Failures() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Severity == Failure {
			out = append(out, d)
		}
	}
	return out
}

// Tee forwards each report to every sink in order.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

type tee []Sink

func (t tee) Report(d Diagnostic, source []byte) {
	for _, s := range t {
		s.Report(d, source)
	}
}
