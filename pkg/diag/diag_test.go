package diag

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	d := Diagnostic{
		Severity:  Failure,
		Kind:      KindSyntactic,
		Path:      "main.lx",
		Beginning: 12,
		Ending:    13,
		Row:       2,
		Column:    5,
		Message:   "Extraneous `}`.",
	}
	assert.Equal(t, "[FAILURE] main.lx(12|2:5): Extraneous `}`.", d.Header())
	assert.Equal(t, "main.lx(12|2:5): Extraneous `}`.", d.Error())

	var err error = d
	var got Diagnostic
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &got))
	assert.Equal(t, KindSyntactic, got.Kind)
}

func TestReporterSingleLineSpan(t *testing.T) {
	src := []byte("a = 1;\nb = $;\nc\x03")
	var out bytes.Buffer
	r := NewReporter(&out, ColorNever)

	r.Report(Diagnostic{
		Severity:  Failure,
		Path:      "x",
		Beginning: 11,
		Ending:    12,
		Row:       2,
		Column:    5,
		Message:   "Unknown token.",
	}, src)

	assert.Equal(t, "[FAILURE] x(11|2:5): Unknown token.\n\t2 | b = $;\n\n", out.String())
	assert.Equal(t, 1, r.Count(Failure))
	assert.Zero(t, r.Count(Verbose))
}

func TestReporterMultiLineSpan(t *testing.T) {
	src := []byte("x = {\n  y\n} + 1\x03")
	var out bytes.Buffer
	r := NewReporter(&out, ColorNever)

	r.Report(Diagnostic{
		Severity:  Caution,
		Path:      "m",
		Beginning: 4,
		Ending:    11,
		Row:       1,
		Column:    5,
		Message:   "Spans lines.",
	}, src)

	want := "[CAUTION] m(4|1:5): Spans lines.\n" +
		"\t1 | x = {\n" +
		"\t2 |   y\n" +
		"\t3 | } + 1\n\n"
	assert.Equal(t, want, out.String())
}

func TestReporterEmptySpanHasNoGutter(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, ColorNever)
	r.Report(Diagnostic{Severity: Verbose, Path: "p", Beginning: 3, Ending: 3, Row: 1, Column: 4, Message: "`End`"}, []byte("abc\x03"))
	assert.Equal(t, "[VERBOSE] p(3|1:4): `End`\n", out.String())
}

func TestReporterAlwaysColors(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, ColorAlways)
	r.Report(Diagnostic{Severity: Failure, Path: "p", Beginning: 0, Ending: 3, Row: 1, Column: 1, Message: "m"}, []byte("bad\x03"))
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "bad")
}

func TestReporterConcurrentWrites(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, ColorNever)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Report(Diagnostic{Severity: Comment, Path: fmt.Sprintf("f%d", i), Row: 1, Column: 1, Message: "ok"}, nil)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 32)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[COMMENT] f"), line)
	}
	assert.Equal(t, 32, r.Count(Comment))
}

func TestCollectorAndTee(t *testing.T) {
	var c Collector
	var out bytes.Buffer
	sink := Tee(&c, NewReporter(&out, ColorNever), Discard)

	sink.Report(Diagnostic{Severity: Verbose, Message: "token"}, nil)
	sink.Report(Diagnostic{Severity: Failure, Kind: KindLexical, Message: "Unknown rune."}, nil)

	assert.Len(t, c.Diagnostics, 2)
	failures := c.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, KindLexical, failures[0].Kind)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}

func TestDiagnosticJSON(t *testing.T) {
	data, err := json.Marshal(Diagnostic{Severity: Failure, Kind: KindDecode, Path: "a", Row: 1, Column: 2, Message: "Unknown rune."})
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"failure","kind":"decode","path":"a","beginning":0,"ending":0,"row":1,"column":2,"message":"Unknown rune."}`, string(data))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("caution")))
	assert.Equal(t, Caution, s)
	assert.Error(t, s.UnmarshalText([]byte("loud")))

	var back Diagnostic
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, KindDecode, back.Kind)
	assert.Equal(t, Failure, back.Severity)
}

func TestParseColorMode(t *testing.T) {
	for in, want := range map[string]ColorMode{"": ColorAuto, "auto": ColorAuto, "always": ColorAlways, "never": ColorNever} {
		got, err := ParseColorMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseColorMode("sometimes")
	assert.Error(t, err)
}
