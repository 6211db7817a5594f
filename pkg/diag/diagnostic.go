// Package diag formats severity-tagged messages anchored to a byte range of a
// source file.
package diag

import (
	"fmt"
	"strings"
)

type Severity uint8

const (
	Verbose Severity = iota
	Comment
	Caution
	Failure
)

var severityNames = [...]string{
	Verbose: "VERBOSE",
	Comment: "COMMENT",
	Caution: "CAUTION",
	Failure: "FAILURE",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("SEVERITY(%d)", uint8(s))
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if strings.EqualFold(name, string(text)) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("diag: unknown severity %q", text)
}

// Kind classifies what produced a failure.
type Kind uint8

const (
	KindNone Kind = iota
	KindDecode
	KindLexical
	KindSyntactic
	KindInternal
)

var kindNames = [...]string{
	KindNone:      "",
	KindDecode:    "decode",
	KindLexical:   "lexical",
	KindSyntactic: "syntactic",
	KindInternal:  "internal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("diag: unknown kind %q", text)
}

// Diagnostic is a single report. Failures double as the error value returned
// by the parser.
type Diagnostic struct {
	Severity  Severity `json:"severity"`
	Kind      Kind     `json:"kind,omitempty"`
	Path      string   `json:"path"`
	Beginning int      `json:"beginning"`
	Ending    int      `json:"ending"`
	Row       int      `json:"row"`
	Column    int      `json:"column"`
	Message   string   `json:"message"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s(%d|%d:%d): %s", d.Path, d.Beginning, d.Row, d.Column, d.Message)
}

// Header renders the first line of a report.
func (d Diagnostic) Header() string {
	return fmt.Sprintf("[%s] %s", d.Severity, d.Error())
}

// Empty reports whether the diagnostic spans no source bytes.
func (d Diagnostic) Empty() bool {
	return d.Beginning >= d.Ending
}
