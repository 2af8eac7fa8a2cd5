package service

import (
	"strings"

	"github.com/sakif/python-playground/internal/prompt"
)

// Defaults for synthesized input.
const (
	DefaultInputLine       = "0"
	DefaultInputLinesCount = 40
)

// InputDefaults configures what is fed to programs that read input() when
// the student supplied none.
type InputDefaults struct {
	Line  string
	Count int
}

// SynthesizeInput decides the stdin of a run:
//   - non-empty stdin from the student is used verbatim
//   - otherwise, code that calls input() gets Count copies of Line, so a
//     program reading a few values finishes instead of blocking on EOF
//     until the deadline (the values are placeholders, not meaningful data)
//   - code that never reads input gets nothing
func SynthesizeInput(code, stdin string, defaults InputDefaults) string {
	if stdin != "" {
		return stdin
	}
	if !prompt.ReadsInput(code) {
		return ""
	}
	return strings.Repeat(defaults.Line+"\n", max(1, defaults.Count))
}
