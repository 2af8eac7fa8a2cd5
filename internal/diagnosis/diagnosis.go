// Package diagnosis turns a Python traceback into a short Turkish
// explanation a beginner can act on.
//
// A traceback is decomposed into a Diagnostic (exception kind, detail
// message, innermost source line) and then rendered as:
//
//	<hint for the exception kind>
//	Hata satırı: <line>              (when known)
//	Detay: <localized detail>        (when non-empty)
//	Orijinal mesaj: <Kind>: <detail> (always, for traceability)
package diagnosis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sakif/python-playground/internal/locale"
	"github.com/sakif/python-playground/internal/output"
)

var (
	exceptionLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?::\s*(.*))?$`)
	locationLine  = regexp.MustCompile(`File "<string>", line (\d+)`)

	undefinedName = regexp.MustCompile(`name '(.+?)' is not defined`)
	missingModule = regexp.MustCompile(`No module named '(.+?)'`)
	missingKey    = regexp.MustCompile(`^'(.+?)'`)
)

// Diagnostic is the structured form of a raw traceback.
type Diagnostic struct {
	Kind   string // exception class name, empty when none was found
	Detail string // text after "Kind:", may be empty
	Line   int    // innermost "<string>" frame line, 0 when unknown
}

// HasLine reports whether a source line was found.
func (d Diagnostic) HasLine() bool {
	return d.Line > 0
}

// Original is the "Kind: detail" line exactly as Python printed it.
func (d Diagnostic) Original() string {
	if d.Detail == "" {
		return d.Kind
	}
	return d.Kind + ": " + d.Detail
}

// Parse extracts a Diagnostic from stderr. The exception line is the last
// non-blank line shaped like "Name" or "Name: message"; the source line is
// the last "File "<string>", line N" marker, i.e. the innermost frame of the
// submitted code.
func Parse(stderr string) Diagnostic {
	var d Diagnostic

	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if m := exceptionLine.FindStringSubmatch(line); m != nil {
			d.Kind = m[1]
			d.Detail = strings.TrimSpace(m[2])
			break
		}
	}

	if matches := locationLine.FindAllStringSubmatch(stderr, -1); len(matches) > 0 {
		if n, err := strconv.Atoi(matches[len(matches)-1][1]); err == nil {
			d.Line = n
		}
	}

	return d
}

// Hint returns the one-line explanation for an exception kind.
func Hint(kind string) string {
	if h, ok := hints[kind]; ok {
		return h
	}
	return fmt.Sprintf("%s hatası oluştu.", kind)
}

// LocalizeDetail rewrites the exception detail in Turkish. Undefined names,
// missing modules and missing keys get a sentence naming the identifier;
// anything else goes through the phrase table.
func LocalizeDetail(kind, detail string) string {
	if detail == "" {
		return ""
	}

	switch kind {
	case "NameError":
		if m := undefinedName.FindStringSubmatch(detail); m != nil {
			return fmt.Sprintf("`%s` adı tanımlı değil.", m[1])
		}
	case "ModuleNotFoundError":
		if m := missingModule.FindStringSubmatch(detail); m != nil {
			return fmt.Sprintf("`%s` modülü bulunamadı.", m[1])
		}
	case "KeyError":
		if m := missingKey.FindStringSubmatch(detail); m != nil {
			return fmt.Sprintf("`%s` anahtarı sözlükte yok.", m[1])
		}
	}

	translated := detail
	for _, p := range phrases {
		translated = strings.ReplaceAll(translated, p.from, p.to)
	}
	return translated
}

// Explain renders stderr of a failed run as the student-facing message.
// When no exception line can be found the trimmed stderr itself is shown,
// or a generic message when stderr is empty. The result never exceeds the
// output budget.
func Explain(stderr string) string {
	trimmed := strings.TrimSpace(stderr)

	d := Parse(trimmed)
	if d.Kind == "" {
		if trimmed == "" {
			return locale.GenericFailure
		}
		return output.Cap(trimmed)
	}

	lines := []string{Hint(d.Kind)}
	if d.HasLine() {
		lines = append(lines, fmt.Sprintf("Hata satırı: %d", d.Line))
	}
	if detail := LocalizeDetail(d.Kind, d.Detail); detail != "" {
		lines = append(lines, "Detay: "+detail)
	}
	lines = append(lines, "Orijinal mesaj: "+d.Original())

	return output.Cap(strings.Join(lines, "\n"))
}
