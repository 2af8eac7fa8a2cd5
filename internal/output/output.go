// Package output shapes the stdout captured from a run before it is shown
// to the student.
//
// NORMALISATION ORDER:
//  1. trim surrounding whitespace
//  2. either strip every literal input() prompt, or break "prompt+value"
//     onto separate lines (the two modes never combine)
//  3. trim again
//  4. cap at MaxChars and append the truncation marker
//
// The "(no output)" placeholder is NOT applied here: it depends on whether
// the run succeeded, which only the service knows.
package output

import (
	"strings"
	"unicode/utf8"

	"github.com/sakif/python-playground/internal/locale"
)

// MaxChars is the output budget in characters (code points, not bytes).
// The same budget applies to diagnostic messages.
const MaxChars = 12000

// Cap truncates text to MaxChars characters and appends the localized
// truncation marker when anything was cut. Text within budget is returned
// unchanged.
func Cap(text string) string {
	return capAt(text, MaxChars)
}

// capAt is Cap with an explicit budget.
func capAt(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	// Walk runes so multi-byte characters (ç, ş, ğ...) are never split.
	count := 0
	for i := range text {
		if count == limit {
			return text[:i] + locale.TruncationMarker
		}
		count++
	}
	return text
}

// Normalize applies the full pipeline described in the package doc.
// prompts are the literal input() prompts of the submitted code, in source
// order. When strip is true they are removed from the output; otherwise a
// newline is inserted after each one that is directly followed by text.
func Normalize(stdout string, prompts []string, strip bool) string {
	text := strings.TrimSpace(stdout)
	if strip {
		text = StripPrompts(text, prompts)
	} else {
		text = SplitInlinePrompts(text, prompts)
	}
	return Cap(strings.TrimSpace(text))
}

// StripPrompts removes every occurrence of every prompt, in prompt order.
func StripPrompts(text string, prompts []string) string {
	for _, p := range prompts {
		if p == "" {
			continue
		}
		text = strings.ReplaceAll(text, p, "")
	}
	return text
}

// SplitInlinePrompts finds each prompt in order, scanning forward from the
// end of the previous match, and inserts a newline after it unless the next
// character already ends the line. A prompt that is not found leaves the
// scan position where it was.
//
// Interactive programs print "Adın: " and the student's answer is never
// echoed, so captured output reads "Adın: Merhaba Ali". Splitting after the
// prompt gives "Adın: \nMerhaba Ali", which is how the terminal would look.
func SplitInlinePrompts(text string, prompts []string) string {
	if len(prompts) == 0 || text == "" {
		return text
	}

	from := 0
	for _, p := range prompts {
		if p == "" {
			continue
		}
		idx := strings.Index(text[from:], p)
		if idx == -1 {
			continue
		}
		after := from + idx + len(p)
		if after < len(text) && text[after] != '\n' && text[after] != '\r' {
			text = text[:after] + "\n" + text[after:]
			from = after + 1
		} else {
			from = after
		}
	}
	return text
}
