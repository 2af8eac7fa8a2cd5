package prompt

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

const cjkPrefix = "CJK UNIFIED IDEOGRAPH-"

var (
	namesOnce sync.Once
	runeNames map[string]rune
)

// lookupName resolves a \N{...} character name. Matching ignores case.
func lookupName(name string) (rune, bool) {
	name = strings.ToUpper(name)
	if hex, ok := strings.CutPrefix(name, cjkPrefix); ok {
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || !unicode.Is(unicode.Han, rune(n)) {
			return 0, false
		}
		return rune(n), true
	}

	namesOnce.Do(buildNames)
	r, ok := runeNames[name]
	return r, ok
}

// buildNames indexes every named rune. Range placeholders such as
// "<control>" have no usable name and are left out.
func buildNames() {
	runeNames = make(map[string]rune, 40000)
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		name := runenames.Name(r)
		if name == "" || strings.HasPrefix(name, "<") {
			continue
		}
		if _, dup := runeNames[name]; !dup {
			runeNames[name] = r
		}
	}
}
