package diagnosis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/python-playground/internal/locale"
	"github.com/sakif/python-playground/internal/output"
)

const zeroDivisionTrace = `Traceback (most recent call last):
  File "<string>", line 3, in <module>
ZeroDivisionError: division by zero`

const nestedTrace = `Traceback (most recent call last):
  File "<string>", line 7, in <module>
  File "<string>", line 4, in bol
    return a / b
           ~~^~~
ZeroDivisionError: division by zero`

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   Diagnostic
	}{
		{
			name:   "kind detail and line",
			stderr: zeroDivisionTrace,
			want:   Diagnostic{Kind: "ZeroDivisionError", Detail: "division by zero", Line: 3},
		},
		{
			name:   "innermost frame wins",
			stderr: nestedTrace,
			want:   Diagnostic{Kind: "ZeroDivisionError", Detail: "division by zero", Line: 4},
		},
		{
			name:   "bare exception name",
			stderr: "Traceback (most recent call last):\n  File \"<string>\", line 1, in <module>\nKeyboardInterrupt",
			want:   Diagnostic{Kind: "KeyboardInterrupt", Line: 1},
		},
		{
			name:   "syntax error without traceback header",
			stderr: "  File \"<string>\", line 2\n    if x\n        ^\nSyntaxError: expected ':'",
			want:   Diagnostic{Kind: "SyntaxError", Detail: "expected ':'", Line: 2},
		},
		{
			name:   "no exception line",
			stderr: "Segmentation fault (core dumped)",
			want:   Diagnostic{},
		},
		{
			name:   "trailing blank lines ignored",
			stderr: "ValueError: bad\n\n   \n",
			want:   Diagnostic{Kind: "ValueError", Detail: "bad"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.stderr))
		})
	}
}

func TestExplain_ZeroDivision(t *testing.T) {
	got := Explain(zeroDivisionTrace)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, hints["ZeroDivisionError"], lines[0])
	assert.Equal(t, "Hata satırı: 3", lines[1])
	assert.Equal(t, "Detay: sıfıra bölme", lines[2])
	assert.Equal(t, "Orijinal mesaj: ZeroDivisionError: division by zero", lines[3])
}

func TestExplain_NoLineNoDetail(t *testing.T) {
	got := Explain("EOFError")
	assert.Equal(t, hints["EOFError"]+"\nOrijinal mesaj: EOFError", got)
}

func TestExplain_UnknownKind(t *testing.T) {
	got := Explain("RecursionError: maximum recursion depth exceeded")
	assert.True(t, strings.HasPrefix(got, "RecursionError hatası oluştu.\n"))
	assert.Contains(t, got, "Detay: maximum recursion depth exceeded")
}

func TestExplain_Fallbacks(t *testing.T) {
	t.Run("empty stderr gives generic message", func(t *testing.T) {
		assert.Equal(t, locale.GenericFailure, Explain("  \n"))
	})

	t.Run("unparseable stderr returned trimmed", func(t *testing.T) {
		assert.Equal(t, "Killed !!", Explain("\n Killed !! \n"))
	})

	t.Run("unparseable stderr capped", func(t *testing.T) {
		long := strings.Repeat("- ", output.MaxChars)
		got := Explain(long)
		assert.True(t, strings.HasSuffix(got, locale.TruncationMarker))
	})
}

func TestLocalizeDetail(t *testing.T) {
	tests := []struct {
		kind, detail, want string
	}{
		{"NameError", "name 'sayi' is not defined", "`sayi` adı tanımlı değil."},
		{"NameError", "name 'x' is not defined. Did you mean: 'y'?", "`x` adı tanımlı değil."},
		{"ModuleNotFoundError", "No module named 'numpy'", "`numpy` modülü bulunamadı."},
		{"KeyError", "'yas'", "`yas` anahtarı sözlükte yok."},
		{"KeyError", "3", "3"},
		{"IndexError", "list index out of range", "liste indeksi aralık dışında"},
		{"TypeError", "'int' object is not callable", "'int' nesne fonksiyon gibi çağrılamaz"},
		{"ImportError", "No module named x", "modül bulunamadı x"},
		{"ValueError", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.detail, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalizeDetail(tt.kind, tt.detail))
		})
	}
}

func TestHint_CoversBeginnerErrors(t *testing.T) {
	for _, kind := range []string{
		"SyntaxError", "IndentationError", "TabError", "NameError", "TypeError",
		"ValueError", "ZeroDivisionError", "IndexError", "KeyError",
		"AttributeError", "ModuleNotFoundError", "EOFError",
	} {
		assert.NotContains(t, Hint(kind), "hatası oluştu", kind)
	}
	assert.Equal(t, "FooError hatası oluştu.", Hint("FooError"))
}
