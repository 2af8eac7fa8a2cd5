// Package prompt inspects submitted Python source for interactive input.
//
// Two questions are answered, both without running the program:
//   - ReadsInput: does the source call input() at all? A plain lexical
//     check, used to decide whether default stdin should be synthesized.
//   - LiteralPrompts: which constant strings are passed as the prompt of
//     each input(...) call? Used to reshape or strip the prompts in the
//     captured stdout.
//
// LiteralPrompts is a best-effort heuristic over a token stream, not a
// Python parser. Source that cannot be tokenized (unterminated strings,
// unbalanced brackets) yields no prompts instead of an error.
package prompt

import "regexp"

var inputCall = regexp.MustCompile(`\binput\s*\(`)

// ReadsInput reports whether code looks like it calls input().
// Occurrences inside comments or strings also count.
func ReadsInput(code string) bool {
	return inputCall.MatchString(code)
}

// LiteralPrompts returns the non-empty constant string prompts passed to
// input(...) calls, in source order. Calls whose first argument is computed
// (f-strings, concatenation with variables, method calls, keyword arguments)
// are skipped, as are method calls such as obj.input("x").
func LiteralPrompts(code string) []string {
	tokens, err := tokenize(code)
	if err != nil {
		return nil
	}

	var prompts []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.kind != tokName || tok.text != "input" {
			continue
		}
		if i > 0 && isDefinitionOrAttribute(tokens[i-1]) {
			continue
		}
		if i+1 >= len(tokens) || !tokens[i+1].isOp("(") {
			continue
		}

		// Redundant parentheses around the literal, as in input(("Ad: ")).
		start := i + 2
		for start < len(tokens) && tokens[start].isOp("(") {
			start++
		}
		depth := start - (i + 2)

		value, end, ok := literalArgument(tokens, start)
		if !ok {
			continue
		}
		for ; depth > 0 && end < len(tokens) && tokens[end].isOp(")"); depth-- {
			end++
		}
		// The literal must be the whole first argument. A trailing comma
		// inside the parentheses would make it a tuple.
		if depth > 0 || end >= len(tokens) || !(tokens[end].isOp(")") || tokens[end].isOp(",")) {
			continue
		}
		if value != "" {
			prompts = append(prompts, value)
		}
	}
	return prompts
}

func isDefinitionOrAttribute(prev token) bool {
	if prev.isOp(".") {
		return true
	}
	return prev.kind == tokName && (prev.text == "def" || prev.text == "class")
}

// literalArgument reads one or more adjacent string tokens starting at
// tokens[start]. Adjacent literals concatenate, as in Python. The result is
// rejected when any part is a bytes or f-string literal.
func literalArgument(tokens []token, start int) (string, int, bool) {
	var value string
	i := start
	for i < len(tokens) && tokens[i].kind == tokString {
		if !tokens[i].plain {
			return "", i, false
		}
		value += tokens[i].text
		i++
	}
	if i == start {
		return "", i, false
	}
	return value, i, true
}
