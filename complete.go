package tailspin

import (
	"sort"
	"strings"
)

// UnclosedParens counts '(' that have no matching ')' in text. Parens inside
// strings, character literals and comments do not count. Surplus ')' never
// make the result negative.
func UnclosedParens(text string) int {
	open := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			open++
		case ')':
			if open > 0 {
				open--
			}
		case ';':
			for i < len(text) && text[i] != '\n' {
				i++
			}
		case '"':
			for i++; i < len(text) && text[i] != '"'; i++ {
				if text[i] == '\\' {
					i++
				}
			}
		case '#':
			// #\( is a character; #\\ followed by a delimiter is a backslash
			if i+1 < len(text) && text[i+1] == '\\' {
				j := i + 2
				if j < len(text) && text[j] == '\\' {
					j++
					if j < len(text) && !isDelimiter(text[j]) {
						j++
					}
				} else if j < len(text) {
					j++
				}
				i = j - 1
			}
		}
	}
	return open
}

// CompleteWord is a liner word completer. It splits line at pos into the text
// before the word under the cursor (head), the candidate completions, and the
// text after the cursor (tail). Candidates are the sorted names starting with
// the word. When nothing matches and parens are still open, the single
// candidate is the word followed by the missing ')'s.
func CompleteWord(line string, pos int, names []string) (head string, completions []string, tail string) {
	if pos > len(line) {
		pos = len(line)
	}
	if pos < 0 {
		pos = 0
	}
	start := pos
	for start > 0 && !isWordBreak(line[start-1]) {
		start--
	}
	head, word, tail := line[:start], line[start:pos], line[pos:]

	if word != "" {
		for _, n := range names {
			if strings.HasPrefix(n, word) {
				completions = append(completions, n)
			}
		}
		sort.Strings(completions)
	}
	if len(completions) == 0 {
		if n := UnclosedParens(line[:pos]); n > 0 {
			completions = []string{word + strings.Repeat(")", n)}
		}
	}
	return head, completions, tail
}

func isDelimiter(b byte) bool {
	return isWhitespace(b) || b == '(' || b == ')' || b == '\'' || b == '"' || b == ';'
}

func isWordBreak(b byte) bool {
	return isWhitespace(b) || b == '(' || b == ')' || b == '\''
}
