// Package casing splits logical identifiers into words and reassembles them
// in the spellings used by the binding targets.
package casing

import (
	"strings"
	"unicode"
)

// Words splits an identifier at separators, lower-to-upper transitions and
// the end of acronym runs ("HTTPServer" -> "HTTP", "Server"). Digits stay
// attached to the word they follow; an upper-case letter after a digit
// starts a new word.
func Words(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush(i)
			start = i
		case unicode.IsUpper(r) && unicode.IsUpper(prev) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			flush(i)
			start = i
		}
	}
	flush(len(runes))
	return words
}

// UpperCamel renders "foo_bar" as "FooBar".
func UpperCamel(s string) string { return Settle(upperCamel, s) }

// LowerCamel renders "foo_bar" as "fooBar".
func LowerCamel(s string) string { return Settle(lowerCamel, s) }

// ShoutySnake renders "fooBar" as "FOO_BAR".
func ShoutySnake(s string) string { return Settle(shoutySnake, s) }

// Snake renders "FooBar" as "foo_bar".
func Snake(s string) string { return Settle(snake, s) }

// Settle applies render until its output no longer changes, so the result
// renders to itself. A single pass can join words whose boundary the next
// split does not see: "a_b" renders as "AB", which splits as one word.
func Settle(render func(string) string, s string) string {
	out := render(s)
	for range len(out) + 1 {
		next := render(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func upperCamel(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(Capitalize(w))
	}
	return b.String()
}

func lowerCamel(s string) string {
	var b strings.Builder
	for i, w := range Words(s) {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(Capitalize(w))
	}
	return b.String()
}

func shoutySnake(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return strings.Join(words, "_")
}

func snake(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// Capitalize upper-cases the first letter of w and lower-cases the rest.
func Capitalize(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
