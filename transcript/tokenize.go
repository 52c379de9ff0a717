// Package transcript splits transcription text into caption words.
package transcript

import (
	"strings"
	"unicode"

	"github.com/mrsingh-rishi/sign-captions/model"
)

// Tokenize lowercases text, turns anything that is not a letter, number or
// space into a space, and splits on whitespace. Indices start at zero.
func Tokenize(text string) []model.Word {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	fields := strings.Fields(cleaned)
	words := make([]model.Word, len(fields))
	for i, f := range fields {
		words[i] = model.Word{I: i, W: f}
	}
	return words
}
