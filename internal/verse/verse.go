// Package verse represents a verse as an ordered sequence of word units.
//
// The segmenter is deliberately dumb — whitespace splitting, nothing more —
// because the canonical verse text is already word-segmented by the upstream
// data. What the package adds is the choice of matching target: when a
// plain-orthography (imlaey) word list parallel to the verse is available it
// is preferred over the diacritic-rich canonical word, since it needs far
// less normalisation to line up with the phoneme stream.
package verse

import "strings"

// Word is one word unit of a verse.
type Word struct {
	// Index is the word's position in verse order, starting at zero.
	Index int

	// Text is the original canonical word text, diacritics intact. This is
	// what callers display; it is never normalised in place.
	Text string

	// MatchText is the text used as the fuzzy-match target when phoneme
	// positions are consumed against the word: the parallel imlaey word
	// when one was supplied, the canonical text otherwise.
	MatchText string
}

// Segment splits the canonical verse text on whitespace into ordered words.
//
// imlaeyWords, when non-nil and of the same length as the verse's word
// count, supplies the plain-orthography match targets; a mismatched count is
// ignored rather than guessed at.
func Segment(uthmaniText string, imlaeyWords []string) []Word {
	fields := strings.Fields(uthmaniText)
	if len(fields) == 0 {
		return nil
	}

	useImlaey := len(imlaeyWords) == len(fields)

	words := make([]Word, len(fields))
	for i, f := range fields {
		w := Word{Index: i, Text: f, MatchText: f}
		if useImlaey {
			w.MatchText = imlaeyWords[i]
		}
		words[i] = w
	}
	return words
}

// FirstIndex returns the verse position of the first word whose Text equals
// text, or -1 when no word matches.
func FirstIndex(words []Word, text string) int {
	for _, w := range words {
		if w.Text == text {
			return w.Index
		}
	}
	return -1
}
