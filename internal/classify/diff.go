// Package classify turns raw comparison artifacts — the code-point diff
// between expected and actual phoneme streams, and the per-position
// attribute mismatches — into unified, word-resolved [Error] records.
//
// The diff walk keeps a running position in the expected stream (Equal and
// Delete segments advance it, Insert segments do not, since insertions exist
// only in the actual stream). Deletions and insertions are then paired
// positionally — the i-th deletion with the i-th insertion — to represent
// substitutions. This mirrors the diff algorithm's tendency to emit paired
// delete/insert runs for substituted text; it is a practical default, not a
// minimum-edit-distance alignment.
//
// Every discrepancy is classified by fixed character-class membership:
// vowel-mark characters on either side make it a harakat error, elongation
// letters make it a madd error, anything else is a letter error.
package classify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tilawa-app/tilawa/internal/align"
	"github.com/tilawa-app/tilawa/internal/arabic"
	"github.com/tilawa-app/tilawa/internal/verse"
	"github.com/tilawa-app/tilawa/pkg/types"
)

// ErrMalformedDiff reports structurally invalid diff input: a segment with
// an unknown kind, or segments that do not reconstruct the expected stream.
// The engine refuses to classify from inconsistent input rather than emit
// misleading results.
var ErrMalformedDiff = errors.New("classify: malformed phoneme diff")

// discrepancy is one recorded non-equal run with its expected-stream
// position.
type discrepancy struct {
	text string
	pos  int
}

// Classifier classifies diff discrepancies into word-resolved errors. It is
// configured once per analysis with the verse's words, the sifat span index
// and the word-resolution chain, then applied to the diff.
//
// A Classifier is read-only after construction and safe for concurrent use.
type Classifier struct {
	words   []verse.Word
	spans   *align.SpanIndex
	resolve align.WordResolver
}

// NewClassifier returns a [Classifier] for one analysis.
//
// spans may be empty (a zero-length index) when the response carried no
// sifat sequence; stream positions are then fed to resolve directly, which
// the engine arranges to be a positional estimate chain.
func NewClassifier(words []verse.Word, spans *align.SpanIndex, resolve align.WordResolver) *Classifier {
	return &Classifier{words: words, spans: spans, resolve: resolve}
}

// Classify walks the diff and returns one [Error] per discrepancy.
//
// expected is the expected phoneme stream; the concatenation of Equal and
// Delete segment texts must reproduce it exactly, or [ErrMalformedDiff] is
// returned. Diff-derived errors carry confidence 1.0 — they come from exact
// stream divergence, not probabilistic comparison.
func (c *Classifier) Classify(diff []types.DiffSegment, expected string) ([]Error, error) {
	if err := validateDiff(diff, expected); err != nil {
		return nil, err
	}

	expectedRunes := []rune(expected)

	var deletions, insertions []discrepancy
	pos := 0
	for _, seg := range diff {
		n := len([]rune(seg.Text))
		switch seg.Type {
		case types.DiffEqual:
			pos += n
		case types.DiffDelete:
			deletions = append(deletions, discrepancy{text: seg.Text, pos: pos})
			pos += n
		case types.DiffInsert:
			// Insertions exist only in the actual stream; they are anchored
			// at the current expected position and do not advance it.
			insertions = append(insertions, discrepancy{text: seg.Text, pos: pos})
		}
	}

	var out []Error

	paired := min(len(deletions), len(insertions))
	for i := 0; i < paired; i++ {
		out = append(out, c.classifyOne(deletions[i].text, insertions[i].text, deletions[i].pos, expectedRunes))
	}
	for _, d := range deletions[paired:] {
		// Omission: the reference expects this run, the reciter dropped it.
		out = append(out, c.classifyOne(d.text, "", d.pos, expectedRunes))
	}
	for _, ins := range insertions[paired:] {
		// Addition: the reciter produced a run with no reference counterpart.
		out = append(out, c.classifyOne("", ins.text, ins.pos, expectedRunes))
	}

	return out, nil
}

// classifyOne classifies a single discrepancy. expectedText is the deleted
// run (empty for additions), actualText the inserted run (empty for
// omissions), pos the discrepancy's expected-stream position.
func (c *Classifier) classifyOne(expectedText, actualText string, pos int, expectedRunes []rune) Error {
	word, wordIndex := c.wordAt(pos)

	e := Error{
		Word:       word,
		WordIndex:  wordIndex,
		Confidence: 1.0,
	}

	switch {
	case arabic.ContainsHarakat(expectedText) || arabic.ContainsHarakat(actualText):
		e.Category = CategoryHarakat
		e.Expected = harakatValue(expectedText, ValueNone)
		e.Actual = harakatValue(actualText, ValueNone)
		if expectedText == "" {
			e.Expected = ValueNone
		}
		if actualText == "" {
			e.Actual = ValueMissing
		}
		e.Phoneme = c.harakatHighlight(expectedText, actualText, pos, expectedRunes)

	case arabic.ContainsMaddLetter(expectedText) || arabic.ContainsMaddLetter(actualText):
		e.Category = CategoryMadd
		e.Expected = strconv.Itoa(arabic.CountMaddLetters(expectedText))
		e.Actual = strconv.Itoa(arabic.CountMaddLetters(actualText))
		e.Phoneme = firstNonEmpty(expectedText, actualText)

	default:
		e.Category = CategoryLetters
		e.Expected = expectedText
		e.Actual = actualText
		if expectedText == "" {
			e.Expected = ValueNone
		}
		if actualText == "" {
			e.Actual = ValueMissing
		}
		e.Phoneme = firstNonEmpty(expectedText, actualText)
	}

	return e
}

// harakatValue returns the Arabic name of the first harakat in text, or
// fallback when the text carries no independent vowel mark.
func harakatValue(text, fallback string) string {
	if h, ok := arabic.FirstHarakat(text); ok {
		return h.Name()
	}
	return fallback
}

// harakatHighlight picks the phoneme text to highlight for a harakat error.
// When the discrepancy text itself contains a letter, that text is shown.
// A bare vowel mark has no letter of its own — the mark was attached to the
// preceding letter in the expected stream, so back up one code point from
// the diff position, skipping over another vowel mark if one sits there.
func (c *Classifier) harakatHighlight(expectedText, actualText string, pos int, expectedRunes []rune) string {
	text := firstNonEmpty(expectedText, actualText)
	for _, r := range text {
		if !arabic.IsHarakat(r) {
			return text
		}
	}

	i := pos - 1
	if i >= 0 && i < len(expectedRunes) && arabic.IsHarakat(expectedRunes[i]) {
		i--
	}
	if i >= 0 && i < len(expectedRunes) {
		return string(expectedRunes[i])
	}
	return text
}

// wordAt resolves the expected-stream position pos to its owning word.
func (c *Classifier) wordAt(pos int) (word string, wordIndex int) {
	key := pos
	if sifaIndex, ok := c.spans.At(pos); ok {
		key = sifaIndex
	}
	wordIndex, ok := c.resolve(key)
	if !ok || wordIndex < 0 || wordIndex >= len(c.words) {
		return "", NoWordIndex
	}
	return c.words[wordIndex].Text, wordIndex
}

// validateDiff checks segment kinds and the expected-stream round-trip:
// Equal+Delete texts concatenated in order must equal expected.
func validateDiff(diff []types.DiffSegment, expected string) error {
	var b strings.Builder
	for i, seg := range diff {
		if !seg.Type.IsValid() {
			return fmt.Errorf("%w: segment %d has unknown kind %q", ErrMalformedDiff, i, seg.Type)
		}
		if seg.Type != types.DiffInsert {
			b.WriteString(seg.Text)
		}
	}
	if b.String() != expected {
		return fmt.Errorf("%w: equal+delete segments do not reconstruct the expected stream", ErrMalformedDiff)
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
