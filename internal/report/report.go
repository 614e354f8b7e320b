// Package report merges classified errors into the stable, verse-ordered
// grouping the caller renders, and computes the word-level score.
//
// Grouping is two-level: errors are grouped by owning word, then within a
// word by the highlighted phoneme text. Word groups are ordered by verse
// position; phoneme groups preserve first-occurrence order — the order the
// discrepancies were discovered in is meaningful to a reciter reading the
// feedback against the verse.
package report

import (
	"sort"

	"github.com/tilawa-app/tilawa/internal/classify"
	"github.com/tilawa-app/tilawa/internal/verse"
)

// PhonemeGroup collects the errors of one word that share the same
// highlighted phoneme text.
type PhonemeGroup struct {
	// Phoneme is the shared highlight text.
	Phoneme string `json:"phoneme"`

	// Errors preserves the order the discrepancies were emitted in.
	Errors []classify.Error `json:"errors"`
}

// WordGroup collects every error belonging to one verse word.
type WordGroup struct {
	// Word is the canonical word text.
	Word string `json:"word"`

	// Position is the word's verse position the group is ordered by.
	Position int `json:"position"`

	// Phonemes are the per-phoneme sub-groups in first-occurrence order.
	Phonemes []PhonemeGroup `json:"phonemes"`
}

// group is the mutable accumulator behind a [WordGroup].
type group struct {
	word     string
	position int
	seq      int // insertion order, breaks position ties
	errors   []classify.Error
}

// Group merges errors into verse-ordered [WordGroup] lists.
//
// The primary grouping key is the resolved word index. Errors without one
// fall back to grouping by literal word text, positioned at the text's
// first occurrence in the verse; when that position collides with an
// already-indexed group the two merge. Groups sort ascending by position,
// insertion order on ties. Words absent from the verse entirely sort after
// all verse words.
//
// A verse with no words produces no groups regardless of errors.
func Group(errors []classify.Error, words []verse.Word) []WordGroup {
	if len(words) == 0 || len(errors) == 0 {
		return nil
	}

	byPosition := make(map[int]*group)
	byText := make(map[string]*group)
	var ordered []*group

	add := func(g *group, e classify.Error) {
		g.errors = append(g.errors, e)
	}

	for _, e := range errors {
		if e.Positioned() {
			g, ok := byPosition[e.WordIndex]
			if !ok {
				g = &group{word: e.Word, position: e.WordIndex, seq: len(ordered)}
				byPosition[e.WordIndex] = g
				ordered = append(ordered, g)
			}
			add(g, e)
			continue
		}

		// Fallback: group by literal word text at its first verse occurrence.
		pos := verse.FirstIndex(words, e.Word)
		if pos >= 0 {
			if g, ok := byPosition[pos]; ok {
				// Collision with an indexed group: merge into it.
				add(g, e)
				continue
			}
		}
		g, ok := byText[e.Word]
		if !ok {
			p := pos
			if p < 0 {
				// Unknown word: order after every verse word.
				p = len(words)
			}
			g = &group{word: e.Word, position: p, seq: len(ordered)}
			byText[e.Word] = g
			ordered = append(ordered, g)
			if pos >= 0 {
				// Future indexed errors for this position merge here too.
				byPosition[pos] = g
			}
		}
		add(g, e)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].position != ordered[j].position {
			return ordered[i].position < ordered[j].position
		}
		return ordered[i].seq < ordered[j].seq
	})

	out := make([]WordGroup, 0, len(ordered))
	for _, g := range ordered {
		out = append(out, WordGroup{
			Word:     g.word,
			Position: g.position,
			Phonemes: groupByPhoneme(g.errors),
		})
	}
	return out
}

// groupByPhoneme sub-groups a word's errors by highlight text, preserving
// first-occurrence order. Never sorted — discovery order is the contract.
func groupByPhoneme(errors []classify.Error) []PhonemeGroup {
	index := make(map[string]int)
	var out []PhonemeGroup
	for _, e := range errors {
		i, ok := index[e.Phoneme]
		if !ok {
			i = len(out)
			index[e.Phoneme] = i
			out = append(out, PhonemeGroup{Phoneme: e.Phoneme})
		}
		out[i].Errors = append(out[i].Errors, e)
	}
	return out
}

// Score computes the word-level pass percentage.
//
// A word is wrong when any error resolves to its index; errors without an
// index count by distinct word text. The wrong count is capped at the total
// word count, and an empty verse scores 100 — zero words cannot be recited
// incorrectly.
func Score(errors []classify.Error, words []verse.Word) float64 {
	total := len(words)
	if total == 0 {
		return 100
	}

	indexed := make(map[int]struct{})
	unindexed := make(map[string]struct{})
	for _, e := range errors {
		if e.Positioned() {
			indexed[e.WordIndex] = struct{}{}
		} else {
			unindexed[e.Word] = struct{}{}
		}
	}

	wrong := len(indexed) + len(unindexed)
	if wrong > total {
		wrong = total
	}
	return 100 * float64(total-wrong) / float64(total)
}
