// Package align reconstructs which word of a verse owns each position of the
// expected phoneme stream.
//
// Two independently derived representations of the same utterance have to be
// lined up here: the word-segmented orthographic text and the flat phoneme
// stream. There is no exact correspondence between the two alphabets — hamza
// variants, elongation phonemes and gemination all break a one-to-one letter
// mapping — so the reconstruction is a greedy fuzzy consumption of
// normalised word text against the normalised phoneme groups.
//
// Word resolution is organised as a prioritised chain of [WordResolver]
// functions, first success wins:
//
//  1. [Authoritative] — inclusive sifat ranges supplied by the upstream
//     service. When present for the verse these are trusted outright.
//  2. [FromMapping] — the greedy reconstruction built by [BuildMapping].
//  3. [Proportional] — a coarse position-fraction estimate, for responses
//     carrying no sifat sequence at all.
//  4. [LastWord] — the terminal clamp; never fails.
//
// Each tier is an independent value so it can be tested in isolation and
// composed explicitly by the engine, rather than buried in nested branches.
package align

import (
	"github.com/tilawa-app/tilawa/internal/arabic"
	"github.com/tilawa-app/tilawa/internal/verse"
	"github.com/tilawa-app/tilawa/pkg/types"
)

// Mapping assigns a word index to every position of the expected sifat
// sequence. It is total: len(Mapping) equals the sifat count and every entry
// is a valid index into the verse's words.
type Mapping []int

// BuildMapping reconstructs the sifat-position→word mapping by greedily
// consuming normalised word text against the normalised phoneme groups, one
// left-to-right pass with one word of lookahead.
//
// For each sifat position in index order:
//
//   - If the current word's remaining text contains any character of the
//     normalised phoneme group, the first matching character is consumed and
//     the position is assigned to the current word. A single character match
//     confirms ownership — deliberately permissive, because the orthographic
//     and phonetic alphabets diverge.
//   - Otherwise, if the current word is exhausted or the next word's
//     remaining text matches, the cursor advances one word and consumes
//     there.
//   - Otherwise the position is assigned to the current word without
//     consuming anything; elongation phonemes have no orthographic
//     character of their own.
//
// Positions left over after the last word are assigned to the last word.
// Returns nil when either input is empty.
func BuildMapping(units []types.Sifa, words []verse.Word) Mapping {
	if len(units) == 0 || len(words) == 0 {
		return nil
	}

	remaining := make([][]rune, len(words))
	for i, w := range words {
		remaining[i] = []rune(arabic.Normalize(w.MatchText))
	}

	m := make(Mapping, len(units))
	cur := 0

	for i, u := range units {
		phoneme := []rune(arabic.Normalize(u.Phonemes))

		if cur >= len(words)-1 && len(remaining[len(words)-1]) == 0 {
			// Past the final word's text: everything left belongs to it.
			m[i] = len(words) - 1
			continue
		}

		if consumeFirstMatch(&remaining[cur], phoneme) {
			m[i] = cur
			continue
		}

		next := cur + 1
		if next < len(words) && (len(remaining[cur]) == 0 || anyMatch(remaining[next], phoneme)) {
			cur = next
			consumeFirstMatch(&remaining[cur], phoneme)
			m[i] = cur
			continue
		}

		// No orthographic character to consume; stay on the current word.
		m[i] = cur
	}

	return m
}

// anyMatch reports whether remaining contains any rune of phoneme.
func anyMatch(remaining, phoneme []rune) bool {
	for _, p := range phoneme {
		for _, r := range remaining {
			if r == p {
				return true
			}
		}
	}
	return false
}

// consumeFirstMatch removes the first rune of *remaining that occurs in
// phoneme and reports whether a removal happened.
func consumeFirstMatch(remaining *[]rune, phoneme []rune) bool {
	for i, r := range *remaining {
		for _, p := range phoneme {
			if r == p {
				*remaining = append((*remaining)[:i], (*remaining)[i+1:]...)
				return true
			}
		}
	}
	return false
}

// SpanIndex maps positions of the expected phoneme stream to the sifat
// element whose contiguous phoneme span covers them. The sifat sequence is
// positioned contiguously, so spans are derived from cumulative code-point
// lengths.
type SpanIndex struct {
	starts []int // start position of each sifat element's span
	total  int   // total stream length covered
}

// NewSpanIndex builds a [SpanIndex] over units. Returns a zero-length index
// when units is empty.
func NewSpanIndex(units []types.Sifa) *SpanIndex {
	idx := &SpanIndex{starts: make([]int, len(units))}
	pos := 0
	for i, u := range units {
		idx.starts[i] = pos
		pos += len([]rune(u.Phonemes))
	}
	idx.total = pos
	return idx
}

// Len returns the number of indexed sifat elements.
func (s *SpanIndex) Len() int { return len(s.starts) }

// At returns the index of the sifat element whose span covers stream
// position pos. Positions beyond the covered range clamp to the last
// element; ok is false only when the index is empty.
func (s *SpanIndex) At(pos int) (sifaIndex int, ok bool) {
	if len(s.starts) == 0 {
		return 0, false
	}
	if pos >= s.total {
		return len(s.starts) - 1, true
	}
	// Binary search for the last start <= pos.
	lo, hi := 0, len(s.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.starts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, true
}

// WordResolver resolves a sifat-sequence position to the verse word that
// owns it. ok is false when this tier has no answer and the next tier in the
// chain should be consulted.
type WordResolver func(sifaIndex int) (wordIndex int, ok bool)

// Chain combines resolvers into a single [WordResolver] that consults each
// tier in order and returns the first success.
func Chain(resolvers ...WordResolver) WordResolver {
	return func(sifaIndex int) (int, bool) {
		for _, r := range resolvers {
			if wordIndex, ok := r(sifaIndex); ok {
				return wordIndex, true
			}
		}
		return 0, false
	}
}

// Authoritative returns a resolver backed by the upstream word→sifat-range
// mapping. The ranges are inclusive. Positions outside every range fall
// through to the next tier; an empty ranges slice never resolves.
func Authoritative(ranges []types.WordPhonemes) WordResolver {
	return func(sifaIndex int) (int, bool) {
		for _, r := range ranges {
			if sifaIndex >= r.SifatStart && sifaIndex <= r.SifatEnd {
				return r.WordIndex, true
			}
		}
		return 0, false
	}
}

// FromMapping returns a resolver backed by a reconstructed [Mapping].
// Positions beyond the mapping fall through to the next tier; a nil mapping
// never resolves.
func FromMapping(m Mapping) WordResolver {
	return func(sifaIndex int) (int, bool) {
		if sifaIndex < 0 || sifaIndex >= len(m) {
			return 0, false
		}
		return m[sifaIndex], true
	}
}

// Proportional returns a resolver that estimates the owning word from the
// position's fraction of the total sequence length. total is the sifat (or
// stream) length the positions are measured against. A coarse tier for
// responses with no sifat data; never used when a better tier resolves.
func Proportional(total, wordCount int) WordResolver {
	return func(sifaIndex int) (int, bool) {
		if total <= 0 || wordCount <= 0 || sifaIndex < 0 || sifaIndex >= total {
			return 0, false
		}
		w := sifaIndex * wordCount / total
		if w >= wordCount {
			w = wordCount - 1
		}
		return w, true
	}
}

// LastWord returns the terminal resolver: every position belongs to the
// final word. It fails only when the verse has no words at all.
func LastWord(wordCount int) WordResolver {
	return func(int) (int, bool) {
		if wordCount <= 0 {
			return 0, false
		}
		return wordCount - 1, true
	}
}
