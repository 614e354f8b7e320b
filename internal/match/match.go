// Package match ranks candidate reference streams against an actual
// recitation, for suggesting which verse was probably recited when the
// detailed analysis was suppressed as an unrelated-verse attempt.
//
// Candidates and the recitation are normalised to the engine's canonical
// form first, then ranked by Jaro-Winkler similarity on the normalised
// streams. The highest-scoring candidate wins, provided its score clears
// the configurable threshold.
package match

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/tilawa-app/tilawa/internal/arabic"
)

const defaultThreshold = 0.65

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithThreshold sets the minimum Jaro-Winkler score a candidate must reach
// to be reported as a match. Default: 0.65.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

// Matcher ranks candidate phoneme streams by similarity to a recitation.
// All methods are safe for concurrent use — the Matcher is read-only after
// construction.
type Matcher struct {
	threshold float64
}

// New returns a [Matcher] configured with the supplied options.
func New(opts ...Option) *Matcher {
	m := &Matcher{threshold: defaultThreshold}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Best returns the index of the candidate most similar to actual, together
// with its similarity score.
//
// matched is false when candidates is empty, actual is blank, or no
// candidate clears the threshold; index is -1 and score 0 in that case.
func (m *Matcher) Best(actual string, candidates []string) (index int, score float64, matched bool) {
	if len(candidates) == 0 || strings.TrimSpace(actual) == "" {
		return -1, 0, false
	}

	normActual := arabic.Normalize(actual)

	bestIndex, bestScore := -1, 0.0
	for i, cand := range candidates {
		normCand := arabic.Normalize(cand)
		if normCand == "" {
			continue
		}
		s := matchr.JaroWinkler(normActual, normCand, false)
		if s > bestScore {
			bestIndex, bestScore = i, s
		}
	}

	if bestIndex < 0 || bestScore < m.threshold {
		return -1, 0, false
	}
	return bestIndex, bestScore, true
}
