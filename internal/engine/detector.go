package engine

import "github.com/tilawa-app/tilawa/pkg/types"

// DefaultUnrelatedThreshold is the ratio below (or above, for the
// error-share rule) which a recitation is judged to be of a different verse
// entirely.
const DefaultUnrelatedThreshold = 0.4

// Detector is the cheap heuristic gate deciding whether a recitation is of
// a materially different verse, in which case detailed classification is
// suppressed. The threshold is a tunable parameter, never a hard literal.
type Detector struct {
	threshold float64
}

// NewDetector returns a [Detector] with the given threshold. Values outside
// (0, 1) fall back to [DefaultUnrelatedThreshold].
func NewDetector(threshold float64) Detector {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultUnrelatedThreshold
	}
	return Detector{threshold: threshold}
}

// Unrelated reports whether the recitation looks like a different verse.
//
// Rules in decision order, first applicable wins:
//
//  1. Gross length mismatch: min/max code-point length ratio below the
//     threshold.
//  2. With a diff: too little equal text relative to the expected stream,
//     or too much changed text relative to the whole diff. Otherwise the
//     diff is trusted and the recitation is related.
//  3. Without a diff: Jaccard ratio of the unique-code-point sets below the
//     threshold.
func (d Detector) Unrelated(expected, actual string, diff []types.DiffSegment) bool {
	expLen := len([]rune(expected))
	actLen := len([]rune(actual))

	if expLen == 0 && actLen == 0 {
		return false
	}
	minLen, maxLen := expLen, actLen
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}
	if float64(minLen)/float64(maxLen) < d.threshold {
		return true
	}

	if len(diff) > 0 {
		equalChars, errorChars := 0, 0
		for _, seg := range diff {
			n := len([]rune(seg.Text))
			if seg.Type == types.DiffEqual {
				equalChars += n
			} else {
				errorChars += n
			}
		}
		if expLen > 0 && float64(equalChars)/float64(expLen) < d.threshold {
			return true
		}
		total := equalChars + errorChars
		if total > 0 && float64(errorChars)/float64(total) > d.threshold {
			return true
		}
		return false
	}

	return jaccard(expected, actual) < d.threshold
}

// jaccard computes |intersection| / |union| over the unique code-point sets
// of the two streams.
func jaccard(a, b string) float64 {
	setA := make(map[rune]struct{})
	for _, r := range a {
		setA[r] = struct{}{}
	}
	setB := make(map[rune]struct{})
	for _, r := range b {
		setB[r] = struct{}{}
	}

	inter := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}
