package classify

import (
	"log/slog"

	"github.com/tilawa-app/tilawa/pkg/types"
)

// AdaptSifatErrors converts the upstream attribute-comparison mismatches
// into unified [Error] records, one per attribute disagreement.
//
// Each input record is keyed by an expected-sifat position, so word
// resolution goes straight through the resolver chain — no span lookup is
// needed. The record's expected phoneme is what gets highlighted: expected
// text is ground truth for which word a position belongs to, regardless of
// what the model heard.
//
// Attribute names outside the ten known families are kept with their raw
// wire name as the category (and logged at debug level) so upstream
// additions degrade visibly instead of disappearing.
func (c *Classifier) AdaptSifatErrors(sifatErrors []types.SifatError) []Error {
	var out []Error

	for _, se := range sifatErrors {
		word, wordIndex := c.wordForSifa(se.Index)

		for _, m := range se.Errors {
			category, ok := ParseFamily(m.Attribute)
			if !ok {
				slog.Debug("unknown sifat attribute family", "attribute", m.Attribute, "index", se.Index)
				category = Category(m.Attribute)
			}
			out = append(out, Error{
				Phoneme:    se.ExpectedPhoneme,
				Word:       word,
				WordIndex:  wordIndex,
				Category:   category,
				Expected:   ValueLabel(m.Expected),
				Actual:     ValueLabel(m.Actual),
				Confidence: m.Prob,
			})
		}
	}

	return out
}

// wordForSifa resolves a sifat-sequence position to its owning word.
func (c *Classifier) wordForSifa(sifaIndex int) (word string, wordIndex int) {
	wordIndex, ok := c.resolve(sifaIndex)
	if !ok || wordIndex < 0 || wordIndex >= len(c.words) {
		return "", NoWordIndex
	}
	return c.words[wordIndex].Text, wordIndex
}
