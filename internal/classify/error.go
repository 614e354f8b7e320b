package classify

// Sentinel values used for the missing side of an unpaired discrepancy.
// They are opaque enumerations for the caller to localise, like every other
// value the engine emits.
const (
	// ValueMissing is the actual-side value of an omission: the reciter
	// dropped something the reference expects.
	ValueMissing = "missing"

	// ValueNone is the expected-side value of an addition: the reciter
	// produced something the reference has no counterpart for.
	ValueNone = "none"
)

// NoWordIndex is the WordIndex of an error whose owning word could not be
// resolved to a verse position.
const NoWordIndex = -1

// Error is the unified record for one classified recitation discrepancy,
// whichever path produced it. All fields are value data; an Error is
// immutable once emitted.
type Error struct {
	// Phoneme is the text to highlight for this error — the letter a vowel
	// mark was attached to, the elongation group, or the diverging letters
	// themselves.
	Phoneme string `json:"phoneme"`

	// Word is the verse word the error belongs to, in original canonical
	// spelling.
	Word string `json:"word"`

	// WordIndex is the word's verse position, or [NoWordIndex] when the
	// owning word could not be positioned.
	WordIndex int `json:"word_index"`

	// Category is the rule category of the discrepancy.
	Category Category `json:"category"`

	// Expected and Actual are the two compared values, rendered through the
	// engine's label tables: harakat names, elongation counts, raw letter
	// text, or attribute-value labels, depending on Category.
	Expected string `json:"expected"`
	Actual   string `json:"actual"`

	// Confidence is 1.0 for diff-derived errors (exact stream divergence)
	// and the model's reported probability for attribute errors.
	Confidence float64 `json:"confidence"`
}

// Positioned reports whether the error carries a resolved verse position.
func (e Error) Positioned() bool { return e.WordIndex != NoWordIndex }
