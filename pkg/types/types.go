// Package types defines the shared wire types used across all Tilawa packages.
//
// These types mirror the JSON produced by the upstream inference service that
// transcribes a recitation and compares it against the reference phonetic
// script. Field names are normative for wire compatibility — the engine
// consumes exactly this shape and never re-derives it. Each internal package
// defines its own domain types; the cross-cutting request/response structures
// live here to avoid circular imports.
package types

// DiffKind identifies the role of one segment in a code-point diff between
// the expected and actual phoneme streams.
type DiffKind string

const (
	// DiffEqual marks a run present in both streams.
	DiffEqual DiffKind = "equal"

	// DiffInsert marks a run present only in the actual stream.
	DiffInsert DiffKind = "insert"

	// DiffDelete marks a run present only in the expected stream.
	DiffDelete DiffKind = "delete"
)

// IsValid reports whether k is a recognised diff segment kind.
func (k DiffKind) IsValid() bool {
	switch k {
	case DiffEqual, DiffInsert, DiffDelete:
		return true
	}
	return false
}

// DiffSegment is one run of a code-point diff between the expected and the
// actual phoneme stream, as produced by the upstream diff utility.
//
// Concatenating the Text of all Equal and Delete segments in order must
// reproduce the expected stream; Equal and Insert segments reproduce the
// actual stream. Segment boundaries are code-point aligned.
type DiffSegment struct {
	// Type is the segment kind: "equal", "insert" or "delete".
	Type DiffKind `json:"type"`

	// Text is the code-point run covered by this segment.
	Text string `json:"text"`
}

// Sifa is one reference-side phonetic-attribute record. The records are
// positioned contiguously: concatenating Phonemes over ascending Index
// reproduces the expected phoneme stream.
//
// Attribute values are plain enum strings from a closed per-family domain
// (e.g. "hams"/"jahr"); a nil pointer means the model produced no value for
// that family at this position.
type Sifa struct {
	// Index is the position of this record in the expected sifat sequence.
	Index int `json:"index"`

	// Phonemes is the phoneme text this record covers (one letter plus any
	// attached marks, or an elongation group).
	Phonemes string `json:"phonemes"`

	HamsOrJahr       *string `json:"hams_or_jahr"`
	ShiddaOrRakhawa  *string `json:"shidda_or_rakhawa"`
	TafkheemOrTaqeeq *string `json:"tafkheem_or_taqeeq"`
	Itbaq            *string `json:"itbaq"`
	Safeer           *string `json:"safeer"`
	Qalqla           *string `json:"qalqla"`
	Tikraar          *string `json:"tikraar"`
	Tafashie         *string `json:"tafashie"`
	Istitala         *string `json:"istitala"`
	Ghonna           *string `json:"ghonna"`
}

// SifatMismatch is one attribute disagreement inside a [SifatError].
type SifatMismatch struct {
	// Attribute is the attribute family name (e.g. "hams_or_jahr").
	Attribute string `json:"attribute"`

	// AttributeAr is the upstream service's Arabic label for the family.
	// Informational only — the engine uses its own label table.
	AttributeAr string `json:"attribute_ar"`

	// Expected is the reference-side enum value.
	Expected string `json:"expected"`

	// Actual is the enum value observed in the recitation.
	Actual string `json:"actual"`

	// Prob is the model's confidence in the observed value (0.0–1.0).
	Prob float64 `json:"prob"`
}

// SifatError groups the attribute mismatches detected at one expected-sifat
// position.
type SifatError struct {
	// Index is the position in the expected sifat sequence.
	Index int `json:"index"`

	// Phoneme is the phoneme text the model observed at this position.
	Phoneme string `json:"phoneme"`

	// ExpectedPhoneme is the reference phoneme text at this position. It is
	// the match key for word resolution — expected text is ground truth for
	// which word the position belongs to.
	ExpectedPhoneme string `json:"expected_phoneme"`

	// Errors lists the individual attribute disagreements.
	Errors []SifatMismatch `json:"errors"`
}

// WordPhonemes is one entry of the authoritative word→phoneme mapping, when
// the upstream service supplies it. SifatStart and SifatEnd are inclusive
// positions over the expected sifat sequence; the ranges partition the
// sequence contiguously with no gaps and no overlaps.
type WordPhonemes struct {
	WordIndex  int    `json:"word_index"`
	Word       string `json:"word"`
	Phonemes   string `json:"phonemes"`
	SifatStart int    `json:"sifat_start"`
	SifatEnd   int    `json:"sifat_end"`
	SifatCount int    `json:"sifat_count"`
}

// Moshaf carries the recitation-rule parameters the reference phonetic
// script was generated under. Opaque to the engine; echoed for the caller.
type Moshaf struct {
	// Rewaya is the recitation transmission style (e.g. "hafs").
	Rewaya string `json:"rewaya"`

	// Madd lengths are measured in beats.
	MaddMonfaselLen  int `json:"madd_monfasel_len"`
	MaddMottaselLen  int `json:"madd_mottasel_len"`
	MaddMottaselWaqf int `json:"madd_mottasel_waqf"`
	MaddAaredLen     int `json:"madd_aared_len"`
}

// PhoneticScript is the reference phonetic transcription block.
type PhoneticScript struct {
	// PhonemesText is the expected phoneme stream derived from the verse
	// text under the configured recitation rules.
	PhonemesText string `json:"phonemes_text"`
}

// Reference describes the verse the recitation is being compared against.
type Reference struct {
	// Sura and Aya locate the verse. Nil when the caller analysed free text.
	Sura *int `json:"sura"`
	Aya  *int `json:"aya"`

	// UthmaniText is the canonical verse text, word-segmented by whitespace.
	UthmaniText string `json:"uthmani_text"`

	// ImlaeyWords is an optional plain-orthography word list parallel to the
	// verse's words. When present (and the counts agree) it is preferred as
	// the fuzzy-match target because it carries far fewer diacritics.
	ImlaeyWords []string `json:"imlaey_words"`

	Moshaf         Moshaf         `json:"moshaf"`
	PhoneticScript PhoneticScript `json:"phonetic_script"`
}

// PhonemeUnit is the model's phoneme prediction with per-phoneme
// probabilities and vocabulary ids.
type PhonemeUnit struct {
	Text  string    `json:"text"`
	Probs []float64 `json:"probs"`
	Ids   []int     `json:"ids"`
}

// AnalysisResponse is the complete upstream analysis of one recitation
// attempt. It is the engine's sole input: one response in, one explained
// result out, nothing persisted.
type AnalysisResponse struct {
	// PhonemesText is the actual phoneme stream transcribed from audio.
	PhonemesText string `json:"phonemes_text"`

	// Phonemes carries the per-phoneme probabilities behind PhonemesText.
	Phonemes *PhonemeUnit `json:"phonemes"`

	// ExpectedSifat is the reference-side attribute sequence. May be empty,
	// in which case word resolution falls back to positional estimation.
	ExpectedSifat []Sifa `json:"expected_sifat"`

	// PhonemeDiff is the externally computed code-point diff between the
	// expected and actual streams. May be empty; the engine then computes
	// the diff itself.
	PhonemeDiff []DiffSegment `json:"phoneme_diff"`

	// SifatErrors lists per-position attribute mismatches. May be empty.
	SifatErrors []SifatError `json:"sifat_errors"`

	// PhonemesByWord is the authoritative word→sifat-range mapping. When
	// present it supersedes the reconstructed mapping entirely.
	PhonemesByWord []WordPhonemes `json:"phonemes_by_word"`

	Reference Reference `json:"reference"`
}

// ExpectedText returns the expected phoneme stream from the reference block.
func (r *AnalysisResponse) ExpectedText() string {
	return r.Reference.PhoneticScript.PhonemesText
}
