// Package arabic provides the code-point level text utilities the alignment
// engine is built on: diacritic stripping, phonetic-symbol canonicalisation,
// and the fixed character classes (vowel marks, elongation letters) used to
// categorise recitation errors.
//
// Everything here operates on Unicode code points, never on rendered glyph
// clusters — Arabic combining marks form multi-code-point clusters with their
// base letter, and the diff the engine consumes is code-point aligned.
package arabic

import "strings"

// UncertainMark is the opaque placeholder the transcription model emits for
// audio it could not resolve to any phoneme. The engine treats it as an
// ordinary letter-class code point.
const UncertainMark = '�'

// Code points referenced by the normaliser and the character classes.
const (
	tatweel       = 'ـ' // ـ elongation stroke
	alef          = 'ا' // ا
	alefMadda     = 'آ' // آ
	alefHamzaAbv  = 'أ' // أ
	alefHamzaBlw  = 'إ' // إ
	alefWasla     = 'ٱ' // ٱ
	daggerAlef    = 'ٰ' // ◌ٰ superscript alef
	waw           = 'و' // و
	yeh           = 'ي' // ي
	alefMaqsura   = 'ى' // ى
	tehMarbuta    = 'ة' // ة
	heh           = 'ه' // ه
	smallWaw      = 'ۥ' // ۥ small elongation waw
	smallYeh      = 'ۦ' // ۦ small elongation yeh
)

// variantToBase maps phonetic-symbol variants to their canonical base letter.
// Applied before diacritic stripping so the small elongation markers survive
// as full letters rather than being discarded as annotation marks.
var variantToBase = map[rune]rune{
	alefMadda:    alef,
	alefHamzaAbv: alef,
	alefHamzaBlw: alef,
	alefWasla:    alef,
	daggerAlef:   alef,
	smallWaw:     waw,
	smallYeh:     yeh,
	alefMaqsura:  yeh,
	tehMarbuta:   heh,
}

// combiningRanges is the fixed set of Unicode ranges holding Arabic combining
// marks: honorific signs, harakat and tanween, and the quranic annotation
// blocks. Inclusive bounds.
var combiningRanges = [...][2]rune{
	{0x0610, 0x061A}, // Arabic signs (honorifics, small waqf marks)
	{0x064B, 0x065F}, // tanween, harakat, shadda, sukun, superscript marks
	{0x06D6, 0x06DC}, // quranic annotation: small high ligatures
	{0x06DF, 0x06E4}, // quranic annotation: small high marks
	{0x06E7, 0x06E8}, // small high yeh/noon (annotation, not elongation)
	{0x06EA, 0x06ED}, // quranic annotation: small low marks
	{0x08D3, 0x08FF}, // Arabic Extended-A combining marks
}

// isCombining reports whether r falls inside one of the fixed combining-mark
// ranges stripped by [Normalize].
func isCombining(r rune) bool {
	for _, rng := range combiningRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// Normalize canonicalises Arabic phonetic or orthographic text for fuzzy
// comparison. It is the single normal form shared by the word mapper and the
// classifiers; both sides of every comparison pass through it.
//
// In order:
//
//  1. Phonetic-symbol variants are mapped to base letters: small elongation
//     waw/yeh to their full letters, hamza-bearing and dagger alef variants
//     to plain alef, alef maqsura to yeh, teh marbuta to heh.
//  2. The tatweel stroke and all combining marks (harakat, shadda, quranic
//     annotation marks) are removed.
//  3. Runs of identical consecutive code points collapse to one, so the
//     doubled letters a phonetic transcription writes for gemination and
//     elongation match the single orthographic letter.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	var last rune = -1
	for _, r := range text {
		if base, ok := variantToBase[r]; ok {
			r = base
		}
		if r == tatweel || isCombining(r) {
			continue
		}
		if r == last {
			continue
		}
		b.WriteRune(r)
		last = r
	}
	return b.String()
}

// Harakat identifies one of the short-vowel diacritic marks.
type Harakat rune

// The closed harakat enumeration. Tanween marks are the doubled-vowel forms
// written at nunation.
const (
	Fathatan Harakat = 'ً' // ً
	Dammatan Harakat = 'ٌ' // ٌ
	Kasratan Harakat = 'ٍ' // ٍ
	Fatha    Harakat = 'َ' // َ
	Damma    Harakat = 'ُ' // ُ
	Kasra    Harakat = 'ِ' // ِ
	Sukun    Harakat = 'ْ' // ْ
)

// harakatNames is the exhaustive Arabic label table for the harakat
// enumeration. Every mark in the closed set has an entry; an absent entry in
// a lookup is a bug, surfaced by tests, not silently passed through.
var harakatNames = map[Harakat]string{
	Fatha:    "فتحة",
	Damma:    "ضمة",
	Kasra:    "كسرة",
	Sukun:    "سكون",
	Fathatan: "فتحتان",
	Dammatan: "ضمتان",
	Kasratan: "كسرتان",
}

// Name returns the Arabic display name of h, or the empty string when h is
// not one of the closed enumeration values.
func (h Harakat) Name() string {
	return harakatNames[h]
}

// IsHarakat reports whether r is one of the short-vowel marks of the closed
// harakat enumeration (vowels, sukun, and the three tanween forms).
func IsHarakat(r rune) bool {
	_, ok := harakatNames[Harakat(r)]
	return ok
}

// FirstHarakat returns the first harakat code point in text and true, or
// zero and false when the text contains none.
func FirstHarakat(text string) (Harakat, bool) {
	for _, r := range text {
		if IsHarakat(r) {
			return Harakat(r), true
		}
	}
	return 0, false
}

// ContainsHarakat reports whether text contains at least one harakat mark.
func ContainsHarakat(text string) bool {
	_, ok := FirstHarakat(text)
	return ok
}

// IsMaddLetter reports whether r is an elongation-carrying letter: alef, waw
// or yeh, in full or small-marker form.
func IsMaddLetter(r rune) bool {
	switch r {
	case alef, waw, yeh, daggerAlef, smallWaw, smallYeh:
		return true
	}
	return false
}

// CountMaddLetters returns the number of elongation-letter code points in
// text. Zero means no elongation.
func CountMaddLetters(text string) int {
	n := 0
	for _, r := range text {
		if IsMaddLetter(r) {
			n++
		}
	}
	return n
}

// ContainsMaddLetter reports whether text contains at least one
// elongation-letter code point.
func ContainsMaddLetter(text string) bool {
	return CountMaddLetters(text) > 0
}
