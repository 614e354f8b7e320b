package classify_test

import (
	"errors"
	"testing"

	"github.com/tilawa-app/tilawa/internal/align"
	"github.com/tilawa-app/tilawa/internal/classify"
	"github.com/tilawa-app/tilawa/internal/verse"
	"github.com/tilawa-app/tilawa/pkg/types"
)

// seg is shorthand for a diff segment.
func seg(kind types.DiffKind, text string) types.DiffSegment {
	return types.DiffSegment{Type: kind, Text: text}
}

// streamClassifier builds a classifier with no sifat data: stream positions
// feed a proportional estimate over the expected stream, the way the engine
// arranges it for responses without attribute records.
func streamClassifier(expected string, words []verse.Word) *classify.Classifier {
	resolve := align.Chain(
		align.Proportional(len([]rune(expected)), len(words)),
		align.LastWord(len(words)),
	)
	return classify.NewClassifier(words, align.NewSpanIndex(nil), resolve)
}

func TestClassify_LetterSubstitution(t *testing.T) {
	t.Parallel()

	// The reciter said ر where the reference has ل.
	expected := "بل"
	words := verse.Segment("بل", nil)
	diff := []types.DiffSegment{
		seg(types.DiffEqual, "ب"),
		seg(types.DiffDelete, "ل"),
		seg(types.DiffInsert, "ر"),
	}

	errs, err := streamClassifier(expected, words).Classify(diff, expected)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}

	e := errs[0]
	if e.Category != classify.CategoryLetters {
		t.Errorf("Category = %q, want letters", e.Category)
	}
	if e.Expected != "ل" || e.Actual != "ر" {
		t.Errorf("Expected/Actual = %q/%q, want ل/ر", e.Expected, e.Actual)
	}
	if e.Phoneme != "ل" {
		t.Errorf("Phoneme = %q, want the expected-side text ل", e.Phoneme)
	}
	if e.Confidence != 1.0 {
		t.Errorf("Confidence = %f, want 1.0", e.Confidence)
	}
}

func TestClassify_HarakatSubstitution(t *testing.T) {
	t.Parallel()

	// فتحة recited as ضمة. The discrepancy is mark-only, so the highlighted
	// phoneme is the letter the mark was attached to.
	expected := "بَم"
	words := verse.Segment("بم", nil)
	diff := []types.DiffSegment{
		seg(types.DiffEqual, "ب"),
		seg(types.DiffDelete, "َ"),
		seg(types.DiffInsert, "ُ"),
		seg(types.DiffEqual, "م"),
	}

	errs, err := streamClassifier(expected, words).Classify(diff, expected)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}

	e := errs[0]
	if e.Category != classify.CategoryHarakat {
		t.Errorf("Category = %q, want harakat", e.Category)
	}
	if e.Expected != "فتحة" {
		t.Errorf("Expected = %q, want فتحة", e.Expected)
	}
	if e.Actual != "ضمة" {
		t.Errorf("Actual = %q, want ضمة", e.Actual)
	}
	if e.Phoneme != "ب" {
		t.Errorf("Phoneme = %q, want the preceding letter ب", e.Phoneme)
	}
}

func TestClassify_HarakatOmission(t *testing.T) {
	t.Parallel()

	expected := "بَم"
	words := verse.Segment("بم", nil)
	diff := []types.DiffSegment{
		seg(types.DiffEqual, "ب"),
		seg(types.DiffDelete, "َ"),
		seg(types.DiffEqual, "م"),
	}

	errs, err := streamClassifier(expected, words).Classify(diff, expected)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}

	e := errs[0]
	if e.Category != classify.CategoryHarakat {
		t.Errorf("Category = %q, want harakat", e.Category)
	}
	if e.Expected != "فتحة" {
		t.Errorf("Expected = %q, want فتحة", e.Expected)
	}
	if e.Actual != classify.ValueMissing {
		t.Errorf("Actual = %q, want %q", e.Actual, classify.ValueMissing)
	}
}

func TestClassify_MaddShortened(t *testing.T) {
	t.Parallel()

	// The reference elongates over two alefs; the reciter produced none.
	expected := "قاا"
	words := verse.Segment("قا", nil)
	diff := []types.DiffSegment{
		seg(types.DiffEqual, "ق"),
		seg(types.DiffDelete, "اا"),
	}

	errs, err := streamClassifier(expected, words).Classify(diff, expected)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}

	e := errs[0]
	if e.Category != classify.CategoryMadd {
		t.Errorf("Category = %q, want madd", e.Category)
	}
	if e.Expected != "2" {
		t.Errorf("Expected = %q, want elongation count 2", e.Expected)
	}
	if e.Actual != "0" {
		t.Errorf("Actual = %q, want elongation count 0", e.Actual)
	}
}

func TestClassify_PairsDeletionsWithInsertions(t *testing.T) {
	t.Parallel()

	// Two separated substitutions pair first-with-first, second-with-second.
	expected := "بم تن"
	words := verse.Segment("بم تن", nil)
	diff := []types.DiffSegment{
		seg(types.DiffDelete, "ب"),
		seg(types.DiffInsert, "ث"),
		seg(types.DiffEqual, "م ت"),
		seg(types.DiffDelete, "ن"),
		seg(types.DiffInsert, "ر"),
	}

	errs, err := streamClassifier(expected, words).Classify(diff, expected)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
	if errs[0].Expected != "ب" || errs[0].Actual != "ث" {
		t.Errorf("first pair = %q/%q, want ب/ث", errs[0].Expected, errs[0].Actual)
	}
	if errs[1].Expected != "ن" || errs[1].Actual != "ر" {
		t.Errorf("second pair = %q/%q, want ن/ر", errs[1].Expected, errs[1].Actual)
	}
}

func TestClassify_UnpairedAddition(t *testing.T) {
	t.Parallel()

	expected := "بم"
	words := verse.Segment("بم", nil)
	diff := []types.DiffSegment{
		seg(types.DiffEqual, "بم"),
		seg(types.DiffInsert, "ت"),
	}

	errs, err := streamClassifier(expected, words).Classify(diff, expected)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if errs[0].Expected != classify.ValueNone {
		t.Errorf("Expected = %q, want %q", errs[0].Expected, classify.ValueNone)
	}
	if errs[0].Actual != "ت" {
		t.Errorf("Actual = %q, want ت", errs[0].Actual)
	}
}

func TestClassify_NoErrorsOnEqualStreams(t *testing.T) {
	t.Parallel()

	expected := "بم"
	words := verse.Segment("بم", nil)
	diff := []types.DiffSegment{seg(types.DiffEqual, "بم")}

	errs, err := streamClassifier(expected, words).Classify(diff, expected)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("got %d errors, want 0", len(errs))
	}
}

func TestClassify_MalformedDiff(t *testing.T) {
	t.Parallel()

	expected := "بم"
	words := verse.Segment("بم", nil)

	tests := []struct {
		name string
		diff []types.DiffSegment
	}{
		{
			name: "unknown kind",
			diff: []types.DiffSegment{{Type: "replace", Text: "بم"}},
		},
		{
			name: "does not reconstruct expected",
			diff: []types.DiffSegment{seg(types.DiffEqual, "بت")},
		},
		{
			name: "missing tail",
			diff: []types.DiffSegment{seg(types.DiffEqual, "ب")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := streamClassifier(expected, words).Classify(tt.diff, expected)
			if !errors.Is(err, classify.ErrMalformedDiff) {
				t.Errorf("err = %v, want ErrMalformedDiff", err)
			}
		})
	}
}

func TestClassify_ResolvesWordBySifatSpans(t *testing.T) {
	t.Parallel()

	// Two words, sifat spans covering them via the authoritative ranges.
	// An error inside the second word's span must resolve to word 1.
	expected := "قلهو"
	words := verse.Segment("قل هو", nil)
	units := []types.Sifa{
		{Index: 0, Phonemes: "ق"},
		{Index: 1, Phonemes: "ل"},
		{Index: 2, Phonemes: "ه"},
		{Index: 3, Phonemes: "و"},
	}
	resolve := align.Chain(
		align.Authoritative([]types.WordPhonemes{
			{WordIndex: 0, SifatStart: 0, SifatEnd: 1},
			{WordIndex: 1, SifatStart: 2, SifatEnd: 3},
		}),
		align.LastWord(len(words)),
	)
	c := classify.NewClassifier(words, align.NewSpanIndex(units), resolve)

	diff := []types.DiffSegment{
		seg(types.DiffEqual, "قله"),
		seg(types.DiffDelete, "و"),
		seg(types.DiffInsert, "ت"),
	}

	errs, err := c.Classify(diff, expected)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if errs[0].WordIndex != 1 {
		t.Errorf("WordIndex = %d, want 1", errs[0].WordIndex)
	}
	if errs[0].Word != "هو" {
		t.Errorf("Word = %q, want هو", errs[0].Word)
	}
}
