package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tilawa-app/tilawa/internal/classify"
	"github.com/tilawa-app/tilawa/internal/engine"
	"github.com/tilawa-app/tilawa/pkg/types"
)

// response builds a minimal upstream analysis payload for the verse
// "قل هو" with the given recited stream.
func response(expected, actual string) *types.AnalysisResponse {
	return &types.AnalysisResponse{
		PhonemesText: actual,
		Reference: types.Reference{
			UthmaniText: "قُلْ هُوَ",
			ImlaeyWords: []string{"قل", "هو"},
			PhoneticScript: types.PhoneticScript{
				PhonemesText: expected,
			},
		},
	}
}

func TestAnalyze_PerfectRecitation(t *testing.T) {
	t.Parallel()

	eng := engine.New()
	res, err := eng.Analyze(context.Background(), response("قُلْ هُوَ", "قُلْ هُوَ"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Unrelated {
		t.Error("Unrelated = true, want false")
	}
	if res.Score != 100 {
		t.Errorf("Score = %f, want 100", res.Score)
	}
	if len(res.Words) != 0 {
		t.Errorf("Words = %v, want none", res.Words)
	}
}

func TestAnalyze_UsesProvidedDiff(t *testing.T) {
	t.Parallel()

	resp := response("قُلْ هُوَ", "قُلْ هُوَ")
	resp.PhonemeDiff = []types.DiffSegment{
		{Type: types.DiffEqual, Text: "قُلْ هُ"},
		{Type: types.DiffDelete, Text: "وَ"},
		{Type: types.DiffInsert, Text: "نَ"},
	}

	eng := engine.New()
	res, err := eng.Analyze(context.Background(), resp)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Unrelated {
		t.Fatal("Unrelated = true, want false")
	}
	if len(res.Words) != 1 {
		t.Fatalf("got %d word groups, want 1", len(res.Words))
	}
	if res.Words[0].Position != 1 {
		t.Errorf("error attributed to word %d, want 1", res.Words[0].Position)
	}
	if res.Score != 50 {
		t.Errorf("Score = %f, want 50 with one of two words wrong", res.Score)
	}
}

func TestAnalyze_ComputesDiffWhenAbsent(t *testing.T) {
	t.Parallel()

	// One diverging letter, no upstream diff: the fallback diff finds it.
	eng := engine.New()
	res, err := eng.Analyze(context.Background(), response("قُلْ هُوَ", "قُلْ هُنَ"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Unrelated {
		t.Fatal("Unrelated = true, want false")
	}
	if res.Score == 100 {
		t.Error("Score = 100, want a deduction for the diverging letter")
	}
	if len(res.Words) == 0 {
		t.Error("Words is empty, want the diverging word reported")
	}
}

func TestAnalyze_DiffFallbackDisabled(t *testing.T) {
	t.Parallel()

	// Without a diff and with the fallback off, related streams produce a
	// clean result even when they diverge.
	eng := engine.New(engine.WithDiffFallback(false))
	res, err := eng.Analyze(context.Background(), response("قُلْ هُوَ", "قُلْ هُنَ"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Unrelated {
		t.Fatal("Unrelated = true, want false")
	}
	if res.Score != 100 {
		t.Errorf("Score = %f, want 100 with no diff to classify", res.Score)
	}
}

func TestAnalyze_UnrelatedVerse(t *testing.T) {
	t.Parallel()

	// A recitation a fraction of the reference length is a different verse.
	eng := engine.New()
	res, err := eng.Analyze(context.Background(), response("الحمد لله رب العالمين الرحمن الرحيم", "قل"))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !res.Unrelated {
		t.Fatal("Unrelated = false, want true")
	}
	if res.Score != 0 {
		t.Errorf("Score = %f, want 0 for an unrelated verse", res.Score)
	}
	if res.Words != nil {
		t.Errorf("Words = %v, want nil for an unrelated verse", res.Words)
	}
}

func TestAnalyze_MalformedDiff(t *testing.T) {
	t.Parallel()

	resp := response("قُلْ هُوَ", "قُلْ هُوَ")
	resp.PhonemeDiff = []types.DiffSegment{
		{Type: "bogus", Text: "قُلْ هُوَ"},
	}

	eng := engine.New()
	_, err := eng.Analyze(context.Background(), resp)
	if !errors.Is(err, classify.ErrMalformedDiff) {
		t.Errorf("err = %v, want ErrMalformedDiff", err)
	}
}

func TestAnalyze_SifatErrors(t *testing.T) {
	t.Parallel()

	resp := response("قُلْ هُوَ", "قُلْ هُوَ")
	resp.ExpectedSifat = []types.Sifa{
		{Index: 0, Phonemes: "قُ"},
		{Index: 1, Phonemes: "لْ "},
		{Index: 2, Phonemes: "هُ"},
		{Index: 3, Phonemes: "وَ"},
	}
	resp.PhonemesByWord = []types.WordPhonemes{
		{WordIndex: 0, Word: "قل", Phonemes: "قُلْ ", SifatStart: 0, SifatEnd: 1},
		{WordIndex: 1, Word: "هو", Phonemes: "هُوَ", SifatStart: 2, SifatEnd: 3},
	}
	resp.SifatErrors = []types.SifatError{{
		Index:           3,
		Phoneme:         "وَ",
		ExpectedPhoneme: "وَ",
		Errors: []types.SifatMismatch{{
			Attribute: "ghonna",
			Expected:  "maghnoon",
			Actual:    "not_maghnoon",
			Prob:      0.88,
		}},
	}}

	eng := engine.New()
	res, err := eng.Analyze(context.Background(), resp)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Words) != 1 {
		t.Fatalf("got %d word groups, want 1", len(res.Words))
	}
	if res.Words[0].Position != 1 {
		t.Errorf("attribute error attributed to word %d, want 1 via the authoritative ranges", res.Words[0].Position)
	}
	if res.Score != 50 {
		t.Errorf("Score = %f, want 50", res.Score)
	}
}
