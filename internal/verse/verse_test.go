package verse_test

import (
	"testing"

	"github.com/tilawa-app/tilawa/internal/verse"
)

func TestSegment_SplitsOnWhitespace(t *testing.T) {
	t.Parallel()

	words := verse.Segment("قُلْ هُوَ ٱللَّهُ أَحَدٌ", nil)
	if len(words) != 4 {
		t.Fatalf("Segment: got %d words, want 4", len(words))
	}
	for i, w := range words {
		if w.Index != i {
			t.Errorf("words[%d].Index = %d, want %d", i, w.Index, i)
		}
		if w.MatchText != w.Text {
			t.Errorf("words[%d].MatchText = %q, want canonical text %q", i, w.MatchText, w.Text)
		}
	}
	if words[2].Text != "ٱللَّهُ" {
		t.Errorf("words[2].Text = %q, want %q", words[2].Text, "ٱللَّهُ")
	}
}

func TestSegment_PrefersImlaeyWords(t *testing.T) {
	t.Parallel()

	imlaey := []string{"قل", "هو", "الله", "أحد"}
	words := verse.Segment("قُلْ هُوَ ٱللَّهُ أَحَدٌ", imlaey)
	if len(words) != 4 {
		t.Fatalf("Segment: got %d words, want 4", len(words))
	}
	for i, w := range words {
		if w.MatchText != imlaey[i] {
			t.Errorf("words[%d].MatchText = %q, want imlaey %q", i, w.MatchText, imlaey[i])
		}
		if w.Text == w.MatchText {
			t.Errorf("words[%d].Text should keep diacritics, got %q", i, w.Text)
		}
	}
}

func TestSegment_IgnoresMismatchedImlaeyCount(t *testing.T) {
	t.Parallel()

	words := verse.Segment("قُلْ هُوَ", []string{"قل"})
	for i, w := range words {
		if w.MatchText != w.Text {
			t.Errorf("words[%d].MatchText = %q, want canonical %q", i, w.MatchText, w.Text)
		}
	}
}

func TestSegment_Empty(t *testing.T) {
	t.Parallel()

	if words := verse.Segment("", nil); words != nil {
		t.Errorf("Segment(\"\") = %v, want nil", words)
	}
	if words := verse.Segment("   \t\n ", nil); words != nil {
		t.Errorf("Segment(whitespace) = %v, want nil", words)
	}
}

func TestFirstIndex(t *testing.T) {
	t.Parallel()

	words := verse.Segment("بسم الله الرحمن الله", nil)

	if got := verse.FirstIndex(words, "الله"); got != 1 {
		t.Errorf("FirstIndex(الله) = %d, want first occurrence 1", got)
	}
	if got := verse.FirstIndex(words, "غائب"); got != -1 {
		t.Errorf("FirstIndex(absent) = %d, want -1", got)
	}
}
