// Package engine orchestrates a full recitation analysis: it gates obviously
// unrelated recitations, classifies the phoneme diff and the phonetic
// attribute mismatches into explainable errors, groups them by verse word,
// and scores the recitation.
//
// The engine itself is stateless and safe for concurrent use; each call to
// [Engine.Analyze] works on its own inputs.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/tilawa-app/tilawa/internal/align"
	"github.com/tilawa-app/tilawa/internal/classify"
	"github.com/tilawa-app/tilawa/internal/observe"
	"github.com/tilawa-app/tilawa/internal/report"
	"github.com/tilawa-app/tilawa/internal/verse"
	"github.com/tilawa-app/tilawa/pkg/types"
)

// Result is the outcome of one analysis.
type Result struct {
	// Unrelated is true when the recitation looks like a different verse
	// entirely. In that case no errors are reported and Score is zero.
	Unrelated bool `json:"unrelated"`

	// Score is the 0–100 recitation score.
	Score float64 `json:"score"`

	// Words groups the classified errors by verse word, in verse order.
	// Nil when Unrelated is true or no errors were found.
	Words []report.WordGroup `json:"words,omitempty"`
}

// Option configures an [Engine].
type Option func(*Engine)

// WithUnrelatedThreshold overrides the different-verse detection threshold.
func WithUnrelatedThreshold(t float64) Option {
	return func(e *Engine) {
		e.detector = NewDetector(t)
	}
}

// WithDiffFallback controls whether the engine computes a code-point diff
// itself when the upstream response carries none. Enabled by default.
func WithDiffFallback(enabled bool) Option {
	return func(e *Engine) {
		e.diffFallback = enabled
	}
}

// WithMetrics overrides the metrics instance used for instrumentation.
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine turns an upstream analysis response into classified, word-grouped
// recitation errors and a score.
type Engine struct {
	detector     Detector
	diffFallback bool
	metrics      *observe.Metrics
}

// New creates an [Engine] with the given options applied over the defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		detector:     NewDetector(DefaultUnrelatedThreshold),
		diffFallback: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	return e
}

// Analyze runs the full pipeline over one upstream response:
//
//  1. Fill in the code-point diff when the response carries none (optional).
//  2. Gate: when the recitation looks like a different verse, stop and
//     report Unrelated without detailed errors.
//  3. Classify diff segments into harakat, madd, and letter errors, and
//     adapt the phonetic attribute mismatches.
//  4. Group errors by verse word and compute the score.
//
// The response is read-only; Analyze never mutates it.
func (e *Engine) Analyze(ctx context.Context, resp *types.AnalysisResponse) (*Result, error) {
	ctx, span := observe.StartSpan(ctx, "engine.analyze")
	defer span.End()

	start := time.Now()
	log := observe.Logger(ctx)

	expected := resp.ExpectedText()
	actual := resp.PhonemesText

	diff := resp.PhonemeDiff
	if len(diff) == 0 && e.diffFallback && expected != "" && actual != "" {
		diff = computeDiff(expected, actual)
		log.Debug("computed phoneme diff locally", slog.Int("segments", len(diff)))
	}

	if e.detector.Unrelated(expected, actual, diff) {
		e.metrics.RecordUnrelated(ctx)
		log.Info("recitation unrelated to reference verse",
			slog.Int("expected_len", len([]rune(expected))),
			slog.Int("actual_len", len([]rune(actual))),
		)
		return &Result{Unrelated: true}, nil
	}

	words := verse.Segment(resp.Reference.UthmaniText, resp.Reference.ImlaeyWords)
	classifier := classify.NewClassifier(words, align.NewSpanIndex(resp.ExpectedSifat), e.resolver(resp, words, expected))

	var errors []classify.Error
	if len(diff) > 0 {
		diffErrs, err := classifier.Classify(diff, expected)
		if err != nil {
			return nil, err
		}
		errors = append(errors, diffErrs...)
	}
	errors = append(errors, classifier.AdaptSifatErrors(resp.SifatErrors)...)

	for _, ce := range errors {
		e.metrics.RecordClassifiedError(ctx, string(ce.Category))
	}

	res := &Result{
		Score: report.Score(errors, words),
		Words: report.Group(errors, words),
	}
	e.metrics.RecordAnalysis(ctx, time.Since(start), res.Score)
	log.Debug("analysis complete",
		slog.Int("errors", len(errors)),
		slog.Float64("score", res.Score),
	)
	return res, nil
}

// resolver assembles the word-resolution tiers for one response, most
// trustworthy first. With attribute records present, positions index the
// sifat sequence; without them, positions index the expected phoneme stream
// directly and only proportional splitting applies.
func (e *Engine) resolver(resp *types.AnalysisResponse, words []verse.Word, expected string) align.WordResolver {
	var tiers []align.WordResolver
	if len(resp.ExpectedSifat) > 0 {
		if len(resp.PhonemesByWord) > 0 {
			tiers = append(tiers, align.Authoritative(resp.PhonemesByWord))
		}
		tiers = append(tiers,
			align.FromMapping(align.BuildMapping(resp.ExpectedSifat, words)),
			align.Proportional(len(resp.ExpectedSifat), len(words)),
		)
	} else {
		tiers = append(tiers, align.Proportional(len([]rune(expected)), len(words)))
	}
	tiers = append(tiers, align.LastWord(len(words)))
	return align.Chain(tiers...)
}

// computeDiff builds a code-point diff between the expected and actual
// phoneme streams. Segment boundaries stay code-point aligned because the
// underlying algorithm operates on runes.
func computeDiff(expected, actual string) []types.DiffSegment {
	dmp := diffmatchpatch.New()
	raw := dmp.DiffMain(expected, actual, false)

	segs := make([]types.DiffSegment, 0, len(raw))
	for _, d := range raw {
		if d.Text == "" {
			continue
		}
		var kind types.DiffKind
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = types.DiffInsert
		case diffmatchpatch.DiffDelete:
			kind = types.DiffDelete
		default:
			kind = types.DiffEqual
		}
		segs = append(segs, types.DiffSegment{Type: kind, Text: d.Text})
	}
	return segs
}
