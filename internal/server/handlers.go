package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tilawa-app/tilawa/internal/classify"
	"github.com/tilawa-app/tilawa/internal/observe"
	"github.com/tilawa-app/tilawa/pkg/types"
)

// maxBodyBytes caps request bodies. Even long suras with full attribute
// records stay well under this.
const maxBodyBytes = 4 << 20

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error string `json:"error"`
}

// bestMatchRequest is the body of POST /v1/bestmatch.
type bestMatchRequest struct {
	// Text is the recited phoneme stream to locate.
	Text string `json:"text"`

	// Candidates are the reference phoneme streams of the candidate verses.
	Candidates []string `json:"candidates"`
}

// bestMatchResponse is the reply of POST /v1/bestmatch.
type bestMatchResponse struct {
	// Index is the position of the best candidate, or -1 when none scored
	// above the matcher threshold.
	Index int `json:"index"`

	// Score is the similarity score of the best candidate (0.0–1.0).
	Score float64 `json:"score"`

	// Matched is true when a candidate scored above the threshold.
	Matched bool `json:"matched"`
}

// handleExplain decodes an upstream analysis response, runs the engine over
// it, and returns the classified, word-grouped errors with the score.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var resp types.AnalysisResponse
	if !decodeBody(w, r, &resp) {
		return
	}

	result, err := s.engine.Load().Analyze(r.Context(), &resp)
	if err != nil {
		if errors.Is(err, classify.ErrMalformedDiff) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		observe.Logger(r.Context()).Error("analysis failed", slog.String("err", err.Error()))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleBestMatch ranks candidate verse streams against the recited text.
func (s *Server) handleBestMatch(w http.ResponseWriter, r *http.Request) {
	var req bestMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, "candidates is required")
		return
	}

	start := time.Now()
	idx, score, matched := s.matcher.Load().Best(req.Text, req.Candidates)
	s.metrics.BestMatchDuration.Record(r.Context(), time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, bestMatchResponse{
		Index:   idx,
		Score:   score,
		Matched: matched,
	})
}

// decodeBody decodes the request body into v, writing a 400 reply and
// returning false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
