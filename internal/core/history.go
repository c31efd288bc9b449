package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"triage-chatbot/internal/llm"
	"triage-chatbot/pkg"
)

// HistoryMatcher finds the single best matching past appointment for new
// symptom text. The similarity judgment itself is delegated to the NLU
// collaborator; the matcher's job is to keep that judgment from corrupting
// downstream decisions: whatever comes back, only a doc_id that exists in
// the supplied record set can produce a match, and the returned record is
// always the locally-held copy.
type HistoryMatcher struct {
	llm   llm.Client
	retry *llm.Retryer
}

// NewHistoryMatcher constructs a matcher using the given NLU client.
func NewHistoryMatcher(client llm.Client, retry *llm.Retryer) *HistoryMatcher {
	return &HistoryMatcher{llm: client, retry: retry}
}

// matchCandidate is the reduced projection of an appointment sent to the
// NLU; everything else stays local.
type matchCandidate struct {
	DocID           string `json:"doc_id"`
	AppointmentDate string `json:"appointmentDate"`
	SymptomsText    string `json:"symptomsText"`
}

// Match returns the best matching record for newText, or NotFound. An empty
// history short-circuits without an NLU call. Unparsable NLU output, an
// answer without a doc_id, and a doc_id outside the supplied set all coerce
// to NotFound rather than failing the request.
func (m *HistoryMatcher) Match(ctx context.Context, newText string, records []pkg.AppointmentRecord) (pkg.MatchResult, error) {
	if len(records) == 0 {
		return pkg.MatchNotFound(), nil
	}

	candidates := make([]matchCandidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, matchCandidate{
			DocID:           rec.DocID,
			AppointmentDate: rec.AppointmentDate.Format("2006-01-02"),
			SymptomsText:    rec.SymptomsText,
		})
	}
	candidatesJSON, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return pkg.MatchNotFound(), fmt.Errorf("encode match candidates: %w", err)
	}

	reply, err := llm.Do(ctx, m.retry, func(ctx context.Context) (map[string]any, error) {
		return m.llm.GenerateJSON(ctx, matchPrompt(newText, string(candidatesJSON)))
	})
	if err != nil {
		var parseErr *llm.ParseError
		if errors.As(err, &parseErr) {
			// Soft failure: a reply we cannot decode means no match.
			return pkg.MatchNotFound(), nil
		}
		return pkg.MatchNotFound(), err
	}

	docID, _ := reply["doc_id"].(string)
	if docID == "" {
		return pkg.MatchNotFound(), nil
	}
	for _, rec := range records {
		if rec.DocID == docID {
			return pkg.MatchFound(rec), nil
		}
	}
	// The NLU referenced an id that was never offered. Expected noise from
	// the generation step, not a system fault.
	return pkg.MatchNotFound(), nil
}
