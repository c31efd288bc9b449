package core

import (
	"context"
	"strings"

	"triage-chatbot/internal/llm"
)

// RedFlagClassifier detects potential medical emergencies in free-text
// symptom descriptions via the NLU collaborator.
type RedFlagClassifier struct {
	llm   llm.Client
	retry *llm.Retryer
}

// NewRedFlagClassifier constructs a classifier using the given NLU client.
func NewRedFlagClassifier(client llm.Client, retry *llm.Retryer) *RedFlagClassifier {
	return &RedFlagClassifier{llm: client, retry: retry}
}

// Check reports whether text describes a red-flag symptom. The reply is
// trimmed and lower-cased and only the exact literal "true" counts; a
// verbose or malformed answer is absorbed as "no red flag" so that noisy
// NLU output never triggers a false emergency.
func (c *RedFlagClassifier) Check(ctx context.Context, text string) (bool, error) {
	reply, err := llm.Do(ctx, c.retry, func(ctx context.Context) (string, error) {
		return c.llm.ClassifyBoolean(ctx, redFlagPrompt(text))
	})
	if err != nil {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(reply)) == "true", nil
}
