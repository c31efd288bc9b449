package core

import (
	"context"
	"strings"

	"triage-chatbot/internal/llm"
	"triage-chatbot/pkg"
)

// Directory resolves practitioners by specialty. Which practitioner is
// returned among duplicates is unspecified; callers must not depend on it.
type Directory interface {
	PractitionerBySpecialty(ctx context.Context, specialty string) (*pkg.Practitioner, error)
}

// SpecialtyRouter derives a medical specialty from symptom text and resolves
// an available practitioner for it.
type SpecialtyRouter struct {
	llm       llm.Client
	retry     *llm.Retryer
	directory Directory
}

// NewSpecialtyRouter constructs a router over the given NLU client and
// practitioner directory.
func NewSpecialtyRouter(client llm.Client, retry *llm.Retryer, directory Directory) *SpecialtyRouter {
	return &SpecialtyRouter{llm: client, retry: retry, directory: directory}
}

// Route returns the practitioner the report should go to, or nil when
// either no specialty label comes back or no practitioner carries it.
// A nil result disables routing without failing the pipeline.
func (r *SpecialtyRouter) Route(ctx context.Context, text string) (*pkg.Practitioner, error) {
	label, err := llm.Do(ctx, r.retry, func(ctx context.Context) (string, error) {
		return r.llm.ClassifyText(ctx, specialtyPrompt(text))
	})
	if err != nil {
		return nil, err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, nil
	}
	return r.directory.PractitionerBySpecialty(ctx, label)
}
