package core

import (
	"context"
	"fmt"
	"strings"

	"triage-chatbot/internal/llm"
	"triage-chatbot/pkg"
)

// ResponseComposer produces the final user-facing message. The factual
// pieces (match summary, routing notice, disclaimer) are assembled locally;
// the final wording is synthesized by NLU generation. There is no local
// fallback template, so an unavailable NLU collaborator fails composition.
type ResponseComposer struct {
	llm   llm.Client
	retry *llm.Retryer
}

// NewResponseComposer constructs a composer using the given NLU client.
func NewResponseComposer(client llm.Client, retry *llm.Retryer) *ResponseComposer {
	return &ResponseComposer{llm: client, retry: retry}
}

// Compose builds and synthesizes the reply for this turn. An empty
// routedDoctorName omits the routing notice and softens the disclaimer.
func (c *ResponseComposer) Compose(ctx context.Context, newText string, match pkg.MatchResult, historyDoctorName, routedDoctorName string) (string, error) {
	suggestion := suggestionText(match, historyDoctorName)

	routingMessage := ""
	if routedDoctorName != "" {
		routingMessage = fmt.Sprintf("\n\nThis suggestion has now been forwarded to a real doctor, Dr. %s, for review. Please wait for the doctor's approval before taking any action.", routedDoctorName)
	}

	callToAction := "Please consult a doctor for an accurate diagnosis."
	if routedDoctorName != "" {
		callToAction = "You must wait for a doctor's final approval."
	}

	return llm.Do(ctx, c.retry, func(ctx context.Context) (string, error) {
		return c.llm.GenerateText(ctx, composePrompt(newText, suggestion, routingMessage, callToAction))
	})
}

// suggestionText summarizes the match outcome for the synthesis prompt.
func suggestionText(match pkg.MatchResult, historyDoctorName string) string {
	if !match.Found {
		return "After reviewing your past medical records, no appointments with similar symptoms were found."
	}

	rec := match.Record
	doctor := historyDoctorName
	if doctor == "" {
		doctor = "the doctor"
	}

	var lines []string
	for _, p := range rec.Prescriptions {
		if p.Name == "" {
			continue
		}
		line := strings.TrimSpace(fmt.Sprintf("- %s %s", p.Name, p.Strength))
		if p.Purpose != "" {
			line += fmt.Sprintf(" (for %s)", p.Purpose)
		}
		lines = append(lines, line)
	}
	prescriptions := "No specific prescriptions were listed."
	if len(lines) > 0 {
		prescriptions = strings.Join(lines, "\n")
	}

	return fmt.Sprintf("Based on your symptoms, I found a past appointment with Dr. %s on %s for similar symptoms ('%s').\nThe suggested prescription at that time was:\n%s",
		doctor, rec.AppointmentDate.Format("2006-01-02"), rec.SymptomsText, prescriptions)
}
