package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client is the NLU collaborator. Exactly one concrete implementation is
// selected at construction time; callers never branch on provider identity.
type Client interface {
	// ClassifyBoolean asks for a boolean-like answer and returns the raw
	// reply text. Parsing is the caller's responsibility.
	ClassifyBoolean(ctx context.Context, prompt string) (string, error)
	// ClassifyText asks for a short free-text label.
	ClassifyText(ctx context.Context, prompt string) (string, error)
	// GenerateJSON asks for a JSON object reply. An empty map signals "no
	// result" by convention; unparsable output returns a *ParseError.
	GenerateJSON(ctx context.Context, prompt string) (map[string]any, error)
	// GenerateText asks for a full natural-language reply.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ErrRateLimited marks a transient quota failure from the provider. It is
// the only error kind the Retryer retries.
var ErrRateLimited = errors.New("llm: rate limited")

// ParseError reports that the provider returned text that could not be
// decoded as the requested JSON object.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("llm: unparsable JSON reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
