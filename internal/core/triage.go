package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"triage-chatbot/internal/llm"
	"triage-chatbot/pkg"
)

// Store is the persistence collaborator the pipeline reads from and writes
// to. It must be safe for concurrent use; *db.Repository satisfies it.
type Store interface {
	Directory
	ApprovalStore
	AppointmentsByPatient(ctx context.Context, patientID string) ([]pkg.AppointmentRecord, error)
	PractitionerName(ctx context.Context, staffID string) (string, error)
}

// Triage sequences one conversation turn: red-flag check, history fetch,
// matching, routing, approval write, and response composition. Requests are
// independent; the only shared state is the admission limiter and the
// collaborator handles.
type Triage struct {
	store     Store
	redFlags  *RedFlagClassifier
	matcher   *HistoryMatcher
	router    *SpecialtyRouter
	approvals *ApprovalRecorder
	composer  *ResponseComposer
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewTriage wires the pipeline components over one NLU client and one
// store. The limiter is a token bucket shared across all requests,
// throttling admission against the NLU provider's quota.
func NewTriage(client llm.Client, store Store, limiter *rate.Limiter, logger *zap.Logger) *Triage {
	retry := llm.NewRetryer()
	return &Triage{
		store:     store,
		redFlags:  NewRedFlagClassifier(client, retry),
		matcher:   NewHistoryMatcher(client, retry),
		router:    NewSpecialtyRouter(client, retry, store),
		approvals: NewApprovalRecorder(store, logger),
		composer:  NewResponseComposer(client, retry),
		limiter:   limiter,
		logger:    logger,
	}
}

// Handle runs the full pipeline for one patient turn and returns the single
// reply string. Unrecovered failures propagate as errors so the boundary
// layer can return a generic safe message; they are never conflated with a
// composed reply.
func (t *Triage) Handle(ctx context.Context, patientID, message string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}

	flagged, err := t.redFlags.Check(ctx, message)
	if err != nil {
		return "", fmt.Errorf("red flag check: %w", err)
	}
	if flagged {
		t.logger.Warn("red flag symptoms detected", zap.String("patient_id", patientID))
		return EmergencyWarning, nil
	}

	records, err := t.store.AppointmentsByPatient(ctx, patientID)
	if err != nil {
		return "", fmt.Errorf("fetch appointment history: %w", err)
	}

	match, err := t.matcher.Match(ctx, message, records)
	if err != nil {
		return "", fmt.Errorf("history match: %w", err)
	}
	if !match.Found {
		return t.composer.Compose(ctx, message, match, "", "")
	}

	// Best effort only: a missing treating doctor never fails the turn.
	historyDoctor := ""
	if match.Record.StaffID != nil && *match.Record.StaffID != "" {
		name, err := t.store.PractitionerName(ctx, *match.Record.StaffID)
		if err != nil {
			t.logger.Warn("could not resolve treating doctor",
				zap.String("staff_id", *match.Record.StaffID), zap.Error(err))
		} else {
			historyDoctor = name
		}
	}

	practitioner, err := t.router.Route(ctx, message)
	if err != nil {
		return "", fmt.Errorf("specialty routing: %w", err)
	}
	if practitioner == nil {
		return t.composer.Compose(ctx, message, match, historyDoctor, "")
	}

	// The audit variant is composed without the routing notice so the stored
	// suggestion stands on its own, then recorded before the user sees the
	// routed reply.
	audit, err := t.composer.Compose(ctx, message, match, historyDoctor, "")
	if err != nil {
		return "", fmt.Errorf("compose audit suggestion: %w", err)
	}
	if _, err := t.approvals.Record(ctx, patientID, practitioner.ID, message, audit); err != nil {
		return "", fmt.Errorf("record pending approval: %w", err)
	}

	return t.composer.Compose(ctx, message, match, historyDoctor, practitioner.Name)
}
