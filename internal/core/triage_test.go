package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"triage-chatbot/internal/llm"
	"triage-chatbot/pkg"
)

func newTestTriage(nlu *mockNLU, store *mockStore) *Triage {
	return NewTriage(nlu, store, rate.NewLimiter(rate.Inf, 1), zap.NewNop())
}

func TestHandleRedFlagReturnsEmergencyWarningAndStopsPipeline(t *testing.T) {
	nlu := &mockNLU{
		ClassifyBooleanFunc: func(context.Context, string) (string, error) {
			return "true", nil
		},
	}
	store := &mockStore{}
	triage := newTestTriage(nlu, store)

	reply, err := triage.Handle(context.Background(), "patient-1", "I have severe chest pain")

	assert.NoError(t, err)
	assert.Equal(t, EmergencyWarning, reply)
	assert.Zero(t, store.AppointmentsByPatientCalls)
	assert.Empty(t, store.Approvals)
	assert.Zero(t, nlu.GenerateJSONCalls)
	assert.Zero(t, nlu.GenerateTextCalls)
}

func TestHandleNoHistoryComposesUnmatchedReplyWithoutNLUMatchCall(t *testing.T) {
	nlu := &mockNLU{
		ClassifyBooleanFunc: func(context.Context, string) (string, error) {
			return "false", nil
		},
		GenerateTextFunc: func(context.Context, string) (string, error) {
			return "please see a doctor", nil
		},
	}
	store := &mockStore{} // zero appointments
	triage := newTestTriage(nlu, store)

	reply, err := triage.Handle(context.Background(), "patient-1", "sore throat")

	assert.NoError(t, err)
	assert.Equal(t, "please see a doctor", reply)
	assert.Zero(t, nlu.GenerateJSONCalls)
	assert.Zero(t, nlu.ClassifyTextCalls)
	assert.Empty(t, store.Approvals)
	assert.Equal(t, 1, nlu.GenerateTextCalls)
	assert.Contains(t, nlu.GenerateTextPrompts[0], "no appointments with similar symptoms were found")
	assert.Contains(t, nlu.GenerateTextPrompts[0], "Please consult a doctor for an accurate diagnosis.")
}

func TestHandleMatchedAndRoutedRecordsOneApproval(t *testing.T) {
	records := testRecords()
	composeCount := 0
	nlu := &mockNLU{
		ClassifyBooleanFunc: func(context.Context, string) (string, error) {
			return "false", nil
		},
		GenerateJSONFunc: func(context.Context, string) (map[string]any, error) {
			return map[string]any{"doc_id": "appt-1"}, nil
		},
		ClassifyTextFunc: func(context.Context, string) (string, error) {
			return "ENT", nil
		},
		GenerateTextFunc: func(context.Context, string) (string, error) {
			composeCount++
			return fmt.Sprintf("reply-%d", composeCount), nil
		},
	}
	store := &mockStore{
		AppointmentsByPatientFunc: func(context.Context, string) ([]pkg.AppointmentRecord, error) {
			return records, nil
		},
		PractitionerNameFunc: func(_ context.Context, staffID string) (string, error) {
			assert.Equal(t, "staff-9", staffID)
			return "Gregory House", nil
		},
		PractitionerBySpecialtyFunc: func(context.Context, string) (*pkg.Practitioner, error) {
			return &pkg.Practitioner{ID: "doc-7", Name: "Priya Nair", Specialty: "ENT"}, nil
		},
	}
	triage := newTestTriage(nlu, store)

	reply, err := triage.Handle(context.Background(), "patient-1", "sore throat and fever")

	assert.NoError(t, err)
	// Second composition is the user-facing routed reply.
	assert.Equal(t, "reply-2", reply)

	assert.Len(t, store.Approvals, 1)
	approval := store.Approvals[0]
	assert.Equal(t, "patient-1", approval.PatientID)
	assert.Equal(t, "doc-7", approval.DoctorID)
	assert.Equal(t, "sore throat and fever", approval.Symptoms)
	// Stored suggestion is the routing-free audit variant, composed first.
	assert.Equal(t, "reply-1", approval.AIOutput)

	assert.Len(t, nlu.GenerateTextPrompts, 2)
	assert.NotContains(t, nlu.GenerateTextPrompts[0], "forwarded to a real doctor")
	assert.Contains(t, nlu.GenerateTextPrompts[1], "forwarded to a real doctor, Dr. Priya Nair")
	assert.Contains(t, nlu.GenerateTextPrompts[1], "You must wait for a doctor's final approval.")
}

func TestHandleMatchedButUnroutedSkipsApproval(t *testing.T) {
	nlu := &mockNLU{
		ClassifyBooleanFunc: func(context.Context, string) (string, error) {
			return "false", nil
		},
		GenerateJSONFunc: func(context.Context, string) (map[string]any, error) {
			return map[string]any{"doc_id": "appt-1"}, nil
		},
		ClassifyTextFunc: func(context.Context, string) (string, error) {
			return "ENT", nil
		},
		GenerateTextFunc: func(context.Context, string) (string, error) {
			return "matched but unrouted", nil
		},
	}
	store := &mockStore{
		AppointmentsByPatientFunc: func(context.Context, string) ([]pkg.AppointmentRecord, error) {
			return testRecords(), nil
		},
		// Default directory resolves no practitioner.
	}
	triage := newTestTriage(nlu, store)

	reply, err := triage.Handle(context.Background(), "patient-1", "sore throat and fever")

	assert.NoError(t, err)
	assert.Equal(t, "matched but unrouted", reply)
	assert.Empty(t, store.Approvals)
	assert.Equal(t, 1, nlu.GenerateTextCalls)
	assert.Contains(t, nlu.GenerateTextPrompts[0], "Please consult a doctor for an accurate diagnosis.")
}

func TestHandleUnparsableMatchBehavesLikeNoMatch(t *testing.T) {
	nlu := &mockNLU{
		ClassifyBooleanFunc: func(context.Context, string) (string, error) {
			return "false", nil
		},
		GenerateJSONFunc: func(context.Context, string) (map[string]any, error) {
			return nil, &llm.ParseError{Raw: "sorry, here is my reasoning...", Err: errors.New("invalid character 's'")}
		},
		GenerateTextFunc: func(context.Context, string) (string, error) {
			return "please see a doctor", nil
		},
	}
	store := &mockStore{
		AppointmentsByPatientFunc: func(context.Context, string) ([]pkg.AppointmentRecord, error) {
			return testRecords(), nil
		},
	}
	triage := newTestTriage(nlu, store)

	reply, err := triage.Handle(context.Background(), "patient-1", "sore throat")

	assert.NoError(t, err)
	assert.Equal(t, "please see a doctor", reply)
	assert.Zero(t, nlu.ClassifyTextCalls)
	assert.Empty(t, store.Approvals)
	assert.Contains(t, nlu.GenerateTextPrompts[0], "no appointments with similar symptoms were found")
}

func TestHandleMissingHistoryDoctorDoesNotFailPipeline(t *testing.T) {
	nlu := &mockNLU{
		ClassifyBooleanFunc: func(context.Context, string) (string, error) {
			return "false", nil
		},
		GenerateJSONFunc: func(context.Context, string) (map[string]any, error) {
			return map[string]any{"doc_id": "appt-1"}, nil
		},
		ClassifyTextFunc: func(context.Context, string) (string, error) {
			return "ENT", nil
		},
		GenerateTextFunc: func(context.Context, string) (string, error) {
			return "reply", nil
		},
	}
	store := &mockStore{
		AppointmentsByPatientFunc: func(context.Context, string) ([]pkg.AppointmentRecord, error) {
			return testRecords(), nil
		},
		PractitionerNameFunc: func(context.Context, string) (string, error) {
			return "", errors.New("staff table offline")
		},
	}
	triage := newTestTriage(nlu, store)

	reply, err := triage.Handle(context.Background(), "patient-1", "sore throat and fever")

	assert.NoError(t, err)
	assert.Equal(t, "reply", reply)
	assert.Contains(t, nlu.GenerateTextPrompts[0], "Dr. the doctor")
}

func TestHandlePropagatesStoreFailureAsError(t *testing.T) {
	boom := errors.New("store unavailable")
	nlu := &mockNLU{
		ClassifyBooleanFunc: func(context.Context, string) (string, error) {
			return "false", nil
		},
	}
	store := &mockStore{
		AppointmentsByPatientFunc: func(context.Context, string) ([]pkg.AppointmentRecord, error) {
			return nil, boom
		},
	}
	triage := newTestTriage(nlu, store)

	reply, err := triage.Handle(context.Background(), "patient-1", "sore throat")

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, reply)
	assert.Zero(t, nlu.GenerateTextCalls)
}
