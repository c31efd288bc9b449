package core

import (
	"context"
	"errors"
	"sync"

	"triage-chatbot/internal/llm"
	"triage-chatbot/pkg"
)

// Compile-time check to ensure mockNLU implements llm.Client.
var _ llm.Client = (*mockNLU)(nil)

// mockNLU is a func-field mock for the NLU collaborator. Unset funcs fail
// loudly so a test never silently exercises an operation it did not expect.
type mockNLU struct {
	ClassifyBooleanFunc func(ctx context.Context, prompt string) (string, error)
	ClassifyTextFunc    func(ctx context.Context, prompt string) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string) (map[string]any, error)
	GenerateTextFunc    func(ctx context.Context, prompt string) (string, error)

	ClassifyBooleanCalls int
	ClassifyTextCalls    int
	GenerateJSONCalls    int
	GenerateTextCalls    int
	GenerateTextPrompts  []string
}

func (m *mockNLU) ClassifyBoolean(ctx context.Context, prompt string) (string, error) {
	m.ClassifyBooleanCalls++
	if m.ClassifyBooleanFunc != nil {
		return m.ClassifyBooleanFunc(ctx, prompt)
	}
	return "", errors.New("ClassifyBooleanFunc not implemented in mock")
}

func (m *mockNLU) ClassifyText(ctx context.Context, prompt string) (string, error) {
	m.ClassifyTextCalls++
	if m.ClassifyTextFunc != nil {
		return m.ClassifyTextFunc(ctx, prompt)
	}
	return "", errors.New("ClassifyTextFunc not implemented in mock")
}

func (m *mockNLU) GenerateJSON(ctx context.Context, prompt string) (map[string]any, error) {
	m.GenerateJSONCalls++
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt)
	}
	return nil, errors.New("GenerateJSONFunc not implemented in mock")
}

func (m *mockNLU) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.GenerateTextCalls++
	m.GenerateTextPrompts = append(m.GenerateTextPrompts, prompt)
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, prompt)
	}
	return "", errors.New("GenerateTextFunc not implemented in mock")
}

// Compile-time check to ensure mockStore implements Store.
var _ Store = (*mockStore)(nil)

// recordedApproval captures one CreatePendingApproval call.
type recordedApproval struct {
	PatientID string
	DoctorID  string
	Symptoms  string
	AIOutput  string
}

// mockStore is a func-field mock for the store collaborator. Unset read
// funcs default to "nothing found"; approval writes are always recorded.
type mockStore struct {
	AppointmentsByPatientFunc   func(ctx context.Context, patientID string) ([]pkg.AppointmentRecord, error)
	PractitionerNameFunc        func(ctx context.Context, staffID string) (string, error)
	PractitionerBySpecialtyFunc func(ctx context.Context, specialty string) (*pkg.Practitioner, error)
	CreatePendingApprovalFunc   func(ctx context.Context, patientID, doctorID, symptoms, aiOutput string) (string, error)

	mu                          sync.Mutex
	AppointmentsByPatientCalls  int
	PractitionerBySpecialtyArgs []string
	Approvals                   []recordedApproval
}

func (m *mockStore) AppointmentsByPatient(ctx context.Context, patientID string) ([]pkg.AppointmentRecord, error) {
	m.mu.Lock()
	m.AppointmentsByPatientCalls++
	m.mu.Unlock()
	if m.AppointmentsByPatientFunc != nil {
		return m.AppointmentsByPatientFunc(ctx, patientID)
	}
	return nil, nil
}

func (m *mockStore) PractitionerName(ctx context.Context, staffID string) (string, error) {
	if m.PractitionerNameFunc != nil {
		return m.PractitionerNameFunc(ctx, staffID)
	}
	return "", nil
}

func (m *mockStore) PractitionerBySpecialty(ctx context.Context, specialty string) (*pkg.Practitioner, error) {
	m.mu.Lock()
	m.PractitionerBySpecialtyArgs = append(m.PractitionerBySpecialtyArgs, specialty)
	m.mu.Unlock()
	if m.PractitionerBySpecialtyFunc != nil {
		return m.PractitionerBySpecialtyFunc(ctx, specialty)
	}
	return nil, nil
}

func (m *mockStore) CreatePendingApproval(ctx context.Context, patientID, doctorID, symptoms, aiOutput string) (string, error) {
	m.mu.Lock()
	m.Approvals = append(m.Approvals, recordedApproval{
		PatientID: patientID,
		DoctorID:  doctorID,
		Symptoms:  symptoms,
		AIOutput:  aiOutput,
	})
	m.mu.Unlock()
	if m.CreatePendingApprovalFunc != nil {
		return m.CreatePendingApprovalFunc(ctx, patientID, doctorID, symptoms, aiOutput)
	}
	return "approval-1", nil
}
