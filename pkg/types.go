package pkg

import "time"

// SymptomReport is one patient turn: who is talking and what they said.
// It is request-scoped and never persisted.
type SymptomReport struct {
	PatientID string `json:"patient_id"`
	Text      string `json:"text"`
}

// Prescription is one medication entry attached to a past appointment.
// Strength and purpose are optional free text.
type Prescription struct {
	Name     string `json:"name"`
	Strength string `json:"strength,omitempty"`
	Purpose  string `json:"purpose,omitempty"`
}

// AppointmentRecord is a past visit as held by the store. The core only
// reads these; DocID is the single field trusted across the NLU boundary.
type AppointmentRecord struct {
	DocID           string         `json:"doc_id"`
	PatientID       string         `json:"patientId"`
	AppointmentDate time.Time      `json:"appointmentDate"`
	SymptomsText    string         `json:"symptomsText"`
	StaffID         *string        `json:"staffId,omitempty"`
	PatientName     *string        `json:"patientName,omitempty"`
	Prescriptions   []Prescription `json:"prescriptions,omitempty"`
}

// MatchResult is the outcome of matching new symptoms against history.
// When Found is true, Record is the locally-held copy of the matched
// appointment, never fields echoed back by the NLU.
type MatchResult struct {
	Found  bool
	Record AppointmentRecord
}

// MatchFound wraps a locally-held record as a positive match.
func MatchFound(rec AppointmentRecord) MatchResult {
	return MatchResult{Found: true, Record: rec}
}

// MatchNotFound is the negative match outcome.
func MatchNotFound() MatchResult { return MatchResult{} }

// Practitioner is a directory entry resolved per request; never cached.
type Practitioner struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// ApprovalStatus is the lifecycle state of a pending approval. The core
// only ever writes StatusPending; the rest of the lifecycle belongs to the
// practitioner-facing workflow.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// PendingApproval is an AI-drafted suggestion awaiting practitioner review.
type PendingApproval struct {
	ID        string         `json:"id"`
	PatientID string         `json:"patientId"`
	DoctorID  string         `json:"doctorId"`
	Symptoms  string         `json:"symptoms"`
	AIOutput  string         `json:"aiOutput"`
	Status    ApprovalStatus `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ChatRequest is the inbound payload for the chat endpoint.
type ChatRequest struct {
	PatientID string `json:"patient_id"`
	Message   string `json:"message"`
}

// ChatResponse carries the single composed message back to the caller.
type ChatResponse struct {
	Response string `json:"response"`
}
