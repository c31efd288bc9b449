package core

import (
	"context"

	"go.uber.org/zap"
)

// ApprovalStore persists AI-drafted suggestions for practitioner review.
type ApprovalStore interface {
	CreatePendingApproval(ctx context.Context, patientID, doctorID, symptoms, aiOutput string) (string, error)
}

// ApprovalRecorder writes one pending-approval record per routed case.
// Calls are at-least-once: invoking it twice with identical arguments
// creates two distinct records.
type ApprovalRecorder struct {
	store  ApprovalStore
	logger *zap.Logger
}

// NewApprovalRecorder constructs a recorder over the given store.
func NewApprovalRecorder(store ApprovalStore, logger *zap.Logger) *ApprovalRecorder {
	return &ApprovalRecorder{store: store, logger: logger}
}

// Record creates a pending approval with a server-assigned timestamp and
// returns its ID.
func (a *ApprovalRecorder) Record(ctx context.Context, patientID, doctorID, symptoms, aiOutput string) (string, error) {
	id, err := a.store.CreatePendingApproval(ctx, patientID, doctorID, symptoms, aiOutput)
	if err != nil {
		return "", err
	}
	a.logger.Info("created pending approval",
		zap.String("approval_id", id),
		zap.String("patient_id", patientID),
		zap.String("doctor_id", doctorID))
	return id, nil
}
