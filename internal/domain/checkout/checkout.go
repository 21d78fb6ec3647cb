package checkout

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
)

// FlowState represents the state of the checkout flow
type FlowState string

const (
	FlowStateIdle       FlowState = "IDLE"
	FlowStateSubmitting FlowState = "SUBMITTING"
	FlowStateSuccess    FlowState = "SUCCESS"
	FlowStateFailed     FlowState = "FAILED"
)

// IsValid checks if the state is a valid FlowState
func (s FlowState) IsValid() bool {
	switch s {
	case FlowStateIdle, FlowStateSubmitting, FlowStateSuccess, FlowStateFailed:
		return true
	}
	return false
}

// String returns the string representation of FlowState
func (s FlowState) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state
func (s FlowState) CanTransitionTo(target FlowState) bool {
	switch s {
	case FlowStateIdle:
		return target == FlowStateSubmitting
	case FlowStateSubmitting:
		return target == FlowStateSuccess || target == FlowStateFailed
	case FlowStateSuccess, FlowStateFailed:
		return target == FlowStateIdle
	}
	return false
}

// Size represents a delivery size choice from the fixed set
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// Sizes returns all selectable sizes
func Sizes() []Size {
	return []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}
}

// IsValid checks if the size is one of the selectable sizes
func (s Size) IsValid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	}
	return false
}

// Details holds the delivery details collected by the checkout form
type Details struct {
	FullName string
	Phone    string
	Address  string
	Size     Size
}

// DefaultDetails returns the form defaults: everything unset
func DefaultDetails() Details {
	return Details{}
}

// Validate checks that every field is present and non-whitespace and that
// the size belongs to the fixed set. The check is advisory; the backend
// stays authoritative.
func (d Details) Validate() error {
	if strings.TrimSpace(d.FullName) == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Full name is required")
	}
	if strings.TrimSpace(d.Phone) == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Phone is required")
	}
	if strings.TrimSpace(d.Address) == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Address is required")
	}
	if strings.TrimSpace(string(d.Size)) == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Size is required")
	}
	if !d.Size.IsValid() {
		return shared.NewDomainError("VALIDATION_FAILED", "Size must be one of XS, S, M, L, XL, XXL")
	}
	return nil
}

// Flow is the per-session checkout state machine:
// Idle -> Submitting -> {Success, Failed}, returning to Idle on the next
// interaction. A failed submission preserves the typed details.
type Flow struct {
	shared.BaseAggregateRoot
	SessionID    uuid.UUID
	State        FlowState
	Details      Details
	ErrorMessage *string
}

// NewFlow creates an idle checkout flow for the session
func NewFlow(sessionID uuid.UUID) (*Flow, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}

	f := &Flow{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		State:             FlowStateIdle,
		Details:           DefaultDetails(),
	}
	f.ID = sessionID

	return f, nil
}

// touch returns the flow to Idle from a terminal state; any interaction
// after Success or Failed starts a fresh attempt
func (f *Flow) touch() {
	if f.State == FlowStateSuccess || f.State == FlowStateFailed {
		f.State = FlowStateIdle
		f.ErrorMessage = nil
	}
}

// UpdateDetails stores the typed delivery details without validating them.
// Rejected while a submission is in flight.
func (f *Flow) UpdateDetails(details Details) error {
	if f.State == FlowStateSubmitting {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit details while submitting")
	}

	f.touch()
	f.Details = details
	f.UpdatedAt = time.Now()
	return nil
}

// Begin validates the details and moves the flow to Submitting. Validation
// failures leave the state untouched so the caller never reaches the network.
func (f *Flow) Begin() error {
	f.touch()

	if f.State != FlowStateIdle {
		return shared.NewDomainError("INVALID_STATE", "A submission is already in progress")
	}
	if err := f.Details.Validate(); err != nil {
		return err
	}

	f.State = FlowStateSubmitting
	f.ErrorMessage = nil
	f.UpdatedAt = time.Now()
	return nil
}

// Succeed completes the submission: the form resets to defaults and the
// flow reaches Success. The cart is not touched here; clearing it is the
// caller's decision.
func (f *Flow) Succeed() error {
	if !f.State.CanTransitionTo(FlowStateSuccess) {
		return shared.NewDomainError("INVALID_STATE", "Cannot complete a submission that is not in flight")
	}

	f.State = FlowStateSuccess
	f.Details = DefaultDetails()
	f.ErrorMessage = nil
	f.UpdatedAt = time.Now()
	return nil
}

// Fail records a failed submission. The typed details are preserved so
// nothing has to be re-entered; the message is retry-oriented.
func (f *Flow) Fail(message string) error {
	if !f.State.CanTransitionTo(FlowStateFailed) {
		return shared.NewDomainError("INVALID_STATE", "Cannot fail a submission that is not in flight")
	}

	if message == "" {
		message = "Something went wrong placing your order. Please try again."
	}
	f.State = FlowStateFailed
	f.ErrorMessage = &message
	f.UpdatedAt = time.Now()
	return nil
}

// IsSubmitting reports whether a submission is in flight
func (f *Flow) IsSubmitting() bool {
	return f.State == FlowStateSubmitting
}
