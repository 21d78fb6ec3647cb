package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
	"github.com/AdamBejaoui/project-frontend/internal/domain/order"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/backend"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/telemetry"
)

// OrderSubmitter is the slice of the backend client checkout needs
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, sub checkout.Submission) (*order.Order, error)
}

// SuccessFunc runs inside the session lock right after a submission
// succeeds, with the submitted details. The HTTP wiring connects it to
// Cart.Reset; the flow itself never touches the cart.
type SuccessFunc func(state *SessionState, details checkout.Details)

// CheckoutService runs the checkout flow: local validation, the duplicate
// submission guard, the backend call, and the success/failure bookkeeping.
// The session lock is released while the backend call is in flight so other
// session activity, including the rejection of a second submission, stays
// responsive.
type CheckoutService struct {
	store     *SessionStore
	submitter OrderSubmitter
	guard     shared.IdempotencyStore
	guardTTL  time.Duration

	onSuccess      SuccessFunc
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	metrics        *telemetry.StorefrontMetrics
}

// NewCheckoutService creates a new CheckoutService. The guard may be nil
// when the duplicate submission guard is disabled.
func NewCheckoutService(store *SessionStore, submitter OrderSubmitter, guard shared.IdempotencyStore, guardTTL time.Duration, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		store:     store,
		submitter: submitter,
		guard:     guard,
		guardTTL:  guardTTL,
		logger:    logger,
	}
}

// SetOnSuccess wires the callback invoked after a successful submission
func (s *CheckoutService) SetOnSuccess(fn SuccessFunc) {
	s.onSuccess = fn
}

// SetEventPublisher sets the event publisher for the live order feed
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics wires the storefront metrics collector
func (s *CheckoutService) SetMetrics(metrics *telemetry.StorefrontMetrics) {
	s.metrics = metrics
}

// GetState returns the session's checkout flow state
func (s *CheckoutService) GetState(ctx context.Context, sessionID uuid.UUID) (*CheckoutView, error) {
	var view CheckoutView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		view = ToCheckoutView(state.Flow, state.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdateDetails stores the typed delivery details without validating them
func (s *CheckoutService) UpdateDetails(ctx context.Context, sessionID uuid.UUID, details checkout.Details) (*CheckoutView, error) {
	var view CheckoutView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		if err := state.Flow.UpdateDetails(details); err != nil {
			return err
		}
		view = ToCheckoutView(state.Flow, state.Cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Submit runs a checkout submission end to end. Local rejections (missing
// fields, empty cart, a submission already in flight) never reach the
// network. A failure preserves the typed details and leaves the flow
// resubmittable; a success resets the form, raises the confirmation banner,
// runs the success callback, and publishes OrderSubmitted.
func (s *CheckoutService) Submit(ctx context.Context, sessionID uuid.UUID) (*CheckoutView, error) {
	var (
		sub     checkout.Submission
		details checkout.Details
	)

	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		if state.Flow.IsSubmitting() {
			return shared.ErrSubmissionInFlight
		}

		if err := state.Flow.Begin(); err != nil {
			return err
		}

		built, err := checkout.NewSubmission(state.Flow.Details, state.Cart)
		if err != nil {
			s.rollback(state, err.Error())
			return err
		}

		if ok := s.claimGuard(ctx, sessionID); !ok {
			s.rollback(state, "A submission is already in progress. Please wait a moment.")
			return shared.ErrSubmissionInFlight
		}

		sub = built
		details = state.Flow.Details
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The session lock is not held across the network call.
	created, submitErr := s.submitter.SubmitOrder(ctx, sub)

	var view CheckoutView
	finalizeErr := s.store.WithSession(sessionID, func(state *SessionState) error {
		if submitErr != nil {
			if err := state.Flow.Fail(failureMessage(submitErr)); err != nil {
				return err
			}
			view = ToCheckoutView(state.Flow, state.Cart)
			return nil
		}

		if err := state.Flow.Succeed(); err != nil {
			return err
		}
		message := confirmationMessage(created)
		state.Cart.SetConfirmationMessage(&message)
		if s.onSuccess != nil {
			s.onSuccess(state, details)
		}
		view = ToCheckoutView(state.Flow, state.Cart)
		return nil
	})

	s.releaseGuard(ctx, sessionID)

	if finalizeErr != nil {
		return nil, finalizeErr
	}
	if submitErr != nil {
		s.recordOutcome(ctx, submitErr, nil)
		s.logger.Warn("checkout submission failed",
			zap.String("session_id", sessionID.String()),
			zap.Error(submitErr),
		)
		return nil, translateSubmitError(submitErr)
	}

	s.recordOutcome(ctx, nil, created)
	s.publishSubmitted(ctx, sessionID, sub, created)
	s.logger.Info("order submitted",
		zap.String("session_id", sessionID.String()),
		zap.String("order_id", created.ID),
		zap.Int("items", len(sub.Items)),
	)
	return &view, nil
}

// rollback moves a flow that reached Submitting back to a resubmittable
// state without a network call having happened.
func (s *CheckoutService) rollback(state *SessionState, message string) {
	if err := state.Flow.Fail(message); err != nil {
		s.logger.Error("failed to roll back checkout flow", zap.Error(err))
	}
}

// claimGuard takes the per-session submission key. A guard store outage is
// logged and treated as a successful claim; the flow state machine still
// rejects local duplicates.
func (s *CheckoutService) claimGuard(ctx context.Context, sessionID uuid.UUID) bool {
	if s.guard == nil {
		return true
	}
	claimed, err := s.guard.MarkProcessed(ctx, guardKey(sessionID), s.guardTTL)
	if err != nil {
		s.logger.Warn("submission guard unavailable, proceeding without it", zap.Error(err))
		return true
	}
	return claimed
}

// releaseGuard frees the submission key so the next submission, retry or
// fresh order alike, is not held hostage to the TTL.
func (s *CheckoutService) releaseGuard(ctx context.Context, sessionID uuid.UUID) {
	if s.guard == nil {
		return
	}
	if err := s.guard.Clear(ctx, guardKey(sessionID)); err != nil {
		s.logger.Warn("failed to release submission guard", zap.Error(err))
	}
}

func (s *CheckoutService) recordOutcome(ctx context.Context, submitErr error, created *order.Order) {
	if s.metrics == nil {
		return
	}
	if submitErr == nil {
		s.metrics.RecordAcceptedOrder(ctx, created.Total.Amount())
		return
	}
	var apiErr *backend.APIError
	if errors.As(submitErr, &apiErr) {
		s.metrics.RecordOrderSubmitted(ctx, telemetry.OrderOutcomeRejected)
		return
	}
	s.metrics.RecordOrderSubmitted(ctx, telemetry.OrderOutcomeFailed)
}

func (s *CheckoutService) publishSubmitted(ctx context.Context, sessionID uuid.UUID, sub checkout.Submission, created *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	event := checkout.NewOrderSubmittedEvent(sessionID.String(), created.ID, sub, created.Total.StringFixed(2))
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish order submitted event",
			zap.String("order_id", created.ID),
			zap.Error(err),
		)
	}
}

func guardKey(sessionID uuid.UUID) string {
	return "submission:" + sessionID.String()
}

// failureMessage picks the retry-oriented message stored on the flow: the
// backend's own message verbatim when it sent one, the generic fallback
// otherwise.
func failureMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return ""
}

// translateSubmitError maps backend failures onto the error taxonomy the
// HTTP layer serializes.
func translateSubmitError(err error) error {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return shared.NewDomainError("BACKEND_ERROR", apiErr.Message)
	}
	return shared.ErrBackendUnavailable
}

func confirmationMessage(created *order.Order) string {
	if created != nil && created.ID != "" {
		return fmt.Sprintf("Thank you for your order! Confirmation #%s is on its way.", created.ID)
	}
	return "Thank you for your order!"
}
