package storefront

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/domain/showcase"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/rotation"
)

// RotationScheduler drives the timed carousel advance for open overlays.
type RotationScheduler interface {
	Schedule(sessionID string, tick rotation.TickFunc) error
	Cancel(sessionID string)
}

var _ RotationScheduler = (*rotation.Scheduler)(nil)

// ShowcaseService manages the per-session product overlay and its rotation
// timer. Opening an overlay starts rotation when the product has more than
// one image; any manual navigation pauses it until an explicit resume.
type ShowcaseService struct {
	store     *SessionStore
	catalog   *CatalogService
	scheduler RotationScheduler
	logger    *zap.Logger
}

// NewShowcaseService creates a new ShowcaseService
func NewShowcaseService(store *SessionStore, catalogService *CatalogService, scheduler RotationScheduler, logger *zap.Logger) *ShowcaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShowcaseService{
		store:     store,
		catalog:   catalogService,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Open opens the overlay on a product, replacing any overlay already open
// in the session. The carousel resets to the first image and rotation
// starts when there is more than one image.
func (s *ShowcaseService) Open(ctx context.Context, sessionID uuid.UUID, productID string) (*OverlayView, error) {
	product, err := s.catalog.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var view OverlayView
	err = s.store.WithSession(sessionID, func(state *SessionState) error {
		overlay, err := showcase.NewOverlay(sessionID, *product)
		if err != nil {
			return err
		}
		state.Overlay = overlay

		if overlay.CanRotate() {
			if err := s.scheduler.Schedule(sessionID.String(), s.tick(sessionID)); err != nil {
				s.logger.Warn("failed to start rotation task",
					zap.String("session_id", sessionID.String()),
					zap.Error(err),
				)
				overlay.Rotating = false
			}
		} else {
			s.scheduler.Cancel(sessionID.String())
		}

		view = ToOverlayView(state.Overlay)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("overlay opened",
		zap.String("session_id", sessionID.String()),
		zap.String("product_id", productID),
	)
	return &view, nil
}

// Get returns the current overlay state, closed overlays included
func (s *ShowcaseService) Get(ctx context.Context, sessionID uuid.UUID) (*OverlayView, error) {
	var view OverlayView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		view = ToOverlayView(state.Overlay)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Close dismisses the overlay and tears down its rotation task. Closing an
// overlay that is not open is a no-op.
func (s *ShowcaseService) Close(ctx context.Context, sessionID uuid.UUID) (*OverlayView, error) {
	var view OverlayView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		state.Overlay = nil
		s.scheduler.Cancel(sessionID.String())
		view = ToOverlayView(nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Next steps the carousel forward manually and pauses rotation
func (s *ShowcaseService) Next(ctx context.Context, sessionID uuid.UUID) (*OverlayView, error) {
	return s.navigate(sessionID, func(o *showcase.Overlay) error {
		return o.Next()
	})
}

// Prev steps the carousel backward manually and pauses rotation
func (s *ShowcaseService) Prev(ctx context.Context, sessionID uuid.UUID) (*OverlayView, error) {
	return s.navigate(sessionID, func(o *showcase.Overlay) error {
		return o.Prev()
	})
}

// Select jumps the carousel to a specific image and pauses rotation
func (s *ShowcaseService) Select(ctx context.Context, sessionID uuid.UUID, index int) (*OverlayView, error) {
	return s.navigate(sessionID, func(o *showcase.Overlay) error {
		return o.Select(index)
	})
}

// Resume restarts rotation from the current image after manual navigation
func (s *ShowcaseService) Resume(ctx context.Context, sessionID uuid.UUID) (*OverlayView, error) {
	var view OverlayView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		if state.Overlay == nil {
			return errOverlayNotOpen()
		}
		if err := state.Overlay.Resume(); err != nil {
			return err
		}
		if err := s.scheduler.Schedule(sessionID.String(), s.tick(sessionID)); err != nil {
			s.logger.Warn("failed to restart rotation task",
				zap.String("session_id", sessionID.String()),
				zap.Error(err),
			)
			state.Overlay.Rotating = false
		}
		view = ToOverlayView(state.Overlay)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// HandleSessionEvicted tears down the evicted session's rotation task. The
// session store calls it from its eviction hook.
func (s *ShowcaseService) HandleSessionEvicted(sessionID uuid.UUID) {
	s.scheduler.Cancel(sessionID.String())
}

// navigate applies a manual carousel action and cancels the rotation task.
// The cancel happens inside the session lock, after the domain has paused
// rotation, so a racing tick observes the pause and leaves the index alone.
func (s *ShowcaseService) navigate(sessionID uuid.UUID, action func(o *showcase.Overlay) error) (*OverlayView, error) {
	var view OverlayView
	err := s.store.WithSession(sessionID, func(state *SessionState) error {
		if state.Overlay == nil {
			return errOverlayNotOpen()
		}
		if err := action(state.Overlay); err != nil {
			return err
		}
		s.scheduler.Cancel(sessionID.String())
		view = ToOverlayView(state.Overlay)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// tick builds the scheduler callback advancing this session's carousel.
// It only touches sessions that still exist, so a stale tick cannot
// resurrect evicted state, and it does not refresh the idle clock.
func (s *ShowcaseService) tick(sessionID uuid.UUID) rotation.TickFunc {
	return func() {
		_ = s.store.withLiveSession(sessionID, func(state *SessionState) error {
			if state.Overlay != nil {
				state.Overlay.Advance()
			}
			return nil
		})
	}
}

func errOverlayNotOpen() error {
	return shared.NewDomainError("OVERLAY_NOT_OPEN", "No product overlay is open")
}
