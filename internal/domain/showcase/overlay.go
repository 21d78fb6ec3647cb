package showcase

import (
	"time"

	"github.com/google/uuid"

	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
)

// Overlay is the per-session product detail view with its image carousel.
// Opening an overlay always starts at the first image with rotation
// enabled; any manual navigation pauses rotation until an explicit resume.
// With zero or one image, rotation and navigation are suppressed entirely.
type Overlay struct {
	shared.BaseAggregateRoot
	SessionID   uuid.UUID
	Product     catalog.Product
	ActiveIndex int
	Rotating    bool
	OpenedAt    time.Time
}

// NewOverlay opens the overlay for a product, reset to the first image
func NewOverlay(sessionID uuid.UUID, product catalog.Product) (*Overlay, error) {
	if sessionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if product.ID == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	o := &Overlay{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionID:         sessionID,
		Product:           product,
		ActiveIndex:       0,
		Rotating:          len(product.Images) > 1,
		OpenedAt:          time.Now(),
	}
	o.ID = sessionID

	return o, nil
}

// CanRotate reports whether the carousel has anything to rotate through
func (o *Overlay) CanRotate() bool {
	return len(o.Product.Images) > 1
}

// Advance moves the active image forward cyclically. It is driven by the
// rotation timer and does nothing once rotation is paused, so a tick that
// races a manual action cannot move the index.
func (o *Overlay) Advance() bool {
	if !o.Rotating || !o.CanRotate() {
		return false
	}
	o.ActiveIndex = (o.ActiveIndex + 1) % len(o.Product.Images)
	o.UpdatedAt = time.Now()
	return true
}

// Next moves to the next image manually, pausing rotation
func (o *Overlay) Next() error {
	if !o.CanRotate() {
		return shared.NewDomainError("NAVIGATION_UNAVAILABLE", "Product has no images to navigate")
	}
	o.ActiveIndex = (o.ActiveIndex + 1) % len(o.Product.Images)
	o.Rotating = false
	o.UpdatedAt = time.Now()
	return nil
}

// Prev moves to the previous image manually, pausing rotation
func (o *Overlay) Prev() error {
	if !o.CanRotate() {
		return shared.NewDomainError("NAVIGATION_UNAVAILABLE", "Product has no images to navigate")
	}
	n := len(o.Product.Images)
	o.ActiveIndex = (o.ActiveIndex - 1 + n) % n
	o.Rotating = false
	o.UpdatedAt = time.Now()
	return nil
}

// Select jumps to an image directly, pausing rotation
func (o *Overlay) Select(index int) error {
	if !o.CanRotate() {
		return shared.NewDomainError("NAVIGATION_UNAVAILABLE", "Product has no images to navigate")
	}
	if index < 0 || index >= len(o.Product.Images) {
		return shared.NewDomainError("INVALID_IMAGE_INDEX", "Image index out of range")
	}
	o.ActiveIndex = index
	o.Rotating = false
	o.UpdatedAt = time.Now()
	return nil
}

// Resume re-enables automatic rotation after a manual pause
func (o *Overlay) Resume() error {
	if !o.CanRotate() {
		return shared.NewDomainError("NAVIGATION_UNAVAILABLE", "Product has nothing to rotate through")
	}
	o.Rotating = true
	o.UpdatedAt = time.Now()
	return nil
}

// ActiveImage returns the currently shown image reference, or empty when
// the product has none
func (o *Overlay) ActiveImage() string {
	if len(o.Product.Images) == 0 {
		return ""
	}
	return o.Product.Images[o.ActiveIndex]
}
