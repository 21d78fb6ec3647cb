package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdamBejaoui/project-frontend/internal/application/storefront"
	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
)

// CheckoutHandler handles per-session checkout flow endpoints
type CheckoutHandler struct {
	BaseHandler
	checkouts *storefront.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *storefront.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkouts: checkoutService,
	}
}

// UpdateDetailsRequest represents the delivery details typed into the form.
// Fields are stored as typed; completeness is validated at submit time so a
// half-filled form round-trips unchanged.
// @Description Request body for updating delivery details
type UpdateDetailsRequest struct {
	FullName string `json:"fullName" binding:"max=200" example:"Amira Ben Salah"`
	Phone    string `json:"phone" binding:"max=50" example:"+216 20 123 456"`
	Address  string `json:"address" binding:"max=500" example:"14 Rue de Marseille, Tunis"`
	Size     string `json:"size" binding:"max=10" example:"M"`
}

// GetState godoc
// @Summary      Get the checkout flow state
// @Description  Returns the flow state, the details typed so far, the cart subtotal and the selectable sizes
// @Tags         checkout
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.CheckoutView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/checkout [get]
func (h *CheckoutHandler) GetState(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	view, err := h.checkouts.GetState(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}

// UpdateDetails godoc
// @Summary      Update delivery details
// @Description  Stores the details as typed and clears any earlier submission error
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body UpdateDetailsRequest true "Delivery details"
// @Success      200 {object} dto.Response{data=storefront.CheckoutView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/checkout/details [put]
func (h *CheckoutHandler) UpdateDetails(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	details := checkout.Details{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
		Size:     checkout.Size(req.Size),
	}

	view, err := h.checkouts.UpdateDetails(c.Request.Context(), sessionID, details)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}

// Submit godoc
// @Summary      Submit the order
// @Description  Validates the details, submits the cart to the backend and on success clears the form and cart. A failed submission preserves the typed values and returns the flow to a resubmittable state.
// @Tags         checkout
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.CheckoutView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/checkout/submit [post]
func (h *CheckoutHandler) Submit(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	view, err := h.checkouts.Submit(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}
