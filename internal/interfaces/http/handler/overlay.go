package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdamBejaoui/project-frontend/internal/application/storefront"
)

// OverlayHandler handles the per-session image overlay endpoints
type OverlayHandler struct {
	BaseHandler
	showcase *storefront.ShowcaseService
}

// NewOverlayHandler creates a new OverlayHandler
func NewOverlayHandler(showcaseService *storefront.ShowcaseService) *OverlayHandler {
	return &OverlayHandler{
		showcase: showcaseService,
	}
}

// OpenOverlayRequest represents a request to open the overlay on a product
// @Description Request body for opening the image overlay
type OpenOverlayRequest struct {
	ProductID string `json:"productId" binding:"required" example:"p-001"`
}

// SelectImageRequest represents a request to jump to a specific image
// @Description Request body for selecting an overlay image by index
type SelectImageRequest struct {
	Index *int `json:"index" binding:"required,gte=0" example:"1"`
}

// Open godoc
// @Summary      Open the image overlay
// @Description  Opens the overlay on the product's first image and starts automatic rotation
// @Tags         overlay
// @Accept       json
// @Produce      json
// @Param        request body OpenOverlayRequest true "Product to showcase"
// @Success      200 {object} dto.Response{data=storefront.OverlayView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/overlay/open [post]
func (h *OverlayHandler) Open(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	var req OpenOverlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	view, err := h.showcase.Open(c.Request.Context(), sessionID, req.ProductID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}

// Get godoc
// @Summary      Get the overlay state
// @Description  Returns the overlay state; a closed overlay serializes as open=false
// @Tags         overlay
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.OverlayView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/overlay [get]
func (h *OverlayHandler) Get(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	view, err := h.showcase.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}

// Close godoc
// @Summary      Close the overlay
// @Description  Closes the overlay and cancels its rotation; closing an already closed overlay is a no-op
// @Tags         overlay
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.OverlayView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/overlay/close [post]
func (h *OverlayHandler) Close(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	view, err := h.showcase.Close(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}

// Next godoc
// @Summary      Advance to the next image
// @Description  Moves to the next image with wrap-around and pauses automatic rotation
// @Tags         overlay
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.OverlayView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/overlay/next [post]
func (h *OverlayHandler) Next(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	view, err := h.showcase.Next(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}

// Prev godoc
// @Summary      Go back to the previous image
// @Description  Moves to the previous image with wrap-around and pauses automatic rotation
// @Tags         overlay
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.OverlayView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/overlay/prev [post]
func (h *OverlayHandler) Prev(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	view, err := h.showcase.Prev(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}

// Select godoc
// @Summary      Jump to an image by index
// @Description  Shows the image at the given index and pauses automatic rotation
// @Tags         overlay
// @Accept       json
// @Produce      json
// @Param        request body SelectImageRequest true "Image index"
// @Success      200 {object} dto.Response{data=storefront.OverlayView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/overlay/select [post]
func (h *OverlayHandler) Select(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	var req SelectImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	view, err := h.showcase.Select(c.Request.Context(), sessionID, *req.Index)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}

// Resume godoc
// @Summary      Resume automatic rotation
// @Description  Restarts automatic rotation after a manual navigation paused it
// @Tags         overlay
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.OverlayView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/overlay/resume [post]
func (h *OverlayHandler) Resume(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	view, err := h.showcase.Resume(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, view)
}
