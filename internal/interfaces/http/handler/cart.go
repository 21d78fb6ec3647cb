package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdamBejaoui/project-frontend/internal/application/storefront"
)

// CartHandler handles per-session cart endpoints
type CartHandler struct {
	BaseHandler
	carts *storefront.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *storefront.CartService) *CartHandler {
	return &CartHandler{
		carts: cartService,
	}
}

// AddCartItemRequest represents a request to add a product to the cart
// @Description Request body for adding a product to the cart
type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required" example:"p-001"`
}

// UpdateCartItemRequest represents a request to change a line quantity
// @Description Request body for setting a cart line quantity; zero removes the line
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0" example:"2"`
}

// ToggleCheckoutRequest represents a request to open or close the checkout panel
// @Description Request body for toggling the checkout panel
type ToggleCheckoutRequest struct {
	Open *bool `json:"open" binding:"required" example:"true"`
}

// Get godoc
// @Summary      Get the cart
// @Description  Returns the session's cart lines, subtotal and checkout panel state
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	cart, err := h.carts.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Adds one unit of the product; a product already in the cart gets its quantity incremented
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body AddCartItemRequest true "Product to add"
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.carts.AddItem(c.Request.Context(), sessionID, req.ProductID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem godoc
// @Summary      Set a cart line quantity
// @Description  Sets the quantity for a product line; zero removes the line, an absent product is a no-op
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID"
// @Param        request body UpdateCartItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/cart/items/{productId} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.carts.UpdateQuantity(c.Request.Context(), sessionID, c.Param("productId"), *req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Description  Removes the product's line from the cart; an absent product is a no-op
// @Tags         cart
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	cart, err := h.carts.RemoveItem(c.Request.Context(), sessionID, c.Param("productId"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// Reset godoc
// @Summary      Reset the cart
// @Description  Empties the cart and clears the checkout panel and confirmation banner
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/cart/reset [post]
func (h *CartHandler) Reset(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	cart, err := h.carts.Reset(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// ToggleCheckout godoc
// @Summary      Open or close the checkout panel
// @Description  Sets the checkout panel visibility; an empty cart is rejected at submit time, not here
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body ToggleCheckoutRequest true "Desired panel state"
// @Success      200 {object} dto.Response{data=storefront.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /storefront/cart/checkout [post]
func (h *CartHandler) ToggleCheckout(c *gin.Context) {
	sessionID, err := getSessionID(c)
	if err != nil {
		h.Unauthorized(c, "Session required")
		return
	}

	var req ToggleCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.carts.ToggleCheckout(c.Request.Context(), sessionID, *req.Open)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}
