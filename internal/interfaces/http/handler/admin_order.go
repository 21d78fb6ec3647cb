package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdamBejaoui/project-frontend/internal/application/admin"
)

// AdminOrderHandler handles the admin order management endpoints
type AdminOrderHandler struct {
	BaseHandler
	orders *admin.OrderService
}

// NewAdminOrderHandler creates a new AdminOrderHandler
func NewAdminOrderHandler(orderService *admin.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{
		orders: orderService,
	}
}

// List godoc
// @Summary      List orders for the dashboard
// @Description  Returns every order with its allowed status transitions
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]admin.OrderView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *AdminOrderHandler) List(c *gin.Context) {
	token := getAdminToken(c)
	if token == "" {
		h.Unauthorized(c, "Admin token required")
		return
	}

	orders, err := h.orders.List(c.Request.Context(), token)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithTotal(c, orders, len(orders))
}

// UpdateStatus godoc
// @Summary      Update an order's status
// @Description  Moves the order along the status lifecycle. Invalid target statuses are rejected before any backend call; the backend stays authoritative for transition legality.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body admin.UpdateOrderStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=admin.OrderView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [patch]
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	token := getAdminToken(c)
	if token == "" {
		h.Unauthorized(c, "Admin token required")
		return
	}

	var req admin.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), token, c.Param("id"), req.Status)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}
