package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdamBejaoui/project-frontend/internal/application/admin"
)

// AdminProductHandler handles the admin product management endpoints.
// Every call forwards the caller's bearer token to the backend, which
// owns admin authentication.
type AdminProductHandler struct {
	BaseHandler
	products *admin.ProductService
}

// NewAdminProductHandler creates a new AdminProductHandler
func NewAdminProductHandler(productService *admin.ProductService) *AdminProductHandler {
	return &AdminProductHandler{
		products: productService,
	}
}

// List godoc
// @Summary      List products for the dashboard
// @Description  Returns the unfiltered product list from the backend
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=[]admin.ProductView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *AdminProductHandler) List(c *gin.Context) {
	token := getAdminToken(c)
	if token == "" {
		h.Unauthorized(c, "Admin token required")
		return
	}

	products, err := h.products.List(c.Request.Context(), token)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithTotal(c, products, len(products))
}

// Create godoc
// @Summary      Create a product
// @Description  Creates a product on the backend and invalidates the storefront catalog cache
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body admin.ProductRequest true "Product fields"
// @Success      201 {object} dto.Response{data=admin.ProductView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *AdminProductHandler) Create(c *gin.Context) {
	token := getAdminToken(c)
	if token == "" {
		h.Unauthorized(c, "Admin token required")
		return
	}

	var req admin.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.Create(c.Request.Context(), token, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// Update godoc
// @Summary      Update a product
// @Description  Updates a product on the backend and invalidates the storefront catalog cache
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body admin.ProductRequest true "Product fields"
// @Success      200 {object} dto.Response{data=admin.ProductView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [patch]
func (h *AdminProductHandler) Update(c *gin.Context) {
	token := getAdminToken(c)
	if token == "" {
		h.Unauthorized(c, "Admin token required")
		return
	}

	var req admin.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), token, c.Param("id"), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Deletes a product on the backend and invalidates the storefront catalog cache
// @Tags         admin
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      204 "No Content"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *AdminProductHandler) Delete(c *gin.Context) {
	token := getAdminToken(c)
	if token == "" {
		h.Unauthorized(c, "Admin token required")
		return
	}

	if err := h.products.Delete(c.Request.Context(), token, c.Param("id")); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
