package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AdamBejaoui/project-frontend/internal/application/storefront"
	"github.com/AdamBejaoui/project-frontend/internal/domain/catalog"
)

// StorefrontProductHandler handles public catalog endpoints
type StorefrontProductHandler struct {
	BaseHandler
	catalog *storefront.CatalogService
}

// NewStorefrontProductHandler creates a new StorefrontProductHandler
func NewStorefrontProductHandler(catalogService *storefront.CatalogService) *StorefrontProductHandler {
	return &StorefrontProductHandler{
		catalog: catalogService,
	}
}

// List godoc
// @Summary      List products
// @Description  Returns the catalog filtered by category and search term. Both filters must match.
// @Tags         storefront
// @Produce      json
// @Param        category query string false "Category filter; All or empty matches everything" example:"Streetwear"
// @Param        search query string false "Case-insensitive substring match on name or description" example:"jacket"
// @Success      200 {object} dto.Response{data=[]storefront.ProductView}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /storefront/products [get]
func (h *StorefrontProductHandler) List(c *gin.Context) {
	filter := catalog.Filter{
		Category: catalog.Category(c.Query("category")),
		Search:   c.Query("search"),
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithTotal(c, products, len(products))
}

// GetByID godoc
// @Summary      Get product by ID
// @Description  Returns a single product with image references resolved against the backend base
// @Tags         storefront
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=storefront.ProductView}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /storefront/products/{id} [get]
func (h *StorefrontProductHandler) GetByID(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}
