package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/inventory"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InventoryProvider serves catalog snapshots. Implemented by
// inventory.Service.
type InventoryProvider interface {
	Snapshot(ctx context.Context) (*inventory.Snapshot, error)
	Configured() bool
}

type ProductsHandler struct {
	logger    *zap.Logger
	inventory InventoryProvider
}

func NewProductsHandler(logger *zap.Logger, inv InventoryProvider) *ProductsHandler {
	return &ProductsHandler{
		logger:    logger,
		inventory: inv,
	}
}

// GetProducts handles GET /api/products
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	h.respondFiltered(c, nil)
}

// GetProductsByCategory handles GET /api/products/category/:category
func (h *ProductsHandler) GetProductsByCategory(c *gin.Context) {
	category := catalog.Category(strings.ToLower(strings.TrimSpace(c.Param("category"))))
	h.respondFiltered(c, func(p catalog.Product) bool {
		return p.Category == category
	})
}

// GetBestSellers handles GET /api/products/bestsellers
func (h *ProductsHandler) GetBestSellers(c *gin.Context) {
	h.respondFiltered(c, func(p catalog.Product) bool {
		return p.IsBestSeller
	})
}

// GetNewArrivals handles GET /api/products/newarrivals
func (h *ProductsHandler) GetNewArrivals(c *gin.Context) {
	h.respondFiltered(c, func(p catalog.Product) bool {
		return p.IsNewArrival
	})
}

// respondFiltered serves the cached snapshot through an optional product
// filter. Filtering never triggers an extra upstream fetch.
func (h *ProductsHandler) respondFiltered(c *gin.Context, keep func(catalog.Product) bool) {
	snap, err := h.inventory.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load inventory snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ProductsResponse{
			Success:    false,
			Products:   []catalog.Product{},
			Categories: catalog.StorefrontCategories,
			Error:      "failed to fetch products",
			Details:    err.Error(),
		})
		return
	}

	products := snap.Products
	if keep != nil {
		filtered := make([]catalog.Product, 0, len(products))
		for _, p := range products {
			if keep(p) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}
	if products == nil {
		products = []catalog.Product{}
	}

	c.JSON(http.StatusOK, ProductsResponse{
		Success:    true,
		Products:   products,
		Categories: snap.Categories,
	})
}

// Health handles GET /api/health
func (h *ProductsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:           "ok",
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		CloverConfigured: h.inventory.Configured(),
	})
}
