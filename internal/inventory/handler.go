package inventory

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Uzair-37/Standard-website/internal/catalog"
	httperr "github.com/Uzair-37/Standard-website/internal/core/errors"
)

// Service exposes inventory operations over HTTP and mirrors stock levels
// back into the catalog.
type Service struct {
	connector Connector
	products  *catalog.Repository
}

// NewService creates an inventory service. Panics if a dependency is nil.
func NewService(connector Connector, products *catalog.Repository) *Service {
	if connector == nil {
		panic("inventory: connector must not be nil")
	}
	if products == nil {
		panic("inventory: catalog repository must not be nil")
	}
	return &Service{connector: connector, products: products}
}

// RegisterRoutes wires the inventory endpoints into the router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/inventory", s.HandleGetStock)
	r.PUT("/api/inventory/:product", s.HandleUpdateStock)
	r.POST("/api/inventory/sync", s.HandleSync)
}

// HandleGetStock handles GET /api/inventory.
func (s *Service) HandleGetStock(c *gin.Context) {
	stock, err := s.connector.GetStock(c.Request.Context())
	if err != nil {
		slog.Error("[Inventory] Stock lookup failed", "error", err)
		c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpUpstreamError,
			Message:   "Inventory system unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(stock),
		"stock": stock,
	})
}

// HandleUpdateStock handles PUT /api/inventory/:product with a body of
// {"stock": <non-negative integer>}.
func (s *Service) HandleUpdateStock(c *gin.Context) {
	productID := c.Param("product")

	var body struct {
		Stock *int `json:"stock"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Stock == nil || *body.Stock < 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Body must be {\"stock\": <non-negative integer>}",
		})
		return
	}

	if err := s.connector.UpdateStock(c.Request.Context(), productID, *body.Stock); err != nil {
		if errors.Is(err, ErrUnknownProduct) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNotFoundError,
				Message:   "Product not found in inventory",
				Details:   productID,
			})
			return
		}
		slog.Error("[Inventory] Stock update failed", "error", err, "product_id", productID)
		c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpUpstreamError,
			Message:   "Inventory system unavailable",
		})
		return
	}

	// Mirror into the catalog so product listings show the new level.
	if err := s.products.SetStock(productID, *body.Stock); err != nil && !errors.Is(err, catalog.ErrProductNotFound) {
		slog.Warn("[Inventory] Failed to mirror stock into catalog", "error", err, "product_id", productID)
	}

	slog.Info("[Inventory] Stock updated", "product_id", productID, "stock", *body.Stock)
	c.JSON(http.StatusOK, gin.H{
		"status":  "updated",
		"product": productID,
		"stock":   *body.Stock,
	})
}

// HandleSync handles POST /api/inventory/sync: refreshes every catalog
// product from the upstream and applies the returned stock levels.
func (s *Service) HandleSync(c *gin.Context) {
	products := s.products.List()

	synced, err := s.connector.SyncInventory(c.Request.Context(), products)
	if err != nil {
		slog.Error("[Inventory] Sync failed", "error", err)
		c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpUpstreamError,
			Message:   "Inventory sync failed",
			Details:   err.Error(),
		})
		return
	}

	for _, p := range synced {
		if err := s.products.SetStock(p.ID, p.Stock); err != nil {
			slog.Warn("[Inventory] Failed to mirror stock into catalog", "error", err, "product_id", p.ID)
		}
	}

	slog.Info("[Inventory] Sync complete", "products", len(synced))
	c.JSON(http.StatusOK, gin.H{
		"status":   "synced",
		"count":    len(synced),
		"products": synced,
	})
}
