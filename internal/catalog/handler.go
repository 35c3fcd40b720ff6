package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	httperr "github.com/Uzair-37/Standard-website/internal/core/errors"
)

// Service exposes the catalog over HTTP.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	if repo == nil {
		panic("catalog: repository must not be nil")
	}
	return &Service{repo: repo}
}

// Repository returns the backing repository for wiring into other
// services.
func (s *Service) Repository() *Repository {
	return s.repo
}

// RegisterRoutes registers the catalog routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/products", s.HandleListProducts)
	r.GET("/api/products/:id", s.HandleGetProduct)
}

// HandleListProducts handles GET /api/products.
// Query parameters: q, category, minPrice, maxPrice (all optional).
func (s *Service) HandleListProducts(c *gin.Context) {
	q := Query{
		Text:     c.Query("q"),
		Category: c.Query("category"),
	}

	if raw := c.Query("minPrice"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidJsonError,
				Message:   "minPrice must be a decimal number",
				Details:   raw,
			})
			return
		}
		q.MinPrice = &min
	}
	if raw := c.Query("maxPrice"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidJsonError,
				Message:   "maxPrice must be a decimal number",
				Details:   raw,
			})
			return
		}
		q.MaxPrice = &max
	}

	products := s.repo.Find(q)
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

// HandleGetProduct handles GET /api/products/:id.
func (s *Service) HandleGetProduct(c *gin.Context) {
	product, err := s.repo.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNotFoundError,
				Message:   "Product not found",
				Details:   c.Param("id"),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to look up product",
		})
		return
	}
	c.JSON(http.StatusOK, product)
}
