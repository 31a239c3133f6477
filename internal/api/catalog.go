package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/furnistore/api/internal/domain/catalog"
)

type productRequest struct {
	Name          string               `json:"name" binding:"required"`
	Description   string               `json:"description"`
	Price         decimal.Decimal      `json:"price" binding:"required"`
	Dimensions    string               `json:"dimensions"`
	StockQuantity int                  `json:"stock_quantity" binding:"gte=0"`
	CategoryID    int64                `json:"category_id"`
	ImageURL      string               `json:"image_url"`
	Kind          string               `json:"kind" binding:"required,furniturekind"`
	Attributes    catalog.AttributeBag `json:"attributes"`
}

type productResponse struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	Price         decimal.Decimal    `json:"price"`
	Dimensions    string             `json:"dimensions,omitempty"`
	StockQuantity int                `json:"stock_quantity"`
	CategoryID    int64              `json:"category_id"`
	ImageURL      string             `json:"image_url,omitempty"`
	Kind          catalog.Kind       `json:"kind"`
	Attributes    catalog.Attributes `json:"attributes"`
}

type productDiscountRequest struct {
	Percentage decimal.Decimal `json:"percentage" binding:"required"`
}

func toProductResponse(f *catalog.Furniture) productResponse {
	return productResponse{
		ID:            f.ID,
		Name:          f.Name,
		Description:   f.Description,
		Price:         f.Price,
		Dimensions:    f.Dimensions,
		StockQuantity: f.StockQuantity,
		CategoryID:    f.CategoryID,
		ImageURL:      f.ImageURL,
		Kind:          f.Kind,
		Attributes:    f.Attrs,
	}
}

func (req productRequest) toFurniture() (*catalog.Furniture, error) {
	base := catalog.Furniture{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Dimensions:    req.Dimensions,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
	}
	return catalog.New(req.Kind, base, req.Attributes)
}

func (s *Server) listProducts(c *gin.Context) {
	items, err := s.products.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]productResponse, len(items))
	for i := range items {
		out[i] = toProductResponse(&items[i])
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	f, err := s.products.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(f))
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}

	f, err := req.toFurniture()
	if err != nil {
		writeError(c, err)
		return
	}

	id, err := s.products.Create(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	f.ID = id
	c.JSON(http.StatusCreated, toProductResponse(f))
}

func (s *Server) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}

	f, err := req.toFurniture()
	if err != nil {
		writeError(c, err)
		return
	}
	f.ID = id

	if err := s.products.Update(c.Request.Context(), f); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(f))
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.products.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// productDiscount computes the per-product discount amount for a base
// percentage, including the kind-specific bonus when the kind's flag
// attribute is set.
func (s *Server) productDiscount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req productDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	f, err := s.products.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	amount := f.ComputeDiscount(req.Percentage)
	c.JSON(http.StatusOK, gin.H{
		"product_id": f.ID,
		"discount":   amount,
		"price":      f.Price,
	})
}
