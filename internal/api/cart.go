package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/furnistore/api/internal/domain/catalog"
	"github.com/furnistore/api/internal/domain/discount"
)

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

type cartDiscountRequest struct {
	Strategy   string          `json:"strategy" binding:"required,oneof=percentage bogo bulk"`
	Percent    decimal.Decimal `json:"percent"`
	Categories []int64         `json:"categories"`
	Threshold  int             `json:"threshold"`
}

type cartLineResponse struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image_url,omitempty"`
	Kind       catalog.Kind    `json:"kind"`
	CategoryID int64           `json:"category_id"`
	Quantity   int             `json:"quantity"`
}

func (s *Server) getCart(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	lines, err := s.carts.Items(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	total, err := s.carts.Total(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]cartLineResponse, len(lines))
	for i, ln := range lines {
		items[i] = cartLineResponse{
			ProductID:  ln.ProductID,
			Name:       ln.Name,
			Price:      ln.Price,
			ImageURL:   ln.ImageURL,
			Kind:       ln.Kind,
			CategoryID: ln.CategoryID,
			Quantity:   ln.Quantity,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"count": len(items),
	})
}

func (s *Server) addCartItem(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var req addCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := s.carts.Add(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) updateCartItem(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}
	var req updateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := s.carts.Update(c.Request.Context(), userID, productID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) removeCartItem(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	productID, ok := pathID(c, "product_id")
	if !ok {
		return
	}

	if err := s.carts.Remove(c.Request.Context(), userID, productID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) clearCart(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := s.carts.Clear(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) cartDiscount(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	var req cartDiscountRequest
	if !bindJSON(c, &req) {
		return
	}

	var strategy discount.Strategy
	switch req.Strategy {
	case "percentage":
		strategy = discount.NewPercentage(req.Percent)
	case "bogo":
		strategy = discount.NewBuyOneGetOne(req.Categories...)
	case "bulk":
		strategy = discount.NewBulk(req.Threshold, req.Percent)
	}

	amount, err := s.carts.ApplyDiscount(c.Request.Context(), userID, strategy)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discount": amount})
}
