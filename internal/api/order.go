package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/furnistore/api/internal/domain/order"
)

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type paymentRequest struct {
	Method string `json:"method" binding:"required,oneof=credit_card debit_card paypal bank_transfer"`
}

type orderResponse struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        order.Status    `json:"status"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type orderItemResponse struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		TotalAmount:   o.TotalAmount,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func (s *Server) checkout(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	result, err := s.orders.Checkout(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order_id": result.OrderID,
		"total":    result.Total,
		"status":   order.StatusPending,
	})
}

func (s *Server) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := s.orders.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (s *Server) listOrders(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	orders, err := s.orders.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (s *Server) orderItems(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	items, err := s.orders.Items(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]orderItemResponse, len(items))
	for i, item := range items {
		out[i] = orderItemResponse{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := s.orders.UpdateStatus(c.Request.Context(), id, order.Status(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (s *Server) processPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req paymentRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := s.orders.ProcessPayment(c.Request.Context(), id, req.Method)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

func (s *Server) deleteOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.orders.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
