package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/furnistore/api/internal/domain/cart"
	"github.com/furnistore/api/internal/domain/catalog"
	"github.com/furnistore/api/internal/domain/order"
)

// writeError maps a domain error to an HTTP status and a JSON body. Unmapped
// errors become an opaque 500 and get logged with the request context.
func writeError(c *gin.Context, err error) {
	var unknownKind *catalog.UnknownKindError
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidStatus),
		errors.As(err, &unknownKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		zctx.From(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindJSON binds the request body and writes a 400 on failure. Validation
// rules come from the struct's binding tags.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "detail": err.Error()})
		return false
	}
	return true
}

// pathID parses an int64 path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
