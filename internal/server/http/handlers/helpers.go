package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mealflow/mealflow/internal/domain/errors"
	"github.com/mealflow/mealflow/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// OrderIDParam parses the :id path parameter.
func OrderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order id"})
		return 0, false
	}
	return id, true
}

// RespondError maps business errors onto HTTP statuses, relaying the guard
// message so the client can surface it verbatim.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, domainErrors.ErrOrderStatusInvalid),
		errors.Is(err, domainErrors.ErrOrderAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, domainErrors.ErrAddressBookEmpty),
		errors.Is(err, domainErrors.ErrShoppingCartEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		c.Status(http.StatusInternalServerError)
	}
}
