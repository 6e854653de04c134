package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealflow/mealflow/internal/server/http/dto"
	"github.com/mealflow/mealflow/internal/usecase"
)

// OrderHandler manages consumer-side order endpoints.
type OrderHandler struct {
	facade ConsumerOrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade ConsumerOrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Submit handles POST /api/user/orders.
func (h *OrderHandler) Submit(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	submission, err := h.facade.SubmitOrder(c.Request.Context(), userID, usecase.SubmitOrderInput{
		AddressBookID: req.AddressBookID,
		PayMethod:     req.PayMethod,
		Remark:        req.Remark,
		PackAmount:    req.PackAmount,
		Amount:        req.Amount,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SubmitOrderResponse{
		ID:        submission.ID,
		Number:    submission.Number,
		Amount:    submission.Amount,
		OrderTime: submission.OrderTime,
	})
}

// Pay handles PUT /api/user/orders/payment. Payment is taken on the client's
// word; there is no gateway callback verifying it.
func (h *OrderHandler) Pay(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.PayOrder(c.Request.Context(), userID, req.Number, req.PayMethod); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.UserOrders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.FromOrder(o, nil))
	}
	c.JSON(http.StatusOK, response)
}

// Detail handles GET /api/user/orders/:id.
func (h *OrderHandler) Detail(c *gin.Context) {
	userID := CurrentUserID(c)
	orderID, ok := OrderIDParam(c)
	if !ok {
		return
	}

	order, details, err := h.facade.UserOrderDetail(c.Request.Context(), userID, orderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(*order, details))
}

// Cancel handles PUT /api/user/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID := CurrentUserID(c)
	orderID, ok := OrderIDParam(c)
	if !ok {
		return
	}

	if err := h.facade.CancelOrderByUser(c.Request.Context(), userID, orderID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Repeat handles POST /api/user/orders/:id/repetition.
func (h *OrderHandler) Repeat(c *gin.Context) {
	userID := CurrentUserID(c)
	orderID, ok := OrderIDParam(c)
	if !ok {
		return
	}

	if err := h.facade.RepeatOrder(c.Request.Context(), userID, orderID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Remind handles POST /api/user/orders/:id/reminder.
func (h *OrderHandler) Remind(c *gin.Context) {
	userID := CurrentUserID(c)
	orderID, ok := OrderIDParam(c)
	if !ok {
		return
	}

	if err := h.facade.RemindOrder(c.Request.Context(), userID, orderID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// RemindByNumber handles POST /api/user/orders/reminder.
func (h *OrderHandler) RemindByNumber(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RemindOrderByNumber(c.Request.Context(), userID, req.Number); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
