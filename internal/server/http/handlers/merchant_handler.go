package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealflow/mealflow/internal/server/http/dto"
)

// MerchantHandler manages merchant-side order endpoints.
type MerchantHandler struct {
	facade MerchantOrderFacade
}

// NewMerchantHandler constructs MerchantHandler.
func NewMerchantHandler(facade MerchantOrderFacade) *MerchantHandler {
	return &MerchantHandler{facade: facade}
}

// Detail handles GET /api/merchant/orders/:id.
func (h *MerchantHandler) Detail(c *gin.Context) {
	orderID, ok := OrderIDParam(c)
	if !ok {
		return
	}

	order, details, err := h.facade.OrderDetail(c.Request.Context(), orderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrder(*order, details))
}

// Confirm handles PUT /api/merchant/orders/:id/confirm.
func (h *MerchantHandler) Confirm(c *gin.Context) {
	orderID, ok := OrderIDParam(c)
	if !ok {
		return
	}

	if err := h.facade.ConfirmOrder(c.Request.Context(), orderID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Reject handles PUT /api/merchant/orders/rejection.
func (h *MerchantHandler) Reject(c *gin.Context) {
	var req dto.RejectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RejectOrder(c.Request.Context(), req.ID, req.Reason); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Cancel handles PUT /api/merchant/orders/cancel.
func (h *MerchantHandler) Cancel(c *gin.Context) {
	var req dto.CancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.CancelOrder(c.Request.Context(), req.ID, req.Reason); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Deliver handles PUT /api/merchant/orders/:id/delivery.
func (h *MerchantHandler) Deliver(c *gin.Context) {
	orderID, ok := OrderIDParam(c)
	if !ok {
		return
	}

	if err := h.facade.DeliverOrder(c.Request.Context(), orderID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Complete handles PUT /api/merchant/orders/:id/complete.
func (h *MerchantHandler) Complete(c *gin.Context) {
	orderID, ok := OrderIDParam(c)
	if !ok {
		return
	}

	if err := h.facade.CompleteOrder(c.Request.Context(), orderID); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
