package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mealflow/mealflow/internal/domain/model"
)

// SubmitOrderRequest is the consumer's checkout payload. Amount is the
// client-side total shown to the user; the server recomputes it.
type SubmitOrderRequest struct {
	AddressBookID int64           `json:"addressBookId" binding:"required"`
	PayMethod     int             `json:"payMethod"`
	Remark        string          `json:"remark"`
	PackAmount    decimal.Decimal `json:"packAmount"`
	Amount        decimal.Decimal `json:"amount"`
}

// SubmitOrderResponse echoes the persisted submission back to the consumer.
type SubmitOrderResponse struct {
	ID        int64           `json:"id"`
	Number    string          `json:"orderNumber"`
	Amount    decimal.Decimal `json:"orderAmount"`
	OrderTime time.Time       `json:"orderTime"`
}

// PaymentRequest confirms payment of an order by number.
type PaymentRequest struct {
	Number    string `json:"orderNumber" binding:"required"`
	PayMethod int    `json:"payMethod"`
}

// RejectionRequest is the merchant declining an order.
type RejectionRequest struct {
	ID     int64  `json:"id" binding:"required"`
	Reason string `json:"rejectionReason" binding:"required"`
}

// CancellationRequest is the merchant cancelling an order.
type CancellationRequest struct {
	ID     int64  `json:"id" binding:"required"`
	Reason string `json:"cancelReason"`
}

// ReminderRequest nudges the merchant about an order by number.
type ReminderRequest struct {
	Number string `json:"orderNumber" binding:"required"`
}

// OrderResponse is the wire shape of an order.
type OrderResponse struct {
	ID              int64                 `json:"id"`
	Number          string                `json:"number"`
	Status          string                `json:"status"`
	PayStatus       string                `json:"payStatus"`
	PayMethod       int                   `json:"payMethod"`
	Amount          decimal.Decimal       `json:"amount"`
	Remark          string                `json:"remark,omitempty"`
	Phone           string                `json:"phone"`
	Address         string                `json:"address"`
	Consignee       string                `json:"consignee"`
	UserName        string                `json:"userName"`
	CancelReason    string                `json:"cancelReason,omitempty"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
	OrderTime       time.Time             `json:"orderTime"`
	CheckoutTime    *time.Time            `json:"checkoutTime,omitempty"`
	CancelTime      *time.Time            `json:"cancelTime,omitempty"`
	DeliveryTime    *time.Time            `json:"deliveryTime,omitempty"`
	Details         []OrderDetailResponse `json:"orderDetails,omitempty"`
}

// OrderDetailResponse is the wire shape of one order line.
type OrderDetailResponse struct {
	Name     string          `json:"name"`
	Image    string          `json:"image,omitempty"`
	Flavor   string          `json:"flavor,omitempty"`
	Quantity int             `json:"number"`
	Amount   decimal.Decimal `json:"amount"`
}

// FromOrder maps a domain order (and optional detail lines) to the wire shape.
func FromOrder(order model.Order, details []model.OrderDetail) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		Number:          order.Number,
		Status:          string(order.Status),
		PayStatus:       string(order.PayStatus),
		PayMethod:       order.PayMethod,
		Amount:          order.Amount,
		Remark:          order.Remark,
		Phone:           order.Phone,
		Address:         order.Address,
		Consignee:       order.Consignee,
		UserName:        order.UserName,
		CancelReason:    order.CancelReason,
		RejectionReason: order.RejectionReason,
		OrderTime:       order.OrderTime,
		CheckoutTime:    order.CheckoutTime,
		CancelTime:      order.CancelTime,
		DeliveryTime:    order.DeliveryTime,
	}
	for _, d := range details {
		resp.Details = append(resp.Details, OrderDetailResponse{
			Name:     d.Name,
			Image:    d.Image,
			Flavor:   d.Flavor,
			Quantity: d.Quantity,
			Amount:   d.Amount,
		})
	}
	return resp
}
