package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the position of an order in its lifecycle.
type OrderStatus string

const (
	OrderStatusPendingPayment     OrderStatus = "PENDING_PAYMENT"
	OrderStatusToBeConfirmed      OrderStatus = "TO_BE_CONFIRMED"
	OrderStatusConfirmed          OrderStatus = "CONFIRMED"
	OrderStatusDeliveryInProgress OrderStatus = "DELIVERY_IN_PROGRESS"
	OrderStatusCompleted          OrderStatus = "COMPLETED"
	OrderStatusCancelled          OrderStatus = "CANCELLED"
)

// PayStatus tracks monetary settlement independently of the lifecycle status.
type PayStatus string

const (
	PayStatusUnpaid PayStatus = "UNPAID"
	PayStatusPaid   PayStatus = "PAID"
	PayStatusRefund PayStatus = "REFUND"
)

// Order is the aggregate root of the ordering domain. Consignee, phone,
// address and user name are snapshotted at submission time and never
// re-derived from their source records.
type Order struct {
	ID              int64
	Number          string
	UserID          int64
	AddressBookID   int64
	Status          OrderStatus
	PayStatus       PayStatus
	PayMethod       int
	Amount          decimal.Decimal
	Remark          string
	Phone           string
	Address         string
	Consignee       string
	UserName        string
	CancelReason    string
	RejectionReason string
	OrderTime       time.Time
	CheckoutTime    *time.Time
	CancelTime      *time.Time
	DeliveryTime    *time.Time
}

// OrderDetail is a single cart line frozen at submission time. Details are
// immutable after creation and owned exclusively by their parent order.
type OrderDetail struct {
	ID        int64
	OrderID   int64
	Name      string
	Image     string
	DishID    *int64
	SetmealID *int64
	Flavor    string
	Quantity  int
	Amount    decimal.Decimal
}

// OrderPatch carries the fields a transition writes. Nil fields are left
// untouched by the persistence layer.
type OrderPatch struct {
	Status          *OrderStatus
	PayStatus       *PayStatus
	PayMethod       *int
	CheckoutTime    *time.Time
	CancelReason    *string
	RejectionReason *string
	CancelTime      *time.Time
	DeliveryTime    *time.Time
}

// OrderUpdate pairs an order identifier with the patch to apply, used by
// batch reconciliation writes. The expected fields guard the write the same
// way UpdateIfStatus does: a row that moved on since selection is left alone.
// Nil expectations make the write unconditional.
type OrderUpdate struct {
	ID                int64
	ExpectedStatus    *OrderStatus
	ExpectedPayStatus *PayStatus
	Patch             OrderPatch
}
