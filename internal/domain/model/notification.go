package model

// Notification kinds pushed to merchant-side clients.
const (
	NotificationTypeNewOrder = 1
	NotificationTypeReminder = 2
)

// Notification is the payload broadcast to all connected merchant clients.
type Notification struct {
	Type    int    `json:"type"`
	OrderID int64  `json:"orderId"`
	Content string `json:"content"`
}
