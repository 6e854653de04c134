package model

import "time"

// UserRole separates the consumer side from the merchant side.
type UserRole string

const (
	UserRoleConsumer UserRole = "consumer"
	UserRoleMerchant UserRole = "merchant"
)

// User represents a registered account on either side of the platform.
type User struct {
	ID           int64
	Login        string
	Name         string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
}
