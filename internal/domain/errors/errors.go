package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Guard and validation failures carry the user-facing messages the API layer
// relays verbatim.
var (
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderStatusInvalid = errors.New("订单状态错误")
	ErrOrderAlreadyPaid   = errors.New("订单已支付")
	ErrAddressBookEmpty   = errors.New("地址簿为空，不能下单")
	ErrShoppingCartEmpty  = errors.New("购物车数据为空，不能下单")
)

// ErrOrderNumberExhausted reports that number allocation ran out of retries.
var ErrOrderNumberExhausted = errors.New("order number allocation retries exhausted")
