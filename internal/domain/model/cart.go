package model

import "github.com/shopspring/decimal"

// CartLine is a shopping cart row as the order engine sees it. Amount is the
// unit price of the dish or setmeal, not the line total.
type CartLine struct {
	ID        int64
	UserID    int64
	Name      string
	Image     string
	DishID    *int64
	SetmealID *int64
	Flavor    string
	Quantity  int
	Amount    decimal.Decimal
}
