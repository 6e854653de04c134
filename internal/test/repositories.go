package test

import (
	"context"
	"time"

	domainErrors "github.com/mealflow/mealflow/internal/domain/errors"
	"github.com/mealflow/mealflow/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, name, passwordHash string, role model.UserRole) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, Name: name, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderUpdateIfStatusCall records one conditional update request.
type OrderUpdateIfStatusCall struct {
	OrderID  int64
	Expected model.OrderStatus
	Patch    model.OrderPatch
}

// OrderRepositoryStub allows tests to customize behaviour per method.
type OrderRepositoryStub struct {
	CreateFn         func(context.Context, *model.Order, []model.OrderDetail) (*model.Order, error)
	GetByIDFn        func(context.Context, int64) (*model.Order, error)
	GetByNumberFn    func(context.Context, string) (*model.Order, error)
	ExistsByNumberFn func(context.Context, string) (bool, error)
	ListByUserFn     func(context.Context, int64) ([]model.Order, error)
	ListDetailsFn    func(context.Context, int64) ([]model.OrderDetail, error)
	UpdateIfStatusFn func(context.Context, int64, model.OrderStatus, model.OrderPatch) (bool, error)
	UpdateBatchFn    func(context.Context, []model.OrderUpdate) error
	ListStaleFn      func(context.Context, model.OrderStatus, *model.PayStatus, time.Time) ([]model.Order, error)

	Orders  []model.Order
	Details []model.OrderDetail

	Created             []*model.Order
	CreatedDetails      [][]model.OrderDetail
	UpdateIfStatusCalls []OrderUpdateIfStatusCall
	BatchCalls          [][]model.OrderUpdate
}

// Create tracks invocations and returns the order with an assigned id.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, details []model.OrderDetail) (*model.Order, error) {
	s.Created = append(s.Created, order)
	s.CreatedDetails = append(s.CreatedDetails, details)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, details)
	}
	created := *order
	if created.ID == 0 {
		created.ID = int64(len(s.Created))
	}
	return &created, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByNumber returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.GetByNumberFn != nil {
		return s.GetByNumberFn(ctx, number)
	}
	for _, o := range s.Orders {
		if o.Number == number {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ExistsByNumber reports whether a stored order carries the number.
func (s *OrderRepositoryStub) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	if s.ExistsByNumberFn != nil {
		return s.ExistsByNumberFn(ctx, number)
	}
	for _, o := range s.Orders {
		if o.Number == number {
			return true, nil
		}
	}
	return false, nil
}

// ListByUser returns orders from configured slice.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	return s.Orders, nil
}

// ListDetails returns detail lines from configured slice.
func (s *OrderRepositoryStub) ListDetails(ctx context.Context, orderID int64) ([]model.OrderDetail, error) {
	if s.ListDetailsFn != nil {
		return s.ListDetailsFn(ctx, orderID)
	}
	return s.Details, nil
}

// UpdateIfStatus records conditional update invocations.
func (s *OrderRepositoryStub) UpdateIfStatus(ctx context.Context, orderID int64, expected model.OrderStatus, patch model.OrderPatch) (bool, error) {
	s.UpdateIfStatusCalls = append(s.UpdateIfStatusCalls, OrderUpdateIfStatusCall{OrderID: orderID, Expected: expected, Patch: patch})
	if s.UpdateIfStatusFn != nil {
		return s.UpdateIfStatusFn(ctx, orderID, expected, patch)
	}
	return true, nil
}

// UpdateBatch records batched patch invocations.
func (s *OrderRepositoryStub) UpdateBatch(ctx context.Context, updates []model.OrderUpdate) error {
	s.BatchCalls = append(s.BatchCalls, updates)
	if s.UpdateBatchFn != nil {
		return s.UpdateBatchFn(ctx, updates)
	}
	return nil
}

// ListStale returns the configured slice unless overridden.
func (s *OrderRepositoryStub) ListStale(ctx context.Context, status model.OrderStatus, payStatus *model.PayStatus, olderThan time.Time) ([]model.Order, error) {
	if s.ListStaleFn != nil {
		return s.ListStaleFn(ctx, status, payStatus, olderThan)
	}
	return s.Orders, nil
}

// CartRepositoryStub keeps cart lines per user in memory.
type CartRepositoryStub struct {
	ListFn     func(context.Context, int64) ([]model.CartLine, error)
	AddFn      func(context.Context, []model.CartLine) error
	ClearFn    func(context.Context, int64) error
	Lines      []model.CartLine
	Added      [][]model.CartLine
	Cleared    []int64
	ClearErr   error
	AddErr     error
}

// ListByUser returns configured cart lines.
func (s *CartRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.CartLine, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, userID)
	}
	return s.Lines, nil
}

// AddBatch records inserted lines.
func (s *CartRepositoryStub) AddBatch(ctx context.Context, lines []model.CartLine) error {
	if s.AddFn != nil {
		return s.AddFn(ctx, lines)
	}
	s.Added = append(s.Added, lines)
	return s.AddErr
}

// ClearByUser records clear requests.
func (s *CartRepositoryStub) ClearByUser(ctx context.Context, userID int64) error {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, userID)
	}
	s.Cleared = append(s.Cleared, userID)
	return s.ClearErr
}

// AddressRepositoryStub resolves address-book entries for tests.
type AddressRepositoryStub struct {
	GetFn   func(context.Context, int64) (*model.Address, error)
	Address *model.Address
}

// GetByID returns the configured address or not found.
func (s *AddressRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	if s.Address == nil {
		return nil, domainErrors.ErrNotFound
	}
	return s.Address, nil
}
