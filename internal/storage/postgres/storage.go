package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/mealflow/mealflow/internal/domain/errors"
	"github.com/mealflow/mealflow/internal/domain/model"
	"github.com/mealflow/mealflow/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on, kept as an
// interface so tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type addressRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Addresses() repository.AddressRepository {
	return &addressRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            name TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'consumer',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS address_book (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            consignee TEXT NOT NULL,
            phone TEXT NOT NULL,
            province TEXT NOT NULL DEFAULT '',
            city TEXT NOT NULL DEFAULT '',
            district TEXT NOT NULL DEFAULT '',
            detail TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS shopping_cart (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            name TEXT NOT NULL,
            image TEXT NOT NULL DEFAULT '',
            dish_id BIGINT,
            setmeal_id BIGINT,
            flavor TEXT NOT NULL DEFAULT '',
            quantity INT NOT NULL,
            amount NUMERIC(10,2) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            user_id BIGINT NOT NULL REFERENCES users(id),
            address_book_id BIGINT NOT NULL,
            status TEXT NOT NULL,
            pay_status TEXT NOT NULL,
            pay_method INT NOT NULL DEFAULT 0,
            amount NUMERIC(10,2) NOT NULL,
            remark TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            consignee TEXT NOT NULL DEFAULT '',
            user_name TEXT NOT NULL DEFAULT '',
            cancel_reason TEXT NOT NULL DEFAULT '',
            rejection_reason TEXT NOT NULL DEFAULT '',
            order_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            checkout_time TIMESTAMPTZ,
            cancel_time TIMESTAMPTZ,
            delivery_time TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS order_detail (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            name TEXT NOT NULL,
            image TEXT NOT NULL DEFAULT '',
            dish_id BIGINT,
            setmeal_id BIGINT,
            flavor TEXT NOT NULL DEFAULT '',
            quantity INT NOT NULL,
            amount NUMERIC(10,2) NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id, order_time DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, order_time)`,
		`CREATE INDEX IF NOT EXISTS idx_order_detail_order ON order_detail(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shopping_cart_user ON shopping_cart(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, name, passwordHash string, role model.UserRole) (*model.User, error) {
	const query = `INSERT INTO users (login, name, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, name, passwordHash, role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.Name = name
	u.PasswordHash = passwordHash
	u.Role = role
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, name, password_hash, role, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, name, password_hash, role, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, number, user_id, address_book_id, status, pay_status, pay_method, amount,
                      remark, phone, address, consignee, user_name, cancel_reason, rejection_reason,
                      order_time, checkout_time, cancel_time, delivery_time`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.Number, &o.UserID, &o.AddressBookID, &o.Status, &o.PayStatus, &o.PayMethod, &o.Amount,
		&o.Remark, &o.Phone, &o.Address, &o.Consignee, &o.UserName, &o.CancelReason, &o.RejectionReason,
		&o.OrderTime, &o.CheckoutTime, &o.CancelTime, &o.DeliveryTime,
	)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order, details []model.OrderDetail) (*model.Order, error) {
	const insertOrder = `INSERT INTO orders (number, user_id, address_book_id, status, pay_status, pay_method, amount,
                                             remark, phone, address, consignee, user_name, order_time)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
                         RETURNING id`
	const insertDetail = `INSERT INTO order_detail (order_id, name, image, dish_id, setmeal_id, flavor, quantity, amount)
                          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	created := *order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, insertOrder,
			order.Number, order.UserID, order.AddressBookID, order.Status, order.PayStatus, order.PayMethod,
			order.Amount, order.Remark, order.Phone, order.Address, order.Consignee, order.UserName, order.OrderTime,
		).Scan(&created.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainErrors.ErrAlreadyExists
			}
			return err
		}

		for _, d := range details {
			if _, err := tx.Exec(ctx, insertDetail,
				created.ID, d.Name, d.Image, d.DishID, d.SetmealID, d.Flavor, d.Quantity, d.Amount,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var o model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number=$1`
	var o model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, number), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM orders WHERE number=$1)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, number).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY order_time DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListDetails(ctx context.Context, orderID int64) ([]model.OrderDetail, error) {
	const query = `SELECT id, order_id, name, image, dish_id, setmeal_id, flavor, quantity, amount
                   FROM order_detail WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderDetail
	for rows.Next() {
		var d model.OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.Name, &d.Image, &d.DishID, &d.SetmealID, &d.Flavor, &d.Quantity, &d.Amount); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// patchClause renders the SET clause for the non-nil fields of the patch,
// appending their values to args.
func patchClause(patch model.OrderPatch, args []any) (string, []any) {
	var clauses []string
	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.PayStatus != nil {
		add("pay_status", *patch.PayStatus)
	}
	if patch.PayMethod != nil {
		add("pay_method", *patch.PayMethod)
	}
	if patch.CheckoutTime != nil {
		add("checkout_time", *patch.CheckoutTime)
	}
	if patch.CancelReason != nil {
		add("cancel_reason", *patch.CancelReason)
	}
	if patch.RejectionReason != nil {
		add("rejection_reason", *patch.RejectionReason)
	}
	if patch.CancelTime != nil {
		add("cancel_time", *patch.CancelTime)
	}
	if patch.DeliveryTime != nil {
		add("delivery_time", *patch.DeliveryTime)
	}
	return strings.Join(clauses, ", "), args
}

func (r *orderRepository) UpdateIfStatus(ctx context.Context, orderID int64, expected model.OrderStatus, patch model.OrderPatch) (bool, error) {
	set, args := patchClause(patch, nil)
	if set == "" {
		return false, fmt.Errorf("empty order patch")
	}
	args = append(args, orderID, expected)
	query := fmt.Sprintf("UPDATE orders SET %s WHERE id=$%d AND status=$%d", set, len(args)-1, len(args))

	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) UpdateBatch(ctx context.Context, updates []model.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, u := range updates {
		set, args := patchClause(u.Patch, nil)
		if set == "" {
			return fmt.Errorf("empty order patch for order %d", u.ID)
		}
		args = append(args, u.ID)
		query := fmt.Sprintf("UPDATE orders SET %s WHERE id=$%d", set, len(args))
		if u.ExpectedStatus != nil {
			args = append(args, *u.ExpectedStatus)
			query += fmt.Sprintf(" AND status=$%d", len(args))
		}
		if u.ExpectedPayStatus != nil {
			args = append(args, *u.ExpectedPayStatus)
			query += fmt.Sprintf(" AND pay_status=$%d", len(args))
		}
		batch.Queue(query, args...)
	}

	results := r.storage.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range updates {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

func (r *orderRepository) ListStale(ctx context.Context, status model.OrderStatus, payStatus *model.PayStatus, olderThan time.Time) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status=$1 AND order_time < $2`
	args := []any{status, olderThan}
	if payStatus != nil {
		args = append(args, *payStatus)
		query += ` AND pay_status=$3`
	}
	query += ` ORDER BY order_time`

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- CartRepository implementation ---

func (r *cartRepository) ListByUser(ctx context.Context, userID int64) ([]model.CartLine, error) {
	const query = `SELECT id, user_id, name, image, dish_id, setmeal_id, flavor, quantity, amount
                   FROM shopping_cart WHERE user_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CartLine
	for rows.Next() {
		var line model.CartLine
		if err := rows.Scan(&line.ID, &line.UserID, &line.Name, &line.Image, &line.DishID, &line.SetmealID, &line.Flavor, &line.Quantity, &line.Amount); err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartRepository) AddBatch(ctx context.Context, lines []model.CartLine) error {
	if len(lines) == 0 {
		return nil
	}

	const query = `INSERT INTO shopping_cart (user_id, name, image, dish_id, setmeal_id, flavor, quantity, amount)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query, line.UserID, line.Name, line.Image, line.DishID, line.SetmealID, line.Flavor, line.Quantity, line.Amount)
	}

	results := r.storage.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range lines {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

func (r *cartRepository) ClearByUser(ctx context.Context, userID int64) error {
	const query = `DELETE FROM shopping_cart WHERE user_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, userID)
	return err
}

// --- AddressRepository implementation ---

func (r *addressRepository) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	const query = `SELECT id, user_id, consignee, phone, province, city, district, detail
                   FROM address_book WHERE id=$1`
	var a model.Address
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.UserID, &a.Consignee, &a.Phone, &a.Province, &a.City, &a.District, &a.Detail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
