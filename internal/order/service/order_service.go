package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"deliverus/internal/domain"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProductRepository interface {
	FindByIDsForShare(ctx context.Context, tx *sql.Tx, ids []uint) ([]domain.Product, error)
}

type OrderProductRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, line domain.OrderProduct) (uint, error)
	DeleteByOrder(ctx context.Context, tx *sql.Tx, orderID uint) error
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (uint, error)
	UpdateContents(ctx context.Context, tx *sql.Tx, o domain.Order) error
}

// Line is a requested product and quantity.
type Line struct {
	ProductID uint
	Quantity  int
}

type OrderService struct {
	db        TransactionManager
	products  ProductRepository
	lines     OrderProductRepository
	orders    OrderRepository
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewOrderService(
	db TransactionManager,
	products ProductRepository,
	lines OrderProductRepository,
	orders OrderRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *OrderService {
	return &OrderService{
		db:        db,
		products:  products,
		lines:     lines,
		orders:    orders,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

// Save writes o with the requested lines in one transaction: a new order when
// o.ID is zero, otherwise a replacement of the existing order's contents.
// Prices are read under a shared lock so the stored unity prices and totals
// agree with each other. lines must be sorted by product id.
func (s *OrderService) Save(ctx context.Context, o domain.Order, restaurant domain.Restaurant, lines []Line) (uint, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return 0, err
	}
	// MySQL ignores rollback after commit.
	defer tx.Rollback()

	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	products, err := s.products.FindByIDsForShare(txCtx, tx, ids)
	if err != nil {
		return 0, err
	}
	prices := make(map[uint]domain.Product, len(products))
	for _, p := range products {
		prices[p.ID] = p
	}

	orderLines := make([]domain.OrderProduct, 0, len(lines))
	for _, l := range lines {
		p, ok := prices[l.ProductID]
		// Re-checked under the lock: the product may have changed since
		// pre-validation.
		if !ok {
			return 0, domain.ProductMissing(l.ProductID)
		}
		if err := p.CheckOrderable(restaurant.ID); err != nil {
			return 0, err
		}
		orderLines = append(orderLines, domain.OrderProduct{ProductID: p.ID, Quantity: l.Quantity, UnityPrice: p.Price})
	}

	o.Price = domain.PriceOf(orderLines)
	o.ShippingCosts = domain.ShippingCostsFor(o.Price, restaurant)

	if o.ID == 0 {
		id, err := s.orders.Insert(txCtx, tx, o)
		if err != nil {
			return 0, err
		}
		o.ID = id
	} else {
		if err := s.orders.UpdateContents(txCtx, tx, o); err != nil {
			return 0, err
		}
		if err := s.lines.DeleteByOrder(txCtx, tx, o.ID); err != nil {
			return 0, err
		}
	}

	for _, l := range orderLines {
		l.OrderID = o.ID
		if _, err := s.lines.Insert(txCtx, tx, l); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("orderId", o.ID), zap.Error(err))
		return 0, err
	}

	s.logger.Info("order saved",
		zap.Uint("orderId", o.ID),
		zap.Int("lineCount", len(orderLines)),
		zap.Float64("price", o.Price),
		zap.Float64("shippingCosts", o.ShippingCosts),
	)
	return o.ID, nil
}
