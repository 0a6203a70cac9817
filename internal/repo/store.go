package repo

import (
	"context"
	"errors"

	"github.com/dmunteanu/shop-orders/internal/models"
)

// ErrNotFound is returned by point reads when no row matches.
var ErrNotFound = errors.New("record not found")

// Store is the persistence handle injected into the order service, so the
// reconciliation logic never reaches for a global connection and tests can
// back it with an in-memory database.
type Store interface {
	// WithTx runs fn against a transactional view of the store. The order
	// mutation and the stock mutation of one operation either both persist
	// or neither does.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	Product(ctx context.Context, id uint) (*models.Product, error)
	Order(ctx context.Context, id uint) (*models.Order, error)
	OrderByProduct(ctx context.Context, productID uint) (*models.Order, error)
	Orders(ctx context.Context) ([]models.Order, error)

	CreateOrder(ctx context.Context, order *models.Order) error
	SaveOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, order *models.Order) error

	// ReserveStock decrements product stock by qty only if enough stock is
	// available, in a single conditional update. It reports whether the
	// reservation was made.
	ReserveStock(ctx context.Context, productID uint, qty int) (bool, error)

	// ReleaseStock returns qty units to the product. A missing product is
	// not an error: restoring stock of a deleted product is a no-op.
	ReleaseStock(ctx context.Context, productID uint, qty int) error
}
