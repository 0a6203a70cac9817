package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmunteanu/shop-orders/internal/models"
	"github.com/dmunteanu/shop-orders/internal/repo"
)

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrOrderNotFound     = errors.New("order not found")    // 404
	ErrProductNotFound   = errors.New("product not found")  // 404
	ErrInsufficientStock = errors.New("insufficient stock") // 400
)

// Service implements the order/stock reconciliation protocol: product stock
// is the source of truth for availability and order quantity is a
// reservation against it. Every mutating operation runs in one transaction
// over the order row and the product row it touches.
type Service struct {
	store repo.Store
}

func NewService(store repo.Store) *Service {
	return &Service{store: store}
}

// AddProduct reserves qty units of the product and folds them into the
// order referencing it, creating the order with a snapshot of the product's
// display fields when none exists yet. qty values below 1 default to 1.
func (s *Service) AddProduct(ctx context.Context, productID uint, qty int) (*models.Order, error) {
	if qty < 1 {
		qty = 1
	}

	var out *models.Order
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		product, err := tx.Product(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		reserved, err := tx.ReserveStock(ctx, product.ID, qty)
		if err != nil {
			return err
		}
		if !reserved {
			return ErrInsufficientStock
		}

		existing, err := tx.OrderByProduct(ctx, product.ID)
		switch {
		case err == nil:
			existing.Quantity += qty
			if err := tx.SaveOrder(ctx, existing); err != nil {
				return err
			}
			out = existing
		case errors.Is(err, repo.ErrNotFound):
			created := &models.Order{
				ProductID:   product.ID,
				Name:        product.Name,
				Description: product.Description,
				Price:       product.Price,
				Image:       product.Image,
				Quantity:    qty,
			}
			if err := tx.CreateOrder(ctx, created); err != nil {
				return err
			}
			out = created
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create persists the payload verbatim, with no stock check and no product
// linkage validation. This is the unchecked administrative escape hatch of
// the API; regular callers go through AddProduct.
func (s *Service) Create(ctx context.Context, order *models.Order) error {
	return s.store.CreateOrder(ctx, order)
}

// UpdateQuantity replaces the order quantity with qty, reserving the
// positive delta from product stock or returning the negative delta to it.
// Returning stock never fails; reserving fails with ErrInsufficientStock.
func (s *Service) UpdateQuantity(ctx context.Context, orderID uint, qty int) (*models.Order, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	var out *models.Order
	err := s.store.WithTx(ctx, func(tx repo.Store) error {
		order, err := tx.Order(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		product, err := tx.Product(ctx, order.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		delta := qty - order.Quantity
		if delta > 0 {
			reserved, err := tx.ReserveStock(ctx, product.ID, delta)
			if err != nil {
				return err
			}
			if !reserved {
				return ErrInsufficientStock
			}
		} else if delta < 0 {
			if err := tx.ReleaseStock(ctx, product.ID, -delta); err != nil {
				return err
			}
		}

		order.Quantity = qty
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete restores the full reservation to product stock and removes the
// order. When the product row no longer exists the restore is skipped
// rather than blocking order cleanup.
func (s *Service) Delete(ctx context.Context, orderID uint) error {
	return s.store.WithTx(ctx, func(tx repo.Store) error {
		order, err := tx.Order(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.ReleaseStock(ctx, order.ProductID, order.Quantity); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, order)
	})
}

func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders(ctx)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.store.Order(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}
