package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dmunteanu/shop-orders/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Product(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &product, nil
}

func (s *GormStore) Order(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &order, nil
}

func (s *GormStore) OrderByProduct(ctx context.Context, productID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&order).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &order, nil
}

func (s *GormStore) Orders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *GormStore) SaveOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Save(order).Error
}

func (s *GormStore) DeleteOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Delete(order).Error
}

func (s *GormStore) ReserveStock(ctx context.Context, productID uint, qty int) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) ReleaseStock(ctx context.Context, productID uint, qty int) error {
	return s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
