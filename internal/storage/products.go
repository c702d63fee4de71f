package storage

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"marketgo/backend/internal/models"
)

// ProductFilter narrows ListProducts. Zero values mean "no filter".
type ProductFilter struct {
	Search string
	Tag    string
	Page   int
	Limit  int
}

// CreateProduct inserts a new listing.
func (s *Service) CreateProduct(product *models.Product) error {
	return s.DB.Create(product).Error
}

// GetProductByID loads one product with its seller.
func (s *Service) GetProductByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.DB.Preload("Seller").First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// UpdateProduct persists all fields of product.
func (s *Service) UpdateProduct(product *models.Product) error {
	return s.DB.Save(product).Error
}

// ListProducts returns publicly visible (available) products matching the
// filter, newest first, plus the total match count for pagination.
func (s *Service) ListProducts(f ProductFilter) ([]models.Product, int64, error) {
	q := s.DB.Model(&models.Product{}).Where("status = ?", models.ProductAvailable)

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if f.Tag != "" {
		q = q.Where("? = ANY(tags)", f.Tag)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 12
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	var products []models.Product
	err := q.Preload("Seller").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&products).Error
	return products, total, err
}

// ListProductsBySeller returns a seller's products, optionally narrowed to one
// status, newest first.
func (s *Service) ListProductsBySeller(sellerID uint, status string) ([]models.Product, error) {
	q := s.DB.Where("seller_id = ?", sellerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var products []models.Product
	err := q.Order("created_at DESC").Find(&products).Error
	return products, err
}

// BlockProduct moves a product to blocked via compare-and-set. Returns true
// when this call made the transition, false when it was blocked already.
func (s *Service) BlockProduct(productID uint) (bool, error) {
	res := s.DB.Model(&models.Product{}).
		Where("id = ? AND status <> ?", productID, models.ProductBlocked).
		UpdateColumn("status", models.ProductBlocked)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("WARNING: product %d blocked", productID)
	}
	return res.RowsAffected > 0, nil
}

// DeleteProduct removes a listing along with its reports and detaches any chat
// rooms scoped to it, all in one transaction.
func (s *Service) DeleteProduct(productID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_product_id = ?", productID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ChatRoom{}).
			Where("product_id = ?", productID).
			UpdateColumn("product_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, productID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// RegisterProductView bumps the view counter once per viewer. Dedup happens in
// a Redis set keyed by product, mirroring the session-based guard the web tier
// cannot provide itself across instances.
func (s *Service) RegisterProductView(productID uint, viewerKey string) error {
	if s.Redis == nil || viewerKey == "" {
		return nil
	}
	key := fmt.Sprintf("product:%d:viewers", productID)
	added, err := s.Redis.SAdd(s.Ctx, key, viewerKey).Result()
	if err != nil {
		return err
	}
	if added == 0 {
		return nil
	}
	return s.DB.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
