package dao

import (
	"context"

	"Printhub/models"

	"gorm.io/gorm"
)

type Product struct {
	Repo[models.Product]
}

func NewProduct(db *gorm.DB) *Product {
	return &Product{
		Repo: NewRepo[models.Product](db),
	}
}

// ListByCursor 游标分页，created_at 倒序（以 id 为游标）
func (p *Product) ListByCursor(ctx context.Context, category, keyword string, cursor int64, limit int) ([]*models.Product, error) {
	var products []*models.Product
	query := p.Db.WithContext(ctx).Preload("Images")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id desc").Limit(limit).Find(&products).Error
	return products, err
}

// FindDetail 带图片的商品详情
func (p *Product) FindDetail(ctx context.Context, productID uint64) (*models.Product, error) {
	var product models.Product
	err := p.Db.WithContext(ctx).Preload("Images").
		Where("id = ?", productID).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIds 下单时批量取权威价格/库存
func (p *Product) FindByIds(ctx context.Context, ids []uint64) ([]*models.Product, error) {
	var products []*models.Product
	err := p.Db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// DecrStock 条件扣减，stock >= qty 才会生效，并发下不超卖
func (p *Product) DecrStock(tx *gorm.DB, productID uint64, qty int) (int64, error) {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	return result.RowsAffected, result.Error
}

// IncrStock 回补库存（取消订单的 restock 策略）
func (p *Product) IncrStock(tx *gorm.DB, productID uint64, qty int) error {
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

// Archive 软删除下架
func (p *Product) Archive(ctx context.Context, productID uint64) (int64, error) {
	result := p.Db.WithContext(ctx).Where("id = ?", productID).Delete(&models.Product{})
	return result.RowsAffected, result.Error
}

// Restore 恢复已下架商品
func (p *Product) Restore(ctx context.Context, productID uint64) (int64, error) {
	result := p.Db.WithContext(ctx).Unscoped().Model(&models.Product{}).
		Where("id = ? AND deleted_at IS NOT NULL", productID).
		Update("deleted_at", nil)
	return result.RowsAffected, result.Error
}

// ListAdmin 管理端列表，包含已下架
func (p *Product) ListAdmin(ctx context.Context, cursor int64, limit int) ([]*models.Product, error) {
	var products []*models.Product
	query := p.Db.WithContext(ctx).Unscoped().Preload("Images")
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	err := query.Order("id desc").Limit(limit).Find(&products).Error
	return products, err
}

type ProductImage struct {
	Repo[models.ProductImage]
}

func NewProductImage(db *gorm.DB) *ProductImage {
	return &ProductImage{
		Repo: NewRepo[models.ProductImage](db),
	}
}

func (i *ProductImage) NextPosition(ctx context.Context, productID uint64) (int, error) {
	var max *int
	err := i.Db.WithContext(ctx).Model(&models.ProductImage{}).
		Select("MAX(position)").
		Where("product_id = ?", productID).
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max + 1, nil
}

func (i *ProductImage) FindByIdAndProduct(ctx context.Context, imageID, productID uint64) (*models.ProductImage, error) {
	return i.Repo.FindByWhere(ctx, "id = ? AND product_id = ?", imageID, productID)
}

func (i *ProductImage) DeleteByIdAndProduct(ctx context.Context, imageID, productID uint64) (int64, error) {
	result := i.Db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&models.ProductImage{})
	return result.RowsAffected, result.Error
}
