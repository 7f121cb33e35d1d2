package repository

import (
	"context"

	"productattrs/internal/model"

	"gorm.io/gorm"
)

type StockRepository interface {
	Exists(ctx context.Context, stockID string) (bool, error)
	FindByID(ctx context.Context, stockID string) (*model.StockItem, error)
	Create(ctx context.Context, item *model.StockItem) error
	SetParent(ctx context.Context, stockID string, parentStockID *string) error
	DetachChildren(ctx context.Context, parentStockID string) error
	List(ctx context.Context, page, limit int, search string) ([]model.StockItem, int64, error)
	ListStockIDs(ctx context.Context) ([]string, error)
	ListVariations(ctx context.Context, parentStockID string, assignedChildIDs []string) ([]model.StockItem, error)

	ListPrices(ctx context.Context, stockID string) ([]model.Price, error)
	CopyPrices(ctx context.Context, fromStockID, toStockID string) (int, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Exists(ctx context.Context, stockID string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.StockItem{}).Where("stock_id = ?", stockID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *stockRepository) FindByID(ctx context.Context, stockID string) (*model.StockItem, error) {
	var item model.StockItem
	if err := GetDB(ctx, r.db).First(&item, "stock_id = ?", stockID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *stockRepository) Create(ctx context.Context, item *model.StockItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *stockRepository) SetParent(ctx context.Context, stockID string, parentStockID *string) error {
	return GetDB(ctx, r.db).Model(&model.StockItem{}).Where("stock_id = ?", stockID).
		Update("parent_stock_id", parentStockID).Error
}

func (r *stockRepository) DetachChildren(ctx context.Context, parentStockID string) error {
	return GetDB(ctx, r.db).Model(&model.StockItem{}).Where("parent_stock_id = ?", parentStockID).
		Update("parent_stock_id", nil).Error
}

func (r *stockRepository) List(ctx context.Context, page, limit int, search string) ([]model.StockItem, int64, error) {
	var items []model.StockItem
	var total int64

	db := GetDB(ctx, r.db).Model(&model.StockItem{})
	if search != "" {
		like := "%" + search + "%"
		db = db.Where("stock_id LIKE ? OR description LIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("stock_id").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *stockRepository) ListStockIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := GetDB(ctx, r.db).Model(&model.StockItem{}).Order("stock_id").Pluck("stock_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListVariations returns the children of a parent, whether linked on the stock row or only
// through assignment rows.
func (r *stockRepository) ListVariations(ctx context.Context, parentStockID string, assignedChildIDs []string) ([]model.StockItem, error) {
	var items []model.StockItem
	db := GetDB(ctx, r.db).Where("parent_stock_id = ?", parentStockID)
	if len(assignedChildIDs) > 0 {
		db = db.Or("stock_id IN ?", assignedChildIDs)
	}
	if err := db.Order("stock_id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *stockRepository) ListPrices(ctx context.Context, stockID string) ([]model.Price, error) {
	var prices []model.Price
	if err := GetDB(ctx, r.db).Where("stock_id = ?", stockID).Order("sales_type_id, curr_abrev").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// CopyPrices duplicates every price-list entry of one item onto another.
func (r *stockRepository) CopyPrices(ctx context.Context, fromStockID, toStockID string) (int, error) {
	prices, err := r.ListPrices(ctx, fromStockID)
	if err != nil {
		return 0, err
	}
	if len(prices) == 0 {
		return 0, nil
	}

	copies := make([]model.Price, len(prices))
	for i, p := range prices {
		copies[i] = model.Price{
			StockID:     toStockID,
			SalesTypeID: p.SalesTypeID,
			CurrAbrev:   p.CurrAbrev,
			Price:       p.Price,
		}
	}
	if err := GetDB(ctx, r.db).Create(&copies).Error; err != nil {
		return 0, err
	}
	return len(copies), nil
}
