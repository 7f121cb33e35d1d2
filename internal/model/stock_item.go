package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Manufacture/buy flags as used by the host ERP.
const (
	MBFlagBought      = "B"
	MBFlagManufacture = "M"
	MBFlagService     = "D"
)

// StockItem mirrors the host's stock master row.
type StockItem struct {
	StockID           string          `gorm:"type:varchar(64);primaryKey" json:"stock_id"`
	CategoryID        int             `gorm:"not null;default:0" json:"category_id"`
	TaxTypeID         int             `gorm:"not null;default:0" json:"tax_type_id"`
	Description       string          `gorm:"type:varchar(200);not null" json:"description"`
	LongDescription   string          `gorm:"type:text" json:"long_description"`
	Units             string          `gorm:"type:varchar(20);not null;default:'each'" json:"units"`
	MBFlag            string          `gorm:"type:varchar(1);not null;default:'B'" json:"mb_flag"`
	SalesAccount      string          `gorm:"type:varchar(15)" json:"sales_account"`
	COGSAccount       string          `gorm:"column:cogs_account;type:varchar(15)" json:"cogs_account"`
	InventoryAccount  string          `gorm:"type:varchar(15)" json:"inventory_account"`
	AdjustmentAccount string          `gorm:"type:varchar(15)" json:"adjustment_account"`
	WIPAccount        string          `gorm:"column:wip_account;type:varchar(15)" json:"wip_account"`
	DimensionID       int             `gorm:"not null;default:0" json:"dimension_id"`
	Dimension2ID      int             `gorm:"column:dimension2_id;not null;default:0" json:"dimension2_id"`
	SalesTaxIncluded  bool            `gorm:"not null;default:false" json:"sales_tax_included"`
	BaseSalesPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"base_sales_price"`
	MaterialCost      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"material_cost"`
	LabourCost        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"labour_cost"`
	OverheadCost      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"overhead_cost"`
	LastCost          decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"last_cost"`
	ActualCost        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"actual_cost"`
	Inactive          bool            `gorm:"not null;default:false" json:"inactive"`
	NoSale            bool            `gorm:"not null;default:false" json:"no_sale"`
	Editable          bool            `gorm:"not null;default:false" json:"editable"`
	ParentStockID     *string         `gorm:"type:varchar(64);index" json:"parent_stock_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (StockItem) TableName() string { return "stock_master" }

// CloneAs copies every cost, account, unit and tax field onto a new stock id.
// The clone is active and has no parent set.
func (s StockItem) CloneAs(stockID string) StockItem {
	c := s
	c.StockID = stockID
	c.Inactive = false
	c.ParentStockID = nil
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return c
}

// Price is one price-list entry of a stock item.
type Price struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	StockID     string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_price_list_entry" json:"stock_id"`
	SalesTypeID int             `gorm:"not null;uniqueIndex:idx_price_list_entry" json:"sales_type_id"`
	CurrAbrev   string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_price_list_entry" json:"curr_abrev"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"price"`
}

func (Price) TableName() string { return "prices" }
