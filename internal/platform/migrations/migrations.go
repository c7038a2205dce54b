package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&cartSlotRecord{},
		&productRecord{},
		&stockRecord{},
	)
}

// Cart slot schema mirrors the cart Postgres slot.
type cartSlotRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:128"`
	Payload   string    `gorm:"column:payload;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartSlotRecord) TableName() string { return "cart_slots" }

// Product schema mirrors the inventory Postgres adapter.
type productRecord struct {
	ID        int64           `gorm:"primaryKey;column:id;autoIncrement:false"`
	Title     string          `gorm:"column:title"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Image     string          `gorm:"column:image"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Stock schema mirrors the inventory Postgres adapter.
type stockRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id;autoIncrement:false"`
	Amount    int       `gorm:"column:amount"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock" }
