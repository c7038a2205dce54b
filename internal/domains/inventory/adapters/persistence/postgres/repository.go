package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog entries and stock levels in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{}, &stockRecord{})
	}
	return repo
}

type productRecord struct {
	ID        int64           `gorm:"primaryKey;column:id;autoIncrement:false"`
	Title     string          `gorm:"column:title"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Image     string          `gorm:"column:image"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type stockRecord struct {
	ProductID int64     `gorm:"primaryKey;column:product_id;autoIncrement:false"`
	Amount    int       `gorm:"column:amount"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stock" }

// SaveProduct inserts or updates a catalog entry.
func (r *Repository) SaveProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"title":      record.Title,
				"price":      record.Price,
				"image":      record.Image,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, record.ID)
}

// GetProduct fetches a catalog entry by identifier.
func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListProducts returns the whole catalog.
func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// SaveStock inserts or replaces a stock level.
func (r *Repository) SaveStock(ctx context.Context, stock *domain.Stock) (*domain.Stock, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, errors.New("stock is nil")
	}
	record := stockRecord{ProductID: stock.ID, Amount: stock.Amount}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"amount":     record.Amount,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetStock(ctx, record.ProductID)
}

// GetStock fetches the stock level of a product.
func (r *Repository) GetStock(ctx context.Context, id int64) (*domain.Stock, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record stockRecord
	if err := r.db.WithContext(ctx).First(&record, "product_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return &domain.Stock{ID: record.ProductID, Amount: record.Amount}, nil
}

// ListStock returns every stock level.
func (r *Repository) ListStock(ctx context.Context) ([]*domain.Stock, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []stockRecord
	if err := r.db.WithContext(ctx).Order("product_id").Find(&records).Error; err != nil {
		return nil, err
	}
	levels := make([]*domain.Stock, 0, len(records))
	for _, rec := range records {
		levels = append(levels, &domain.Stock{ID: rec.ProductID, Amount: rec.Amount})
	}
	return levels, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres inventory repository not configured")
	}
	return nil
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:    product.ID,
		Title: product.Title,
		Price: product.Price,
		Image: product.Image,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:    r.ID,
		Title: r.Title,
		Price: r.Price,
		Image: r.Image,
	}
}
