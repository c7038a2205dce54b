package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

var _ ports.Slot = (*Slot)(nil)

// Slot persists the cart snapshot as a single keyed row in PostgreSQL using GORM.
type Slot struct {
	db  *gorm.DB
	key string
}

// NewSlot wires a PostgreSQL-backed slot under key. Caller manages DB lifecycle.
func NewSlot(db *gorm.DB, key string) *Slot {
	if strings.TrimSpace(key) == "" {
		key = ports.DefaultSlotKey
	}
	slot := &Slot{db: db, key: key}
	if db != nil {
		_ = db.AutoMigrate(&slotRecord{})
	}
	return slot
}

// slotRecord holds the payload verbatim; text keeps the bytes as written.
type slotRecord struct {
	Key       string    `gorm:"primaryKey;column:key;size:128"`
	Payload   string    `gorm:"column:payload;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (slotRecord) TableName() string { return "cart_slots" }

// Load returns the stored payload or ports.ErrSlotEmpty.
func (s *Slot) Load(ctx context.Context) ([]byte, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record slotRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", s.key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSlotEmpty
		}
		return nil, err
	}
	return []byte(record.Payload), nil
}

// Store upserts the payload under the slot key.
func (s *Slot) Store(ctx context.Context, payload []byte) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := slotRecord{Key: s.key, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{
				"payload":    record.Payload,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
}

func (s *Slot) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres cart slot not configured")
	}
	return nil
}
