package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the cart_snapshots row.
type Record struct {
	DeviceID  string    `gorm:"column:device_id;primaryKey"`
	SlotKey   string    `gorm:"column:slot_key;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Record) TableName() string { return "cart_snapshots" }

// SQLStorage keeps snapshots in the cart_snapshots table.
type SQLStorage struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLStorage(db *gorm.DB) (*SQLStorage, error) {
	if db == nil {
		return nil, errors.New("db required")
	}
	return &SQLStorage{db: db, now: time.Now}, nil
}

func (s *SQLStorage) Load(ctx context.Context, deviceID, key string) ([]byte, error) {
	var rec Record
	err := s.db.WithContext(ctx).
		Where("device_id = ? AND slot_key = ?", deviceID, key).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return []byte(rec.Payload), nil
}

func (s *SQLStorage) Save(ctx context.Context, deviceID, key string, payload []byte) error {
	rec := Record{
		DeviceID:  deviceID,
		SlotKey:   key,
		Payload:   string(payload),
		UpdatedAt: s.now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// DeleteOlderThan removes snapshots not written since cutoff.
func (s *SQLStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("updated_at < ?", cutoff.UTC()).
		Delete(&Record{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete stale snapshots: %w", res.Error)
	}
	return res.RowsAffected, nil
}
