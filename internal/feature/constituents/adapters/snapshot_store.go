package adapters

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"marketcolor/internal/feature/constituents/domain/entity"
	"marketcolor/internal/feature/constituents/usecase"
)

// SnapshotStore persists the latest constituent list in the database so that it survives restarts.
type SnapshotStore struct {
	db *gorm.DB
}

var _ usecase.Cache = (*SnapshotStore)(nil)

// NewSnapshotStore creates a SnapshotStore.
func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// ConstituentModel is one row of the stored list.
type ConstituentModel struct {
	Symbol    string    `gorm:"primaryKey;size:16"`
	Name      string    `gorm:"size:255;not null"`
	Sector    string    `gorm:"size:64;not null;index"`
	Position  int       `gorm:"not null"`
	FetchedAt time.Time `gorm:"not null"`
}

func (ConstituentModel) TableName() string {
	return "constituents"
}

// Get loads the stored list in its original order.
func (s *SnapshotStore) Get(ctx context.Context) (entity.Snapshot, bool, error) {
	var rows []ConstituentModel
	if err := s.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return entity.Snapshot{}, false, fmt.Errorf("load constituents: %w", err)
	}
	if len(rows) == 0 {
		return entity.Snapshot{}, false, nil
	}

	snap := entity.Snapshot{
		Constituents: make([]entity.Constituent, 0, len(rows)),
		FetchedAt:    rows[0].FetchedAt,
	}
	for _, m := range rows {
		snap.Constituents = append(snap.Constituents, entity.Constituent{Symbol: m.Symbol, Name: m.Name, Sector: m.Sector})
		if m.FetchedAt.Before(snap.FetchedAt) {
			snap.FetchedAt = m.FetchedAt
		}
	}
	return snap, true, nil
}

// Set replaces the stored list in one transaction.
func (s *SnapshotStore) Set(ctx context.Context, snap entity.Snapshot) error {
	if len(snap.Constituents) == 0 {
		return nil
	}
	ms := make([]ConstituentModel, 0, len(snap.Constituents))
	for i, c := range snap.Constituents {
		ms = append(ms, ConstituentModel{
			Symbol:    c.Symbol,
			Name:      c.Name,
			Sector:    c.Sector,
			Position:  i,
			FetchedAt: snap.FetchedAt.UTC(),
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&ConstituentModel{}).Error; err != nil {
			return fmt.Errorf("clear constituents: %w", err)
		}
		if err := tx.CreateInBatches(&ms, 100).Error; err != nil {
			return fmt.Errorf("insert constituents: %w", err)
		}
		return nil
	})
}
