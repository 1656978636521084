// Package database persists deals and their analysis snapshots in SQLite.
package database

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"dealwise/server/internal/models"
)

var ErrDealNotFound = errors.New("deal not found")

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// GetDB exposes the underlying handle for the batch processor's
// transactions.
func (d *Database) GetDB() *gorm.DB {
	return d.db
}

// SaveDeal inserts a deal and returns its assigned ID.
func (d *Database) SaveDeal(deal *models.Deal) (uint, error) {
	if err := d.db.Create(deal).Error; err != nil {
		return 0, fmt.Errorf("failed to save deal: %w", err)
	}
	return deal.ID, nil
}

// GetDeal loads one deal by ID.
func (d *Database) GetDeal(id uint) (*models.Deal, error) {
	var deal models.Deal
	err := d.db.First(&deal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDealNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load deal %d: %w", id, err)
	}
	return &deal, nil
}

// UpdateDeal applies a partial update: a non-zero Property replaces the
// stored one, and any strategies present in the partial replace their
// stored counterparts without touching the others.
func (d *Database) UpdateDeal(id uint, partial *models.Deal) (*models.Deal, error) {
	deal, err := d.GetDeal(id)
	if err != nil {
		return nil, err
	}

	if partial.Property.Address != (models.Address{}) || partial.Property.AskingPrice > 0 {
		deal.Property = partial.Property
	}
	if len(partial.Strategies) > 0 {
		if deal.Strategies == nil {
			deal.Strategies = make(models.StrategyMap, len(partial.Strategies))
		}
		for strategy, assumptions := range partial.Strategies {
			deal.Strategies[strategy] = assumptions
		}
	}

	if err := d.db.Save(deal).Error; err != nil {
		return nil, fmt.Errorf("failed to update deal %d: %w", id, err)
	}
	return deal, nil
}

// ListDeals returns all stored deals, most recently updated first.
func (d *Database) ListDeals() ([]models.Deal, error) {
	var deals []models.Deal
	if err := d.db.Order("updated_at DESC").Find(&deals).Error; err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	return deals, nil
}

// DeleteDeal removes a deal and its snapshots.
func (d *Database) DeleteDeal(id uint) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deal_id = ?", id).Delete(&models.AnalysisSnapshot{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Deal{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDealNotFound
		}
		return nil
	})
}

// SaveSnapshots replaces a deal's analysis snapshots inside one transaction.
func SaveSnapshots(tx *gorm.DB, dealID uint, results map[models.StrategyType]models.AnalysisResults) error {
	if err := tx.Where("deal_id = ?", dealID).Delete(&models.AnalysisSnapshot{}).Error; err != nil {
		return fmt.Errorf("failed to clear snapshots for deal %d: %w", dealID, err)
	}

	for strategy, result := range results {
		snapshot := models.AnalysisSnapshot{
			DealID:   dealID,
			Strategy: strategy,
			Results:  result,
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return fmt.Errorf("failed to save %s snapshot for deal %d: %w", strategy, dealID, err)
		}
	}
	return nil
}

// GetSnapshots returns the last computed results per strategy for a deal.
func (d *Database) GetSnapshots(dealID uint) ([]models.AnalysisSnapshot, error) {
	var snapshots []models.AnalysisSnapshot
	if err := d.db.Where("deal_id = ?", dealID).Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to load snapshots for deal %d: %w", dealID, err)
	}
	return snapshots, nil
}
