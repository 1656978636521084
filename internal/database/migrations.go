package database

import "dealwise/server/internal/models"

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.Deal{}, &models.AnalysisSnapshot{}); err != nil {
		return err
	}

	// Composite index for snapshot lookups by deal and strategy
	return d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_snapshots_deal_strategy
		ON analysis_snapshots(deal_id, strategy);
	`).Error
}
