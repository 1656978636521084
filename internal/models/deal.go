package models

import "time"

// Deal is one property together with the per-strategy assumptions under
// which it is analyzed. The analysis engines treat a deal as an immutable
// input; only the store mutates persisted deals.
type Deal struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Property   Property    `gorm:"serializer:json" json:"property"`
	Strategies StrategyMap `gorm:"serializer:json" json:"strategies"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// AnalysisSnapshot is a persisted copy of one strategy's results for a deal,
// written by the batch processor so the client can read the last computed
// figures without re-running the engines.
type AnalysisSnapshot struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	DealID    uint            `gorm:"index" json:"deal_id"`
	Strategy  StrategyType    `gorm:"index" json:"strategy"`
	Results   AnalysisResults `gorm:"serializer:json" json:"results"`
	CreatedAt time.Time       `json:"created_at"`
}
