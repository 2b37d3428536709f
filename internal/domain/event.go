package domain

import "time"

const EventTypeOptimizationCompleted = "optimization_completed"

// OptimizationEvent is broadcast to websocket subscribers after every
// successful optimization.
type OptimizationEvent struct {
	Type               string             `json:"type"`
	Timestamp          time.Time          `json:"timestamp"`
	Strategy           AllocationStrategy `json:"strategy"`
	SelectedAssets     []string           `json:"selected_assets"`
	TotalInvested      float64            `json:"total_invested"`
	SharpeRatio        float64            `json:"sharpe_ratio"`
	OptimizationTimeMs int64              `json:"optimization_time_ms"`
}
