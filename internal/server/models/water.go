package models

import "time"

// WaterEvent is a single logged intake.
type WaterEvent struct {
	Timestamp time.Time `json:"timestamp"`
	AmountMl  int64     `json:"amount_ml"`
}

// WaterRecord aggregates one user's intake for one calendar day.
type WaterRecord struct {
	ID        string
	UserID    string
	Date      string
	TotalMl   int64
	Events    []WaterEvent
	UpdatedAt time.Time
}
