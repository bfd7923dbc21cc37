package models

import (
	"encoding/json"
	"time"
)

// MealPlan is a named bundle of plan content. At most one per user is active.
type MealPlan struct {
	ID        string
	UserID    string
	Name      string
	Date      string
	PlanData  json.RawMessage
	Totals    Totals
	IsActive  bool
	CreatedAt time.Time
}
