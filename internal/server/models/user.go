package models

import "time"

// DefaultWaterGoalMl is used until the user sets their own goal.
const DefaultWaterGoalMl int64 = 2000

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile carries the attributes the coaching features tailor advice to.
type Profile struct {
	HeightCm    float64
	WeightKg    float64
	Age         int
	Gender      string
	Goal        string
	DietType    string
	WaterGoalMl int64
}
