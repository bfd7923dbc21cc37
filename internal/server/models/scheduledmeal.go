package models

import (
	"encoding/json"
	"sort"
	"time"
)

// MealSlot is the part of the day a ScheduledMeal occupies.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnacks    MealSlot = "snacks"
	// SlotMealPlan stands for a whole day taken from a meal plan.
	SlotMealPlan MealSlot = "meal_plan"
)

// Slots lists the slots in display order.
var Slots = []MealSlot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnacks, SlotMealPlan}

// Valid reports whether s is one of the known slots.
func (s MealSlot) Valid() bool {
	for _, v := range Slots {
		if s == v {
			return true
		}
	}
	return false
}

// ConsumedItem remembers what was added to the running totals when a
// sub-meal was marked eaten, so unmarking it subtracts the same amounts.
type ConsumedItem struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

// ScheduledMeal assigns one content source to a (user, date, slot) triple.
// Exactly one of RecipeID, CustomRecipeID, MealPlanID/MealPlanData is set.
type ScheduledMeal struct {
	ID             string
	UserID         string
	Date           string
	Slot           MealSlot
	RecipeID       string
	CustomRecipeID string
	MealPlanID     string
	MealPlanData   json.RawMessage
	Target         Totals

	MealsConsumed    map[string]ConsumedItem
	CaloriesConsumed float64
	ProteinConsumed  float64
	IsCompleted      bool

	// Version is bumped by every write and guards consumption updates.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConsumedKeys returns the consumed sub-meal keys in sorted order.
func (m *ScheduledMeal) ConsumedKeys() []string {
	keys := make([]string, 0, len(m.MealsConsumed))
	for k := range m.MealsConsumed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarkConsumed adds key to the consumed set. It returns false, leaving the
// record untouched, when the key is already there.
func (m *ScheduledMeal) MarkConsumed(key string, amount ConsumedItem) bool {
	if _, ok := m.MealsConsumed[key]; ok {
		return false
	}
	if m.MealsConsumed == nil {
		m.MealsConsumed = make(map[string]ConsumedItem)
	}
	m.MealsConsumed[key] = amount
	m.recount()
	return true
}

// MarkUnconsumed removes key from the consumed set. It returns false when
// the key was not consumed.
func (m *ScheduledMeal) MarkUnconsumed(key string) bool {
	if _, ok := m.MealsConsumed[key]; !ok {
		return false
	}
	delete(m.MealsConsumed, key)
	m.recount()
	return true
}

// recount derives the running totals from the consumed set. Summing in key
// order keeps the float result identical for identical sets.
func (m *ScheduledMeal) recount() {
	var cal, prot float64
	for _, k := range m.ConsumedKeys() {
		cal += m.MealsConsumed[k].Calories
		prot += m.MealsConsumed[k].Protein
	}
	m.CaloriesConsumed = max(0, cal)
	m.ProteinConsumed = max(0, prot)
	m.IsCompleted = len(m.MealsConsumed) > 0 && m.Target.Calories > 0 && m.CaloriesConsumed >= m.Target.Calories
}
