package services

import (
	"math"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
	"github.com/google/uuid"
)

func validateDate(date string) error {
	if _, err := timex.ParseDate(date); err != nil {
		return common.Validationf("%v", err)
	}
	return nil
}

func validateTotals(t models.Totals) error {
	if t.Negative() || math.IsNaN(t.Calories) || math.IsNaN(t.Protein) ||
		math.IsInf(t.Calories, 0) || math.IsInf(t.Protein, 0) {
		return common.Validationf("totals must be finite and non-negative, got %+v", t)
	}
	return nil
}

// checkID reports a malformed id as not found.
func checkID(id string) error {
	if uuid.Validate(id) != nil {
		return common.ErrorNotFound
	}
	return nil
}
