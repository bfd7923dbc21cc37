package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/server/models"
	"github.com/dmitrijs2005/nutriledger/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/nutriledger/internal/textgen"
	"github.com/dmitrijs2005/nutriledger/internal/timex"
)

const insightSystemPrompt = "You are a supportive nutrition coach. Reply in at most three short sentences. " +
	"Mention one concrete thing that went well and one to improve."

// InsightService turns a day's ledger into a short coaching note.
type InsightService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	water       *WaterService
	clock       timex.Clock
	generator   textgen.Generator
}

// NewInsightService wires the service; gen may be nil, which disables it.
func NewInsightService(db *sql.DB, m repomanager.RepositoryManager, water *WaterService, gen textgen.Generator) *InsightService {
	return &InsightService{db: db, repomanager: m, water: water, clock: timex.SystemClock{}, generator: gen}
}

// DailyInsight summarizes date (today when empty) for the user and asks the
// generator for feedback.
func (s *InsightService) DailyInsight(ctx context.Context, userID, date string) (string, error) {
	if s.generator == nil {
		return "", common.ErrFeatureDisabled
	}
	if date == "" {
		date = timex.Today(s.clock)
	}
	if err := validateDate(date); err != nil {
		return "", err
	}

	meals, err := s.repomanager.ScheduledMeals(s.db).ListByDate(ctx, userID, date)
	if err != nil {
		return "", fmt.Errorf("error listing meals: %w", err)
	}
	water, err := s.water.GetDay(ctx, userID, date)
	if err != nil {
		return "", err
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("error getting user: %w", err)
	}

	return s.generator.Generate(ctx, insightSystemPrompt, buildInsightPrompt(date, user.Profile, meals, water))
}

func buildInsightPrompt(date string, p models.Profile, meals []*models.ScheduledMeal, water *WaterSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", date)
	if p.Goal != "" || p.DietType != "" {
		fmt.Fprintf(&b, "Goal: %s; diet: %s\n", p.Goal, p.DietType)
	}

	if len(meals) == 0 {
		b.WriteString("No meals were scheduled.\n")
	}
	for _, m := range meals {
		fmt.Fprintf(&b, "- %s: target %.0f kcal / %.0f g protein, eaten %.0f kcal / %.0f g protein",
			m.Slot, m.Target.Calories, m.Target.Protein, m.CaloriesConsumed, m.ProteinConsumed)
		if keys := m.ConsumedKeys(); len(keys) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(keys, ", "))
		}
		b.WriteString("\n")
	}

	day := SummarizeDay(meals)
	fmt.Fprintf(&b, "Day total: %.0f of %.0f kcal, %.0f of %.0f g protein\n",
		day.Consumed.Calories, day.Target.Calories, day.Consumed.Protein, day.Target.Protein)
	fmt.Fprintf(&b, "Water: %d of %d ml (%d%%)\n", water.TotalConsumedMl, water.GoalMl, water.PercentOfGoal)
	return b.String()
}
