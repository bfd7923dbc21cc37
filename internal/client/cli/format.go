package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/nutriledger/internal/rpc"
)

func mealSource(m *rpc.ScheduledMeal) string {
	switch {
	case m.RecipeID != "":
		return "recipe " + m.RecipeID
	case m.CustomRecipeID != "":
		return "custom " + m.CustomRecipeID
	case m.MealPlanID != "":
		return "plan " + m.MealPlanID
	default:
		return "-"
	}
}

func printDay(w io.Writer, d *rpc.DayResponse) {
	fmt.Fprintf(w, "%s  eaten %.0f of %.0f kcal, %.0f of %.0f g protein\n",
		d.Date, d.Consumed.Calories, d.Target.Calories, d.Consumed.Protein, d.Target.Protein)

	if len(d.Meals) == 0 {
		fmt.Fprintln(w, "  nothing scheduled")
		return
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  SLOT\tID\tSOURCE\tKCAL\tPROTEIN\tCONSUMED\t")
	for _, m := range d.Meals {
		done := ""
		if m.IsCompleted {
			done = " (done)"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%.0f/%.0f\t%.0f/%.0f\t%s%s\t\n",
			m.Slot, m.ID, mealSource(m),
			m.CaloriesConsumed, m.Target.Calories,
			m.ProteinConsumed, m.Target.Protein,
			strings.Join(m.MealsConsumed, ","), done)
	}
	_ = tw.Flush()
}

func printConsumption(w io.Writer, st *rpc.ConsumptionState) {
	keys := "none"
	if len(st.MealsConsumed) > 0 {
		keys = strings.Join(st.MealsConsumed, ", ")
	}
	fmt.Fprintf(w, "Consumed: %s\nTotals: %.0f kcal, %.0f g protein\n", keys, st.CaloriesConsumed, st.ProteinConsumed)
	if st.IsCompleted {
		fmt.Fprintln(w, "Meal completed")
	}
}

func printWater(w io.Writer, ws *rpc.WaterSummary) {
	fmt.Fprintf(w, "Water %s: %d of %d ml (%d%%), %d ml to go\n",
		ws.Date, ws.TotalConsumedMl, ws.GoalMl, ws.PercentOfGoal, ws.RemainingMl)
	for _, e := range ws.Events {
		fmt.Fprintf(w, "  %s  +%d ml\n", e.Timestamp.Local().Format("15:04"), e.AmountMl)
	}
}

func printPlans(w io.Writer, plans []*rpc.MealPlan) {
	if len(plans) == 0 {
		fmt.Fprintln(w, "No meal plans")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tDATE\tKCAL\tPROTEIN\t")
	for _, p := range plans {
		mark := ""
		if p.IsActive {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f\t%.0f\t\n", mark, p.ID, p.Name, p.Date, p.Totals.Calories, p.Totals.Protein)
	}
	_ = tw.Flush()
}

func printRecipes(w io.Writer, recipes []*rpc.CustomRecipe) {
	if len(recipes) == 0 {
		fmt.Fprintln(w, "No custom recipes")
		return
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKCAL\tPROTEIN\tIMAGE\t")
	for _, r := range recipes {
		img := "no"
		if r.HasImage {
			img = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%s\t\n", r.ID, r.Name, r.Calories, r.Protein, img)
	}
	_ = tw.Flush()
}

func printProfile(w io.Writer, p *rpc.Profile) {
	fmt.Fprintf(w, "Email:      %s\n", p.Email)
	fmt.Fprintf(w, "Height:     %.0f cm\n", p.HeightCm)
	fmt.Fprintf(w, "Weight:     %.1f kg\n", p.WeightKg)
	fmt.Fprintf(w, "Age:        %d\n", p.Age)
	fmt.Fprintf(w, "Gender:     %s\n", p.Gender)
	fmt.Fprintf(w, "Goal:       %s\n", p.Goal)
	fmt.Fprintf(w, "Diet:       %s\n", p.DietType)
	fmt.Fprintf(w, "Water goal: %d ml\n", p.WaterGoalMl)
}
