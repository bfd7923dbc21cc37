package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/nutriledger/internal/client/client"
	"github.com/dmitrijs2005/nutriledger/internal/client/services"
	"github.com/dmitrijs2005/nutriledger/internal/common"
	"github.com/dmitrijs2005/nutriledger/internal/filex"
	"github.com/dmitrijs2005/nutriledger/internal/netx"
	"github.com/dmitrijs2005/nutriledger/internal/rpc"
)

// maxImageBytes caps recipe photo uploads.
const maxImageBytes = 5 << 20

// Input seams, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

var errUsage = errors.New("usage")

type command struct {
	usage string
	auth  bool
	run   func(a *App, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":          {usage: "help", run: (*App).cmdHelp},
		"register":      {usage: "register", run: (*App).cmdRegister},
		"login":         {usage: "login", run: (*App).cmdLogin},
		"logout":        {usage: "logout", run: (*App).cmdLogout},
		"profile":       {usage: "profile [field=value ...]", auth: true, run: (*App).cmdProfile},
		"water":         {usage: "water add <ml> [date] | water show [date]", auth: true, run: (*App).cmdWater},
		"schedule":      {usage: "schedule <date> <slot> <recipe|custom> <id> <kcal> <protein>", auth: true, run: (*App).cmdSchedule},
		"unschedule":    {usage: "unschedule <meal-id>", auth: true, run: (*App).cmdUnschedule},
		"plan-create":   {usage: "plan-create <name> <date> <kcal> <protein> [plan.json]", auth: true, run: (*App).cmdPlanCreate},
		"plans":         {usage: "plans", auth: true, run: (*App).cmdPlans},
		"plan-schedule": {usage: "plan-schedule <plan-id> <date>", auth: true, run: (*App).cmdPlanSchedule},
		"day":           {usage: "day [date]", auth: true, run: (*App).cmdDay},
		"consume":       {usage: "consume <meal-id> <key> <kcal> <protein>", auth: true, run: (*App).cmdConsume},
		"unconsume":     {usage: "unconsume <meal-id> <key>", auth: true, run: (*App).cmdUnconsume},
		"insight":       {usage: "insight [date]", auth: true, run: (*App).cmdInsight},
		"recipes":       {usage: "recipes", auth: true, run: (*App).cmdRecipes},
		"recipe-image":  {usage: "recipe-image <custom-recipe-id> <file>", auth: true, run: (*App).cmdRecipeImage},
	}
}

// Exec runs one command line already split into words.
func (a *App) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", args[0])
	}
	if cmd.auth && !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	err := cmd.run(a, ctx, args[1:])
	if errors.Is(err, errUsage) {
		return fmt.Errorf("%w: %s", errUsage, cmd.usage)
	}
	return err
}

// Describe turns err into the line shown to the user.
func Describe(err error) string {
	if services.IsAuthError(err) {
		return "not logged in or session expired; run login"
	}
	return err.Error()
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, common.Validationf("%s must be a number, got %q", name, s)
	}
	return v, nil
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func (a *App) cmdHelp(_ context.Context, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := commands[name]
		if c.auth && !a.isLoggedIn() {
			continue
		}
		fmt.Fprintln(a.out, "  "+c.usage)
	}
	fmt.Fprintln(a.out, "  exit")
	return nil
}

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) cmdRegister(ctx context.Context, _ []string) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.auth.Register(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Registered. Run login to start a session.")
	return nil
}

func (a *App) cmdLogin(ctx context.Context, _ []string) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.auth.Login(ctx, email, password); err != nil {
		return err
	}
	a.email = email
	fmt.Fprintf(a.out, "Logged in as %s\n", email)
	return nil
}

func (a *App) cmdLogout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func applyProfileField(p *rpc.Profile, field, value string) error {
	var err error
	switch field {
	case "height_cm":
		p.HeightCm, err = parseFloat(field, value)
	case "weight_kg":
		p.WeightKg, err = parseFloat(field, value)
	case "age":
		p.Age, err = strconv.Atoi(value)
	case "water_goal_ml":
		p.WaterGoalMl, err = strconv.ParseInt(value, 10, 64)
	case "gender":
		p.Gender = value
	case "goal":
		p.Goal = value
	case "diet", "diet_type":
		p.DietType = value
	default:
		return common.Validationf("unknown profile field %q", field)
	}
	if err != nil {
		return common.Validationf("%s: bad value %q", field, value)
	}
	return nil
}

func (a *App) cmdProfile(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.ledger.GetProfile(ctx)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		for _, kv := range args {
			field, value, ok := strings.Cut(kv, "=")
			if !ok {
				return errUsage
			}
			if err := applyProfileField(p, field, value); err != nil {
				return err
			}
		}
		if p, err = a.ledger.UpdateProfile(ctx, p); err != nil {
			return err
		}
	}

	printProfile(a.out, p)
	return nil
}

func (a *App) cmdWater(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	sub := optionalArg(args, 0)
	switch sub {
	case "add":
		if len(args) < 2 {
			return errUsage
		}
		amount, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return common.Validationf("amount_ml must be an integer, got %q", args[1])
		}
		ws, err := a.ledger.AddWater(ctx, optionalArg(args, 2), amount)
		if err != nil {
			return err
		}
		printWater(a.out, ws)
		return nil
	case "", "show":
		ws, err := a.ledger.GetWater(ctx, optionalArg(args, 1))
		if err != nil {
			return err
		}
		printWater(a.out, ws)
		return nil
	default:
		return errUsage
	}
}

func (a *App) cmdSchedule(ctx context.Context, args []string) error {
	if len(args) != 6 {
		return errUsage
	}
	kcal, err := parseFloat("calories", args[4])
	if err != nil {
		return err
	}
	protein, err := parseFloat("protein", args[5])
	if err != nil {
		return err
	}

	req := &rpc.ScheduleMealRequest{
		Date:   args[0],
		Slot:   args[1],
		Totals: rpc.Totals{Calories: kcal, Protein: protein},
	}
	switch args[2] {
	case "recipe":
		req.RecipeID = args[3]
	case "custom":
		req.CustomRecipeID = args[3]
	default:
		return errUsage
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.ledger.ScheduleMeal(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Scheduled %s for %s: %s\n", req.Slot, req.Date, id)
	return nil
}

func (a *App) cmdUnschedule(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.ledger.Unschedule(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Removed")
	return nil
}

func (a *App) readPlanData(args []string) (json.RawMessage, error) {
	var data []byte
	if path := optionalArg(args, 0); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	} else {
		s, err := getMultiline(a.reader, "Paste the plan JSON", a.out)
		if err != nil {
			return nil, err
		}
		data = []byte(s)
	}

	if !json.Valid(data) {
		return nil, common.Validationf("plan data is not valid JSON")
	}
	return json.RawMessage(data), nil
}

func (a *App) cmdPlanCreate(ctx context.Context, args []string) error {
	if len(args) < 4 || len(args) > 5 {
		return errUsage
	}
	kcal, err := parseFloat("calories", args[2])
	if err != nil {
		return err
	}
	protein, err := parseFloat("protein", args[3])
	if err != nil {
		return err
	}
	data, err := a.readPlanData(args[4:])
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.ledger.CreateMealPlan(ctx, &rpc.CreateMealPlanRequest{
		Name:     args[0],
		Date:     args[1],
		PlanData: data,
		Totals:   rpc.Totals{Calories: kcal, Protein: protein},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created and activated plan %s\n", id)
	return nil
}

func (a *App) cmdPlans(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	plans, err := a.ledger.ListMealPlans(ctx)
	if err != nil {
		return err
	}
	printPlans(a.out, plans)
	return nil
}

func (a *App) cmdPlanSchedule(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.ledger.ScheduleMealPlan(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Plan scheduled for %s: %s\n", args[1], id)
	return nil
}

func (a *App) cmdDay(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	d, err := a.ledger.GetDay(ctx, optionalArg(args, 0))
	if err != nil {
		return err
	}
	printDay(a.out, d)
	return nil
}

func (a *App) setConsumed(ctx context.Context, req *rpc.SetConsumedRequest) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	st, err := a.ledger.SetConsumed(ctx, req)
	if err != nil {
		return err
	}
	printConsumption(a.out, st)
	return nil
}

func (a *App) cmdConsume(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return errUsage
	}
	kcal, err := parseFloat("calories", args[2])
	if err != nil {
		return err
	}
	protein, err := parseFloat("protein", args[3])
	if err != nil {
		return err
	}
	return a.setConsumed(ctx, &rpc.SetConsumedRequest{
		ScheduledMealID: args[0],
		SubMealKey:      args[1],
		Calories:        kcal,
		Protein:         protein,
		Consumed:        true,
	})
}

func (a *App) cmdUnconsume(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	return a.setConsumed(ctx, &rpc.SetConsumedRequest{
		ScheduledMealID: args[0],
		SubMealKey:      args[1],
		Consumed:        false,
	})
}

func (a *App) cmdInsight(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	text, err := a.ledger.DailyInsight(ctx, optionalArg(args, 0))
	if errors.Is(err, common.ErrFeatureDisabled) {
		return errors.New("insights are not enabled on this server")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, strings.TrimSpace(text))
	return nil
}

func (a *App) cmdRecipes(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	recipes, err := a.ledger.ListCustomRecipes(ctx, true)
	if err != nil {
		return err
	}
	printRecipes(a.out, recipes)
	return nil
}

func (a *App) cmdRecipeImage(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	data, err := filex.ReadLimited(args[1], maxImageBytes)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	key, url, err := a.ledger.CustomRecipeImageUploadURL(ctx, args[0])
	if err != nil {
		return err
	}
	if err := netx.UploadToS3PresignedURL(ctx, a.httpClient, url, netx.DetectContentType(data), data); err != nil {
		return err
	}
	a.logger.Debug(ctx, "recipe image uploaded", "recipe_id", args[0], "key", key, "bytes", len(data))
	fmt.Fprintf(a.out, "Uploaded %d bytes as %s\n", len(data), key)
	return nil
}
