package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/client/models"
)

// goalSlots matches the server's fixed number of daily goals.
const goalSlots = 3

var stuckToPlanChoices = []string{
	"Yes, full focus",
	"Mostly, small distractions",
	"No, but I’ll bounce back",
}

func (a *App) List(ctx context.Context) error {
	list, err := a.api.ListEntries(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No entries yet. Use 'new' to write one.")
		return nil
	}
	for _, e := range list {
		a.printf("%s  %s  %s\n", e.Date, e.ID, summary(e.Top3Goals))
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := singleArg(args)
	if err != nil {
		return err
	}
	e, err := a.api.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	a.printEntry(e)
	return nil
}

func (a *App) New(ctx context.Context) error {
	in := &models.EntryInput{Date: time.Now().Format(time.DateOnly)}
	if err := a.promptEntry(in); err != nil {
		return err
	}
	e, err := a.api.CreateEntry(ctx, in)
	if err != nil {
		return err
	}
	a.println("Saved entry", e.ID)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := singleArg(args)
	if err != nil {
		return err
	}
	e, err := a.api.GetEntry(ctx, id)
	if err != nil {
		return err
	}

	in := e.Input()
	if err := a.promptEntry(in); err != nil {
		return err
	}
	if _, err := a.api.UpdateEntry(ctx, id, in); err != nil {
		return err
	}
	a.println("Updated entry", id)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := singleArg(args)
	if err != nil {
		return err
	}
	if err := a.api.DeleteEntry(ctx, id); err != nil {
		return err
	}
	a.println("Deleted entry", id)
	return nil
}

// promptEntry walks through every field of in, offering its current value.
func (a *App) promptEntry(in *models.EntryInput) error {
	ask := func(label string, dst *string) error {
		v, err := GetWithDefault(a.reader, label, *dst, a.out)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
	askList := func(label string, dst *[]string) error {
		v, err := GetWithDefault(a.reader, label+" (comma separated)", strings.Join(*dst, ", "), a.out)
		if err != nil {
			return err
		}
		*dst = SplitList(v)
		return nil
	}

	if err := ask("Date (YYYY-MM-DD)", &in.Date); err != nil {
		return err
	}

	goals := make([]string, goalSlots)
	copy(goals, in.Top3Goals)
	for i := range goals {
		if err := ask(fmt.Sprintf("Goal %d", i+1), &goals[i]); err != nil {
			return err
		}
	}
	in.Top3Goals = goals

	if acc := a.session.Snapshot().Account; acc != nil && len(acc.FocusAreas) > 0 {
		a.println("Your focus areas:", strings.Join(acc.FocusAreas, ", "))
	}
	if err := askList("Focus areas", &in.FocusAreas); err != nil {
		return err
	}
	if err := ask("Intention", &in.Intention); err != nil {
		return err
	}
	if err := ask("Midday progress", &in.Midday.Progress); err != nil {
		return err
	}
	if err := ask("Biggest distraction", &in.Midday.BiggestDistraction); err != nil {
		return err
	}
	if err := ask("Wins", &in.Evening.Wins); err != nil {
		return err
	}
	if err := ask("Improvements", &in.Evening.Improvements); err != nil {
		return err
	}
	if err := askList("Learnings, up to 3", &in.Evening.Learnings); err != nil {
		return err
	}
	if err := ask("Gratitude", &in.Evening.Gratitude); err != nil {
		return err
	}
	return a.promptStuckToPlan(in)
}

func (a *App) promptStuckToPlan(in *models.EntryInput) error {
	var b strings.Builder
	b.WriteString("Did you stick to the plan?")
	for i, c := range stuckToPlanChoices {
		fmt.Fprintf(&b, " %d) %s", i+1, c)
	}

	v, err := GetWithDefault(a.reader, b.String(), in.StuckToPlan, a.out)
	if err != nil {
		return err
	}
	if n, convErr := strconv.Atoi(v); convErr == nil && n >= 1 && n <= len(stuckToPlanChoices) {
		v = stuckToPlanChoices[n-1]
	}
	in.StuckToPlan = v
	return nil
}

func (a *App) printEntry(e *models.Entry) {
	a.printf("Entry %s (%s)\n", e.ID, e.Date)
	for i, g := range e.Top3Goals {
		if g != "" {
			a.printf("  Goal %d: %s\n", i+1, g)
		}
	}
	printField := func(label, v string) {
		if v != "" {
			a.printf("  %s: %s\n", label, v)
		}
	}
	printField("Focus areas", strings.Join(e.FocusAreas, ", "))
	printField("Intention", e.Intention)
	printField("Midday progress", e.Midday.Progress)
	printField("Biggest distraction", e.Midday.BiggestDistraction)
	printField("Wins", e.Evening.Wins)
	printField("Improvements", e.Evening.Improvements)
	printField("Learnings", strings.Join(e.Evening.Learnings, "; "))
	printField("Gratitude", e.Evening.Gratitude)
	printField("Stuck to plan", e.StuckToPlan)
}

func summary(goals []string) string {
	var set []string
	for _, g := range goals {
		if g != "" {
			set = append(set, g)
		}
	}
	if len(set) == 0 {
		return "(no goals)"
	}
	return strings.Join(set, " | ")
}
