package habits

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/models"
	"github.com/julianstephens/streakline/internal/stats"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
	Done   HabitDoneCmd   `cmd:"" help:"Mark a habit as done today."`
	Today  HabitTodayCmd  `cmd:"" help:"Show today's progress."`
	Show   HabitShowCmd   `cmd:"" help:"Show habit details."`
}

type HabitAddCmd struct {
	Title       string `arg:"" help:"Habit title."`
	Description string `help:"Optional description." default:""`
	Frequency   string `help:"How often: daily or weekly." enum:"daily,weekly" default:"daily"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	h, result, err := ctx.Habits.CreateHabit(ctx.Ctx(), cli.OwnerID(user), models.HabitInput{
		Title:       c.Title,
		Description: c.Description,
		Frequency:   constants.Frequency(c.Frequency),
	})
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s %s\n", stats.HabitIcon(h.Title), h.Title)
	ctx.ReportResult("Habit", result)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	ctx.SyncHabits(user)

	habits := ctx.Habits.Habits()
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	now := ctx.Now()
	completions := ctx.Habits.Completions()
	rows := make([][]string, 0, len(habits))
	for i, h := range habits {
		done := "·"
		if stats.IsHabitCompletedToday(h.ID, completions, now) {
			done = "✓"
		}
		streak := stats.CalculateStreak(h, now)
		title := stats.HabitIcon(h.Title) + " " + h.Title
		if h.IsTemporary() {
			title += " (unsynced)"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			title,
			string(h.Frequency),
			fmt.Sprintf("%s %d", stats.StreakEmoji(streak), streak),
			done,
			h.ID,
		})
	}
	ctx.Println(ctx.Table([]string{"#", "Habit", "Frequency", "Streak", "Today", "ID"}, rows))
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit id or title."`
	Title       *string `help:"New title."`
	Description *string `help:"New description."`
	Frequency   *string `help:"New frequency: daily or weekly."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.CurrentUser(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	patch := models.HabitPatch{Title: c.Title, Description: c.Description}
	if c.Frequency != nil {
		f := constants.Frequency(*c.Frequency)
		patch.Frequency = &f
	}
	if patch.IsEmpty() {
		ctx.Println("No changes specified. Use --title, --description or --frequency.")
		return nil
	}

	result, err := ctx.Habits.UpdateHabit(ctx.Ctx(), h.ID, patch)
	if err != nil {
		ctx.ReportResult("Edit", result)
		return err
	}
	ctx.Printf("Updated habit: %s\n", h.ID)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.CurrentUser(); err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete %q?", h.Title)).
					Description("Its streak is lost for good.").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
		if !confirmed {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	result, err := ctx.Habits.DeleteHabit(ctx.Ctx(), h.ID)
	if err != nil {
		ctx.ReportResult("Delete", result)
		return err
	}
	ctx.Printf("Deleted habit: %s\n", h.Title)
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit id or title."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	_, result, err := ctx.Habits.CompleteHabit(ctx.Ctx(), cli.OwnerID(user), h.ID)
	if err != nil && !errors.Is(err, apperrors.ErrSchemaMismatch) {
		return err
	}
	updated, _ := ctx.Habits.Habit(h.ID)
	streak := stats.CalculateStreak(updated, ctx.Now())
	ctx.Println(ctx.Styles.Success.Render(fmt.Sprintf("✓ %s done! %s %d day streak", h.Title, stats.StreakEmoji(streak), streak)))
	ctx.ReportResult("Completion", result)
	return err
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	ctx.SyncHabits(user)

	now := ctx.Now()
	habits := ctx.Habits.Habits()
	completions := ctx.Habits.Completions()
	summary := stats.Summarize(habits, completions, now)

	ctx.Println(ctx.Styles.Title.Render(fmt.Sprintf("Hello, %s! %s", user.Name, now.Format("Monday, January 2"))))
	ctx.Printf("Completed today: %d/%d   Active streaks: %d   Best streak: %d\n\n",
		summary.CompletedToday, summary.TotalHabits, summary.ActiveStreaks, summary.BestStreak)

	if len(habits) == 0 {
		ctx.Println(ctx.Styles.Muted.Render("No habits yet. Add one with 'streakline habit add'."))
		return nil
	}
	for _, h := range habits {
		mark := ctx.Styles.Muted.Render("○")
		if stats.IsHabitCompletedToday(h.ID, completions, now) {
			mark = ctx.Styles.Success.Render("●")
		}
		ctx.Printf("%s %s %s\n", mark, stats.HabitIcon(h.Title), h.Title)
	}
	return nil
}

type HabitShowCmd struct {
	Habit  string `arg:"" help:"Habit id or title."`
	Window int    `help:"Days used for the completion rate." default:"7"`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	completions, err := ctx.Repo.ListCompletions(ctx.Ctx(), cli.OwnerID(user), h.ID)
	if err != nil {
		ctx.Println(ctx.Styles.Warning.Render("⚠ Offline, completion history is limited to today"))
		completions = ctx.Habits.Completions()
	}

	now := ctx.Now()
	streak := stats.CalculateStreak(h, now)
	ctx.Println(ctx.Styles.Title.Render(stats.HabitIcon(h.Title) + " " + h.Title))
	if h.Description != "" {
		ctx.Println(h.Description)
	}
	ctx.Printf("Frequency:       %s\n", h.Frequency)
	ctx.Printf("Streak:          %s %d\n", stats.StreakEmoji(streak), streak)
	if h.LastCompleted != nil {
		ctx.Printf("Last completed:  %s\n", h.LastCompleted.In(now.Location()).Format(constants.DateFormat+" "+constants.TimeFormat))
	} else {
		ctx.Println("Last completed:  never")
	}
	ctx.Printf("Completion rate: %d%% (last %d days)\n", stats.CompletionRate(h, completions, c.Window, now), c.Window)
	ctx.Printf("ID:              %s\n", h.ID)
	return nil
}
