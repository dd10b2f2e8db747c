package habits

import (
	"strconv"

	"github.com/julianstephens/streakline/internal/cli"
)

type LeaderboardCmd struct {
	Limit int `help:"Show only the top N users (0 shows everyone)." default:"10"`
}

func (c *LeaderboardCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.CurrentUser(); err != nil {
		return err
	}

	entries, err := ctx.Leaderboard.Fetch(ctx.Ctx())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.Println("No users on the leaderboard yet.")
		return nil
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			medal(e.Rank),
			e.UserName,
			strconv.Itoa(e.TotalCompletions),
			strconv.Itoa(e.LongestStreak),
			strconv.Itoa(e.CurrentStreaks),
		})
	}
	ctx.Println(ctx.Styles.Title.Render("🏆 Leaderboard"))
	ctx.Println(ctx.Table([]string{"Rank", "User", "Completions", "Longest", "Current"}, rows))
	return nil
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return strconv.Itoa(rank)
	}
}
