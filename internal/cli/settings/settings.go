package settings

import (
	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/theme"
)

type ThemeCmd struct {
	Mode string `arg:"" optional:"" help:"light, dark or system. Omit to show the current mode."`
}

func (c *ThemeCmd) Run(ctx *cli.Context) error {
	if c.Mode == "" {
		mode := theme.Load(ctx.Ctx(), ctx.Local)
		ctx.Printf("Theme: %s\n", mode)
		if theme.ResolveTerminal(mode) {
			ctx.Println("Palette: dark")
		} else {
			ctx.Println("Palette: light")
		}
		return nil
	}

	mode, err := theme.Parse(c.Mode)
	if err != nil {
		return err
	}
	if err := theme.Save(ctx.Ctx(), ctx.Local, mode); err != nil {
		return err
	}
	ctx.Styles = theme.NewStyles(theme.ResolveTerminal(mode))
	ctx.Println(ctx.Styles.Success.Render("Theme set to " + string(mode) + "."))
	return nil
}
