package auth

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/validation"
)

type AuthCmd struct {
	Login   LoginCmd   `cmd:"" help:"Sign in to your account."`
	Signup  SignupCmd  `cmd:"" help:"Create an account."`
	Logout  LogoutCmd  `cmd:"" help:"Sign out."`
	Whoami  WhoamiCmd  `cmd:"" help:"Show the signed-in user."`
	Profile ProfileCmd `cmd:"" help:"Update your name or avatar."`
}

type LoginCmd struct {
	Email    string `help:"Account email."`
	Password string `help:"Account password (prompted when omitted)." env:"STREAKLINE_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if c.Email == "" || c.Password == "" {
		v := validation.New()
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&c.Email).
					Validate(v.Email),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&c.Password),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
	}

	user, err := ctx.Session.SignIn(ctx.Ctx(), c.Email, c.Password)
	if err != nil {
		return err
	}
	ctx.Println(ctx.Styles.Success.Render(fmt.Sprintf("✓ Signed in as %s <%s>", user.Name, user.Email)))
	return nil
}

type SignupCmd struct {
	Email    string `help:"Account email."`
	Name     string `help:"Display name."`
	Password string `help:"Password: at least 8 characters with upper and lower case letters and a number." env:"STREAKLINE_PASSWORD"`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	if c.Email == "" || c.Name == "" || c.Password == "" {
		v := validation.New()
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Name").
					Value(&c.Name),
				huh.NewInput().
					Title("Email").
					Value(&c.Email).
					Validate(v.Email),
				huh.NewInput().
					Title("Password").
					Description("At least 8 characters, with upper and lower case letters and a number.").
					EchoMode(huh.EchoModePassword).
					Value(&c.Password),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}
	}

	user, err := ctx.Session.SignUp(ctx.Ctx(), c.Email, c.Password, c.Name)
	if err != nil {
		return err
	}
	ctx.Println(ctx.Styles.Success.Render(fmt.Sprintf("✓ Welcome, %s! Your account is ready.", user.Name)))
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Session.SignOut(ctx.Ctx()); err != nil {
		return err
	}
	ctx.Println("Signed out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user := ctx.Session.Current()
	if user == nil {
		ctx.Println("Not signed in.")
		return nil
	}
	ctx.Printf("Name:    %s\n", user.Name)
	ctx.Printf("Email:   %s\n", user.Email)
	ctx.Printf("ID:      %s\n", user.ID)
	if user.Avatar != "" {
		ctx.Printf("Avatar:  %s\n", user.Avatar)
	}
	return nil
}

type ProfileCmd struct {
	Name   string `help:"New display name." required:""`
	Avatar string `help:"Avatar URL (keeps the current one when omitted)."`
}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Session.UpdateProfile(ctx.Ctx(), c.Name, c.Avatar)
	if err != nil {
		return err
	}
	ctx.Printf("Profile updated: %s\n", user.Name)
	return nil
}
