package settings

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/remote"
	"github.com/julianstephens/streakline/internal/remote/remotetest"
	"github.com/julianstephens/streakline/internal/theme"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := cli.NewContext(context.Background(), cache.NewMemory(), remotetest.New(), remote.Collections{}, time.Now)
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

func TestThemeCmd_Show(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&ThemeCmd{}).Run(ctx); err != nil {
		t.Fatalf("theme failed: %v", err)
	}
	if !strings.Contains(out.String(), "Theme: system") {
		t.Errorf("expected system default, got %q", out.String())
	}
}

func TestThemeCmd_Set(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&ThemeCmd{Mode: "dark"}).Run(ctx); err != nil {
		t.Fatalf("theme dark failed: %v", err)
	}
	if got := theme.Load(ctx.Ctx(), ctx.Local); got != constants.ThemeDark {
		t.Errorf("expected dark to be stored, got %s", got)
	}
	if ctx.Styles.Palette != theme.DarkPalette {
		t.Errorf("expected dark palette to be active")
	}
}

func TestThemeCmd_Invalid(t *testing.T) {
	ctx, _ := setupTestContext(t)

	err := (&ThemeCmd{Mode: "sepia"}).Run(ctx)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
