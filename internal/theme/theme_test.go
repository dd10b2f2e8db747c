package theme_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/theme"
)

func TestParse(t *testing.T) {
	mode, err := theme.Parse(" Dark ")
	require.NoError(t, err)
	assert.Equal(t, constants.ThemeDark, mode)

	_, err = theme.Parse("sepia")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLoadAndSave(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	local := cache.NewLocal(store)

	assert.Equal(t, constants.ThemeSystem, theme.Load(ctx, local), "unset falls back to system")

	require.NoError(t, theme.Save(ctx, local, constants.ThemeLight))
	assert.Equal(t, constants.ThemeLight, theme.Load(ctx, local))

	raw, err := store.Get(ctx, constants.CacheKeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", raw)

	require.NoError(t, store.Set(ctx, constants.CacheKeyTheme, "neon"))
	assert.Equal(t, constants.ThemeSystem, theme.Load(ctx, local), "unknown values fall back to system")

	assert.Error(t, theme.Save(ctx, local, "neon"))
}

func TestResolve(t *testing.T) {
	dark := func() bool { return true }
	light := func() bool { return false }

	assert.True(t, theme.Resolve(constants.ThemeDark, light))
	assert.False(t, theme.Resolve(constants.ThemeLight, dark))
	assert.True(t, theme.Resolve(constants.ThemeSystem, dark))
	assert.False(t, theme.Resolve(constants.ThemeSystem, light))
	assert.False(t, theme.Resolve(constants.ThemeSystem, nil))
}

func TestNewStyles(t *testing.T) {
	assert.Equal(t, theme.DarkPalette, theme.NewStyles(true).Palette)
	assert.Equal(t, theme.LightPalette, theme.NewStyles(false).Palette)
}
