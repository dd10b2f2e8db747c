// Package theme stores the light/dark preference and turns it into terminal styles.
package theme

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/streakline/internal/cache"
	"github.com/julianstephens/streakline/internal/constants"
	apperrors "github.com/julianstephens/streakline/internal/errors"
	"github.com/julianstephens/streakline/internal/logger"
)

// Parse accepts light, dark or system in any case.
func Parse(s string) (constants.ThemeMode, error) {
	switch mode := constants.ThemeMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case constants.ThemeLight, constants.ThemeDark, constants.ThemeSystem:
		return mode, nil
	default:
		return "", apperrors.Invalid("theme", "%q is not one of light, dark, system", s)
	}
}

// Load returns the stored mode. Missing or unknown values fall back to system.
func Load(ctx context.Context, local *cache.Local) constants.ThemeMode {
	stored, err := local.LoadTheme(ctx)
	if err != nil {
		logger.Warn("Failed to read theme preference", "error", err)
		return constants.ThemeSystem
	}
	mode, err := Parse(stored)
	if err != nil {
		return constants.ThemeSystem
	}
	return mode
}

func Save(ctx context.Context, local *cache.Local, mode constants.ThemeMode) error {
	if _, err := Parse(string(mode)); err != nil {
		return err
	}
	return local.SaveTheme(ctx, mode)
}

// Resolve reports whether mode means a dark palette. systemDark is only
// consulted for the system mode.
func Resolve(mode constants.ThemeMode, systemDark func() bool) bool {
	switch mode {
	case constants.ThemeDark:
		return true
	case constants.ThemeLight:
		return false
	default:
		return systemDark != nil && systemDark()
	}
}

// ResolveTerminal resolves mode against the terminal's background color.
func ResolveTerminal(mode constants.ThemeMode) bool {
	return Resolve(mode, lipgloss.HasDarkBackground)
}
