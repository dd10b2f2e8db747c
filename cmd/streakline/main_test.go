package main

import (
	"testing"

	"github.com/alecthomas/kong"
)

func newTestParser(t *testing.T) *kong.Kong {
	t.Helper()
	CLI.Verbose = false
	parser, err := kong.New(&CLI, parserOptions()...)
	if err != nil {
		t.Fatalf("failed to build parser: %v", err)
	}
	return parser
}

func TestParseDebugFlagAndDebugCommand(t *testing.T) {
	parser := newTestParser(t)

	kctx, err := parser.Parse([]string{"--debug", "debug", "cache-path"})
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if !CLI.Verbose {
		t.Error("--debug flag was not set")
	}
	if got := kctx.Command(); got != "debug cache-path" {
		t.Errorf("Command() = %q, want %q", got, "debug cache-path")
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"init"}, "init"},
		{[]string{"habit", "done", "Read"}, "habit done <habit>"},
		{[]string{"auth", "whoami"}, "auth whoami"},
		{[]string{"keyring", "status"}, "keyring status"},
		{[]string{"leaderboard"}, "leaderboard"},
	}
	for _, tt := range tests {
		parser := newTestParser(t)
		kctx, err := parser.Parse(tt.args)
		if err != nil {
			t.Errorf("Parse(%v) failed: %v", tt.args, err)
			continue
		}
		if CLI.Verbose {
			t.Errorf("Parse(%v) set --debug without the flag", tt.args)
		}
		if got := kctx.Command(); got != tt.want {
			t.Errorf("Parse(%v).Command() = %q, want %q", tt.args, got, tt.want)
		}
	}
}
