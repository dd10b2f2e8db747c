package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/streakline/internal/cli"
	"github.com/julianstephens/streakline/internal/keyring"
)

type KeyringCmd struct {
	Status KeyringStatusCmd `cmd:"" help:"Check the OS keyring and the stored session."`
	Show   KeyringShowCmd   `cmd:"" help:"Show the stored session secret (masked)."`
	Delete KeyringDeleteCmd `cmd:"" help:"Forget the stored session without contacting the server."`
}

func sessionStore(ctx *cli.Context) *keyring.SessionStore {
	projectID := ""
	if ctx.Config != nil {
		projectID = ctx.Config.Appwrite.ProjectID
	}
	return keyring.NewSessionStore(projectID)
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		ctx.Println("   Sessions will not survive between runs.")
		return errors.New("keyring unavailable")
	}
	ctx.Println("✓ OS keyring is available")

	_, err := sessionStore(ctx).Get()
	switch {
	case err == nil:
		ctx.Println("✓ A session is stored in the keyring")
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No session stored in keyring")
	default:
		return fmt.Errorf("failed to read keyring: %w", err)
	}
	return nil
}

// KeyringShowCmd prints the stored session secret with its values masked
type KeyringShowCmd struct{}

func (cmd *KeyringShowCmd) Run(ctx *cli.Context) error {
	secret, err := sessionStore(ctx).Get()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no session found in keyring. Use 'streakline auth login' to create one")
		}
		return fmt.Errorf("failed to retrieve session from keyring: %w", err)
	}
	ctx.Println("Session stored in keyring:")
	ctx.Println(maskSecret(secret))
	return nil
}

// KeyringDeleteCmd removes the session secret from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := sessionStore(ctx).Delete(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no session found in keyring")
		}
		return fmt.Errorf("failed to delete session from keyring: %w", err)
	}
	ctx.Println("✓ Session deleted from OS keyring")
	return nil
}

// maskSecret keeps the first four characters of every quoted value in a
// cookie jar blob, e.g. {"a_session_x":"abcd****"}.
func maskSecret(secret string) string {
	parts := strings.Split(secret, `"`)
	// values sit at every fourth segment: { "key" : "value" , "key" : "value" }
	for i := 3; i < len(parts); i += 4 {
		v := parts[i]
		if len(v) > 4 {
			v = v[:4]
		}
		parts[i] = v + "****"
	}
	return strings.Join(parts, `"`)
}
