package constants

// Frequency represents how often a habit is expected to be completed
type Frequency string

// ThemeMode represents the user's display preference
type ThemeMode string

const (
	AppName            = "streakline"
	DefaultKeyringUser = "remote-session"
	DefaultConfigDir   = "~/.config/streakline"
	DefaultCachePath   = "~/.config/streakline/cache.db"
	Version            = "v0.3.0"

	// TempIDPrefix marks records that exist only locally until the remote service confirms them
	TempIDPrefix = "temp_"

	// AvatarMaxLength is the storage limit of the avatar attribute on the users collection
	AvatarMaxLength = 500

	// DefaultCompletionWindow is the trailing window (in days) used for completion rates
	DefaultCompletionWindow = 7

	// LeaderboardConcurrency bounds the per-user fetches issued while building a leaderboard
	LeaderboardConcurrency = 4

	// CurrentSession is the session identifier the remote service resolves to the caller's session
	CurrentSession = "current"

	// Frequency constants
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"

	// Theme constants
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)
