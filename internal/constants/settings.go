package constants

const (
	// Local cache slots
	CacheKeyHabits      = "streakline_habits"
	CacheKeyCompletions = "streakline_completions"
	CacheKeyUser        = "user"
	CacheKeyTheme       = "themeMode"

	// Configuration keys
	ConfigAppwriteEndpoint      = "appwrite.endpoint"
	ConfigAppwritePlatform      = "appwrite.platform"
	ConfigAppwriteProjectID     = "appwrite.project_id"
	ConfigAppwriteDatabaseID    = "appwrite.database_id"
	ConfigUsersCollectionID     = "appwrite.collections.users"
	ConfigHabitsCollectionID    = "appwrite.collections.habits"
	ConfigCompletionsCollection = "appwrite.collections.completions"
	ConfigRemoteTimeout         = "remote.timeout"
	ConfigCache                 = "cache"
	ConfigTimezone              = "timezone"
	ConfigDebug                 = "debug"
	ConfigDir                   = "config_dir"
	ConfigEnv                   = "env"

	// Default configuration values, matching the bundled distribution build
	DefaultAppwriteEndpoint      = "https://cloud.appwrite.io/v1"
	DefaultAppwritePlatform      = "com.julianstephens.streakline"
	DefaultAppwriteProjectID     = "6862bd32000e11109ac9"
	DefaultAppwriteDatabaseID    = "6862c1b6003103935ee4"
	DefaultUsersCollectionID     = "6863c6de001fe39e0413"
	DefaultHabitsCollectionID    = "6863c6de001fe39e0414"
	DefaultCompletionsCollection = "6863c6de001fe39e0415"
	DefaultRemoteTimeoutSec      = 30
	DefaultTimezone              = "Local" // Use system local timezone by default

	// EnvPrefix is prepended to every environment variable read by the config loader
	EnvPrefix = "STREAKLINE"
)
