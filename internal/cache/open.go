package cache

import (
	"strings"

	"github.com/julianstephens/streakline/internal/cache/jsonfile"
	"github.com/julianstephens/streakline/internal/cache/postgres"
	"github.com/julianstephens/streakline/internal/cache/redis"
	"github.com/julianstephens/streakline/internal/cache/sqlite"
	"github.com/julianstephens/streakline/internal/utils"
)

// Open picks a backend from the DSN. The returned store still needs Init.
//
//	postgres://, postgresql:// -> PostgreSQL
//	redis://, rediss://        -> Redis
//	*.json                     -> JSON file
//	anything else              -> SQLite file
func Open(dsn string) (Store, error) {
	switch {
	case isPostgres(dsn):
		if _, err := postgres.ValidateConnString(dsn); err != nil {
			return nil, err
		}
		return postgres.New(dsn), nil
	case isRedis(dsn):
		return redis.NewStore(dsn), nil
	}

	path, err := utils.ExpandHome(dsn)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return jsonfile.NewStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// FilePath returns the file behind a file-based DSN. ok is false for
// server backends.
func FilePath(dsn string) (path string, ok bool, err error) {
	if isPostgres(dsn) || isRedis(dsn) {
		return "", false, nil
	}
	path, err = utils.ExpandHome(dsn)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func isRedis(dsn string) bool {
	return strings.HasPrefix(dsn, "redis://") || strings.HasPrefix(dsn, "rediss://")
}
