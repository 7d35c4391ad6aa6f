package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where `create` and `validate` work in a checkout.
const DefaultDir = "pkg/migrate/migrations"

// EmbeddedDir is the directory of the SQL files inside the binary.
const EmbeddedDir = "migrations"

// DefaultDialect is the only dialect the SQL migrations are written for.
const DefaultDialect = "postgres"

//go:embed migrations/*.sql
var embedded embed.FS

// goose keeps its dialect and base filesystem in package state.
var gooseMu sync.Mutex

// Source tells goose where to read migrations. A nil FS reads Dir from disk.
type Source struct {
	FS  fs.FS
	Dir string
}

// Embedded returns the migrations compiled into the binary, so the API and
// the migrate tool do not depend on the working directory.
func Embedded() Source {
	return Source{FS: embedded, Dir: EmbeddedDir}
}

// FromDir reads migrations from a directory on disk.
func FromDir(dir string) Source {
	return Source{Dir: dir}
}

func (s Source) String() string {
	if s.FS != nil {
		return "embedded:" + s.Dir
	}
	return s.Dir
}

func withGoose(src Source, fn func() error) error {
	if src.Dir == "" {
		return fmt.Errorf("migration dir is required")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(src.FS)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(DefaultDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return fn()
}

// Run executes a goose command (up, down, status, ...) against db.
func Run(ctx context.Context, db *sql.DB, src Source, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	return withGoose(src, func() error {
		if err := goose.RunContext(ctx, command, db, src.Dir, args...); err != nil {
			return fmt.Errorf("goose %s: %w", command, err)
		}
		return nil
	})
}

// MigrateToVersion moves the schema up or down until it sits at
// targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, src Source, targetVersion string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}

	return withGoose(src, func() error {
		current, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("get db version: %w", err)
		}
		switch {
		case current == target:
			return nil
		case current < target:
			if err := goose.UpToContext(ctx, db, src.Dir, target); err != nil {
				return fmt.Errorf("goose up-to %d: %w", target, err)
			}
		default:
			if err := goose.DownToContext(ctx, db, src.Dir, target); err != nil {
				return fmt.Errorf("goose down-to %d: %w", target, err)
			}
		}
		return nil
	})
}
