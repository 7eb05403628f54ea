// Command migration manages the notifier's schema, which is a single
// app_state table holding the run watermark. The command set stays
// small accordingly: up, down for a rollback, version, and force to
// clear a dirty state after an interrupted run.
package main

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	if err := run(strings.ToLower(strings.TrimSpace(os.Args[1])), os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func run(cmd string, args []string) error {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return errors.New("DB_URL is required")
	}

	migrationsDir, err := migrationsDir()
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(migrationsDir), withPoolerFlag(dbURL))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer closeMigrator(m)

	switch cmd {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return err
		}
		log.Printf("schema up to date (migrations=%s)", migrationsDir)
		return nil
	case "down":
		steps := 1
		if len(args) > 0 {
			steps, err = strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || steps <= 0 {
				return fmt.Errorf("down steps must be a positive integer, got %q", args[0])
			}
		}
		if err := ignoreNoChange(m.Steps(-steps)); err != nil {
			return err
		}
		log.Printf("rolled back %d migration(s)", steps)
		return nil
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d dirty: %t\n", version, dirty)
		return nil
	case "force":
		if len(args) < 1 {
			return errors.New("force requires a version argument")
		}
		version, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || version < 0 {
			return fmt.Errorf("force version must be a non-negative integer, got %q", args[0])
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		log.Printf("forced version to %d", version)
		return nil
	default:
		printUsage()
		os.Exit(2)
		return nil
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("no migration changes")
		return nil
	}

	return err
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Printf("close migration source: %v", srcErr)
	}
	if dbErr != nil {
		log.Printf("close migration db: %v", dbErr)
	}
}

// migrationsDir honors MIGRATIONS_DIR and falls back to the in-repo
// db/migrations directory.
func migrationsDir() (string, error) {
	for _, candidate := range []string{os.Getenv("MIGRATIONS_DIR"), "./db/migrations"} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}

	return "", errors.New("migration directory not found (set MIGRATIONS_DIR or run from the repo root)")
}

// withPoolerFlag mirrors the notifier's connection handling: unless
// DB_DISABLE_PREPARED_BINARY_RESULT is explicitly off, the URL gains
// disable_prepared_binary_result=yes for pooler compatibility.
func withPoolerFlag(raw string) string {
	if value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT"))); err == nil && !value {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force> [args]\n", name)
	fmt.Fprintf(os.Stderr, "  %s up          apply pending migrations\n", name)
	fmt.Fprintf(os.Stderr, "  %s down [n]    roll back n migrations (default 1)\n", name)
	fmt.Fprintf(os.Stderr, "  %s version     print the current schema version\n", name)
	fmt.Fprintf(os.Stderr, "  %s force <v>   mark version v without running migrations\n", name)
}
