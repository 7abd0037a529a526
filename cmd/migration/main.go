// Command migration manages the premier-hub schema (currently the
// user_favorites table) with golang-migrate. DB_URL selects the database;
// the migration files ship under db/migrations.
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
	command := strings.ToLower(strings.TrimSpace(os.Args[1]))
	args := os.Args[2:]

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		log.Fatal("DB_URL is required")
	}

	migrationsDir, err := resolveMigrationsDir()
	if err != nil {
		log.Fatalf("resolve migrations dir: %v", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(migrationsDir), normalizeDBURL(dbURL))
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer closeMigrator(m)

	switch command {
	case "up":
		runUp(m, migrationsDir)
	case "down":
		runDown(m, args)
	case "version":
		runVersion(m)
	case "force":
		runForce(m, args)
	case "goto", "migrate":
		runGoto(m, args)
	default:
		printUsage()
		os.Exit(2)
	}
}

func runUp(m *migrate.Migrate, migrationsDir string) {
	finishMigration(m.Up())
	log.Printf("migrations applied from %s", migrationsDir)
}

func runDown(m *migrate.Migrate, args []string) {
	steps := 1
	if len(args) > 0 {
		parsed, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil {
			log.Fatalf("invalid down steps %q: %v", args[0], err)
		}
		if parsed <= 0 {
			log.Fatal("down steps must be > 0")
		}
		steps = parsed
	}

	finishMigration(m.Steps(-steps))
	log.Printf("rolled back %d migration(s)", steps)
}

func runVersion(m *migrate.Migrate) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("version: none")
		fmt.Println("dirty: false")
		return
	}
	if err != nil {
		log.Fatalf("read version: %v", err)
	}
	fmt.Printf("version: %d\n", version)
	fmt.Printf("dirty: %t\n", dirty)
}

func runForce(m *migrate.Migrate, args []string) {
	if len(args) == 0 {
		log.Fatal("force requires a version argument")
	}
	version, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || version < 0 {
		log.Fatalf("invalid version %q", args[0])
	}
	if err := m.Force(version); err != nil {
		log.Fatalf("force version %d: %v", version, err)
	}
	log.Printf("forced version to %d", version)
}

func runGoto(m *migrate.Migrate, args []string) {
	if len(args) == 0 {
		log.Fatal("goto requires a target version argument")
	}
	target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		log.Fatalf("invalid target version %q: %v", args[0], err)
	}

	finishMigration(m.Migrate(uint(target)))
	log.Printf("migrated to version %d", target)
}

// finishMigration treats ErrNoChange as success so reruns in deploy
// pipelines stay green.
func finishMigration(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("database already up to date")
		return
	}
	log.Fatal(err)
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

// resolveMigrationsDir checks the override env vars first, then the repo
// layout, then the container image path.
func resolveMigrationsDir() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		strings.TrimSpace(os.Getenv("MIGRATIONS_PATH")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
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

	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, MIGRATIONS_PATH, ./db/migrations, /app/db/migrations)")
}

// normalizeDBURL mirrors the API server's DSN handling so both binaries
// agree on the disable_prepared_binary_result flag.
func normalizeDBURL(raw string) string {
	if !envBool("DB_DISABLE_PREPARED_BINARY_RESULT") {
		return raw
	}
	if strings.Contains(raw, "disable_prepared_binary_result") {
		return raw
	}

	if parsed, err := url.Parse(raw); err == nil && parsed.Scheme != "" {
		query := parsed.Query()
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	return strings.TrimSpace(raw) + " disable_prepared_binary_result=yes"
}

func envBool(key string) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func printUsage() {
	bin := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|version|force|goto> [args]\n\n", bin)
	fmt.Fprintf(os.Stderr, "  %s up              apply all pending migrations\n", bin)
	fmt.Fprintf(os.Stderr, "  %s down [n]        roll back n migrations (default 1)\n", bin)
	fmt.Fprintf(os.Stderr, "  %s version         print current version and dirty flag\n", bin)
	fmt.Fprintf(os.Stderr, "  %s force <v>       mark version v without running migrations\n", bin)
	fmt.Fprintf(os.Stderr, "  %s goto <v>        migrate up or down to version v\n", bin)
}
