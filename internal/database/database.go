package database

import (
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Connect opens the Postgres pool. DATABASE_URL wins when set; otherwise
// the DSN is assembled from the individual DB_* variables.
func Connect() (*sql.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		host := getEnv("DB_HOST", "localhost")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "algo_user")
		password := getEnv("DB_PASSWORD", "algo_password")
		dbname := getEnv("DB_NAME", "algo_prep")
		sslmode := getEnv("DB_SSLMODE", "disable")

		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode,
		)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Migrate applies the embedded SQL migrations in order.
func Migrate(db *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// generateUsernameBase creates a lowercase alphanumeric base from a user's name.
func generateUsernameBase(name string) string {
	var result []byte
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			result = append(result, byte(c))
		}
	}
	if len(result) == 0 {
		return "user"
	}
	if len(result) > 12 {
		result = result[:12]
	}
	return string(result)
}

// rng is a seeded random source for username generation.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// randomInt returns a random integer in [0, max).
func randomInt(max int) int {
	return rng.Intn(max)
}

// GenerateUsername creates a unique username from a name by appending random digits.
// It tries up to 10 times to find a unique one. Caller should handle the unique constraint.
func GenerateUsername(name string) string {
	base := generateUsernameBase(name)
	return fmt.Sprintf("%s%04d", base, randomInt(10000))
}
