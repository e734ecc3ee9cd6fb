package database

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// RunPostgresMigrations aplica as migrações embutidas no banco PostgreSQL informado
func RunPostgresMigrations(databaseURL string) error {
	return runMigrations("migrations/postgres", postgresMigrateURL(databaseURL))
}

// RunSQLiteMigrations aplica as migrações embutidas no arquivo SQLite informado
func RunSQLiteMigrations(path string) error {
	return runMigrations("migrations/sqlite", "sqlite3://"+path)
}

func runMigrations(dir, databaseURL string) error {
	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("erro ao carregar migrações: %w", err)
	}

	// Criar instância do migrate
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("erro ao criar migrate: %w", err)
	}
	defer m.Close()

	// Aplicar migrações
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}

	return nil
}

// postgresMigrateURL converte DSNs no formato chave=valor para URL, que é o formato
// aceito pelo driver do migrate
func postgresMigrateURL(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return databaseURL
	}

	values := map[string]string{}
	for _, field := range strings.Fields(databaseURL) {
		key, value, ok := strings.Cut(field, "=")
		if ok {
			values[key] = value
		}
	}

	host := values["host"]
	if host == "" {
		host = "localhost"
	}
	port := values["port"]
	if port == "" {
		port = "5432"
	}
	sslmode := values["sslmode"]
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		values["user"], values["password"], host, port, values["dbname"], sslmode)
}
