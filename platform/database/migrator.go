package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bsdmy2005/rental-agent-sub005/platform/logger"
)

//go:embed migrations
var migrationsFS embed.FS

// Migration representa uma migração de banco de dados
type Migration struct {
	AppliedAt *time.Time
	Name      string
	UpSQL     string
	DownSQL   string
	Version   int
}

// Migrator gerencia migrações de banco de dados
type Migrator struct {
	db     *Database
	logger *logger.Logger
}

// NewMigrator cria uma nova instância do migrador
func NewMigrator(db *Database, logger *logger.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// RunMigrations executa todas as migrações pendentes
func (m *Migrator) RunMigrations() error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := m.loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := m.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	pendingCount := 0
	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.executeMigration(migration); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}
		pendingCount++
	}

	if pendingCount > 0 {
		m.logger.InfoWithFields("Database migrations completed", map[string]interface{}{
			"migrations_applied": pendingCount,
			"total_migrations":   len(migrations),
		})
	} else {
		m.logger.Info("Database is up to date, no migrations needed")
	}

	return nil
}

// createMigrationsTable cria a tabela de controle de migrações
func (m *Migrator) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS "waMigrations" (
			"version" INTEGER PRIMARY KEY,
			"name" VARCHAR(255) NOT NULL,
			"appliedAt" TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
	`

	if _, err := m.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

// loadMigrations carrega todas as migrações dos arquivos embutidos
func (m *Migrator) loadMigrations() ([]*Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrationFiles := make(map[int]map[string]string)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := extractVersionFromFilename(entry.Name())
		if err != nil {
			m.logger.WarnWithFields("Skipping invalid migration file", map[string]interface{}{
				"filename": entry.Name(),
				"error":    err.Error(),
			})
			continue
		}

		content, err := fs.ReadFile(migrationsFS, filepath.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if migrationFiles[version] == nil {
			migrationFiles[version] = make(map[string]string)
		}

		categorizeMigrationFile(entry.Name(), string(content), migrationFiles[version])
	}

	migrations := make([]*Migration, 0, len(migrationFiles))
	for version, files := range migrationFiles {
		if files["up"] == "" {
			m.logger.WarnWithFields("Migration missing up.sql file", map[string]interface{}{
				"version": version,
			})
			continue
		}

		migrations = append(migrations, &Migration{
			Version: version,
			Name:    files["name"],
			UpSQL:   files["up"],
			DownSQL: files["down"],
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// extractVersionFromFilename extrai o número da versão do nome do arquivo
func extractVersionFromFilename(filename string) (int, error) {
	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid filename format")
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid version number: %w", err)
	}

	return version, nil
}

// categorizeMigrationFile categoriza o arquivo como up ou down
func categorizeMigrationFile(filename, content string, files map[string]string) {
	switch {
	case strings.Contains(filename, ".up.sql"):
		files["up"] = content
		nameParts := strings.Split(filename, "_")
		if len(nameParts) > 1 {
			name := strings.Join(nameParts[1:], "_")
			files["name"] = strings.TrimSuffix(name, ".up.sql")
		}
	case strings.Contains(filename, ".down.sql"):
		files["down"] = content
	}
}

// getAppliedMigrations retorna as versões já aplicadas
func (m *Migrator) getAppliedMigrations() (map[int]bool, error) {
	query := `SELECT "version" FROM "waMigrations" ORDER BY "version"`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			m.logger.Error("Failed to close rows: " + err.Error())
		}
	}()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// executeMigration aplica uma migração dentro de uma transação
func (m *Migrator) executeMigration(migration *Migration) error {
	m.logger.InfoWithFields("Applying migration", map[string]interface{}{
		"version": migration.Version,
		"name":    migration.Name,
	})

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(migration.UpSQL); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			m.logger.Error("Failed to rollback migration: " + rollbackErr.Error())
		}
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	record := `INSERT INTO "waMigrations" ("version", "name") VALUES ($1, $2)`
	if _, err := tx.Exec(record, migration.Version, migration.Name); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			m.logger.Error("Failed to rollback migration: " + rollbackErr.Error())
		}
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
