package db

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"

	embeddedmigrations "github.com/Leiracamera/clarityPMDD/migrations"
	"gorm.io/gorm"
)

var (
	migrationFilePattern      = regexp.MustCompile(`^(\d+)_.*\.sql$`)
	addColumnStatementPattern = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

type embeddedMigration struct {
	Version    string
	Order      int
	Name       string
	Statements []string
}

// migrator applies the forward-only SQL files of one dialect and records
// each applied file in schema_migrations.
type migrator struct {
	database *gorm.DB
	dialect  string
	files    fs.FS
}

func applyEmbeddedMigrations(database *gorm.DB, dialect string) error {
	return (&migrator{database: database, dialect: dialect, files: embeddedmigrations.Files}).run()
}

func loadEmbeddedMigrations(dialect string) ([]embeddedMigration, error) {
	return (&migrator{dialect: dialect, files: embeddedmigrations.Files}).load()
}

func (m *migrator) run() error {
	if err := m.ensureBookkeeping(); err != nil {
		return err
	}

	migrations, err := m.load()
	if err != nil {
		return err
	}
	applied, err := m.appliedVersions()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.apply(migration); err != nil {
			return err
		}
	}
	return nil
}

func (m *migrator) ensureBookkeeping() error {
	appliedAtType := "DATETIME"
	if m.dialect == DriverPostgres {
		appliedAtType = "TIMESTAMPTZ"
	}
	statement := `CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at ` + appliedAtType + ` NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	if err := m.database.Exec(statement).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func (m *migrator) load() ([]embeddedMigration, error) {
	entries, err := fs.ReadDir(m.files, m.dialect)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s migrations: %w", m.dialect, err)
	}

	migrations := make([]embeddedMigration, 0, len(entries))
	fileByVersion := make(map[string]string, len(entries))
	for _, entry := range entries {
		matches := migrationFilePattern.FindStringSubmatch(entry.Name())
		if entry.IsDir() || matches == nil {
			continue
		}

		version := matches[1]
		if previous, duplicate := fileByVersion[version]; duplicate {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, entry.Name())
		}
		fileByVersion[version] = entry.Name()

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", entry.Name(), err)
		}
		body, err := fs.ReadFile(m.files, path.Join(m.dialect, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		statements := splitSQLStatements(string(body))
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s has no SQL statements", entry.Name())
		}

		migrations = append(migrations, embeddedMigration{
			Version:    version,
			Order:      order,
			Name:       entry.Name(),
			Statements: statements,
		})
	}

	slices.SortFunc(migrations, func(a, b embeddedMigration) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.Name, b.Name)
	})
	return migrations, nil
}

func (m *migrator) appliedVersions() (map[string]bool, error) {
	var versions []string
	if err := m.database.Raw(`SELECT version FROM schema_migrations`).Scan(&versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}
	return applied, nil
}

func (m *migrator) apply(migration embeddedMigration) error {
	return m.database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range migration.Statements {
			present, err := columnAlreadyAdded(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", migration.Name, err)
			}
			if present {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", migration.Name, statement, err)
			}
		}

		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			migration.Version,
			migration.Name,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", migration.Name, err)
		}
		return nil
	})
}

// splitSQLStatements drops blank statements and full-line "--" comments.
func splitSQLStatements(sqlText string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(sqlText, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteByte('\n')
	}

	var statements []string
	for _, part := range strings.Split(cleaned.String(), ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyAdded lets an ADD COLUMN migration run against a schema that
// an earlier deployment already extended by hand.
func columnAlreadyAdded(database *gorm.DB, statement string) (bool, error) {
	matches := addColumnStatementPattern.FindStringSubmatch(statement)
	if matches == nil {
		return false, nil
	}

	table := unquoteSQLIdentifier(matches[1])
	column := unquoteSQLIdentifier(matches[2])
	if !database.Migrator().HasTable(table) {
		return false, errors.New("table " + table + " does not exist")
	}
	return database.Migrator().HasColumn(table, column), nil
}

func unquoteSQLIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
