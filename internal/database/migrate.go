package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/model"
)

const rollbackSuffix = "_rollback.sql"

// RunMigrations executes all SQL migration files in the migrations directory.
// SQLite has no vector type, so its schema comes from the gorm models instead.
func RunMigrations(db *gorm.DB, migrationsDir string) ([]string, error) {
	if db.Dialector.Name() == "sqlite" {
		logging.Info().Msg("using GORM auto-migration for SQLite")
		if err := db.AutoMigrate(&model.Recipe{}, &model.Product{}); err != nil {
			return nil, fmt.Errorf("failed to auto-migrate: %w", err)
		}
		return nil, nil
	}

	files, err := migrationFiles(migrationsDir)
	if err != nil {
		return nil, err
	}

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []string
	for _, name := range files {
		var count int64
		if err := db.Table("migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return applied, fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			logging.Debug().Str("migration", name).Msg("skipping migration (already applied)")
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return applied, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			if err := tx.Exec("INSERT INTO migrations (name) VALUES (?)", name).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}

		logging.Info().Str("migration", name).Msg("applied migration")
		applied = append(applied, name)
	}

	return applied, nil
}

// RollbackLast reverts the most recently applied migration using its _rollback.sql companion
func RollbackLast(db *gorm.DB, migrationsDir string) (string, error) {
	var last struct {
		Name string
	}
	res := db.Table("migrations").Select("name").Order("applied_at DESC, id DESC").Limit(1).Scan(&last)
	if res.Error != nil {
		return "", fmt.Errorf("failed to get last migration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", errors.New("no migrations to rollback")
	}

	rollbackPath := filepath.Join(migrationsDir, strings.TrimSuffix(last.Name, ".sql")+rollbackSuffix)
	content, err := os.ReadFile(rollbackPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		if err := tx.Exec("DELETE FROM migrations WHERE name = ?", last.Name).Error; err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logging.Info().Str("migration", last.Name).Msg("rolled back migration")
	return last.Name, nil
}

// migrationFiles lists forward migrations in name order
func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}
