package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// AddIndexes adds lookup indexes that are not expressed in model tags
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// assignment detail lookups go by member first
		{"team_member_tasks", "idx_team_member_tasks_member", "team_member_workday_id, team_member_email"},
		{"team_member_tasks", "idx_team_member_tasks_email", "team_member_email"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			slog.Debug("Index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Info("Created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
