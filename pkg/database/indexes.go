package database

import (
	applogger "github.com/chroniclecms/chronicle/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OptimizedIndexes creates the indexes the page tree queries depend on.
// AutoMigrate only covers single-column tags; everything composite or
// operator-class specific lives here.
func OptimizedIndexes(db *gorm.DB) error {
	applogger.GetLogger().Info("Creating optimized indexes")

	// Single-column indexes come from the model tags via AutoMigrate.
	// Only composite and operator-class indexes live here.
	pageIndexes := []string{
		// Prefix scans over the materialized path drive child_of and
		// descendant_of. text_pattern_ops makes LIKE 'prefix%' use the
		// index regardless of collation.
		"CREATE INDEX IF NOT EXISTS idx_pages_path_pattern ON pages(path text_pattern_ops);",

		// Tree filters always pair a path prefix with a depth bound.
		"CREATE INDEX IF NOT EXISTS idx_pages_depth_path ON pages(depth, path);",

		// Public listings filter on live before anything else.
		"CREATE INDEX IF NOT EXISTS idx_pages_live_path ON pages(live, path) WHERE live = true;",
	}

	tagIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_page_tags_tag_page ON page_tags(tag_id, page_id);",
	}

	allIndexes := append(pageIndexes, tagIndexes...)

	for _, indexSQL := range allIndexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			// Index creation failures are not fatal; the queries still
			// run, just slower.
			applogger.GetLogger().Warn("Failed to create index",
				zap.String("sql", indexSQL),
				zap.Error(err),
			)
		}
	}

	// Refresh planner statistics after (re)building indexes.
	for _, table := range []string{"pages", "tags", "page_tags", "sites"} {
		if err := db.Exec("ANALYZE " + table + ";").Error; err != nil {
			applogger.GetLogger().Warn("Failed to analyze table",
				zap.String("table", table),
				zap.Error(err),
			)
		}
	}

	applogger.GetLogger().Info("Optimized indexes created")
	return nil
}
