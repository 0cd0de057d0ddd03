package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"newstyping/pkg/logger"
)

//go:embed schema.sql
var schema string

// Migrate creates the articles and typing_tests tables if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Sugar.Info("Database schema is up to date")
	return nil
}
