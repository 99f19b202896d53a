package db

import (
	"context"
	_ "embed"

	"github.com/pkg/errors"
)

//go:embed schema.sql
var schema string

// Schema returns the DDL for the ledger and event tables.
func Schema() string {
	return schema
}

// Migrate creates the vault tables if they do not exist.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply vault schema")
	}
	return nil
}
