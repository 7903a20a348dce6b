package postgres

import (
	"database/sql"

	"github.com/rubenv/sql-migrate"
)

// This file maintains the database migration code.  See
// https://github.com/rubenv/sql-migrate for details of what goes in
// here.  This runs "outside" the normal store flow, either at
// initial startup or from an external tool.

var migrationSource = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1-items",
			Up: []string{
				`CREATE TABLE item (
					id SERIAL PRIMARY KEY,
					kt TEXT NOT NULL,
					pk TEXT NOT NULL,
					loc TEXT NOT NULL DEFAULT '',
					data BYTEA,
					created TIMESTAMP WITH TIME ZONE NOT NULL,
					updated TIMESTAMP WITH TIME ZONE,
					deleted TIMESTAMP WITH TIME ZONE
				)`,
				`CREATE UNIQUE INDEX item_unique_key ON item(kt, pk)`,
				`CREATE INDEX item_location ON item(kt, loc)`,
			},
			Down: []string{
				`DROP TABLE item`,
			},
		},
	},
}

// Upgrade upgrades a database to the latest database schema version.
func Upgrade(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Up)
	return err
}

// Drop clears a database by running all of the migrations in reverse,
// ultimately resulting in dropping all of the tables.
func Drop(db *sql.DB) error {
	_, err := migrate.Exec(db, "postgres", migrationSource, migrate.Down)
	return err
}
