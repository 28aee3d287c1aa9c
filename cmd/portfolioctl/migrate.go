package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/database"
)

type migrateCmd struct {
	dbFlags
	status bool
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending schema migrations" }
func (*migrateCmd) Usage() string {
	return `portfolioctl migrate [-db <path>] [-status]

  Applies every pending migration, or with -status only reports the schema version.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	c.dbFlags.register(f)
	f.BoolVar(&c.status, "status", false, "Report the schema version without migrating.")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// Opened without database.Open so -status sees the schema as it is.
	db, err := sql.Open("sqlite", c.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if !c.status {
		applied, err := database.Migrate(ctx, db)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("applied %d migration(s)\n", applied)
	}

	current, latest, err := database.SchemaVersion(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("schema version %d (latest %d)\n", current, latest)
	return subcommands.ExitSuccess
}
