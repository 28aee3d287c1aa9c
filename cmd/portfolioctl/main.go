// Command portfolioctl administers a portfolio database from the shell:
// schema migrations, bulk imports and portfolio reports.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&migrateCmd{}, "database")
	commander.Register(&importCmd{}, "data")
	commander.Register(&portfolioCmd{}, "data")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
