package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/database"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/logger"
)

// dbFlags is embedded by commands that open the database.
type dbFlags struct {
	path    string
	verbose bool
}

func (d *dbFlags) register(f *flag.FlagSet) {
	def := os.Getenv("DB_PATH")
	if def == "" {
		def = "./data/crypto_portfolio.db"
	}
	f.StringVar(&d.path, "db", def, "Path to the SQLite database. Defaults to $DB_PATH.")
	f.BoolVar(&d.verbose, "v", false, "Log to stderr.")
}

func (d *dbFlags) open(ctx context.Context) (*sql.DB, error) {
	return database.Open(ctx, d.path)
}

func (d *dbFlags) logger() *zap.Logger {
	if !d.verbose {
		return logger.Nop()
	}
	lg, err := logger.New("debug", "console")
	if err != nil {
		return logger.Nop()
	}
	return lg
}
