package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

type importCmd struct {
	dbFlags
	owner string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from CSV or JSON files" }
func (*importCmd) Usage() string {
	return `portfolioctl import -owner <user id> [-db <path>] <file>...

  Imports every file into the owner's transactions. Files ending in .json hold
  an array of transaction objects; records without owner_id get -owner. Any
  other file is read as CSV rows asset,amount,historical_price,date,type.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	c.dbFlags.register(f)
	f.StringVar(&c.owner, "owner", "", "Id of the user the transactions belong to.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.owner == "" || f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: -owner and at least one file are required.")
		return subcommands.ExitUsageError
	}
	owner, err := store.ParseID(c.owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -owner: %v\n", err)
		return subcommands.ExitUsageError
	}

	db, err := c.open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	repo := repository.NewTransactionRepository(store.NewCollection(db, repository.TransactionsCollection))
	svc := service.NewTransactionService(repo, c.logger())

	total := 0
	for _, name := range f.Args() {
		n, err := c.importFile(ctx, repo, svc, owner.String(), name)
		total += n
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %s after %d transaction(s): %v\n", name, n, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%s: %d transaction(s)\n", name, n)
	}
	fmt.Printf("imported %d transaction(s)\n", total)
	return subcommands.ExitSuccess
}

func (c *importCmd) importFile(ctx context.Context, repo *repository.TransactionRepository, svc *service.TransactionService, owner, name string) (int, error) {
	file, err := os.Open(name) //nolint:gosec // path comes from the operator
	if err != nil {
		return 0, err
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(name), ".json") {
		created, err := svc.ImportCSV(ctx, owner, file)
		return len(created), err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return 0, err
	}
	docs, err := store.DecodeList(data)
	if err != nil {
		return 0, err
	}

	created := make([]model.Transaction, 0, len(docs))
	for i, doc := range docs {
		if _, ok := doc["owner_id"]; !ok {
			if err := doc.Set("owner_id", owner); err != nil {
				return len(created), err
			}
		}
		tx, err := repo.Create(ctx, doc)
		if err != nil {
			return len(created), fmt.Errorf("record %d: %w", i, err)
		}
		created = append(created, tx)
	}
	return len(created), nil
}
