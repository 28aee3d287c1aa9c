package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

type portfolioCmd struct {
	dbFlags
	owner string
	asset string
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "print the aggregated portfolio as JSON" }
func (*portfolioCmd) Usage() string {
	return `portfolioctl portfolio [-owner <user id>] [-asset <symbol>] [-db <path>]

  Aggregates transactions into per-asset amounts, investment and average price.
  Without -owner every transaction in the database is included.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	c.dbFlags.register(f)
	f.StringVar(&c.owner, "owner", "", "Only include this user's transactions.")
	f.StringVar(&c.asset, "asset", "", "Only include one asset.")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query, err := request.ParsePortfolioQuery(c.asset, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	db, err := c.open(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	repo := repository.NewTransactionRepository(store.NewCollection(db, repository.TransactionsCollection))
	p, err := service.NewPortfolioService(repo, nil, c.logger()).GetPortfolio(ctx, c.owner, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
