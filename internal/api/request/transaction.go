package request

import (
	"fmt"
	"strconv"
	"strings"
)

// TransactionFilter narrows a transaction listing. At most one of Asset and Tag is set.
type TransactionFilter struct {
	Asset string
	Tag   string
}

// PortfolioQuery selects the transactions a portfolio is computed from and
// whether current prices are attached.
type PortfolioQuery struct {
	Asset      string
	WithPrices bool
}

// ParseTransactionFilter extracts the asset and tag query parameters.
// The asset is upper-cased. Supplying both is an error.
func ParseTransactionFilter(assetParam, tagParam string) (TransactionFilter, error) {
	filter := TransactionFilter{
		Asset: strings.ToUpper(strings.TrimSpace(assetParam)),
		Tag:   strings.TrimSpace(tagParam),
	}
	if filter.Asset != "" && filter.Tag != "" {
		return TransactionFilter{}, fmt.Errorf("filter by asset or by tag, not both")
	}
	return filter, nil
}

// ParsePortfolioQuery extracts the asset and prices query parameters.
// prices accepts the values strconv.ParseBool understands and defaults to false.
func ParsePortfolioQuery(assetParam, pricesParam string) (PortfolioQuery, error) {
	query := PortfolioQuery{Asset: strings.ToUpper(strings.TrimSpace(assetParam))}
	if pricesParam != "" {
		withPrices, err := strconv.ParseBool(pricesParam)
		if err != nil {
			return PortfolioQuery{}, fmt.Errorf("invalid prices value: %s", pricesParam)
		}
		query.WithPrices = withPrices
	}
	return query, nil
}
