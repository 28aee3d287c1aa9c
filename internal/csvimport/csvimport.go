// Package csvimport reads transaction rows from CSV exports.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
)

// DefaultCurrency is the currency assigned to every imported row.
const DefaultCurrency = "USD"

// Columns is the expected column order of an import file.
var Columns = []string{"asset", "amount", "historical_price", "date", "type"}

// Parse reads rows of "asset,amount,historical_price,date,type" and returns
// one draft per row, with currency set to DefaultCurrency and no tags.
// Blank lines are skipped and a first row starting with "asset" is treated
// as a header. OwnerID is left empty for the caller to fill in.
//
// Returns an error wrapping apperrors.ErrInvalidCSVRow that names the line
// of the first malformed row.
func Parse(r io.Reader) ([]model.TransactionDraft, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	drafts := []model.TransactionDraft{}
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCSVRow, err)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(record[0]), Columns[0]) {
				continue
			}
		}

		draft, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", apperrors.ErrInvalidCSVRow, line, err)
		}
		drafts = append(drafts, draft)
	}

	return drafts, nil
}

func parseRow(record []string) (model.TransactionDraft, error) {
	if len(record) != len(Columns) {
		return model.TransactionDraft{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(record))
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	amount, err := decimal.NewFromString(record[1])
	if err != nil {
		return model.TransactionDraft{}, fmt.Errorf("invalid amount %q", record[1])
	}
	price, err := decimal.NewFromString(record[2])
	if err != nil {
		return model.TransactionDraft{}, fmt.Errorf("invalid historical_price %q", record[2])
	}
	if record[0] == "" {
		return model.TransactionDraft{}, fmt.Errorf("asset is required")
	}

	return model.TransactionDraft{
		Asset:           strings.ToUpper(record[0]),
		Amount:          amount,
		HistoricalPrice: price,
		Currency:        DefaultCurrency,
		Tags:            []string{},
		Date:            record[3],
		Type:            strings.ToLower(record[4]),
	}, nil
}
