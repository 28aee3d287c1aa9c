package model

import "github.com/shopspring/decimal"

// Transaction types. Anything other than TypeBuy reduces the held amount.
const (
	TypeBuy  = "buy"
	TypeSell = "sell"
)

// TransactionFields lists the keys a stored transaction carries besides its identifier.
var TransactionFields = []string{
	"owner_id",
	"asset",
	"amount",
	"historical_price",
	"currency",
	"tags",
	"date",
	"type",
}

// Transaction is a single ledger entry as returned to callers.
// Amounts are decimals and marshal as JSON strings.
type Transaction struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id"`
	Asset           string          `json:"asset"`
	Amount          decimal.Decimal `json:"amount"`
	HistoricalPrice decimal.Decimal `json:"historical_price"`
	Currency        string          `json:"currency"`
	Tags            []string        `json:"tags"`
	Date            string          `json:"date"`
	Type            string          `json:"type"`
}

// IsZero reports whether t is the empty "not found" value.
func (t Transaction) IsZero() bool {
	return t.ID == ""
}

// TransactionDraft holds the eight fields of a transaction that has not been stored yet.
type TransactionDraft struct {
	OwnerID         string          `json:"owner_id"`
	Asset           string          `json:"asset"`
	Amount          decimal.Decimal `json:"amount"`
	HistoricalPrice decimal.Decimal `json:"historical_price"`
	Currency        string          `json:"currency"`
	Tags            []string        `json:"tags"`
	Date            string          `json:"date"`
	Type            string          `json:"type"`
}

// TransactionPatch is a partial update. Nil fields are left untouched.
type TransactionPatch struct {
	OwnerID         *string          `json:"owner_id,omitempty"`
	Asset           *string          `json:"asset,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	HistoricalPrice *decimal.Decimal `json:"historical_price,omitempty"`
	Currency        *string          `json:"currency,omitempty"`
	Tags            *[]string        `json:"tags,omitempty"`
	Date            *string          `json:"date,omitempty"`
	Type            *string          `json:"type,omitempty"`
}
