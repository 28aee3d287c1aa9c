package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Portfolio is the aggregate view of a set of transactions.
// It is derived on every request and never stored.
type Portfolio struct {
	Investment decimal.Decimal `json:"investment"` // Sum of per-asset investment
	Assets     Assets          `json:"assets"`
}

// AssetMeta holds the computed figures for one asset.
type AssetMeta struct {
	Amount       decimal.Decimal `json:"amount"`        // Net held amount
	Investment   decimal.Decimal `json:"investment"`    // Capital spent on buys
	AveragePrice decimal.Decimal `json:"average_price"` // Investment / Amount, or 0 when nothing is held
}

// AssetPosition groups the transactions of one asset with their computed figures.
type AssetPosition struct {
	Meta         AssetMeta     `json:"meta"`
	Transactions []Transaction `json:"transactions"`
	Market       *MarketData   `json:"market,omitempty"`
}

// Assets maps asset symbols to positions and remembers the order in which
// symbols were first added. It marshals as a JSON object in that order.
type Assets struct {
	symbols   []string
	positions map[string]*AssetPosition
}

// Get returns the position for symbol.
func (a *Assets) Get(symbol string) (*AssetPosition, bool) {
	pos, ok := a.positions[symbol]
	return pos, ok
}

// Ensure returns the position for symbol, creating an empty one at the end if needed.
func (a *Assets) Ensure(symbol string) *AssetPosition {
	if pos, ok := a.positions[symbol]; ok {
		return pos
	}
	if a.positions == nil {
		a.positions = make(map[string]*AssetPosition)
	}
	pos := &AssetPosition{Transactions: []Transaction{}}
	a.positions[symbol] = pos
	a.symbols = append(a.symbols, symbol)
	return pos
}

// Symbols returns the symbols in first-seen order.
func (a *Assets) Symbols() []string {
	out := make([]string, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Len returns the number of assets.
func (a *Assets) Len() int {
	return len(a.symbols)
}

// MarshalJSON writes the positions as an object keyed by symbol.
func (a Assets) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, symbol := range a.symbols {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(symbol)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.positions[symbol])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by symbol, keeping the key order.
func (a *Assets) UnmarshalJSON(data []byte) error {
	*a = Assets{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("assets must be a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		symbol, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected asset key %v", tok)
		}
		pos := a.Ensure(symbol)
		if err := dec.Decode(pos); err != nil {
			return fmt.Errorf("failed to decode asset %s: %w", symbol, err)
		}
	}

	_, err = dec.Token()
	return err
}
