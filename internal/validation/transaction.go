package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

// ValidTransactionType contains the transaction types accepted over the API.
var ValidTransactionType = map[string]bool{
	model.TypeBuy: true, model.TypeSell: true,
}

// NormalizeTransaction checks the values of a transaction payload and
// rewrites them in canonical form: asset and currency upper-cased, type
// lower-cased, text trimmed.
//
// Only values that are present and of the expected JSON type are checked.
// Missing keys and values of the wrong type are left for the repository,
// which reports them as schema or type mismatches.
//
// Checked fields:
//   - asset: must not be empty
//   - amount, historical_price: must not be negative
//   - currency: must be an ISO 4217 code
//   - date: must be YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or RFC3339
//   - type: must be buy or sell
//   - asset, tags: plain text; values carrying HTML markup are rejected, not rewritten
//
// Returns a validation Error with field-specific error messages if validation fails.
func NormalizeTransaction(doc store.Document) error {
	errors := make(map[string]string)

	if asset, ok := doc.String("asset"); ok {
		asset, plain := PlainText(asset)
		switch {
		case asset == "":
			errors["asset"] = "asset is required"
		case !plain:
			errors["asset"] = "asset " + markupMessage
		default:
			setString(doc, "asset", strings.ToUpper(asset))
		}
	}

	for _, key := range []string{"amount", "historical_price"} {
		if d, ok := decimalField(doc, key); ok && d.IsNegative() {
			errors[key] = key + " must not be negative"
		}
	}

	if currency, ok := doc.String("currency"); ok {
		code := strings.ToUpper(strings.TrimSpace(currency))
		if money.GetCurrency(code) == nil {
			errors["currency"] = fmt.Sprintf("unknown currency: %s", currency)
		} else {
			setString(doc, "currency", code)
		}
	}

	if date, ok := doc.String("date"); ok {
		if _, err := ParseDate(strings.TrimSpace(date)); err != nil {
			errors["date"] = err.Error()
		} else {
			setString(doc, "date", strings.TrimSpace(date))
		}
	}

	if typ, ok := doc.String("type"); ok {
		typ = strings.ToLower(strings.TrimSpace(typ))
		if typ == "" {
			errors["type"] = "type is required"
		} else if !ValidTransactionType[typ] {
			errors["type"] = fmt.Sprintf("invalid type: %s", typ)
		} else {
			setString(doc, "type", typ)
		}
	}

	if raw, ok := doc["tags"]; ok {
		var tags []string
		if err := json.Unmarshal(raw, &tags); err == nil && tags != nil {
			for i := range tags {
				tag, plain := PlainText(tags[i])
				if !plain {
					errors["tags"] = "tags " + markupMessage
					break
				}
				tags[i] = tag
			}
			_ = doc.Set("tags", tags)
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

func decimalField(doc store.Document, key string) (decimal.Decimal, bool) {
	raw, ok := doc[key]
	if !ok {
		return decimal.Decimal{}, false
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func setString(doc store.Document, key, value string) {
	// Marshalling a string cannot fail.
	_ = doc.Set(key, value)
}
