package validation

import (
	"strings"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

// NormalizeWallet checks a wallet payload and rewrites it in canonical form.
// Both fields are trimmed plain text and must not be empty; the chain is lower-cased.
func NormalizeWallet(doc store.Document) error {
	errors := make(map[string]string)

	if address, ok := doc.String("address"); ok {
		address, plain := PlainText(address)
		switch {
		case address == "":
			errors["address"] = "address is required"
		case !plain:
			errors["address"] = "address " + markupMessage
		default:
			setString(doc, "address", address)
		}
	}

	if chain, ok := doc.String("chain"); ok {
		chain, plain := PlainText(chain)
		switch {
		case chain == "":
			errors["chain"] = "chain is required"
		case !plain:
			errors["chain"] = "chain " + markupMessage
		default:
			setString(doc, "chain", strings.ToLower(chain))
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
