// Package store provides generic document collections keyed by UUID.
// Repositories use it as an abstract record store: create, read, update and
// delete by identifier, plus lookups by field value or array membership.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
)

// IDField is the key under which a document read from a collection carries its identifier.
const IDField = "_id"

// Document is a record as the store sees it: a JSON object whose values are
// left undecoded. Documents read back from a collection include IDField.
type Document map[string]json.RawMessage

// UpdateResult reports whether an update matched an existing document.
type UpdateResult struct {
	Updated bool
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	DeletedCount int64
}

// Condition restricts a lookup to documents whose Key equals Value or,
// when Contains is set, whose Key is an array holding Value.
type Condition struct {
	Key      string
	Value    any
	Contains bool
}

// Eq matches documents whose key equals value.
func Eq(key string, value any) Condition {
	return Condition{Key: key, Value: value}
}

// Has matches documents whose key is an array containing value.
func Has(key string, value any) Condition {
	return Condition{Key: key, Value: value, Contains: true}
}

// Collection is a named set of documents.
//
// GetByID returns a nil Document and a nil error when no document matches.
// No call is atomic with any other call.
type Collection interface {
	Create(ctx context.Context, doc Document) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
	GetAll(ctx context.Context, conds ...Condition) ([]Document, error)
	GetAllByKey(ctx context.Context, key string, value any) ([]Document, error)
	UpdateByID(ctx context.Context, id uuid.UUID, fields Document) (UpdateResult, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (DeleteResult, error)
}

// ParseID builds an identifier from its external string form.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidIdentifier, s)
	}
	return id, nil
}

// NewID returns a fresh random identifier.
func NewID() uuid.UUID {
	return uuid.New()
}

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateKey checks that a field name can be used in a lookup.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidKey, key)
	}
	return nil
}

// Encode converts a struct with json tags into a Document.
func Encode(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTypeMismatch, err)
	}
	return doc, nil
}

// Decode parses raw JSON into a Document. Anything other than a JSON object
// is a type mismatch.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: record is not an object: %v", apperrors.ErrTypeMismatch, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: record is null", apperrors.ErrTypeMismatch)
	}
	return doc, nil
}

// DecodeList parses a JSON array of objects. A payload that is not an array
// is a type mismatch, as is any element that is not an object.
func DecodeList(data []byte) ([]Document, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: payload is not a list: %v", apperrors.ErrTypeMismatch, err)
	}
	if raws == nil {
		return nil, fmt.Errorf("%w: payload is null", apperrors.ErrTypeMismatch)
	}

	docs := make([]Document, 0, len(raws))
	for i, raw := range raws {
		doc, err := Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// String returns the raw JSON value for key as a Go string, if it is one.
func (d Document) String(key string) (string, bool) {
	raw, ok := d[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Set stores v under key, JSON encoded.
func (d Document) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	d[key] = data
	return nil
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
