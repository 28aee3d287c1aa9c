package repository

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
)

// recordSchema is the exact key set of one collection's records.
type recordSchema struct {
	name string
	keys []string
}

// checkCreate requires doc to carry exactly the schema keys, none of them null.
func (s recordSchema) checkCreate(doc store.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: %s must be an object", apperrors.ErrTypeMismatch, s.name)
	}
	if len(doc) != len(s.keys) {
		return fmt.Errorf("%w: %s needs exactly %d fields, got %d", apperrors.ErrSchemaMismatch, s.name, len(s.keys), len(doc))
	}
	if err := s.checkKnown(doc, s.keys); err != nil {
		return err
	}
	return checkNotNull(doc)
}

// checkUpdate requires every key of doc to belong to the schema.
func (s recordSchema) checkUpdate(doc store.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: %s update must be an object", apperrors.ErrTypeMismatch, s.name)
	}
	if err := s.checkKnown(doc, s.keys); err != nil {
		return err
	}
	return checkNotNull(doc)
}

// checkStored requires doc to carry the identifier plus exactly the schema keys.
func (s recordSchema) checkStored(doc store.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: stored %s is not an object", apperrors.ErrTypeMismatch, s.name)
	}
	keys := append([]string{store.IDField}, s.keys...)
	if len(doc) != len(keys) {
		return fmt.Errorf("%w: stored %s has %d fields, want %d", apperrors.ErrSchemaMismatch, s.name, len(doc), len(keys))
	}
	return s.checkKnown(doc, keys)
}

func (s recordSchema) checkKnown(doc store.Document, allowed []string) error {
	var unknown []string
	for key := range doc {
		if !slices.Contains(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return fmt.Errorf("%w: unexpected %s fields: %s", apperrors.ErrSchemaMismatch, s.name, strings.Join(unknown, ", "))
	}
	return nil
}

func checkNotNull(doc store.Document) error {
	for key, raw := range doc {
		if strings.TrimSpace(string(raw)) == "null" {
			return fmt.Errorf("%w: %s must not be null", apperrors.ErrTypeMismatch, key)
		}
	}
	return nil
}

// checkOwnerID requires a present owner_id to be a string holding a valid identifier.
// The canonical form of the identifier is written back into doc.
func checkOwnerID(doc store.Document) error {
	if _, ok := doc["owner_id"]; !ok {
		return nil
	}
	raw, ok := doc.String("owner_id")
	if !ok {
		return fmt.Errorf("%w: owner_id must be a string", apperrors.ErrInvalidIdentifier)
	}
	id, err := store.ParseID(raw)
	if err != nil {
		return fmt.Errorf("owner_id: %w", err)
	}
	return doc.Set("owner_id", id.String())
}

// decodeInto decodes doc into the typed value v. Values that do not fit
// their declared field types are a type mismatch.
func decodeInto(doc store.Document, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTypeMismatch, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTypeMismatch, err)
	}
	return nil
}

// serialize converts a stored document into its external form. The
// identifier moves from store.IDField to "id".
func serialize[T any](s recordSchema, doc store.Document) (T, error) {
	var out T
	if err := s.checkStored(doc); err != nil {
		return out, err
	}
	id, ok := doc.String(store.IDField)
	if !ok {
		return out, fmt.Errorf("%w: %s identifier must be a string", apperrors.ErrTypeMismatch, s.name)
	}

	plain := doc.Clone()
	delete(plain, store.IDField)
	if err := plain.Set("id", id); err != nil {
		return out, err
	}
	if err := decodeInto(plain, &out); err != nil {
		return out, fmt.Errorf("%s %s: %w", s.name, id, err)
	}
	return out, nil
}

// serializeAll converts every document, returning a non-nil slice.
func serializeAll[T any](s recordSchema, docs []store.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := serialize[T](s, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
