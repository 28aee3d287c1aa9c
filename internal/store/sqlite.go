package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
)

// SQLiteCollection stores documents of one collection in the document table.
type SQLiteCollection struct {
	db   *sql.DB
	name string
}

// NewCollection returns the collection with the given name backed by db.
func NewCollection(db *sql.DB, name string) *SQLiteCollection {
	return &SQLiteCollection{db: db, name: name}
}

// Name returns the collection name.
func (c *SQLiteCollection) Name() string {
	return c.name
}

// Create inserts doc under a freshly generated identifier and returns it.
// The document must not carry its own IDField.
func (c *SQLiteCollection) Create(ctx context.Context, doc Document) (uuid.UUID, error) {
	if doc == nil {
		return uuid.Nil, fmt.Errorf("%w: document is nil", apperrors.ErrTypeMismatch)
	}
	if _, ok := doc[IDField]; ok {
		return uuid.Nil, fmt.Errorf("%w: new document must not carry %s", apperrors.ErrSchemaMismatch, IDField)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode document: %w", err)
	}

	id := NewID()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO document (id, collection, body) VALUES (?, ?, ?)`,
		id.String(), c.name, string(body),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return uuid.Nil, fmt.Errorf("%w: %v", apperrors.ErrDuplicateEntry, err)
		}
		return uuid.Nil, fmt.Errorf("failed to insert into %s: %w", c.name, err)
	}

	return id, nil
}

// GetByID returns the document with the given identifier, or nil when absent.
func (c *SQLiteCollection) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	var rowID, body string
	err := c.db.QueryRowContext(ctx,
		`SELECT id, body FROM document WHERE collection = ? AND id = ?`,
		c.name, id.String(),
	).Scan(&rowID, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.name, err)
	}

	return c.decodeRow(rowID, body)
}

// GetAll returns every document matching all conditions, in insertion order.
func (c *SQLiteCollection) GetAll(ctx context.Context, conds ...Condition) ([]Document, error) {
	query := `SELECT id, body FROM document WHERE collection = ?`
	args := []any{c.name}

	for _, cond := range conds {
		clause, clauseArgs, err := conditionSQL(cond)
		if err != nil {
			return nil, err
		}
		query += " AND " + clause
		args = append(args, clauseArgs...)
	}
	query += " ORDER BY rowid ASC"

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.name, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var rowID, body string
		if err := rows.Scan(&rowID, &body); err != nil {
			return nil, fmt.Errorf("failed to scan %s results: %w", c.name, err)
		}
		doc, err := c.decodeRow(rowID, body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", c.name, err)
	}

	return docs, nil
}

// GetAllByKey returns every document whose key equals value.
func (c *SQLiteCollection) GetAllByKey(ctx context.Context, key string, value any) ([]Document, error) {
	return c.GetAll(ctx, Eq(key, value))
}

// UpdateByID merges fields into the stored document. Keys not named in
// fields are left untouched.
func (c *SQLiteCollection) UpdateByID(ctx context.Context, id uuid.UUID, fields Document) (UpdateResult, error) {
	if _, ok := fields[IDField]; ok {
		return UpdateResult{}, fmt.Errorf("%w: %s is immutable", apperrors.ErrSchemaMismatch, IDField)
	}
	if fields == nil {
		fields = Document{}
	}

	patch, err := json.Marshal(fields)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to encode update: %w", err)
	}

	res, err := c.db.ExecContext(ctx,
		`UPDATE document SET body = json_patch(body, ?) WHERE collection = ? AND id = ?`,
		string(patch), c.name, id.String(),
	)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to update %s: %w", c.name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to read update result: %w", err)
	}

	return UpdateResult{Updated: n > 0}, nil
}

// DeleteByID removes the document with the given identifier.
func (c *SQLiteCollection) DeleteByID(ctx context.Context, id uuid.UUID) (DeleteResult, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM document WHERE collection = ? AND id = ?`,
		c.name, id.String(),
	)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to delete from %s: %w", c.name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to read delete result: %w", err)
	}

	return DeleteResult{DeletedCount: n}, nil
}

func (c *SQLiteCollection) decodeRow(rowID, body string) (Document, error) {
	doc, err := Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("corrupt document %s in %s: %w", rowID, c.name, err)
	}
	if err := doc.Set(IDField, rowID); err != nil {
		return nil, err
	}
	return doc, nil
}

// conditionSQL renders one condition as a WHERE fragment. The key is
// validated before it is written into the JSON path, so the expression
// matches the indexes created by the migrations.
func conditionSQL(cond Condition) (string, []any, error) {
	if err := ValidateKey(cond.Key); err != nil {
		return "", nil, err
	}
	value := bindValue(cond.Value)

	if cond.Key == IDField {
		if cond.Contains {
			return "", nil, fmt.Errorf("%w: %s is not an array", apperrors.ErrInvalidKey, IDField)
		}
		return "id = ?", []any{value}, nil
	}

	path := "'$." + cond.Key + "'"
	if cond.Contains {
		return "EXISTS (SELECT 1 FROM json_each(body, " + path + ") AS elem WHERE elem.value = ?)", []any{value}, nil
	}
	return "json_extract(body, " + path + ") = ?", []any{value}, nil
}

func bindValue(v any) any {
	switch val := v.(type) {
	case fmt.Stringer:
		return val.String()
	case bool:
		// json_extract yields 1/0 for JSON booleans.
		if val {
			return 1
		}
		return 0
	default:
		return v
	}
}
