// Package store defines the persistent store contract the budgeting core
// runs against: named collections of JSON-shaped records addressed by id.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names used by the application.
const (
	Settings         = "settings"
	Categories       = "categories"
	Transactions     = "transactions"
	Carry            = "carry"
	Events           = "events"
	Expenses         = "expenses"
	BankAccounts     = "bankAccounts"
	BankTransactions = "bankTransactions"
	CreditCards      = "creditCards"
	CardTransactions = "cardTransactions"
)

// Record is one stored document. Every record carries a string "id" field
// that is unique within its collection.
type Record = map[string]any

// ErrMissingID rejects puts of records without a usable id.
var ErrMissingID = errors.New("record has no id")

// Store is a generic persistent key-value store organized into named
// collections. Get returns nil without error when the id is unknown.
// Put upserts by id. Index returns the records whose named top-level field
// equals value.
type Store interface {
	Get(ctx context.Context, collection, id string) (Record, error)
	Put(ctx context.Context, collection string, rec Record) error
	Del(ctx context.Context, collection, id string) error
	All(ctx context.Context, collection string) ([]Record, error)
	Clear(ctx context.Context, collection string) error
	Index(ctx context.Context, collection, field string, value any) ([]Record, error)
}

// ID extracts the record id, or "" if absent.
func ID(rec Record) string {
	id, _ := rec["id"].(string)
	return id
}

// Encode converts a typed value into a Record via its JSON form.
func Encode(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// Decode fills a typed value from a Record via its JSON form.
func Decode(rec Record, v any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
