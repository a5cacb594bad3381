// Package ledger provides typed accessors over the generic record store:
// category book, transaction ledger, carry ledger, event log, settings
// registry and the persisted diagnostic log.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"buste/internal/core"
	"buste/internal/store"

	"github.com/google/uuid"
)

type CategoryBook struct {
	store store.Store
}

func NewCategoryBook(s store.Store) *CategoryBook {
	return &CategoryBook{store: s}
}

// Upsert creates or replaces a category and returns its id.
func (b *CategoryBook) Upsert(ctx context.Context, c core.Category) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	rec, err := store.Encode(c)
	if err != nil {
		return "", err
	}
	if err := b.store.Put(ctx, store.Categories, rec); err != nil {
		return "", fmt.Errorf("upsert category: %w", err)
	}
	slog.DebugContext(ctx, "Category saved", "id", c.ID, "name", c.Name)
	return c.ID, nil
}

// Delete removes a category. Transactions referencing it are left in place
// and degrade to an uncategorized display.
func (b *CategoryBook) Delete(ctx context.Context, id string) error {
	if err := b.store.Del(ctx, store.Categories, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// List returns all categories sorted by name.
func (b *CategoryBook) List(ctx context.Context) ([]core.Category, error) {
	recs, err := b.store.All(ctx, store.Categories)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, 0, len(recs))
	for _, rec := range recs {
		var c core.Category
		if err := store.Decode(rec, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Find returns the category with the given id, or nil when unknown.
func (b *CategoryBook) Find(ctx context.Context, id string) (*core.Category, error) {
	rec, err := b.store.Get(ctx, store.Categories, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	var c core.Category
	if err := store.Decode(rec, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByName returns the first category with a matching display name, or nil.
// Names are not enforced unique; first match wins.
func (b *CategoryBook) FindByName(ctx context.Context, name string) (*core.Category, error) {
	cats, err := b.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].Name == name {
			return &cats[i], nil
		}
	}
	return nil, nil
}

// NameOf resolves a category id to its display name, falling back to
// "Uncategorized" for empty or orphaned references.
func (b *CategoryBook) NameOf(ctx context.Context, id string) string {
	if strings.TrimSpace(id) == "" {
		return "Uncategorized"
	}
	c, err := b.Find(ctx, id)
	if err != nil || c == nil {
		return "Uncategorized"
	}
	return c.Name
}
