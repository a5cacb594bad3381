package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"buste/internal/store"
)

// Backup is a full snapshot of the user-editable collections. Records are
// carried verbatim, ids included, so a restore reproduces the exact state.
type Backup struct {
	Settings     []store.Record `json:"settings"`
	Categories   []store.Record `json:"categories"`
	Transactions []store.Record `json:"transactions"`
	Expenses     []store.Record `json:"expenses"`
	Timestamp    time.Time      `json:"timestamp"`
}

type BackupService struct {
	store store.Store
}

func NewBackupService(s store.Store) *BackupService {
	return &BackupService{store: s}
}

// Create snapshots settings, categories, transactions and fixed expenses.
func (b *BackupService) Create(ctx context.Context) (*Backup, error) {
	out := &Backup{Timestamp: time.Now().UTC()}

	var err error
	if out.Settings, err = b.store.All(ctx, store.Settings); err != nil {
		return nil, fmt.Errorf("backup settings: %w", err)
	}
	if out.Categories, err = b.store.All(ctx, store.Categories); err != nil {
		return nil, fmt.Errorf("backup categories: %w", err)
	}
	if out.Transactions, err = b.store.All(ctx, store.Transactions); err != nil {
		return nil, fmt.Errorf("backup transactions: %w", err)
	}
	if out.Expenses, err = b.store.All(ctx, store.Expenses); err != nil {
		return nil, fmt.Errorf("backup expenses: %w", err)
	}
	return out, nil
}

// Load restores a snapshot destructively: each covered collection is cleared
// and refilled with the snapshot's records. No cross-referential validation
// is applied; a restored transaction may reference a category the snapshot
// does not contain, and displays as uncategorized.
func (b *BackupService) Load(ctx context.Context, backup *Backup) error {
	sets := []struct {
		collection string
		records    []store.Record
	}{
		{store.Settings, backup.Settings},
		{store.Categories, backup.Categories},
		{store.Transactions, backup.Transactions},
		{store.Expenses, backup.Expenses},
	}

	for _, set := range sets {
		if err := b.store.Clear(ctx, set.collection); err != nil {
			return fmt.Errorf("clear %s: %w", set.collection, err)
		}
		for _, rec := range set.records {
			if err := b.store.Put(ctx, set.collection, rec); err != nil {
				return fmt.Errorf("restore %s record: %w", set.collection, err)
			}
		}
	}

	slog.InfoContext(ctx, "Backup restored",
		"settings", len(backup.Settings),
		"categories", len(backup.Categories),
		"transactions", len(backup.Transactions),
		"expenses", len(backup.Expenses),
		"taken_at", backup.Timestamp)
	return nil
}
