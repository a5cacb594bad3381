package ledger

import (
	"context"
	"fmt"

	"buste/internal/core"
	"buste/internal/store"
)

const settingsID = "settings"

// SettingsRegistry holds the single budgeting configuration record. Reads
// merge the stored fields over the hard-coded defaults, so a fresh store
// behaves as if the defaults had been saved.
type SettingsRegistry struct {
	store store.Store
}

func NewSettingsRegistry(s store.Store) *SettingsRegistry {
	return &SettingsRegistry{store: s}
}

func (r *SettingsRegistry) Get(ctx context.Context) (core.Settings, error) {
	s := core.DefaultSettings()
	rec, err := r.store.Get(ctx, store.Settings, settingsID)
	if err != nil {
		return s, fmt.Errorf("get settings: %w", err)
	}
	if rec == nil {
		return s, nil
	}
	// Decoding over the defaults keeps them for fields the record omits.
	if err := store.Decode(rec, &s); err != nil {
		return core.DefaultSettings(), err
	}
	return s, nil
}

func (r *SettingsRegistry) Save(ctx context.Context, s core.Settings) error {
	rec, err := store.Encode(s)
	if err != nil {
		return err
	}
	rec["id"] = settingsID
	if err := r.store.Put(ctx, store.Settings, rec); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
