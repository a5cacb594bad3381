// Package envelope implements the budgeting engine: remaining-balance
// computation, month initialization with optional rollover, fund transfers
// between envelopes, and the overspend policy applied at transaction entry.
package envelope

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"buste/internal/core"
	"buste/internal/ledger"
)

// Engine coordinates the carry ledger, transaction ledger and event log.
// All collaborators are passed in explicitly; the engine keeps no ambient
// state beyond its own mutex.
//
// The mutex serializes MonthInit and MoveFunds so the check-then-act month
// guard and the two-sided carry update are atomic within the process.
// Deployments share the store between processes only with a single writer.
type Engine struct {
	mu sync.Mutex

	settings *ledger.SettingsRegistry
	cats     *ledger.CategoryBook
	txs      *ledger.TransactionLedger
	carry    *ledger.CarryLedger
	events   *ledger.EventLog
	diag     *ledger.DiagLog
}

func New(
	settings *ledger.SettingsRegistry,
	cats *ledger.CategoryBook,
	txs *ledger.TransactionLedger,
	carry *ledger.CarryLedger,
	events *ledger.EventLog,
	diag *ledger.DiagLog,
) *Engine {
	return &Engine{
		settings: settings,
		cats:     cats,
		txs:      txs,
		carry:    carry,
		events:   events,
		diag:     diag,
	}
}

// Remaining computes the envelope balance left for a category in the month
// containing now: allocation + carry - spend inside [monthStart, nextMonth).
// Unknown categories yield zero. Pure read, no side effects.
func (e *Engine) Remaining(ctx context.Context, categoryID string, now time.Time) (float64, error) {
	cat, err := e.cats.Find(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	if cat == nil {
		return 0, nil
	}

	start, end := core.MonthStart(now), core.NextMonthStart(now)
	carry, err := e.carry.Get(ctx, core.CarryKey{Month: start, CategoryID: categoryID})
	if err != nil {
		return 0, err
	}
	spent, err := e.txs.SumCategoryWindow(ctx, categoryID, start, end)
	if err != nil {
		return 0, err
	}

	var alloc float64
	if cat.Envelope != nil {
		alloc = *cat.Envelope
	}
	return alloc + carry - spent, nil
}

// MonthInit seeds carry records for the month containing now. It runs only
// when envelope budgeting and auto-init are both enabled, and at most once
// per calendar month: the presence of any carry record for the month makes
// re-invocation a no-op.
func (e *Engine) MonthInit(ctx context.Context, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !s.EnvEnabled || !s.EnvAuto {
		return nil
	}

	start := core.MonthStart(now)
	seeded, err := e.carry.HasMonth(ctx, start)
	if err != nil {
		return err
	}
	if seeded {
		slog.DebugContext(ctx, "Month already initialized", "month", start)
		return nil
	}

	buffer, err := e.EnsureBuffer(ctx)
	if err != nil {
		return err
	}
	bufferKey := core.CarryKey{Month: start, CategoryID: buffer.ID}
	existing, err := e.carry.Get(ctx, bufferKey)
	if err != nil {
		return err
	}
	if err := e.carry.Set(ctx, bufferKey, existing); err != nil {
		return err
	}

	cats, err := e.cats.List(ctx)
	if err != nil {
		return err
	}

	if s.EnvRollover {
		prev := core.PrevMonthStart(now)
		for _, c := range cats {
			if c.Envelope == nil {
				continue
			}
			spent, err := e.txs.SumCategoryWindow(ctx, c.ID, prev, start)
			if err != nil {
				return err
			}
			leftover := *c.Envelope - spent
			if leftover < 0 {
				leftover = 0
			}
			if err := e.carry.Set(ctx, core.CarryKey{Month: start, CategoryID: c.ID}, leftover); err != nil {
				return err
			}
			if leftover > 0 {
				err := e.events.Append(ctx, core.Event{
					Type:     core.EventRollover,
					FromName: c.Name,
					ToName:   c.Name,
					Amount:   leftover,
					Note:     "Rollover into new month",
				})
				if err != nil {
					return err
				}
			}
		}
	} else {
		// Explicit reset to zero, not leave-absent, so the month counts as
		// initialized for every enveloped category.
		for _, c := range cats {
			if c.Envelope == nil {
				continue
			}
			if err := e.carry.Set(ctx, core.CarryKey{Month: start, CategoryID: c.ID}, 0); err != nil {
				return err
			}
		}
	}

	slog.InfoContext(ctx, "Month initialized",
		"month", start,
		"rollover", s.EnvRollover,
		"categories", len(cats))
	return e.diag.Add(ctx, "Month initialized")
}

// MoveFunds transfers amount from one envelope's current-month carry to
// another's. It returns false without any mutation when the source equals
// the destination, the amount is not positive, or the amount exceeds the
// source's remaining balance. Total carry across categories is unchanged.
func (e *Engine) MoveFunds(ctx context.Context, fromID, toID string, amount float64, now time.Time) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if fromID == toID {
		return false, core.ErrSameCategory
	}
	if amount <= 0 {
		return false, core.ErrInvalidAmount
	}

	rem, err := e.Remaining(ctx, fromID, now)
	if err != nil {
		return false, err
	}
	if amount > rem {
		return false, core.ErrInsufficientFunds
	}

	start := core.MonthStart(now)
	fromKey := core.CarryKey{Month: start, CategoryID: fromID}
	toKey := core.CarryKey{Month: start, CategoryID: toID}

	fromCarry, err := e.carry.Get(ctx, fromKey)
	if err != nil {
		return false, err
	}
	toCarry, err := e.carry.Get(ctx, toKey)
	if err != nil {
		return false, err
	}

	if err := e.carry.Set(ctx, fromKey, fromCarry-amount); err != nil {
		return false, err
	}
	if err := e.carry.Set(ctx, toKey, toCarry+amount); err != nil {
		return false, err
	}

	fromName := e.cats.NameOf(ctx, fromID)
	toName := e.cats.NameOf(ctx, toID)
	err = e.events.Append(ctx, core.Event{
		Type:     core.EventTransfer,
		FromName: fromName,
		ToName:   toName,
		Amount:   amount,
	})
	if err != nil {
		return false, err
	}

	slog.InfoContext(ctx, "Funds moved",
		"from", fromName,
		"to", toName,
		"amount", amount,
		"month", start)
	if err := e.diag.Add(ctx, fmt.Sprintf("Moved %g from %s to %s", amount, fromName, toName)); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureBuffer returns the catch-all transfer category, creating it when
// absent. The buffer has no cap and no enforced envelope value.
func (e *Engine) EnsureBuffer(ctx context.Context) (*core.Category, error) {
	existing, err := e.cats.FindByName(ctx, core.BufferName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	id, err := e.cats.Upsert(ctx, core.Category{Name: core.BufferName})
	if err != nil {
		return nil, fmt.Errorf("create buffer category: %w", err)
	}
	return e.cats.Find(ctx, id)
}

// CheckSpend applies the overspend policy before a transaction is inserted.
// A nil return means the insertion may proceed. The transaction record
// itself never carries a trace of the outcome.
func (e *Engine) CheckSpend(ctx context.Context, t core.Transaction, confirmed bool, now time.Time) error {
	if t.CategoryID == "" {
		return nil
	}
	rem, err := e.Remaining(ctx, t.CategoryID, now)
	if err != nil {
		return err
	}
	if t.Amount <= rem {
		return nil
	}

	s, err := e.settings.Get(ctx)
	if err != nil {
		return err
	}
	if s.EnvHardBlock {
		return core.ErrEnvelopeBlocked
	}
	if core.IsQuietHour(now, s) {
		// Quiet hours suppress the confirmation prompt entirely.
		return nil
	}
	if confirmed {
		return nil
	}
	return core.ErrConfirmRequired
}
