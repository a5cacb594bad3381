package envelope

import (
	"context"
	"time"

	"buste/internal/core"
)

type (
	// CapWarning reports an advisory cap breach. Caps warn, never block.
	CapWarning struct {
		Name  string  `json:"name"`
		Spent float64 `json:"spent"`
		Cap   float64 `json:"cap"`
	}

	// EnvelopeRow is one category's month view. Enveloped marks categories
	// that participate in envelope budgeting; the others still show spend.
	EnvelopeRow struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		Enveloped bool    `json:"enveloped"`
		Allocated float64 `json:"allocated"`
		Carry     float64 `json:"carry"`
		Spent     float64 `json:"spent"`
		Remaining float64 `json:"remaining"`
	}

	// Summary is the month overview the dashboard shows.
	Summary struct {
		Month         string       `json:"month"`
		MonthlyBudget float64      `json:"monthlyBudget"`
		Spent         float64      `json:"spent"`
		Allocated     float64      `json:"allocated"`
		Remaining     float64      `json:"remaining"`
		Warnings      []CapWarning `json:"warnings"`
	}
)

// MonthSummary aggregates total spend against the monthly budget, envelope
// allocation and remaining totals, and cap warnings for the month of now.
func (e *Engine) MonthSummary(ctx context.Context, now time.Time) (Summary, error) {
	s, err := e.settings.Get(ctx)
	if err != nil {
		return Summary{}, err
	}
	start, end := core.MonthStart(now), core.NextMonthStart(now)

	spent, err := e.txs.SumWindow(ctx, start, end)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Month:         start,
		MonthlyBudget: s.MonthlyBudget,
		Spent:         spent,
	}

	rows, err := e.EnvelopeRows(ctx, now)
	if err != nil {
		return Summary{}, err
	}
	for _, r := range rows {
		if !r.Enveloped {
			continue
		}
		sum.Allocated += r.Allocated
		sum.Remaining += r.Remaining
	}

	warnings, err := e.CapWarnings(ctx, now)
	if err != nil {
		return Summary{}, err
	}
	sum.Warnings = warnings
	return sum, nil
}

// EnvelopeRows returns the per-category month view: allocation, carry,
// spend and remaining for every category.
func (e *Engine) EnvelopeRows(ctx context.Context, now time.Time) ([]EnvelopeRow, error) {
	cats, err := e.cats.List(ctx)
	if err != nil {
		return nil, err
	}
	start, end := core.MonthStart(now), core.NextMonthStart(now)

	rows := make([]EnvelopeRow, 0, len(cats))
	for _, c := range cats {
		spent, err := e.txs.SumCategoryWindow(ctx, c.ID, start, end)
		if err != nil {
			return nil, err
		}
		carry, err := e.carry.Get(ctx, core.CarryKey{Month: start, CategoryID: c.ID})
		if err != nil {
			return nil, err
		}
		var alloc float64
		if c.Envelope != nil {
			alloc = *c.Envelope
		}
		rows = append(rows, EnvelopeRow{
			ID:        c.ID,
			Name:      c.Name,
			Enveloped: c.Envelope != nil,
			Allocated: alloc,
			Carry:     carry,
			Spent:     spent,
			Remaining: alloc + carry - spent,
		})
	}
	return rows, nil
}

// CapWarnings lists the categories whose current-month spend exceeds their
// advisory cap.
func (e *Engine) CapWarnings(ctx context.Context, now time.Time) ([]CapWarning, error) {
	cats, err := e.cats.List(ctx)
	if err != nil {
		return nil, err
	}
	start, end := core.MonthStart(now), core.NextMonthStart(now)

	var warnings []CapWarning
	for _, c := range cats {
		if c.Cap == nil {
			continue
		}
		spent, err := e.txs.SumCategoryWindow(ctx, c.ID, start, end)
		if err != nil {
			return nil, err
		}
		if spent > *c.Cap {
			warnings = append(warnings, CapWarning{Name: c.Name, Spent: spent, Cap: *c.Cap})
		}
	}
	return warnings, nil
}
