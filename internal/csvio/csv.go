// Package csvio moves transactions in and out of the five-column CSV
// format: id,amount,date,note,category. Category travels by display name
// so exports stay readable and survive re-import on a fresh database.
package csvio

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"buste/internal/core"
	"buste/internal/ledger"

	"github.com/google/uuid"
)

const header = "id,amount,date,note,category"

type Porter struct {
	txs  *ledger.TransactionLedger
	cats *ledger.CategoryBook
}

func NewPorter(txs *ledger.TransactionLedger, cats *ledger.CategoryBook) *Porter {
	return &Porter{txs: txs, cats: cats}
}

// Export renders every transaction as CSV, newest first.
func (p *Porter) Export(ctx context.Context) (string, error) {
	all, err := p.txs.List(ctx)
	if err != nil {
		return "", fmt.Errorf("export transactions: %w", err)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteByte('\n')
	for _, t := range all {
		name := p.cats.NameOf(ctx, t.CategoryID)
		b.WriteString(quote(t.ID))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(t.Amount, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(t.Date)
		b.WriteByte(',')
		b.WriteString(quote(t.Note))
		b.WriteByte(',')
		b.WriteString(quote(name))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ImportResult reports what one import pass did.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import parses CSV text and appends the rows as transactions. Rows with an
// unparseable amount or date are skipped, not fatal. Unknown category names
// are created on the fly; blank ids get fresh ones.
func (p *Porter) Import(ctx context.Context, text string) (ImportResult, error) {
	var res ImportResult

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		if i == 0 && isHeader(fields) {
			continue
		}
		if len(fields) < 3 {
			res.Skipped++
			continue
		}

		id := strings.TrimSpace(fields[0])
		amount, ok := core.ParseAmount(fields[1])
		if !ok || amount == 0 {
			res.Skipped++
			continue
		}
		date := strings.TrimSpace(fields[2])
		if _, err := time.Parse(core.DateLayout, date); err != nil {
			res.Skipped++
			continue
		}

		var note, catName string
		if len(fields) > 3 {
			note = fields[3]
		}
		if len(fields) > 4 {
			catName = strings.TrimSpace(fields[4])
		}

		catID, err := p.resolveCategory(ctx, catName)
		if err != nil {
			return res, err
		}

		if id == "" {
			id = uuid.NewString()
		}
		t := core.Transaction{
			ID:         id,
			Amount:     amount,
			Date:       date,
			Note:       note,
			CategoryID: catID,
		}
		if _, err := p.txs.Append(ctx, t); err != nil {
			return res, fmt.Errorf("import row %d: %w", i+1, err)
		}
		res.Imported++
	}

	slog.InfoContext(ctx, "CSV import finished",
		"imported", res.Imported,
		"skipped", res.Skipped)
	return res, nil
}

// resolveCategory maps a display name to a category id, creating the
// category when it does not exist yet. "Uncategorized" and the empty name
// map to no category.
func (p *Porter) resolveCategory(ctx context.Context, name string) (string, error) {
	if name == "" || name == "Uncategorized" {
		return "", nil
	}
	c, err := p.cats.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	if c != nil {
		return c.ID, nil
	}
	id, err := p.cats.Upsert(ctx, core.Category{Name: name})
	if err != nil {
		return "", fmt.Errorf("create category %q: %w", name, err)
	}
	return id, nil
}

func isHeader(fields []string) bool {
	return len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "id")
}

// quote wraps a field in double quotes when it contains a comma, quote or
// newline, doubling embedded quotes.
func quote(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// splitLine splits one CSV line on commas outside double quotes. A doubled
// quote inside a quoted field decodes to a literal quote.
func splitLine(line string) []string {
	var (
		fields []string
		field  strings.Builder
		quoted bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if quoted && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				quoted = !quoted
			}
		case ch == ',' && !quoted:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(ch)
		}
	}
	fields = append(fields, field.String())
	return fields
}
