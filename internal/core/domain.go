package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

const (
	EventTransfer EventType = "transfer"
	EventRollover EventType = "rollover"
	EventAdjust   EventType = "adjust"
)

// BufferName is the catch-all transfer target seeded by month initialization.
const BufferName = "General Buffer"

type (
	Frequency string
	EventType string

	// Category is a named spending bucket. Cap is an advisory ceiling used
	// only for warnings; Envelope is the monthly allocation. A nil Envelope
	// means the category does not participate in envelope budgeting.
	Category struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		Cap      *float64 `json:"cap"`
		Envelope *float64 `json:"envelope"`
	}

	// Transaction is a dated monetary event. Positive amounts are expenses.
	// Date is an ISO "YYYY-MM-DD" string so lexical order is chronological
	// order; all month-window comparisons rely on that.
	Transaction struct {
		ID         string  `json:"id"`
		Amount     float64 `json:"amount"`
		Date       string  `json:"date"`
		Note       string  `json:"note"`
		CategoryID string  `json:"categoryId"`
	}

	// CarryKey addresses one carried-forward balance: first-of-month date
	// string plus category id.
	CarryKey struct {
		Month      string `json:"month"`
		CategoryID string `json:"categoryId"`
	}

	// CarryRecord is the balance rolled into a month for a category before
	// current-month spending is subtracted. Absence means zero.
	CarryRecord struct {
		ID         string  `json:"id"`
		Month      string  `json:"month"`
		CategoryID string  `json:"categoryId"`
		Amount     float64 `json:"amount"`
	}

	// Event is one append-only audit entry for transfers, rollovers and
	// manual adjustments. Events are never mutated or deleted.
	Event struct {
		ID       string    `json:"id"`
		Date     time.Time `json:"date"`
		Type     EventType `json:"type"`
		FromName string    `json:"fromName"`
		ToName   string    `json:"toName"`
		Amount   float64   `json:"amount"`
		Note     string    `json:"note,omitempty"`
	}

	// RecurringItem is a template that materializes transactions whenever
	// Next falls on or before today.
	RecurringItem struct {
		Amount     float64   `json:"amount"`
		Next       string    `json:"next"`
		Freq       Frequency `json:"freq"`
		Note       string    `json:"note"`
		CategoryID string    `json:"categoryId"`
	}

	// FixedExpense is a named monthly obligation tracked outside the
	// transaction ledger (rent, insurance, ...).
	FixedExpense struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
		Paid   bool    `json:"paid"`
	}

	// BankAccount is a linked external account. APIURL is the sanitized
	// https endpoint the balance and transactions are fetched from; it is
	// stored but never exposed in listings.
	BankAccount struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		APIURL   string  `json:"apiUrl"`
		Balance  float64 `json:"balance"`
		LinkedAt string  `json:"linkedAt"`
	}

	// BankTransaction is one row fetched from a linked account, kept apart
	// from the manual ledger.
	BankTransaction struct {
		ID        string  `json:"id"`
		AccountID string  `json:"accountId"`
		Amount    float64 `json:"amount"`
		Date      string  `json:"date"`
		Note      string  `json:"note"`
	}

	// CreditCard mirrors BankAccount for linked cards.
	CreditCard struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		APIURL   string  `json:"apiUrl"`
		Balance  float64 `json:"balance"`
		LinkedAt string  `json:"linkedAt"`
	}

	// CardTransaction is one row fetched from a linked card.
	CardTransaction struct {
		ID     string  `json:"id"`
		CardID string  `json:"cardId"`
		Amount float64 `json:"amount"`
		Date   string  `json:"date"`
		Note   string  `json:"note"`
	}

	// Settings is the single budgeting configuration record. Fields absent
	// from the stored record fall back to Defaults on read.
	Settings struct {
		MonthlyBudget float64         `json:"monthlyBudget"`
		StartDay      int             `json:"startDay"`
		EnvEnabled    bool            `json:"envEnabled"`
		EnvAuto       bool            `json:"envAuto"`
		EnvRollover   bool            `json:"envRollover"`
		EnvHardBlock  bool            `json:"envHardBlock"`
		Quiet         bool            `json:"quiet"`
		QStart        int             `json:"qStart"`
		QEnd          int             `json:"qEnd"`
		Recurring     []RecurringItem `json:"recurring"`
	}
)

// DefaultSettings returns the hard-coded configuration defaults merged under
// any user-set fields on read.
func DefaultSettings() Settings {
	return Settings{
		MonthlyBudget: 2000,
		StartDay:      1,
		EnvEnabled:    true,
		EnvAuto:       true,
		EnvRollover:   false,
		EnvHardBlock:  false,
		Quiet:         true,
		QStart:        22,
		QEnd:          7,
	}
}

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidFreq   = errors.New("invalid frequency")

	// ErrSameCategory and ErrInsufficientFunds reject fund transfers.
	ErrSameCategory      = errors.New("source and destination are the same category")
	ErrInsufficientFunds = errors.New("not enough remaining in source envelope")

	// ErrEnvelopeBlocked is a policy rejection: the caller should redirect
	// the user into the fund-transfer flow, not treat it as a fault.
	ErrEnvelopeBlocked = errors.New("transaction would overspend the envelope")

	// ErrConfirmRequired means the overspend needs explicit confirmation
	// before the transaction is accepted.
	ErrConfirmRequired = errors.New("overspend requires confirmation")
)

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (t Transaction) Validate() error {
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (r RecurringItem) Validate() error {
	if _, err := time.Parse(DateLayout, r.Next); err != nil {
		return ErrInvalidDate
	}
	switch r.Freq {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return ErrInvalidFreq
	}
	return nil
}

// IsQuietHour reports whether now falls in the configured quiet window.
// The window is [QStart, QEnd) on the hour and wraps midnight when
// QStart > QEnd (22 -> 7 spans 22:00 through 06:59).
func IsQuietHour(now time.Time, s Settings) bool {
	if !s.Quiet {
		return false
	}
	h := now.Hour()
	if s.QStart <= s.QEnd {
		return h >= s.QStart && h < s.QEnd
	}
	return h >= s.QStart || h < s.QEnd
}
