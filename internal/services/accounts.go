package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"buste/internal/store"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrInsecureURL rejects bank API endpoints that are not plain https.
var ErrInsecureURL = errors.New("bank API URL must be https")

// ErrUnknownAccount is returned for fetch or unlink of an id that is not
// linked.
var ErrUnknownAccount = errors.New("unknown linked account")

// Doer is the outbound HTTP dependency, injected so tests can stub the bank.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// assetKind names the collections for one family of linked assets. Bank
// accounts and credit cards share shape and behavior and differ only here.
type assetKind struct {
	assets     string
	rows       string
	ownerField string
	label      string
}

var (
	bankKind = assetKind{store.BankAccounts, store.BankTransactions, "accountId", "bank account"}
	cardKind = assetKind{store.CreditCards, store.CardTransactions, "cardId", "credit card"}
)

// LinkedAsset is a stored bank account or credit card. The API URL stays
// internal; listings use AssetView.
type LinkedAsset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	APIURL   string  `json:"apiUrl"`
	Balance  float64 `json:"balance"`
	LinkedAt string  `json:"linkedAt"`
}

// AssetView is the listing shape: everything except the stored API URL.
type AssetView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Balance  float64 `json:"balance"`
	LinkedAt string  `json:"linkedAt"`
}

// FetchResult reports one refresh of a linked asset.
type FetchResult struct {
	Balance  float64 `json:"balance"`
	Inserted int     `json:"inserted"`
	Skipped  int     `json:"skipped"`
}

// AccountService manages linked bank accounts and credit cards: linking,
// fetching balances and transactions, and unlinking with cascade.
type AccountService struct {
	store  store.Store
	client Doer
	now    func() time.Time
}

func NewAccountService(s store.Store, client Doer) *AccountService {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &AccountService{store: s, client: client, now: time.Now}
}

// SanitizeBankAPIURL normalizes a bank endpoint: https only, with embedded
// credentials, query and fragment stripped before the URL is stored.
func SanitizeBankAPIURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse bank API URL: %w", err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return "", ErrInsecureURL
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// LookupBankAPI resolves a bank's API endpoint from its domain via the
// /.well-known/bank-api.json convention.
func (a *AccountService) LookupBankAPI(ctx context.Context, domain string) (string, error) {
	wellKnown := fmt.Sprintf("https://%s/.well-known/bank-api.json", domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wellKnown, nil)
	if err != nil {
		return "", fmt.Errorf("build lookup request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("lookup bank API for %s: %w", domain, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup bank API for %s: status %d", domain, resp.StatusCode)
	}

	var doc struct {
		APIURL string `json:"apiUrl"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode well-known document: %w", err)
	}
	return SanitizeBankAPIURL(doc.APIURL)
}

func (a *AccountService) LinkBankAccount(ctx context.Context, name, rawURL string) (AssetView, error) {
	return a.link(ctx, bankKind, name, rawURL)
}

func (a *AccountService) LinkCreditCard(ctx context.Context, name, rawURL string) (AssetView, error) {
	return a.link(ctx, cardKind, name, rawURL)
}

func (a *AccountService) FetchBankAccount(ctx context.Context, id string) (FetchResult, error) {
	return a.fetch(ctx, bankKind, id)
}

func (a *AccountService) FetchCreditCard(ctx context.Context, id string) (FetchResult, error) {
	return a.fetch(ctx, cardKind, id)
}

func (a *AccountService) UnlinkBankAccount(ctx context.Context, id string) error {
	return a.unlink(ctx, bankKind, id)
}

func (a *AccountService) UnlinkCreditCard(ctx context.Context, id string) error {
	return a.unlink(ctx, cardKind, id)
}

func (a *AccountService) ListBankAccounts(ctx context.Context) ([]AssetView, error) {
	return a.list(ctx, bankKind)
}

func (a *AccountService) ListCreditCards(ctx context.Context) ([]AssetView, error) {
	return a.list(ctx, cardKind)
}

// BankTransactions lists the fetched rows for one linked account.
func (a *AccountService) BankTransactions(ctx context.Context, accountID string) ([]store.Record, error) {
	return a.store.Index(ctx, store.BankTransactions, "accountId", accountID)
}

// CardTransactions lists the fetched rows for one linked card.
func (a *AccountService) CardTransactions(ctx context.Context, cardID string) ([]store.Record, error) {
	return a.store.Index(ctx, store.CardTransactions, "cardId", cardID)
}

// RefreshAll fetches every linked account and card concurrently. The first
// failure cancels the rest.
func (a *AccountService) RefreshAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, kind := range []assetKind{bankKind, cardKind} {
		recs, err := a.store.All(ctx, kind.assets)
		if err != nil {
			return fmt.Errorf("list %ss: %w", kind.label, err)
		}
		for _, rec := range recs {
			kind, id := kind, store.ID(rec)
			g.Go(func() error {
				_, err := a.fetch(ctx, kind, id)
				if err != nil {
					return fmt.Errorf("refresh %s %s: %w", kind.label, id, err)
				}
				return nil
			})
		}
	}
	return g.Wait()
}

func (a *AccountService) link(ctx context.Context, kind assetKind, name, rawURL string) (AssetView, error) {
	apiURL, err := SanitizeBankAPIURL(rawURL)
	if err != nil {
		return AssetView{}, err
	}
	asset := LinkedAsset{
		ID:       uuid.NewString(),
		Name:     name,
		APIURL:   apiURL,
		LinkedAt: a.now().UTC().Format(time.RFC3339),
	}
	rec, err := store.Encode(asset)
	if err != nil {
		return AssetView{}, err
	}
	if err := a.store.Put(ctx, kind.assets, rec); err != nil {
		return AssetView{}, fmt.Errorf("link %s: %w", kind.label, err)
	}
	slog.InfoContext(ctx, "Linked external asset",
		"kind", kind.label,
		"id", asset.ID,
		"name", asset.Name)
	return AssetView{ID: asset.ID, Name: asset.Name, LinkedAt: asset.LinkedAt}, nil
}

// fetch pulls the asset's feed, updates the stored balance and inserts the
// feed's transactions. Rows whose id already exists are left untouched, so
// repeated fetches never duplicate; rows without an id get a generated one
// and always insert.
func (a *AccountService) fetch(ctx context.Context, kind assetKind, id string) (FetchResult, error) {
	rec, err := a.store.Get(ctx, kind.assets, id)
	if err != nil {
		return FetchResult{}, fmt.Errorf("get %s: %w", kind.label, err)
	}
	if rec == nil {
		return FetchResult{}, ErrUnknownAccount
	}
	var asset LinkedAsset
	if err := store.Decode(rec, &asset); err != nil {
		return FetchResult{}, err
	}

	feed, err := a.loadFeed(ctx, asset.APIURL)
	if err != nil {
		return FetchResult{}, err
	}

	asset.Balance = feed.Balance
	updated, err := store.Encode(asset)
	if err != nil {
		return FetchResult{}, err
	}
	if err := a.store.Put(ctx, kind.assets, updated); err != nil {
		return FetchResult{}, fmt.Errorf("update %s balance: %w", kind.label, err)
	}

	res := FetchResult{Balance: feed.Balance}
	for _, row := range feed.Transactions {
		rowID := row.ID
		if rowID == "" {
			rowID = uuid.NewString()
		} else {
			existing, err := a.store.Get(ctx, kind.rows, rowID)
			if err != nil {
				return res, fmt.Errorf("check fetched row: %w", err)
			}
			if existing != nil {
				res.Skipped++
				continue
			}
		}
		rec := store.Record{
			"id":            rowID,
			kind.ownerField: id,
			"amount":        row.Amount,
			"date":          row.Date,
			"note":          row.Note,
		}
		if err := a.store.Put(ctx, kind.rows, rec); err != nil {
			return res, fmt.Errorf("insert fetched row: %w", err)
		}
		res.Inserted++
	}

	slog.InfoContext(ctx, "Fetched external asset",
		"kind", kind.label,
		"id", id,
		"balance", feed.Balance,
		"inserted", res.Inserted,
		"skipped", res.Skipped)
	return res, nil
}

// unlink removes the asset and cascades over its fetched transactions.
func (a *AccountService) unlink(ctx context.Context, kind assetKind, id string) error {
	rec, err := a.store.Get(ctx, kind.assets, id)
	if err != nil {
		return fmt.Errorf("get %s: %w", kind.label, err)
	}
	if rec == nil {
		return ErrUnknownAccount
	}

	rows, err := a.store.Index(ctx, kind.rows, kind.ownerField, id)
	if err != nil {
		return fmt.Errorf("list fetched rows: %w", err)
	}
	for _, row := range rows {
		if err := a.store.Del(ctx, kind.rows, store.ID(row)); err != nil {
			return fmt.Errorf("delete fetched row: %w", err)
		}
	}
	if err := a.store.Del(ctx, kind.assets, id); err != nil {
		return fmt.Errorf("unlink %s: %w", kind.label, err)
	}

	slog.InfoContext(ctx, "Unlinked external asset",
		"kind", kind.label,
		"id", id,
		"rows_removed", len(rows))
	return nil
}

func (a *AccountService) list(ctx context.Context, kind assetKind) ([]AssetView, error) {
	recs, err := a.store.All(ctx, kind.assets)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind.label, err)
	}
	out := make([]AssetView, 0, len(recs))
	for _, rec := range recs {
		var asset LinkedAsset
		if err := store.Decode(rec, &asset); err != nil {
			return nil, err
		}
		out = append(out, AssetView{
			ID:       asset.ID,
			Name:     asset.Name,
			Balance:  asset.Balance,
			LinkedAt: asset.LinkedAt,
		})
	}
	return out, nil
}

type feedRow struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Note   string  `json:"note"`
}

type assetFeed struct {
	Balance      float64   `json:"balance"`
	Transactions []feedRow `json:"transactions"`
}

func (a *AccountService) loadFeed(ctx context.Context, apiURL string) (*assetFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode)
	}

	var feed assetFeed
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<22)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return &feed, nil
}
