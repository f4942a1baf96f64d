package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eaglebank/ledger-service/internal/cache"
	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
)

// RecentTransactionLimit is how many transactions an account view carries.
const RecentTransactionLimit = 10

// Config holds the read-through cache settings.
type Config struct {
	AccountTTL time.Duration
	HistoryTTL time.Duration
}

// AccountQueryService serves account reads. Single-account reads go through the
// cache first and fall back to the ownership-scoped repository lookups.
// A nil view with a nil error means "not found or not owned".
type AccountQueryService struct {
	reader   repository.AccountReader
	accounts *cache.ViewCache[models.AccountView]
	history  *cache.ViewCache[models.TransactionHistoryView]
}

func NewAccountQueryService(reader repository.AccountReader, store cache.Store, cfg Config, logger *slog.Logger, recorder cache.LookupRecorder) *AccountQueryService {
	return &AccountQueryService{
		reader:   reader,
		accounts: cache.NewViewCache[models.AccountView]("account", store, cfg.AccountTTL, logger, recorder),
		history:  cache.NewViewCache[models.TransactionHistoryView]("transactions", store, cfg.HistoryTTL, logger, recorder),
	}
}

// GetAccount returns the account details, including its most recent transactions.
func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountView, error) {
	key := cache.AccountKey(q.AccountID, q.RequestingUserID)
	if view, ok := s.accounts.Get(ctx, key); ok {
		return view, nil
	}

	account, err := s.reader.FindByIDAndOwner(ctx, q.AccountID, q.RequestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, nil
	}
	return s.loadView(ctx, key, account)
}

// GetAccountByNumber is GetAccount addressed by the public account number.
func (s *AccountQueryService) GetAccountByNumber(ctx context.Context, q cqrs.GetAccountByNumberQuery) (*models.AccountView, error) {
	key := cache.AccountNumberKey(q.AccountNumber, q.RequestingUserID)
	if view, ok := s.accounts.Get(ctx, key); ok {
		return view, nil
	}

	account, err := s.reader.FindByNumberAndOwner(ctx, q.AccountNumber, q.RequestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil {
		return nil, nil
	}
	return s.loadView(ctx, key, account)
}

func (s *AccountQueryService) loadView(ctx context.Context, key string, account *models.Account) (*models.AccountView, error) {
	recent, err := s.reader.RecentTransactions(ctx, account.ID, RecentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	view := models.ToAccountView(account, recent)
	s.accounts.Set(ctx, key, view)
	return view, nil
}

// ListAccounts returns every account owned by the user. It is not cached.
func (s *AccountQueryService) ListAccounts(ctx context.Context, q cqrs.ListAccountsQuery) ([]models.AccountView, error) {
	accounts, err := s.reader.FindByOwner(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	views := make([]models.AccountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, *models.ToAccountView(a, nil))
	}
	return views, nil
}

// GetTransactionHistory returns the account's transactions, newest first. An
// account without transactions yields an empty history, not nil.
func (s *AccountQueryService) GetTransactionHistory(ctx context.Context, q cqrs.GetTransactionHistoryQuery) (*models.TransactionHistoryView, error) {
	key := cache.TransactionsKey(q.AccountID, q.RequestingUserID)
	if view, ok := s.history.Get(ctx, key); ok {
		return view, nil
	}

	txs, found, err := s.reader.FindTransactionsByAccountAndOwner(ctx, q.AccountID, q.RequestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	if !found {
		return nil, nil
	}
	view := &models.TransactionHistoryView{
		AccountID:    q.AccountID,
		Transactions: models.ToTransactionViews(txs),
	}
	s.history.Set(ctx, key, view)
	return view, nil
}
