package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/eaglebank/ledger-service/internal/cache"
	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/gateway"
	"github.com/eaglebank/ledger-service/internal/metrics"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/repository"
)

// EventPublisher appends a domain event to a stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// CacheInvalidator drops cached projections. It never fails the caller.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// OperationRecorder observes finished commands.
type OperationRecorder interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
}

// Options selects between the supported ledger behaviours.
type Options struct {
	// SingleAccountPerOwner makes account creation idempotent per owner.
	SingleAccountPerOwner bool
	// VerifyWithdrawals sends every withdrawal through the payment gateway
	// before it commits.
	VerifyWithdrawals bool
	// VerifyDeposits asks the deposit verifier to confirm incoming funds.
	VerifyDeposits bool
}

// Dependencies are the collaborators of AccountCommandService. Store and
// Invalidator are required; the rest fall back to no-op or default values.
type Dependencies struct {
	Store       repository.LedgerStore
	Invalidator CacheInvalidator
	Allocator   *AccountNumberAllocator
	Publisher   EventPublisher
	Gateway     gateway.PaymentGateway
	Verifier    gateway.DepositVerifier
	Recorder    OperationRecorder
	Logger      *slog.Logger
	Clock       func() time.Time
}

// TransferResult holds both sides of a committed transfer.
type TransferResult struct {
	Out models.Transaction
	In  models.Transaction
}

// AccountCommandService executes every state-changing ledger operation. Each
// command commits in a single datastore transaction and only then invalidates the
// cache and publishes its event.
type AccountCommandService struct {
	store       repository.LedgerStore
	invalidator CacheInvalidator
	allocator   *AccountNumberAllocator
	publisher   EventPublisher
	gateway     gateway.PaymentGateway
	verifier    gateway.DepositVerifier
	recorder    OperationRecorder
	logger      *slog.Logger
	now         func() time.Time
	opts        Options
}

func NewAccountCommandService(deps Dependencies, opts Options) (*AccountCommandService, error) {
	if deps.Store == nil || deps.Invalidator == nil {
		return nil, errors.New("account command service requires a store and a cache invalidator")
	}
	if opts.VerifyWithdrawals && deps.Gateway == nil {
		return nil, errors.New("withdrawal verification requires a payment gateway")
	}
	if opts.VerifyDeposits && deps.Verifier == nil {
		return nil, errors.New("deposit verification requires a deposit verifier")
	}

	s := &AccountCommandService{
		store:       deps.Store,
		invalidator: deps.Invalidator,
		allocator:   deps.Allocator,
		publisher:   deps.Publisher,
		gateway:     deps.Gateway,
		verifier:    deps.Verifier,
		recorder:    deps.Recorder,
		logger:      deps.Logger,
		now:         deps.Clock,
		opts:        opts,
	}
	if s.allocator == nil {
		s.allocator = NewAccountNumberAllocator(nil)
	}
	if s.publisher == nil {
		s.publisher = events.Discard{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// CreateAccount opens an account for cmd.OwnerID. With SingleAccountPerOwner the
// owner's existing account is returned instead of opening a second one.
func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (account *models.Account, err error) {
	defer s.observe(ctx, "create_account", time.Now(), &err)

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var created bool
	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		if s.opts.SingleAccountPerOwner {
			existing, err := tx.FindByOwner(ctx, cmd.OwnerID)
			if err != nil {
				return fmt.Errorf("failed to look up owner accounts: %w", err)
			}
			if len(existing) > 0 {
				account = existing[0]
				return nil
			}
		}

		number, err := s.allocator.Allocate(ctx, tx)
		if err != nil {
			return err
		}
		at := s.now()
		account = models.NewAccount(cmd.OwnerID, number, at)
		if cmd.InitialDeposit.IsPositive() {
			if _, err := account.OpenWithInitialBalance(cmd.InitialDeposit, at); err != nil {
				return err
			}
		}
		if err := tx.InsertAccount(ctx, account); err != nil {
			return err
		}
		created = true
		return nil
	})

	if errors.Is(err, repository.ErrDuplicate) && s.opts.SingleAccountPerOwner {
		// A concurrent request for the same owner committed first.
		return s.existingAccount(ctx, cmd.OwnerID)
	}
	if err != nil {
		return nil, err
	}

	if created {
		s.publish(ctx, events.AccountOpened, events.AccountOpenedEvent{
			AccountID:      account.ID,
			AccountNumber:  account.AccountNumber,
			OwnerID:        account.OwnerID,
			InitialBalance: account.Balance(),
		})
	}
	return account, nil
}

func (s *AccountCommandService) existingAccount(ctx context.Context, ownerID string) (*models.Account, error) {
	var account *models.Account
	err := s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		existing, err := tx.FindByOwner(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to look up owner accounts: %w", err)
		}
		if len(existing) == 0 {
			return fmt.Errorf("account creation conflicted but no account exists for owner: %w", repository.ErrDuplicate)
		}
		account = existing[0]
		return nil
	})
	return account, err
}

// Deposit credits an account owned by the initiating user.
func (s *AccountCommandService) Deposit(ctx context.Context, cmd cqrs.DepositCommand) (record *models.Transaction, err error) {
	defer s.observe(ctx, "deposit", time.Now(), &err)

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var account *models.Account
	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		var err error
		account, err = s.lockOwned(ctx, tx, cmd.AccountNumber, cmd.InitiatingUserID)
		if err != nil {
			return err
		}
		if s.opts.VerifyDeposits {
			ok, err := s.verifier.VerifyDeposit(ctx, account.AccountNumber, cmd.Amount)
			if err != nil {
				return fmt.Errorf("failed to verify deposit: %w", err)
			}
			if !ok {
				return models.ErrPaymentDeclined
			}
		}
		t, err := account.Deposit(cmd.Amount, s.now())
		if err != nil {
			return err
		}
		record = &t
		return tx.SaveAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, cache.AccountKeys(account.ID, account.AccountNumber, account.OwnerID)...)
	s.publish(ctx, events.FundsDeposited, fundsMoved(account, record))
	return record, nil
}

// Withdraw debits an account owned by the initiating user. When withdrawals are
// verified, a gateway decline rolls the debit back.
func (s *AccountCommandService) Withdraw(ctx context.Context, cmd cqrs.WithdrawCommand) (record *models.Transaction, err error) {
	defer s.observe(ctx, "withdraw", time.Now(), &err)

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var account *models.Account
	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		var err error
		account, err = s.lockOwned(ctx, tx, cmd.AccountNumber, cmd.InitiatingUserID)
		if err != nil {
			return err
		}
		t, err := account.Withdraw(cmd.Amount, s.now())
		if err != nil {
			return err
		}
		if s.opts.VerifyWithdrawals {
			ok, err := s.gateway.InitiateWithdrawal(ctx, account.AccountNumber, cmd.Amount)
			if err != nil {
				return fmt.Errorf("payment gateway failed: %w", err)
			}
			if !ok {
				return models.ErrPaymentDeclined
			}
		}
		record = &t
		return tx.SaveAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate(ctx, cache.AccountKeys(account.ID, account.AccountNumber, account.OwnerID)...)
	s.publish(ctx, events.FundsWithdrawn, fundsMoved(account, record))
	return record, nil
}

// Transfer moves money from an account owned by the initiating user to any other
// account. Both sides commit together or not at all.
func (s *AccountCommandService) Transfer(ctx context.Context, cmd cqrs.TransferCommand) (result *TransferResult, err error) {
	defer s.observe(ctx, "transfer", time.Now(), &err)

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var source, dest *models.Account
	err = s.store.WithinTx(ctx, func(tx repository.LedgerTx) error {
		src, err := tx.FindByNumberAndOwner(ctx, cmd.SourceAccountNumber, cmd.InitiatingUserID)
		if err != nil {
			return fmt.Errorf("failed to find source account: %w", err)
		}
		if src == nil {
			return models.ErrAccessDenied
		}
		dst, err := tx.FindByNumber(ctx, cmd.DestinationAccountNumber)
		if err != nil {
			return fmt.Errorf("failed to find destination account: %w", err)
		}
		if dst == nil {
			return models.ErrDestinationNotFound
		}
		if src.AccountNumber == dst.AccountNumber {
			return models.ErrSameAccount
		}

		locked, err := tx.Lock(ctx, src.ID, dst.ID)
		if err != nil {
			return err
		}
		source, dest = locked[0], locked[1]

		out, in, err := source.Transfer(dest, cmd.Amount, s.now())
		if err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, source); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, dest); err != nil {
			return err
		}
		result = &TransferResult{Out: out, In: in}
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := cache.AccountKeys(source.ID, source.AccountNumber, source.OwnerID)
	keys = append(keys, cache.AccountKeys(dest.ID, dest.AccountNumber, dest.OwnerID)...)
	s.invalidator.Invalidate(ctx, keys...)

	s.publish(ctx, events.FundsTransferred, events.FundsTransferredEvent{
		SourceAccountNumber:      source.AccountNumber,
		DestinationAccountNumber: dest.AccountNumber,
		OutTransactionID:         result.Out.ID,
		InTransactionID:          result.In.ID,
		Amount:                   cmd.Amount,
	})
	return result, nil
}

// lockOwned resolves an account by number scoped to ownerID and locks its row.
// Missing and foreign accounts both come back as ErrAccessDenied.
func (s *AccountCommandService) lockOwned(ctx context.Context, tx repository.LedgerTx, accountNumber, ownerID string) (*models.Account, error) {
	account, err := tx.FindByNumberAndOwner(ctx, accountNumber, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return nil, models.ErrAccessDenied
	}
	locked, err := tx.Lock(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return locked[0], nil
}

func (s *AccountCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), events.LedgerEventsStream, eventType, data); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", slog.String("event", eventType), slog.String("error", err.Error()))
	}
}

func (s *AccountCommandService) observe(ctx context.Context, operation string, start time.Time, errp *error) {
	outcome := metrics.OutcomeSuccess
	switch err := *errp; {
	case err == nil:
		s.logger.InfoContext(ctx, "ledger operation committed", slog.String("operation", operation))
	case models.IsBusinessError(err):
		outcome = metrics.OutcomeRejected
		s.logger.InfoContext(ctx, "ledger operation rejected", slog.String("operation", operation), slog.String("reason", err.Error()))
	default:
		outcome = metrics.OutcomeError
		s.logger.ErrorContext(ctx, "ledger operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
	}
	if s.recorder != nil {
		s.recorder.ObserveOperation(operation, outcome, time.Since(start))
	}
}

func fundsMoved(account *models.Account, t *models.Transaction) events.FundsMovedEvent {
	return events.FundsMovedEvent{
		TransactionID: t.ID,
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		Amount:        t.Amount,
		NewBalance:    t.NewBalance,
	}
}
