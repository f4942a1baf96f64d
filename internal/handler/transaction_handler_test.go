package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/eaglebank/ledger-service/internal/command"
	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ---- mock implementations ----

type mockTransactionCommander struct {
	depositFn  func(cqrs.DepositCommand) (*models.Transaction, error)
	withdrawFn func(cqrs.WithdrawCommand) (*models.Transaction, error)
	transferFn func(cqrs.TransferCommand) (*command.TransferResult, error)
}

func (m *mockTransactionCommander) Deposit(_ context.Context, cmd cqrs.DepositCommand) (*models.Transaction, error) {
	if m.depositFn != nil {
		return m.depositFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactionCommander) Withdraw(_ context.Context, cmd cqrs.WithdrawCommand) (*models.Transaction, error) {
	if m.withdrawFn != nil {
		return m.withdrawFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactionCommander) Transfer(_ context.Context, cmd cqrs.TransferCommand) (*command.TransferResult, error) {
	if m.transferFn != nil {
		return m.transferFn(cmd)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newTxTestRouter(cmds TransactionCommander, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(authUserID))
	h := NewTransactionHandler(cmds)
	v1 := r.Group("/v1/transactions")
	v1.POST("/deposit", h.Deposit)
	v1.POST("/withdraw", h.Withdraw)
	v1.POST("/transfer", h.Transfer)
	return r
}

// ---- test data ----

var txTestRecord = &models.Transaction{
	ID: "tx-001", AccountID: "acc-001", Amount: decimal.NewFromInt(50),
	Type: models.TransactionDeposit, NewBalance: decimal.NewFromInt(150),
	CreatedAt: testCreatedAt,
}

func movementBody(amount any) map[string]any {
	return map[string]any{"accountNumber": "1000000001", "amount": amount}
}

// ---- tests ----

func TestDeposit(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		depositFn      func(cqrs.DepositCommand) (*models.Transaction, error)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "success",
			body:           movementBody("50.00"),
			depositFn:      func(cqrs.DepositCommand) (*models.Transaction, error) { return txTestRecord, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - negative amount",
			body:           movementBody(-5),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - sub-cent amount",
			body:           movementBody("0.001"),
			depositFn:      func(cqrs.DepositCommand) (*models.Transaction, error) { return nil, models.ErrInvalidAmount },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - malformed account number",
			body:           map[string]any{"accountNumber": "12AB", "amount": 10},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - invalid json",
			body:           "not-json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "not found - another user's account",
			body:           movementBody(10),
			depositFn:      func(cqrs.DepositCommand) (*models.Transaction, error) { return nil, models.ErrAccessDenied },
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Account not found or access denied",
		},
		{
			name:           "payment required - gateway declined",
			body:           movementBody(10),
			depositFn:      func(cqrs.DepositCommand) (*models.Transaction, error) { return nil, models.ErrPaymentDeclined },
			expectedStatus: http.StatusPaymentRequired,
		},
		{
			name: "internal error hides datastore text",
			body: movementBody(10),
			depositFn: func(cqrs.DepositCommand) (*models.Transaction, error) {
				return nil, errors.New("pq: relation accounts does not exist")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Failed to deposit funds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTxTestRouter(&mockTransactionCommander{depositFn: tt.depositFn}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/transactions/deposit", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedMsg != "" && messageOf(t, w) != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, messageOf(t, w))
			}
			if strings.Contains(w.Body.String(), "pq:") {
				t.Errorf("datastore error leaked: %s", w.Body.String())
			}
		})
	}
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name           string
		withdrawFn     func(cqrs.WithdrawCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name:           "success",
			withdrawFn:     func(cqrs.WithdrawCommand) (*models.Transaction, error) { return txTestRecord, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unprocessable entity - insufficient funds",
			withdrawFn:     func(cqrs.WithdrawCommand) (*models.Transaction, error) { return nil, models.ErrInsufficientFunds },
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "wrapped access denied",
			withdrawFn: func(cqrs.WithdrawCommand) (*models.Transaction, error) {
				return nil, fmt.Errorf("withdraw: %w", models.ErrAccessDenied)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got cqrs.WithdrawCommand
			cmds := &mockTransactionCommander{withdrawFn: func(cmd cqrs.WithdrawCommand) (*models.Transaction, error) {
				got = cmd
				return tt.withdrawFn(cmd)
			}}
			router := newTxTestRouter(cmds, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/transactions/withdraw", movementBody("25.00"))
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if got.InitiatingUserID != "usr-001" || !got.Amount.Equal(decimal.NewFromInt(25)) {
				t.Errorf("unexpected command %+v", got)
			}
		})
	}
}

func TestTransfer(t *testing.T) {
	body := map[string]any{
		"sourceAccountNumber":      "1000000001",
		"destinationAccountNumber": "1000000002",
		"amount":                   "400",
	}
	tests := []struct {
		name           string
		transferFn     func(cqrs.TransferCommand) (*command.TransferResult, error)
		expectedStatus int
	}{
		{
			name: "success",
			transferFn: func(cmd cqrs.TransferCommand) (*command.TransferResult, error) {
				return &command.TransferResult{
					Out: models.Transaction{ID: "tx-out", Type: models.TransactionTransferOut, Amount: cmd.Amount, CounterpartyAccountNumber: cmd.DestinationAccountNumber},
					In:  models.Transaction{ID: "tx-in", Type: models.TransactionTransferIn, Amount: cmd.Amount, CounterpartyAccountNumber: cmd.SourceAccountNumber},
				}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "destination missing",
			transferFn:     func(cqrs.TransferCommand) (*command.TransferResult, error) { return nil, models.ErrDestinationNotFound },
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "same account",
			transferFn:     func(cqrs.TransferCommand) (*command.TransferResult, error) { return nil, models.ErrSameAccount },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "insufficient funds",
			transferFn:     func(cqrs.TransferCommand) (*command.TransferResult, error) { return nil, models.ErrInsufficientFunds },
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTxTestRouter(&mockTransactionCommander{transferFn: tt.transferFn}, "usr-001")
			w := doRequest(router, http.MethodPost, "/v1/transactions/transfer", body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusCreated && !strings.Contains(w.Body.String(), `"outgoing"`) {
				t.Errorf("expected both transfer legs in response: %s", w.Body.String())
			}
		})
	}
}
