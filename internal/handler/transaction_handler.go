package handler

import (
	"context"
	"net/http"

	"github.com/eaglebank/ledger-service/internal/command"
	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionCommander defines the money-movement operations used by
// TransactionHandler.
type TransactionCommander interface {
	Deposit(context.Context, cqrs.DepositCommand) (*models.Transaction, error)
	Withdraw(context.Context, cqrs.WithdrawCommand) (*models.Transaction, error)
	Transfer(context.Context, cqrs.TransferCommand) (*command.TransferResult, error)
}

type TransactionHandler struct {
	commands TransactionCommander
}

type MoneyMovementRequest struct {
	AccountNumber string          `json:"accountNumber" validate:"required,len=10,numeric"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
}

type TransferRequest struct {
	SourceAccountNumber      string          `json:"sourceAccountNumber" validate:"required,len=10,numeric"`
	DestinationAccountNumber string          `json:"destinationAccountNumber" validate:"required,len=10,numeric"`
	Amount                   decimal.Decimal `json:"amount" validate:"gt=0"`
}

type TransferResponse struct {
	Outgoing models.TransactionView `json:"outgoing"`
	Incoming models.TransactionView `json:"incoming"`
}

func NewTransactionHandler(commands TransactionCommander) *TransactionHandler {
	return &TransactionHandler{commands: commands}
}

func (h *TransactionHandler) Deposit(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req MoneyMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}

	record, err := h.commands.Deposit(c.Request.Context(), cqrs.DepositCommand{
		AccountNumber:    req.AccountNumber,
		InitiatingUserID: userID,
		Amount:           req.Amount,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to deposit funds")
		return
	}

	c.JSON(http.StatusCreated, models.ToTransactionView(*record))
}

func (h *TransactionHandler) Withdraw(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req MoneyMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}

	record, err := h.commands.Withdraw(c.Request.Context(), cqrs.WithdrawCommand{
		AccountNumber:    req.AccountNumber,
		InitiatingUserID: userID,
		Amount:           req.Amount,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to withdraw funds")
		return
	}

	c.JSON(http.StatusCreated, models.ToTransactionView(*record))
}

func (h *TransactionHandler) Transfer(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req TransferRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.commands.Transfer(c.Request.Context(), cqrs.TransferCommand{
		SourceAccountNumber:      req.SourceAccountNumber,
		DestinationAccountNumber: req.DestinationAccountNumber,
		InitiatingUserID:         userID,
		Amount:                   req.Amount,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to transfer funds")
		return
	}

	c.JSON(http.StatusCreated, TransferResponse{
		Outgoing: models.ToTransactionView(result.Out),
		Incoming: models.ToTransactionView(result.In),
	})
}

func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}
