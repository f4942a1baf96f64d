package handler

import (
	"context"
	"net/http"

	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountCommander defines the write-side operations used by AccountHandler.
type AccountCommander interface {
	CreateAccount(context.Context, cqrs.CreateAccountCommand) (*models.Account, error)
}

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.AccountView, error)
	GetAccountByNumber(context.Context, cqrs.GetAccountByNumberQuery) (*models.AccountView, error)
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]models.AccountView, error)
	GetTransactionHistory(context.Context, cqrs.GetTransactionHistoryQuery) (*models.TransactionHistoryView, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

type CreateAccountRequest struct {
	InitialDeposit decimal.Decimal `json:"initialDeposit" validate:"gte=0"`
}

type ListAccountsResponse struct {
	Accounts []models.AccountView `json:"accounts"`
}

func NewAccountHandler(commands AccountCommander, queries AccountQuerier) *AccountHandler {
	return &AccountHandler{commands: commands, queries: queries}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	// The body is optional; an empty one opens an account with a zero balance.
	var req CreateAccountRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.CreateAccount(c.Request.Context(), cqrs.CreateAccountCommand{
		OwnerID:        userID,
		InitialDeposit: req.InitialDeposit,
	})
	if err != nil {
		respondWithLedgerError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, models.ToAccountView(account, nil))
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, ListAccountsResponse{Accounts: views})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	view, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{
		AccountID:        c.Param("accountId"),
		RequestingUserID: userID,
	})
	respondWithView(c, view, err, "Failed to get account")
}

func (h *AccountHandler) GetAccountByNumber(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	view, err := h.queries.GetAccountByNumber(c.Request.Context(), cqrs.GetAccountByNumberQuery{
		AccountNumber:    c.Param("accountNumber"),
		RequestingUserID: userID,
	})
	respondWithView(c, view, err, "Failed to get account")
}

func (h *AccountHandler) GetTransactionHistory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	view, err := h.queries.GetTransactionHistory(c.Request.Context(), cqrs.GetTransactionHistoryQuery{
		AccountID:        c.Param("accountId"),
		RequestingUserID: userID,
	})
	respondWithView(c, view, err, "Failed to list transactions")
}

// respondWithView treats a nil view as "not found or not owned".
func respondWithView[T any](c *gin.Context, view *T, err error, fallback string) {
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
		return
	}
	if view == nil {
		middleware.RespondWithError(c, http.StatusNotFound, accountNotFoundMessage)
		return
	}
	c.JSON(http.StatusOK, view)
}
