package handler

import (
	"errors"
	"net/http"

	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
)

const accountNotFoundMessage = "Account not found or access denied"

// respondWithLedgerError maps ledger errors to a status and a stable message.
// Anything unrecognised becomes a 500 carrying fallback, never the error text.
func respondWithLedgerError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrAccessDenied):
		middleware.RespondWithError(c, http.StatusNotFound, accountNotFoundMessage)
	case errors.Is(err, models.ErrDestinationNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, "Destination account not found")
	case errors.Is(err, models.ErrInvalidAmount):
		middleware.RespondWithError(c, http.StatusBadRequest, "Amount must be a positive value with at most two decimal places")
	case errors.Is(err, models.ErrSameAccount):
		middleware.RespondWithError(c, http.StatusBadRequest, "Cannot transfer funds to the same account")
	case errors.Is(err, models.ErrMissingOwner):
		middleware.RespondWithError(c, http.StatusBadRequest, "Missing caller identity")
	case errors.Is(err, models.ErrInsufficientFunds):
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Insufficient funds")
	case errors.Is(err, models.ErrPaymentDeclined):
		middleware.RespondWithError(c, http.StatusPaymentRequired, "Payment declined")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
