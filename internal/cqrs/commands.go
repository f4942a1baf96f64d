package cqrs

import (
	"strings"

	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/shopspring/decimal"
)

type CreateAccountCommand struct {
	OwnerID        string
	InitialDeposit decimal.Decimal
}

type DepositCommand struct {
	AccountNumber    string
	InitiatingUserID string
	Amount           decimal.Decimal
}

type WithdrawCommand struct {
	AccountNumber    string
	InitiatingUserID string
	Amount           decimal.Decimal
}

type TransferCommand struct {
	SourceAccountNumber      string
	DestinationAccountNumber string
	InitiatingUserID         string
	Amount                   decimal.Decimal
}

// Validate runs before any repository access.
func (c CreateAccountCommand) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return models.ErrMissingOwner
	}
	if c.InitialDeposit.IsZero() {
		return nil
	}
	return models.ValidateAmount(c.InitialDeposit)
}

func (c DepositCommand) Validate() error {
	return validateMovement(c.InitiatingUserID, c.AccountNumber, c.Amount)
}

func (c WithdrawCommand) Validate() error {
	return validateMovement(c.InitiatingUserID, c.AccountNumber, c.Amount)
}

func (c TransferCommand) Validate() error {
	if err := validateMovement(c.InitiatingUserID, c.SourceAccountNumber, c.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(c.DestinationAccountNumber) == "" {
		return models.ErrDestinationNotFound
	}
	return nil
}

func validateMovement(owner, accountNumber string, amount decimal.Decimal) error {
	if strings.TrimSpace(owner) == "" {
		return models.ErrMissingOwner
	}
	if strings.TrimSpace(accountNumber) == "" {
		return models.ErrAccessDenied
	}
	return models.ValidateAmount(amount)
}
