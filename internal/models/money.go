package models

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits stored for balances and amounts.
const MoneyScale = 2

// ValidateAmount checks that amount is a positive value expressible in whole cents.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return ErrInvalidAmount
	}
	return nil
}
