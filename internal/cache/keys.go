package cache

import "fmt"

// Every key carries the owner so that one user's cached projection can never be
// served to another.

func AccountKey(accountID, ownerID string) string {
	return fmt.Sprintf("account:%s:%s", accountID, ownerID)
}

func TransactionsKey(accountID, ownerID string) string {
	return fmt.Sprintf("transactions:%s:%s", accountID, ownerID)
}

func AccountNumberKey(accountNumber, ownerID string) string {
	return fmt.Sprintf("account-number:%s:%s", accountNumber, ownerID)
}

// AccountKeys lists every cached projection of one account for its owner.
func AccountKeys(accountID, accountNumber, ownerID string) []string {
	return []string{
		AccountKey(accountID, ownerID),
		TransactionsKey(accountID, ownerID),
		AccountNumberKey(accountNumber, ownerID),
	}
}
