package cqrs

// GetAccountQuery fetches a single account by id, scoped to the requesting user.
type GetAccountQuery struct {
	AccountID        string
	RequestingUserID string
}

// GetAccountByNumberQuery fetches a single account by its public number, scoped to
// the requesting user.
type GetAccountByNumberQuery struct {
	AccountNumber    string
	RequestingUserID string
}

// ListAccountsQuery fetches all accounts belonging to a user.
type ListAccountsQuery struct {
	UserID string
}

// GetTransactionHistoryQuery fetches the transaction history of one account.
type GetTransactionHistoryQuery struct {
	AccountID        string
	RequestingUserID string
}
