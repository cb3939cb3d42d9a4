package domain

// Transaction is a single ledger entry: one posting of a Money amount onto an
// account. Transactions are produced by the transaction factory with the sign
// already applied and are immutable once created.
type Transaction struct {
	AccountNumber int   `json:"accountNumber"`
	Currency      Money `json:"currency"`
}
