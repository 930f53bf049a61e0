package repositories

import "context"

// Keys under which the core keeps its records.
const (
	CurrentUserKey     = "currentUser"
	AppPinKey          = "appPin"
	userKeyPrefix      = "user_"
	transactionsPrefix = "transactions_"
	loansPrefix        = "loans_"
)

// UserKey returns the key of the credential record for identifier.
func UserKey(identifier string) string { return userKeyPrefix + identifier }

// TransactionsKey returns the key of the transaction collection for identifier.
func TransactionsKey(identifier string) string { return transactionsPrefix + identifier }

// LoansKey returns the key of the loan collection for identifier.
func LoansKey(identifier string) string { return loansPrefix + identifier }

// KeyValueStore is a string-keyed persistent store. Each key is written atomically.
type KeyValueStore interface {
	// Get returns the value stored under key, or apperrors.ErrNotFound if there is none.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
