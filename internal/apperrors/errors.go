package apperrors

import "errors"

// Record errors describe malformed identifiers or records handed to a repository.
// Handlers match them with errors.Is to pick a status code.
var (
	// ErrInvalidIdentifier indicates that a supplied id string is not a well-formed store identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrSchemaMismatch indicates that a record's field set does not exactly equal the required set.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrTypeMismatch indicates that an argument or field value has the wrong shape or type
	// (e.g., a record that is not a JSON object, or an amount that is not a number).
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidKey indicates that a field name used in a store lookup is not a plain identifier.
	ErrInvalidKey = errors.New("invalid lookup key")
)

// Domain entity errors represent missing entities in the system.
// Repositories return empty values for these cases; services upgrade them to the errors below.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist
	// or is owned by another user.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrWalletNotFound indicates that a wallet with the given ID does not exist
	// or is owned by another user.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrUserNotFound indicates that a user with the given username or ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrQuoteNotFound indicates that the price feed returned no quote for a symbol.
	ErrQuoteNotFound = errors.New("quote not found")
)

// Authentication errors.
var (
	// ErrInvalidCredentials indicates that a username/password pair did not match a stored user.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken indicates that a bearer token is missing, malformed, expired or badly signed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingSecret indicates that no signing secret was configured.
	ErrMissingSecret = errors.New("signing secret is not configured")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrOwnerChange indicates an attempt to move a record to another owner.
	ErrOwnerChange = errors.New("owner_id cannot be changed")

	// ErrInvalidCSVRow indicates that a row of an imported CSV file could not be parsed.
	ErrInvalidCSVRow = errors.New("invalid CSV row")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrieveWallets      = errors.New("failed to retrieve wallets")
	ErrFailedToRetrieveWallet       = errors.New("failed to retrieve wallet")
	ErrFailedToSaveTransaction      = errors.New("failed to save transaction")
	ErrFailedToSaveWallet           = errors.New("failed to save wallet")
	ErrFailedToAuthenticate         = errors.New("failed to authenticate")
	ErrFailedToCalculatePortfolio   = errors.New("failed to calculate portfolio")
	ErrFailedToImportTransactions   = errors.New("failed to import transactions")
	ErrFailedToRetrievePrices       = errors.New("failed to retrieve prices")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)
