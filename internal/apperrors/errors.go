package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidAmount indicates a transaction amount that is zero or negative.
var ErrInvalidAmount = errors.New("transaction amount must be positive")

// ErrSameWallet indicates a transfer where source and destination are the same wallet.
var ErrSameWallet = errors.New("source and destination wallets must differ")

// ErrInvalidState indicates a status transition that the transaction state machine forbids.
var ErrInvalidState = errors.New("invalid transaction state")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
// The pgsql repository returns it on a correlation_id unique violation.
var ErrDuplicate = errors.New("resource already exists")

// ErrIdempotency indicates a correlation ID conflict that could not be resolved
// by re-reading the winning transaction.
var ErrIdempotency = errors.New("idempotency conflict")

// ErrRepository indicates a storage failure. Handlers surface it as a generic
// message; the underlying cause is only logged.
var ErrRepository = errors.New("repository error")

// ErrGateway indicates the wallet ledger rejected a movement or was unreachable.
var ErrGateway = errors.New("wallet gateway error")
