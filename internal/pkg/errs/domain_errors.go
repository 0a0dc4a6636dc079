package errs

// Operation markers shared by the use case layers. Typed lifecycle errors
// live next to the aggregate in internal/domain/reservation.
var (
	ErrTransactionBegin  = New("failed to begin transaction")
	ErrTransactionCommit = New("failed to commit transaction")
	ErrLockAcquire       = New("failed to acquire resource lock")
)
