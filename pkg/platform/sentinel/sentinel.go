package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// - ErrNotFound: no record matches the query
// - ErrUnavailable: a backing resource (lock, broker, database) could not be reached in time
// - ErrLockNotHeld: a lock release found the key owned by someone else
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrLockNotHeld = errors.New("lock not held")
)
