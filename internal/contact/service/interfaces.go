package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks Store,IdentifierLocker,EventPublisher

import (
	"context"

	"identify/internal/contact/models"
)

// Store is the contact persistence port. Implementations return fresh copies;
// callers never hold live references into the store.
type Store interface {
	// LockIdentifiers serializes the enclosing transaction against others
	// touching the same identifier keys. No-op for stores that lock coarsely.
	LockIdentifiers(ctx context.Context, keys []string) error
	// LockRoots locks the contacts in ids until the transaction ends, in id
	// order, and returns their current state. Writers to a group hold its root,
	// so a root still primary after locking cannot be demoted underneath the caller.
	LockRoots(ctx context.Context, ids []int64) ([]*models.Contact, error)
	// FindByEmailOrPhone matches on either field; nil fields are left out of the match.
	FindByEmailOrPhone(ctx context.Context, email, phoneNumber *string) ([]*models.Contact, error)
	// FindGroupByRoot returns every contact whose id or linked id is rootID, in id order.
	FindGroupByRoot(ctx context.Context, rootID int64) ([]*models.Contact, error)
	// FindOldestPrimaryAmong returns the earliest-created primary whose id is in ids.
	// Returns sentinel.ErrNotFound when none qualifies.
	FindOldestPrimaryAmong(ctx context.Context, ids []int64) (*models.Contact, error)
	// UpdatePrimaryToSecondary demotes the primaries in ids to secondaries of survivorID.
	UpdatePrimaryToSecondary(ctx context.Context, ids []int64, survivorID int64) error
	// UpdateSecondaryLinks repoints secondaries linked to any of fromIDs at toID.
	UpdateSecondaryLinks(ctx context.Context, fromIDs []int64, toID int64) error
	// Insert persists contact, assigning ID and CreatedAt.
	Insert(ctx context.Context, contact *models.Contact) (*models.Contact, error)
}

// ContactStoreTx provides a transactional boundary for a whole resolution.
// Implementations may wrap a database transaction or, in-memory, a coarse lock.
// fn receives the transaction's context, which carries its deadline.
type ContactStoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// ReleaseFunc releases locks taken by IdentifierLocker.Acquire.
type ReleaseFunc func()

// IdentifierLocker gives at-most-one in-flight resolution per identifier.
type IdentifierLocker interface {
	Acquire(ctx context.Context, keys []string) (ReleaseFunc, error)
}

// EventPublisher ships committed contact changes downstream.
type EventPublisher interface {
	Publish(ctx context.Context, events []models.ContactEvent) error
}
