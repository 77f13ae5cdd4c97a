package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"identify/internal/contact/models"
	"identify/internal/contact/service"
	"identify/pkg/platform/sentinel"
)

// defaultTxTimeout is the maximum duration for an in-memory transaction.
const defaultTxTimeout = 5 * time.Second

// InMemory keeps contacts in insertion order, which is also id order. Every
// read returns copies so callers never hold live references into the store.
type InMemory struct {
	mu       sync.RWMutex
	contacts []*models.Contact
	nextID   int64
	now      func() time.Time
	// lastStamp keeps created_at non-decreasing in id order.
	lastStamp time.Time

	// txMu serializes RunInTx callers; it is never held by the query methods.
	txMu    sync.Mutex
	timeout time.Duration
}

type Option func(*InMemory)

// WithClock replaces the wall clock used to stamp created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *InMemory) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTxTimeout bounds transactions whose context has no deadline.
func WithTxTimeout(d time.Duration) Option {
	return func(s *InMemory) {
		s.timeout = d
	}
}

// NewInMemory constructs an empty in-memory contact store.
func NewInMemory(opts ...Option) *InMemory {
	s := &InMemory{nextID: 1, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunInTx runs fn under a store-wide lock. Writes are applied directly; there
// is no rollback.
func (s *InMemory) RunInTx(ctx context.Context, fn func(ctx context.Context, store service.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := s.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	// Check again after acquiring lock
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, s)
}

// LockIdentifiers is a no-op: RunInTx already holds the store-wide lock.
func (s *InMemory) LockIdentifiers(_ context.Context, _ []string) error {
	return nil
}

// LockRoots returns the current state of ids. RunInTx already excludes every
// other writer, so there is nothing further to lock.
func (s *InMemory) LockRoots(_ context.Context, ids []int64) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Contact, 0, len(ids))
	for _, c := range s.contacts {
		if slices.Contains(ids, c.ID) {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *InMemory) FindByEmailOrPhone(_ context.Context, email, phoneNumber *string) ([]*models.Contact, error) {
	if email == nil && phoneNumber == nil {
		return []*models.Contact{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Contact, 0)
	for _, c := range s.contacts {
		emailMatch := email != nil && c.Email != nil && *c.Email == *email
		phoneMatch := phoneNumber != nil && c.PhoneNumber != nil && *c.PhoneNumber == *phoneNumber
		if emailMatch || phoneMatch {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *InMemory) FindGroupByRoot(_ context.Context, rootID int64) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Contact, 0)
	for _, c := range s.contacts {
		if c.ID == rootID || (c.LinkedID != nil && *c.LinkedID == rootID) {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *InMemory) FindOldestPrimaryAmong(_ context.Context, ids []int64) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var oldest *models.Contact
	for _, c := range s.contacts {
		if !c.IsPrimary() || !slices.Contains(ids, c.ID) {
			continue
		}
		if oldest == nil || c.CreatedAt.Before(oldest.CreatedAt) ||
			(c.CreatedAt.Equal(oldest.CreatedAt) && c.ID < oldest.ID) {
			oldest = c
		}
	}
	if oldest == nil {
		return nil, sentinel.ErrNotFound
	}
	return oldest.Clone(), nil
}

func (s *InMemory) UpdatePrimaryToSecondary(_ context.Context, ids []int64, survivorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	for _, c := range s.contacts {
		if c.ID == survivorID || !c.IsPrimary() || !slices.Contains(ids, c.ID) {
			continue
		}
		linked := survivorID
		c.LinkPrecedence = models.LinkPrecedenceSecondary
		c.LinkedID = &linked
		c.UpdatedAt = now
	}
	return nil
}

func (s *InMemory) UpdateSecondaryLinks(_ context.Context, fromIDs []int64, toID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	for _, c := range s.contacts {
		if c.IsPrimary() || c.LinkedID == nil || !slices.Contains(fromIDs, *c.LinkedID) {
			continue
		}
		linked := toID
		c.LinkedID = &linked
		c.UpdatedAt = now
	}
	return nil
}

// Insert assigns the next id and, unless the caller supplied one, stamps
// created_at from the store clock under the write lock so creation order
// follows id order.
func (s *InMemory) Insert(_ context.Context, contact *models.Contact) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := contact.Clone()
	stored.ID = s.nextID
	s.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.stamp()
	}
	stored.UpdatedAt = stored.CreatedAt
	s.contacts = append(s.contacts, stored)
	return stored.Clone(), nil
}

// stamp reads the clock, never going back past the previous stamp. Callers
// hold mu.
func (s *InMemory) stamp() time.Time {
	now := s.now()
	if now.Before(s.lastStamp) {
		now = s.lastStamp
	}
	s.lastStamp = now
	return now
}

// All returns a snapshot of every contact in id order.
func (s *InMemory) All(_ context.Context) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c.Clone())
	}
	return out, nil
}

// Ping reports the store as healthy; it exists to satisfy health checks.
func (s *InMemory) Ping(_ context.Context) error {
	return nil
}
