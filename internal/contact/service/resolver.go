package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"identify/internal/contact/models"
	dErrors "identify/pkg/domain-errors"
	"identify/pkg/platform/sentinel"
)

// ErrNoPrimaryFound means a group that should have a primary has none. It is a
// data-integrity fault, never a caller mistake.
var ErrNoPrimaryFound = errors.New("no primary contact found")

// ErrRootsUnstable means concurrent merges kept moving the roots of a
// request's matches while it tried to lock them.
var ErrRootsUnstable = errors.New("identity roots kept moving")

// maxRootLockRounds bounds how often matches are re-read after a concurrent
// merge demoted one of their roots.
const maxRootLockRounds = 16

// resolution is the outcome of ResolveRoot.
type resolution struct {
	rootID int64
	found  bool
	// demoted holds the former primaries folded into rootID by a merge.
	demoted []int64
}

// lockMatchRoots loads the contacts matching email or phoneNumber and locks the
// root of each. A root found demoted once locked means a merge committed after
// the read, so matches are re-read and their new roots locked. The returned
// matches cannot change for the rest of the transaction.
func lockMatchRoots(ctx context.Context, store Store, email, phoneNumber *string) ([]*models.Contact, error) {
	locked := make(map[int64]struct{})
	for range maxRootLockRounds {
		matches, err := store.FindByEmailOrPhone(ctx, email, phoneNumber)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find matching contacts")
		}

		pending := make([]int64, 0, len(matches))
		for _, id := range uniqueRootIDs(matches) {
			if _, ok := locked[id]; !ok {
				pending = append(pending, id)
			}
		}
		if len(pending) == 0 {
			return matches, nil
		}

		roots, err := store.LockRoots(ctx, pending)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock identity roots")
		}
		for _, id := range pending {
			locked[id] = struct{}{}
		}
		if allPrimary(pending, roots) {
			return matches, nil
		}
		trace.SpanFromContext(ctx).AddEvent("contacts.roots_moved", trace.WithAttributes(
			attribute.Int64Slice("contact.root_ids", pending),
		))
	}
	return nil, dErrors.Wrap(ErrRootsUnstable, dErrors.CodeUnavailable, "identity roots changed concurrently")
}

// allPrimary reports whether every id in ids is present in roots as a primary.
func allPrimary(ids []int64, roots []*models.Contact) bool {
	primaries := make(map[int64]struct{}, len(roots))
	for _, c := range roots {
		if c.IsPrimary() {
			primaries[c.ID] = struct{}{}
		}
	}
	for _, id := range ids {
		if _, ok := primaries[id]; !ok {
			return false
		}
	}
	return true
}

// ResolveRoot computes the canonical root for matches, merging groups when the
// matches span more than one root. found is false when matches is empty.
func ResolveRoot(ctx context.Context, store Store, matches []*models.Contact) (rootID int64, found bool, err error) {
	res, err := resolveRoot(ctx, store, matches)
	if err != nil {
		return 0, false, err
	}
	return res.rootID, res.found, nil
}

func resolveRoot(ctx context.Context, store Store, matches []*models.Contact) (resolution, error) {
	switch len(matches) {
	case 0:
		return resolution{}, nil
	case 1:
		return resolution{rootID: matches[0].RootID(), found: true}, nil
	}

	rootIDs := uniqueRootIDs(matches)
	if len(rootIDs) == 1 {
		return resolution{rootID: rootIDs[0], found: true}, nil
	}

	survivor, err := store.FindOldestPrimaryAmong(ctx, rootIDs)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return resolution{}, dErrors.Wrap(
				fmt.Errorf("%w among roots %v", ErrNoPrimaryFound, rootIDs),
				dErrors.CodeConsistency, "identity group has no primary contact")
		}
		return resolution{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load oldest primary")
	}

	demoted := make([]int64, 0, len(rootIDs)-1)
	for _, id := range rootIDs {
		if id != survivor.ID {
			demoted = append(demoted, id)
		}
	}

	if err := store.UpdatePrimaryToSecondary(ctx, demoted, survivor.ID); err != nil {
		return resolution{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to demote primaries")
	}
	// Children of the demoted roots move up so no secondary points at a secondary.
	if err := store.UpdateSecondaryLinks(ctx, demoted, survivor.ID); err != nil {
		return resolution{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to relink secondaries")
	}

	trace.SpanFromContext(ctx).AddEvent("contacts.merged", trace.WithAttributes(
		attribute.Int64("contact.survivor_id", survivor.ID),
		attribute.Int64Slice("contact.demoted_ids", demoted),
	))

	return resolution{rootID: survivor.ID, found: true, demoted: demoted}, nil
}

// uniqueRootIDs collects each match's current root, ascending.
func uniqueRootIDs(matches []*models.Contact) []int64 {
	ids := make([]int64, 0, len(matches))
	for _, c := range matches {
		ids = append(ids, c.RootID())
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
