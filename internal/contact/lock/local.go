// Package lock provides identifier locks that serialize concurrent
// resolutions touching the same email or phone number.
package lock

import (
	"context"
	"fmt"
	"slices"
	"time"

	"identify/internal/contact/service"
	"identify/pkg/platform/sentinel"
)

// numShards bounds memory while keeping unrelated identifiers mostly
// uncontended.
const numShards = 128

// defaultWait caps how long Acquire blocks when the context has no deadline.
const defaultWait = 3 * time.Second

// Local hashes identifier keys onto a fixed set of shards. Two keys may share
// a shard; that only costs throughput, never correctness.
type Local struct {
	shards [numShards]chan struct{}
	wait   time.Duration
}

// NewLocal constructs an in-process locker. wait <= 0 selects the default.
func NewLocal(wait time.Duration) *Local {
	if wait <= 0 {
		wait = defaultWait
	}
	l := &Local{wait: wait}
	for i := range l.shards {
		l.shards[i] = make(chan struct{}, 1)
	}
	return l
}

// Acquire locks every shard covering keys, in ascending shard order so
// overlapping requests cannot deadlock.
func (l *Local) Acquire(ctx context.Context, keys []string) (service.ReleaseFunc, error) {
	shards := l.shardsFor(keys)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	held := make([]int, 0, len(shards))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-l.shards[held[i]]
		}
	}

	for _, shard := range shards {
		select {
		case l.shards[shard] <- struct{}{}:
			held = append(held, shard)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		case <-timer.C:
			release()
			return nil, fmt.Errorf("identifier shard %d: %w", shard, sentinel.ErrUnavailable)
		}
	}
	return release, nil
}

func (l *Local) shardsFor(keys []string) []int {
	shards := make([]int, 0, len(keys))
	for _, key := range keys {
		shards = append(shards, int(hashKey(key)%numShards))
	}
	slices.Sort(shards)
	return slices.Compact(shards)
}

// hashKey uses FNV-1a for better distribution than simple multiply-add.
func hashKey(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
