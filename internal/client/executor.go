package client

import "context"

// pendingTransaction is one in-flight status transition: the pre-write
// snapshot plus the optimistic patch. Applied immediately, resolved by
// discarding the snapshot on success or replaying it on failure.
type pendingTransaction[E Entity] struct {
	cache    *ListCache[E]
	entityID string
	snapshot []E
	tracked  bool
}

func begin[E Entity](cache *ListCache[E], entityID string, patch func(*E)) pendingTransaction[E] {
	tx := pendingTransaction[E]{cache: cache, entityID: entityID}

	snapshot, ok := cache.Snapshot()
	if !ok {
		// Nothing loaded: skip the optimistic step, the remote call still
		// proceeds.
		return tx
	}

	tx.snapshot = snapshot
	tx.tracked = true

	next := cloneList(snapshot)
	for i := range next {
		if next[i].EntityID() == entityID {
			patch(&next[i])
		}
	}
	cache.Set(next)
	return tx
}

// commit discards the snapshot and marks the list stale so the next read
// refetches server-confirmed state.
func (tx pendingTransaction[E]) commit() {
	tx.cache.Invalidate()
}

// rollback restores the pre-write snapshot wholesale. No merge: readers go
// back to exactly what they saw before the optimistic write.
func (tx pendingTransaction[E]) rollback() {
	if tx.tracked {
		tx.cache.Set(tx.snapshot)
	}
}

// runTransition executes one status-changing operation with optimistic
// local consistency: optimistic write happens-before the remote call,
// commit or rollback happens-after it settles. Between those points readers
// observe the optimistic state; the authority always wins once the call
// returns.
func runTransition[E Entity](ctx context.Context, cache *ListCache[E], entityID string, patch func(*E), call func(context.Context) (E, error)) (E, error) {
	tx := begin(cache, entityID, patch)

	out, err := call(ctx)
	if err != nil {
		tx.rollback()
		var zero E
		return zero, err
	}

	tx.commit()
	return out, nil
}
