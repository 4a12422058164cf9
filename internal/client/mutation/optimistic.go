package mutation

import (
	"sync"

	"github.com/dmitrijs2005/macrobook/internal/client/query"
)

// Tx is a speculative write to one cache entry that is either committed or
// rolled back to the exact prior state.
type Tx struct {
	cache *query.Cache
	key   query.Key
	prev  any
	had   bool

	once sync.Once
}

// Begin cancels in-flight fetches for key, snapshots its current value and
// writes apply(old). apply receives ok=false when nothing is cached.
func Begin[T any](cache *query.Cache, key query.Key, apply func(old T, ok bool) T) *Tx {
	cache.CancelQueries(key)
	prev, had := cache.GetQueryData(key)

	old, ok := prev.(T)
	cache.SetQueryData(key, apply(old, had && ok))

	return &Tx{cache: cache, key: key, prev: prev, had: had}
}

// Rollback restores the snapshot, removing the entry when none existed.
// Calls after the first Rollback or Commit do nothing.
func (tx *Tx) Rollback() {
	tx.once.Do(func() {
		if tx.had {
			tx.cache.SetQueryData(tx.key, tx.prev)
			return
		}
		tx.cache.Remove(tx.key)
	})
}

// Commit keeps the speculative value.
func (tx *Tx) Commit() {
	tx.once.Do(func() {})
}

func (tx *Tx) Key() query.Key { return tx.key }
