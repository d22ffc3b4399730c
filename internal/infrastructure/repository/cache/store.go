package cache

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	basecache "github.com/riskibarqy/youth-cup/internal/platform/cache"
)

const snapshotKeyPrefix = "snapshot:"

// Store caches read snapshots in front of another tournament.Store. Every successful
// Update bumps a generation, so a load that raced with a write lands under a key that is
// never read again.
type Store struct {
	next       tournament.Store
	cache      *basecache.Store[tournament.Snapshot]
	generation atomic.Uint64
}

func NewStore(next tournament.Store, cache *basecache.Store[tournament.Snapshot]) *Store {
	return &Store{next: next, cache: cache}
}

func (s *Store) Snapshot(ctx context.Context) (tournament.Snapshot, error) {
	key := snapshotKeyPrefix + strconv.FormatUint(s.generation.Load(), 10)
	return s.cache.GetOrLoad(ctx, key, s.next.Snapshot)
}

// Update always goes to the underlying store; its snapshot must not come from cache.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error) error {
	if err := s.next.Update(ctx, fn); err != nil {
		return err
	}

	s.generation.Add(1)
	s.cache.DeletePrefix(ctx, snapshotKeyPrefix)
	return nil
}
