package wishlist

import (
	"context"
	"sort"
	"sync"

	"app/internal/repository"

	"github.com/labstack/gommon/log"
)

// Store はユーザー1人分のウィッシュリストキャッシュ。真実はDB側で、
// キャッシュは書き込みが成功したときだけ動かす（楽観更新はしない）。
type Store struct {
	mu     sync.Mutex
	repo   repository.WishlistRepository
	userID string
	items  map[string]struct{}
}

func NewStore(repo repository.WishlistRepository, userID string) *Store {
	return &Store{repo: repo, userID: userID, items: map[string]struct{}{}}
}

// Initialize はDBの内容でキャッシュを置き換える。
// 読み込みに失敗してもエラーにせず、空のまま続行する（fail soft）。
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.repo.ListProductIDs(ctx, s.userID)
	if err != nil {
		log.Warnf("wishlist: initialize failed for user %s: %v", s.userID, err)
		s.items = map[string]struct{}{}
		return
	}

	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.items = next
}

// Toggle はあれば削除、無ければ追加。書き込みが失敗したらキャッシュは触らない。
// 同じ商品への同時Toggleはmutexで直列化する。
func (s *Store) Toggle(ctx context.Context, productID string) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[productID]; ok {
		if err := s.repo.Remove(ctx, s.userID, productID); err != nil {
			return false, err
		}
		delete(s.items, productID)
		return false, nil
	}

	if err := s.repo.Add(ctx, s.userID, productID); err != nil {
		return false, err
	}
	s.items[productID] = struct{}{}
	return true, nil
}

func (s *Store) Has(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[productID]
	return ok
}

// ProductIDs はキャッシュの中身（表示用に安定した順序で返す）。
func (s *Store) ProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.items))
	for id := range s.items {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
