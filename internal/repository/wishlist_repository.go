package repository

import "context"

// ウィッシュリストの永続化。(user_id, product_id) で一意。
type WishlistRepository interface {
	ListProductIDs(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID string, productID string) error
	Remove(ctx context.Context, userID string, productID string) error
}
