package usecase

import (
	"context"
	"net/http"

	"app/internal/wishlist"
)

// WishlistUsecase はユーザーごとの wishlist.Store を前に出すだけの薄い層。
type WishlistUsecase struct {
	manager *wishlist.Manager
	cart    *CartUsecase
}

func NewWishlistUsecase(manager *wishlist.Manager, cart *CartUsecase) *WishlistUsecase {
	return &WishlistUsecase{manager: manager, cart: cart}
}

type WishlistResponse struct {
	ProductIDs []string `json:"product_ids"`
}

type ToggleResponse struct {
	ProductID string `json:"product_id"`
	Added     bool   `json:"added"`
}

func (u *WishlistUsecase) List(ctx context.Context, userID string) (WishlistResponse, error) {
	if userID == "" {
		return WishlistResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s := u.manager.ForUser(ctx, userID)
	return WishlistResponse{ProductIDs: s.ProductIDs()}, nil
}

// Toggle はあれば外す・無ければ入れる。書き込みが失敗したらキャッシュは元のまま。
func (u *WishlistUsecase) Toggle(ctx context.Context, userID string, productID string) (ToggleResponse, error) {
	if userID == "" {
		return ToggleResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID == "" {
		return ToggleResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	s := u.manager.ForUser(ctx, userID)
	added, err := s.Toggle(ctx, productID)
	if err != nil {
		return ToggleResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ToggleResponse{ProductID: productID, Added: added}, nil
}

// MoveToCart はウィッシュリストからカートへ（カート追加→成功したら外す）。
func (u *WishlistUsecase) MoveToCart(ctx context.Context, userID string, productID string, size string, color string) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s := u.manager.ForUser(ctx, userID)
	if !s.Has(productID) {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	out, err := u.cart.AddToCart(ctx, userID, AddCartInput{
		ProductID: productID,
		Size:      size,
		Color:     color,
		Quantity:  1,
	})
	if err != nil {
		return CartResponse{}, err
	}

	// カートに入った後なら、外すのに失敗しても致命ではない
	if _, err := s.Toggle(ctx, productID); err != nil {
		return out, nil
	}
	return out, nil
}
