package usecase

import (
	"context"
	"net/http"

	"app/internal/cart"
	"app/internal/domain/model"
	repo "app/internal/repository"
)

// CartUsecase は /cart の業務ロジック。
// 明細の持ち方（キー単位のマージ、数量クランプ）は cart.Store が担う。
type CartUsecase struct {
	storage     cart.Storage
	productRepo repo.ProductRepository
}

func NewCartUsecase(storage cart.Storage, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{storage: storage, productRepo: productRepo}
}

type CartResponse struct {
	Items    []model.LineItem `json:"items"`
	Subtotal int64            `json:"subtotal"`
}

type AddCartInput struct {
	ProductID string
	Size      string
	Color     string
	Quantity  int64
}

type CartItemKeyInput struct {
	ProductID string
	Size      string
	Color     string
}

// load はリクエストごとにカートを読み直す。
func (u *CartUsecase) load(ctx context.Context, userID string) (*cart.Store, error) {
	s := cart.NewStore(u.storage, userID)
	if err := s.Restore(ctx); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s, err := u.load(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}
	return toCartResponse(s), nil
}

// AddToCart は商品をカタログで引き直してから追加する。
// 単価・商品名はクライアントの値を信用せず、カタログの現在値を写す。
func (u *CartUsecase) AddToCart(ctx context.Context, userID string, in AddCartInput) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if !contains(p.SizeAvailable, in.Size) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid size")
	}
	if !contains(p.Colors, in.Color) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid color")
	}

	s, err := u.load(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	item := model.LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  in.Quantity,
		ImageURL:  p.ImageURL,
		Size:      in.Size,
		Color:     in.Color,
	}
	if err := s.Add(ctx, item); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toCartResponse(s), nil
}

func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID string, key CartItemKeyInput, qty int64) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s, err := u.load(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	k := model.LineItemKey{ProductID: key.ProductID, Size: key.Size, Color: key.Color}
	if s.Quantity(k) == 0 {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err := s.UpdateQuantity(ctx, k, qty); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toCartResponse(s), nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID string, key CartItemKeyInput) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s, err := u.load(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	k := model.LineItemKey{ProductID: key.ProductID, Size: key.Size, Color: key.Color}
	if err := s.Remove(ctx, k); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toCartResponse(s), nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s, err := u.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Clear(ctx); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toCartResponse(s *cart.Store) CartResponse {
	return CartResponse{Items: s.Items(), Subtotal: s.Subtotal()}
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
