package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/usecase"
	"app/internal/wishlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type WishlistRepoMock struct{ mock.Mock }

func (m *WishlistRepoMock) ListProductIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *WishlistRepoMock) Add(ctx context.Context, userID string, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *WishlistRepoMock) Remove(ctx context.Context, userID string, productID string) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func newWishlistUsecase(wl *WishlistRepoMock, prods *ProductRepoMock) *usecase.WishlistUsecase {
	cartUC, _ := newCartUsecase(prods)
	return usecase.NewWishlistUsecase(wishlist.NewManager(wl), cartUC)
}

func TestWishlistUsecase_ListAndToggle(t *testing.T) {
	ctx := context.Background()
	wl := new(WishlistRepoMock)
	wl.On("ListProductIDs", mock.Anything, "user-1").Return([]string{}, nil)
	wl.On("Add", mock.Anything, "user-1", "heart-tshirt").Return(nil)

	uc := newWishlistUsecase(wl, new(ProductRepoMock))

	out, err := uc.Toggle(ctx, "user-1", "heart-tshirt")
	assert.NoError(t, err)
	assert.True(t, out.Added)

	list, err := uc.List(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"heart-tshirt"}, list.ProductIDs)
}

func TestWishlistUsecase_Toggle_DBErrorLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	wl := new(WishlistRepoMock)
	wl.On("ListProductIDs", mock.Anything, "user-1").Return([]string{}, nil)
	wl.On("Add", mock.Anything, "user-1", "heart-tshirt").Return(errors.New("db down"))

	uc := newWishlistUsecase(wl, new(ProductRepoMock))

	_, err := uc.Toggle(ctx, "user-1", "heart-tshirt")
	assertErrContains(t, err, "db error")

	list, err := uc.List(ctx, "user-1")
	assert.NoError(t, err)
	assert.Empty(t, list.ProductIDs)
}

func TestWishlistUsecase_MoveToCart(t *testing.T) {
	ctx := context.Background()
	wl := new(WishlistRepoMock)
	wl.On("ListProductIDs", mock.Anything, "user-1").Return([]string{"heart-tshirt"}, nil)
	wl.On("Remove", mock.Anything, "user-1", "heart-tshirt").Return(nil)

	prods := new(ProductRepoMock)
	prods.On("FindByID", mock.Anything, "heart-tshirt").Return(productFixture(), nil)

	uc := newWishlistUsecase(wl, prods)

	out, err := uc.MoveToCart(ctx, "user-1", "heart-tshirt", "M", "white")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(1), out.Items[0].Quantity)

	// カートに入ったのでウィッシュリストからは消える
	list, err := uc.List(ctx, "user-1")
	assert.NoError(t, err)
	assert.Empty(t, list.ProductIDs)
}

func TestWishlistUsecase_MoveToCart_NotInWishlist(t *testing.T) {
	wl := new(WishlistRepoMock)
	wl.On("ListProductIDs", mock.Anything, "user-1").Return([]string{}, nil)

	uc := newWishlistUsecase(wl, new(ProductRepoMock))

	_, err := uc.MoveToCart(context.Background(), "user-1", "heart-tshirt", "M", "white")
	assertErrContains(t, err, "not found")
}

func TestWishlistUsecase_MoveToCart_CartAddFailureKeepsWishlist(t *testing.T) {
	ctx := context.Background()
	wl := new(WishlistRepoMock)
	wl.On("ListProductIDs", mock.Anything, "user-1").Return([]string{"heart-tshirt"}, nil)

	prods := new(ProductRepoMock)
	inactive := productFixture()
	inactive.IsActive = false
	prods.On("FindByID", mock.Anything, "heart-tshirt").Return(inactive, nil)

	uc := newWishlistUsecase(wl, prods)

	_, err := uc.MoveToCart(ctx, "user-1", "heart-tshirt", "M", "white")
	assert.Error(t, err)

	// カートに入らなかったらウィッシュリストは減らさない
	list, err := uc.List(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"heart-tshirt"}, list.ProductIDs)

	wl.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}
