package usecase_test

import (
	"context"
	"testing"

	"app/internal/cart"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func productFixture() model.Product {
	return model.Product{
		ID:            "heart-tshirt",
		Name:          "Heart T-Shirt",
		Price:         1500,
		SizeAvailable: []string{"S", "M", "L"},
		Colors:        []string{"white", "pink"},
		ImageURL:      "/images/heart-tshirt.jpg",
		IsActive:      true,
	}
}

func newCartUsecase(prods *ProductRepoMock) (*usecase.CartUsecase, cart.Storage) {
	storage := cart.NewMemoryStorage()
	return usecase.NewCartUsecase(storage, prods), storage
}

func TestCartUsecase_AddToCart_CopiesCatalogPriceAndName(t *testing.T) {
	ctx := context.Background()
	prods := new(ProductRepoMock)
	prods.On("FindByID", mock.Anything, "heart-tshirt").Return(productFixture(), nil)

	uc, _ := newCartUsecase(prods)

	out, err := uc.AddToCart(ctx, "user-1", usecase.AddCartInput{
		ProductID: "heart-tshirt",
		Size:      "M",
		Color:     "white",
		Quantity:  2,
	})

	assert.NoError(t, err)
	if assert.Equal(t, 1, len(out.Items)) {
		// 単価・名前・画像はクライアントではなくカタログの値
		assert.Equal(t, int64(1500), out.Items[0].UnitPrice)
		assert.Equal(t, "Heart T-Shirt", out.Items[0].Name)
		assert.Equal(t, "/images/heart-tshirt.jpg", out.Items[0].ImageURL)
	}
	assert.Equal(t, int64(3000), out.Subtotal)
}

func TestCartUsecase_AddToCart_InvalidSize(t *testing.T) {
	prods := new(ProductRepoMock)
	prods.On("FindByID", mock.Anything, "heart-tshirt").Return(productFixture(), nil)

	uc, _ := newCartUsecase(prods)

	_, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{
		ProductID: "heart-tshirt",
		Size:      "XXL",
		Color:     "white",
		Quantity:  1,
	})
	assertErrContains(t, err, "invalid size")
}

func TestCartUsecase_AddToCart_InvalidColor(t *testing.T) {
	prods := new(ProductRepoMock)
	prods.On("FindByID", mock.Anything, "heart-tshirt").Return(productFixture(), nil)

	uc, _ := newCartUsecase(prods)

	_, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{
		ProductID: "heart-tshirt",
		Size:      "M",
		Color:     "green",
		Quantity:  1,
	})
	assertErrContains(t, err, "invalid color")
}

func TestCartUsecase_AddToCart_UnknownOrInactiveProduct(t *testing.T) {
	prods := new(ProductRepoMock)
	prods.On("FindByID", mock.Anything, "ghost").Return(model.Product{}, repo.ErrNotFound)

	inactive := productFixture()
	inactive.ID = "retired"
	inactive.IsActive = false
	prods.On("FindByID", mock.Anything, "retired").Return(inactive, nil)

	uc, _ := newCartUsecase(prods)

	_, err := uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{
		ProductID: "ghost", Size: "M", Color: "white", Quantity: 1,
	})
	assertErrContains(t, err, "invalid product")

	_, err = uc.AddToCart(context.Background(), "user-1", usecase.AddCartInput{
		ProductID: "retired", Size: "M", Color: "white", Quantity: 1,
	})
	assertErrContains(t, err, "invalid product")
}

func TestCartUsecase_UpdateQuantity_UnknownKeyIs404(t *testing.T) {
	uc, _ := newCartUsecase(new(ProductRepoMock))

	_, err := uc.UpdateQuantity(context.Background(), "user-1", usecase.CartItemKeyInput{
		ProductID: "heart-tshirt", Size: "M", Color: "white",
	}, 3)
	assertErrContains(t, err, "not found")
}

func TestCartUsecase_FullFlow(t *testing.T) {
	ctx := context.Background()
	prods := new(ProductRepoMock)
	prods.On("FindByID", mock.Anything, "heart-tshirt").Return(productFixture(), nil)

	uc, _ := newCartUsecase(prods)
	key := usecase.CartItemKeyInput{ProductID: "heart-tshirt", Size: "M", Color: "white"}

	_, err := uc.AddToCart(ctx, "user-1", usecase.AddCartInput{ProductID: "heart-tshirt", Size: "M", Color: "white", Quantity: 1})
	assert.NoError(t, err)

	out, err := uc.UpdateQuantity(ctx, "user-1", key, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(6000), out.Subtotal)

	out, err = uc.RemoveItem(ctx, "user-1", key)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))

	assert.NoError(t, uc.ClearCart(ctx, "user-1"))

	got, err := uc.GetCart(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), got.Subtotal)
}
