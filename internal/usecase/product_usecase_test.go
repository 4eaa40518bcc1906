package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProductUsecase_List_InvalidPage(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock))

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")
}

func TestProductUsecase_List_InvalidLimit(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProductRepoMock))

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 101})
	assertErrContains(t, err, "invalid limit")
}

func TestProductUsecase_List_Success(t *testing.T) {
	prods := new(ProductRepoMock)
	q := repo.ProductListQuery{Page: 1, Limit: 20, Q: "shirt"}
	prods.On("ListActive", mock.Anything, q).Return([]model.Product{productFixture()}, int64(1), nil)

	uc := usecase.NewProductUsecase(prods)

	out, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 20, Q: "shirt"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Equal(t, 1, len(out.Items))
}

func TestProductUsecase_Get_InactiveIsNotFound(t *testing.T) {
	prods := new(ProductRepoMock)
	inactive := productFixture()
	inactive.IsActive = false
	prods.On("FindByID", mock.Anything, "heart-tshirt").Return(inactive, nil)

	uc := usecase.NewProductUsecase(prods)

	_, err := uc.GetPublicProduct(context.Background(), "heart-tshirt")
	assertErrContains(t, err, "not found")
}

func TestProductUsecase_Get_Unknown(t *testing.T) {
	prods := new(ProductRepoMock)
	prods.On("FindByID", mock.Anything, "ghost").Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewProductUsecase(prods)

	_, err := uc.GetPublicProduct(context.Background(), "ghost")
	assertErrContains(t, err, "not found")
}
