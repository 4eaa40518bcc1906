package cart_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/cart"
	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

// Saveが必ず失敗するStorage
type failingStorage struct{}

func (f *failingStorage) Load(ctx context.Context, ownerID string) ([]model.LineItem, error) {
	return []model.LineItem{}, nil
}

func (f *failingStorage) Save(ctx context.Context, ownerID string, items []model.LineItem) error {
	return errors.New("db down")
}

func tshirt(qty int64) model.LineItem {
	return model.LineItem{
		ProductID: "heart-tshirt",
		Name:      "Heart T-Shirt",
		UnitPrice: 1500,
		Quantity:  qty,
		Size:      "M",
		Color:     "white",
	}
}

func TestStore_Add_MergesSameKey(t *testing.T) {
	ctx := context.Background()
	s := cart.NewStore(cart.NewMemoryStorage(), "user-1")

	assert.NoError(t, s.Add(ctx, tshirt(1)))
	assert.NoError(t, s.Add(ctx, tshirt(2)))

	// 同一キーは1行に統合される
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, int64(3), s.Quantity(model.LineItemKey{ProductID: "heart-tshirt", Size: "M", Color: "white"}))
}

func TestStore_Add_DifferentVariantIsSeparateLine(t *testing.T) {
	ctx := context.Background()
	s := cart.NewStore(cart.NewMemoryStorage(), "user-1")

	assert.NoError(t, s.Add(ctx, tshirt(1)))

	other := tshirt(1)
	other.Size = "L"
	assert.NoError(t, s.Add(ctx, other))

	// サイズ違いは別明細
	assert.Equal(t, 2, s.Len())
}

func TestStore_Add_ClampsQuantityToOne(t *testing.T) {
	ctx := context.Background()
	s := cart.NewStore(cart.NewMemoryStorage(), "user-1")

	assert.NoError(t, s.Add(ctx, tshirt(0)))
	assert.Equal(t, int64(1), s.Quantity(model.LineItemKey{ProductID: "heart-tshirt", Size: "M", Color: "white"}))
}

func TestStore_UpdateQuantity_ClampsToOne(t *testing.T) {
	ctx := context.Background()
	s := cart.NewStore(cart.NewMemoryStorage(), "user-1")
	key := model.LineItemKey{ProductID: "heart-tshirt", Size: "M", Color: "white"}

	assert.NoError(t, s.Add(ctx, tshirt(3)))
	assert.NoError(t, s.UpdateQuantity(ctx, key, -5))

	assert.Equal(t, int64(1), s.Quantity(key))
}

func TestStore_Remove_UnknownKeyIsNoOp(t *testing.T) {
	ctx := context.Background()
	s := cart.NewStore(cart.NewMemoryStorage(), "user-1")

	assert.NoError(t, s.Add(ctx, tshirt(1)))
	assert.NoError(t, s.Remove(ctx, model.LineItemKey{ProductID: "nope", Size: "M", Color: "white"}))

	assert.Equal(t, 1, s.Len())
}

func TestStore_Subtotal_RecomputedFromLines(t *testing.T) {
	ctx := context.Background()
	s := cart.NewStore(cart.NewMemoryStorage(), "user-1")

	assert.NoError(t, s.Add(ctx, tshirt(2))) // 1500*2

	hoodie := model.LineItem{ProductID: "star-hoodie", UnitPrice: 3000, Quantity: 1, Size: "L", Color: "black"}
	assert.NoError(t, s.Add(ctx, hoodie))

	assert.Equal(t, int64(6000), s.Subtotal())

	key := model.LineItemKey{ProductID: "heart-tshirt", Size: "M", Color: "white"}
	assert.NoError(t, s.UpdateQuantity(ctx, key, 1))
	assert.Equal(t, int64(4500), s.Subtotal())
}

func TestStore_Clear_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := cart.NewStore(cart.NewMemoryStorage(), "user-1")

	assert.NoError(t, s.Add(ctx, tshirt(1)))
	assert.NoError(t, s.Clear(ctx))
	assert.NoError(t, s.Clear(ctx))

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, int64(0), s.Subtotal())
}

func TestStore_SaveFailureKeepsMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	s := cart.NewStore(&failingStorage{}, "user-1")

	// 保存に失敗したら明細は増えない
	err := s.Add(ctx, tshirt(1))
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestStore_RestoreReadsBackSavedCart(t *testing.T) {
	ctx := context.Background()
	storage := cart.NewMemoryStorage()

	s1 := cart.NewStore(storage, "user-1")
	assert.NoError(t, s1.Add(ctx, tshirt(2)))

	// 同じownerで読み直す
	s2 := cart.NewStore(storage, "user-1")
	assert.NoError(t, s2.Restore(ctx))
	assert.Equal(t, 1, s2.Len())
	assert.Equal(t, int64(3000), s2.Subtotal())

	// 別ownerには見えない
	s3 := cart.NewStore(storage, "user-2")
	assert.NoError(t, s3.Restore(ctx))
	assert.Equal(t, 0, s3.Len())
}
