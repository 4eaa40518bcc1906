package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/cart"
	"app/internal/checkout"
	"app/internal/domain/model"

	validatorv10 "github.com/go-playground/validator/v10"
)

// CheckoutUsecase は配送先フォームの受付。検証に通った入力を
// 決済ステップまでステージングに置く。代引きはその場で注文を書く。
type CheckoutUsecase struct {
	storage  cart.Storage
	staging  checkout.StagingStore
	orders   *OrderUsecase
	validate *validatorv10.Validate
}

func NewCheckoutUsecase(storage cart.Storage, staging checkout.StagingStore, orders *OrderUsecase) *CheckoutUsecase {
	return &CheckoutUsecase{
		storage:  storage,
		staging:  staging,
		orders:   orders,
		validate: validatorv10.New(),
	}
}

type CheckoutInput struct {
	Shipping      model.ShippingDetails
	PaymentMethod string
}

type CheckoutOutput struct {
	// ゲートウェイ決済なら "payment" に進む。代引きは注文確定済み。
	Next  string       `json:"next"`
	Order *OrderOutput `json:"order,omitempty"`
}

// Submit は入口ガード（認証済み・カートが空でない）→検証→ステージングの順。
// 空の必須フィールドは全部まとめて、構造体の宣言順で返す。
func (u *CheckoutUsecase) Submit(ctx context.Context, userID string, in CheckoutInput) (CheckoutOutput, error) {
	if userID == "" {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	s := cart.NewStore(u.storage, userID)
	if err := s.Restore(ctx); err != nil {
		return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if s.Len() == 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	method := strings.TrimSpace(in.PaymentMethod)
	if method != string(model.PaymentMethodCOD) && method != string(model.PaymentMethodGateway) {
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	if err := u.validate.Struct(in.Shipping); err != nil {
		var ve validatorv10.ValidationErrors
		if errors.As(err, &ve) {
			return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, validationMessage(ve))
		}
		return CheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	u.staging.Put(userID, checkout.StagedShipping{ShippingDetails: in.Shipping, UserID: userID})

	// 代引きはゲートウェイを通らないのでここで確定する
	if method == string(model.PaymentMethodCOD) {
		out, err := u.orders.PlaceOrder(ctx, userID, s.Items(), in.Shipping, s.Subtotal(), PaymentMeta{
			Method: model.PaymentMethodCOD,
		})
		if err != nil {
			return CheckoutOutput{}, err
		}

		if err := s.Clear(ctx); err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		u.staging.Discard(userID)

		return CheckoutOutput{Next: "confirmation", Order: &out}, nil
	}

	return CheckoutOutput{Next: "payment"}, nil
}

// validationMessage はフィールド名をjsonの名前に寄せて列挙する。
// validatorは構造体の宣言順にエラーを返すので出力は決定的。
func validationMessage(ve validatorv10.ValidationErrors) string {
	names := map[string]string{
		"Name":       "name",
		"Email":      "email",
		"Address":    "address",
		"City":       "city",
		"PostalCode": "postal_code",
		"Phone":      "phone",
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		name, ok := names[fe.Field()]
		if !ok {
			name = fe.Field()
		}
		fields = append(fields, name)
	}
	return "missing or invalid fields: " + strings.Join(fields, ", ")
}
